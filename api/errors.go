package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// writeError maps service errors onto HTTP responses. Anything unclassified is
// logged and reported as a generic failure.
func writeError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		cerr *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.As(err, &cerr):
		conflicts := cerr.Conflicts
		if conflicts == nil {
			conflicts = []domain.Conflict{}
		}
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Error(), "conflicts": conflicts})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflicts": []domain.Conflict{}})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
