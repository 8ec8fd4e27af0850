package api

import (
	"net/http"

	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves one kind of reference record.
type CatalogHandler[T repository.Record] struct {
	service catalog.CatalogUseCase[T]
}

func NewCatalogHandler[T repository.Record](service catalog.CatalogUseCase[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{service: service}
}

func (h *CatalogHandler[T]) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

func (h *CatalogHandler[T]) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *CatalogHandler[T]) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler[T]) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler[T]) create(c *gin.Context) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.service.Create(c.Request.Context(), item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandler[T]) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler[T]) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
