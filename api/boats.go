package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/service/boats"
	"github.com/gin-gonic/gin"
)

type BoatHandler struct {
	service boats.BoatUseCase
}

func NewBoatHandler(service boats.BoatUseCase) *BoatHandler {
	return &BoatHandler{service: service}
}

func (h *BoatHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *BoatHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *BoatHandler) list(c *gin.Context) {
	var (
		filter domain.BoatFilter
		err    error
	)
	if filter.LocationID, err = queryInt64(c, "location_id"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if filter.TypeID, err = queryInt64(c, "type_id"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if raw := c.Query("people"); raw != "" {
		if filter.People, err = strconv.Atoi(raw); err != nil || filter.People < 0 {
			badRequest(c, "invalid people")
			return
		}
	}
	if filter.AvailableOn, err = queryTime(c, "date"); err != nil {
		badRequest(c, err.Error())
		return
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BoatHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	boat, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (h *BoatHandler) create(c *gin.Context) {
	var req boats.BoatInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	boat, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boat)
}

func (h *BoatHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req boats.BoatInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	boat, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, boat)
}

func (h *BoatHandler) delete(c *gin.Context) {
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
