package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/travel"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TravelHandler struct {
	service travel.TravelUseCase
	log     logrus.FieldLogger
}

type travelOptionResponse struct {
	ID             int64  `json:"id"`
	Type           string `json:"type"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	DepartureTime  string `json:"departure_time"`
	Price          string `json:"price"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}

func NewTravelHandler(service travel.TravelUseCase, log logrus.FieldLogger) *TravelHandler {
	return &TravelHandler{service: service, log: log}
}

func (h *TravelHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *TravelHandler) list(c *gin.Context) {
	var filter domain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeError(c, h.log, domain.InvalidRequest("%v", err))
		return
	}

	options, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]travelOptionResponse, 0, len(options))
	for i := range options {
		resp = append(resp, toTravelOptionResponse(&options[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TravelHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, h.log, domain.InvalidRequest("invalid id"))
		return
	}
	option, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toTravelOptionResponse(option))
}

func toTravelOptionResponse(o *domain.TravelOption) travelOptionResponse {
	return travelOptionResponse{
		ID:             o.ID,
		Type:           string(o.Mode),
		Source:         o.Source,
		Destination:    o.Destination,
		DepartureTime:  o.DepartureTime.UTC().Format(time.RFC3339),
		Price:          o.Price.StringFixed(2),
		TotalSeats:     o.TotalSeats,
		AvailableSeats: o.AvailableSeats,
	}
}
