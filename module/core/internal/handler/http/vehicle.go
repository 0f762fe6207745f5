package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/service"
)

type trackingService interface {
	RecordLocation(ctx context.Context, vl *domain.VehicleLocation) (*domain.VehicleLocation, error)
	RecordBatch(ctx context.Context, samples []domain.VehicleLocation) []service.BatchResult
	GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error)
	GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

type etaService interface {
	CalculateETA(ctx context.Context, vehicleID string) (*service.ETAResult, error)
	PredictETA(ctx context.Context, vehicleID string, stopID int64) (*service.ETAPrediction, error)
	AnalyzeETA(ctx context.Context, vehicleID string) (*service.DelayAnalysis, error)
}

type locationRequest struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	SpeedKmh   *float64 `json:"speed_kmh"`
	HeadingDeg *float64 `json:"heading_deg"`
	AccuracyM  *float64 `json:"accuracy_m"`
	AltitudeM  *float64 `json:"altitude_m"`
	TripID     string   `json:"trip_id"`
	Timestamp  int64    `json:"timestamp"`
}

type batchLocationRequest struct {
	VehicleID string `json:"vehicle_id"`
	locationRequest
}

type VehicleHandler struct {
	trackingSvc trackingService
	etaSvc      etaService
}

func NewVehicleHandler(trackingSvc trackingService, etaSvc etaService) *VehicleHandler {
	return &VehicleHandler{trackingSvc: trackingSvc, etaSvc: etaSvc}
}

func (h *VehicleHandler) Register(r *gin.RouterGroup) {
	r.GET("/vehicles", h.GetAllVehicles)
	r.GET("/vehicles/:vehicle_id/location", h.GetLatestLocation)
	r.POST("/vehicles/:vehicle_id/location", h.RecordLocation)
	r.GET("/vehicles/:vehicle_id/history", h.GetHistory)
	r.GET("/vehicles/:vehicle_id/eta", h.GetETA)
	r.GET("/vehicles/:vehicle_id/eta/analysis", h.GetETAAnalysis)
	r.GET("/vehicles/:vehicle_id/stops/:stop_id/prediction", h.GetETAPrediction)
	r.POST("/locations/batch", h.RecordBatch)
}

func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
	vehicles, err := h.trackingSvc.GetAllVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetLatestLocation(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	vl, err := h.trackingSvc.GetLatest(c.Request.Context(), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vl)
}

func (h *VehicleHandler) RecordLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vl := toVehicleLocation(c.Param("vehicle_id"), &req)
	stored, err := h.trackingSvc.RecordLocation(c.Request.Context(), vl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (h *VehicleHandler) RecordBatch(c *gin.Context) {
	var reqs []batchLocationRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	samples := make([]domain.VehicleLocation, len(reqs))
	for i, req := range reqs {
		samples[i] = *toVehicleLocation(req.VehicleID, &req.locationRequest)
	}

	results := h.trackingSvc.RecordBatch(c.Request.Context(), samples)

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
		"results":   results,
	})
}

func (h *VehicleHandler) GetHistory(c *gin.Context) {
	query := &domain.HistoryQuery{
		VehicleID: c.Param("vehicle_id"),
		TripID:    c.Query("trip_id"),
	}

	if v := c.Query("start"); v != "" {
		start, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
			return
		}
		query.Start = time.Unix(start, 0)
	}
	if v := c.Query("end"); v != "" {
		end, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
			return
		}
		query.End = time.Unix(end, 0)
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	page, err := h.trackingSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *VehicleHandler) GetETA(c *gin.Context) {
	eta, err := h.etaSvc.CalculateETA(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eta)
}

func (h *VehicleHandler) GetETAAnalysis(c *gin.Context) {
	analysis, err := h.etaSvc.AnalyzeETA(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *VehicleHandler) GetETAPrediction(c *gin.Context) {
	stopID, err := strconv.ParseInt(c.Param("stop_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stop_id parameter"})
		return
	}

	prediction, err := h.etaSvc.PredictETA(c.Request.Context(), c.Param("vehicle_id"), stopID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

func toVehicleLocation(vehicleID string, req *locationRequest) *domain.VehicleLocation {
	vl := &domain.VehicleLocation{
		VehicleID:  vehicleID,
		Location:   domain.Location{Lat: req.Latitude, Lon: req.Longitude},
		SpeedKmh:   req.SpeedKmh,
		HeadingDeg: req.HeadingDeg,
		AccuracyM:  req.AccuracyM,
		AltitudeM:  req.AltitudeM,
		TripID:     req.TripID,
	}
	if req.Timestamp > 0 {
		vl.Location.Timestamp = time.Unix(req.Timestamp, 0)
	}
	return vl
}

// respondError maps the domain error taxonomy onto HTTP statuses: rejected
// input is 400, typed absence is 404, anything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
