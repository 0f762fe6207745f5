package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/service"
)

type fleetService interface {
	CurrentLocations(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error)
	DelayAlerts(ctx context.Context, vehicleIDs []string) (*service.DelayReport, error)
	SpeedStats(ctx context.Context, filter *domain.ViolationFilter) (*service.SpeedStatsReport, error)
}

type FleetHandler struct {
	fleetSvc fleetService
}

func NewFleetHandler(fleetSvc fleetService) *FleetHandler {
	return &FleetHandler{fleetSvc: fleetSvc}
}

func (h *FleetHandler) Register(r *gin.RouterGroup) {
	r.GET("/fleet/locations", h.GetCurrentLocations)
	r.GET("/fleet/delay-alerts", h.GetDelayAlerts)
	r.GET("/fleet/speed-stats", h.GetSpeedStats)
}

func (h *FleetHandler) GetCurrentLocations(c *gin.Context) {
	ids := splitIDs(c.Query("vehicle_ids"))
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_ids parameter is required"})
		return
	}

	locations, err := h.fleetSvc.CurrentLocations(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch locations"})
		return
	}

	// Vehicles without samples are simply absent; callers reconcile
	// cardinality themselves.
	c.JSON(http.StatusOK, locations)
}

func (h *FleetHandler) GetDelayAlerts(c *gin.Context) {
	report, err := h.fleetSvc.DelayAlerts(c.Request.Context(), splitIDs(c.Query("vehicle_ids")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan for delays"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *FleetHandler) GetSpeedStats(c *gin.Context) {
	filter := &domain.ViolationFilter{VehicleIDs: splitIDs(c.Query("vehicle_ids"))}

	if v := c.Query("start"); v != "" {
		start, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
			return
		}
		filter.Start = time.Unix(start, 0)
	}
	if v := c.Query("end"); v != "" {
		end, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
			return
		}
		filter.End = time.Unix(end, 0)
	}

	stats, err := h.fleetSvc.SpeedStats(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate violations"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
