// Package httpapi is the HTTP edge: the capture trigger, the dashboard
// reads, and the usage export. Authentication proper lives in an upstream
// gateway; the API key here only fences the privileged endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// CaptureTrigger is the manual capture surface.
type CaptureTrigger interface {
	RunDailyCapture(ctx context.Context, targetDate time.Time) (models.CaptureReport, error)
}

// DashboardReader is the presentation read surface.
type DashboardReader interface {
	LatestByClosing(siteID string) (*models.SiteClosingView, error)
	Overview() (*models.SitesOverview, error)
	LatestByRealtime(ctx context.Context, deviceID string) (*models.RealtimeDeviceView, error)
	ComputeRange(deviceID string, startDate, endDate time.Time) ([]models.DayUsageReport, error)
}

// Handler holds the endpoint implementations.
type Handler struct {
	capture   CaptureTrigger
	dashboard DashboardReader
	clock     timeutil.Clock
	loc       *time.Location
	apiKey    string
	logger    *zap.Logger
}

func NewHandler(
	capture CaptureTrigger,
	dashboard DashboardReader,
	clock timeutil.Clock,
	loc *time.Location,
	apiKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		capture:   capture,
		dashboard: dashboard,
		clock:     clock,
		loc:       loc,
		apiKey:    apiKey,
		logger:    logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// requireKey fences privileged endpoints. An empty configured key
// disables the check (trusted-network deployments).
func (h *Handler) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("X-API-Key") != h.apiKey {
			h.writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}
