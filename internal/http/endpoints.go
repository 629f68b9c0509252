package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/report"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
)

// maxRangeDays caps usage queries; anything longer belongs in an offline job.
const maxRangeDays = 92

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type runCaptureRequest struct {
	Date string `json:"date"`
}

// RunCapture triggers the daily capture, optionally for a historical date.
// It shares the scheduled code path exactly; there is no separate backfill.
func (h *Handler) RunCapture(w http.ResponseWriter, r *http.Request) {
	targetDate := h.clock.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		var req runCaptureRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Date != "" {
			parsed, err := time.ParseInLocation("2006-01-02", req.Date, h.loc)
			if err != nil {
				h.writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
				return
			}
			targetDate = parsed
		}
	}

	result, err := h.capture.RunDailyCapture(r.Context(), targetDate)
	if err != nil {
		h.logger.Error("Capture run failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "capture run failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SitesOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview()
	if err != nil {
		h.logger.Error("Failed to build sites overview", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}

	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) SiteClosing(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["siteId"]

	view, err := h.dashboard.LatestByClosing(siteID)
	if err != nil {
		h.logger.Error("Failed to read closing view",
			zap.String("site_id", siteID),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to read closing view")
		return
	}
	if view == nil {
		h.writeError(w, http.StatusNotFound, "no snapshot for site")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeviceRealtime(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	view, err := h.dashboard.LatestByRealtime(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Error("Failed to read realtime view",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to read realtime view")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeviceUsage(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	startDate, endDate, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	reports, err := h.dashboard.ComputeRange(deviceID, startDate, endDate)
	if err != nil {
		h.logger.Error("Failed to compute usage range",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to compute usage")
		return
	}

	h.writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) DeviceUsageExport(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	startDate, endDate, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	reports, err := h.dashboard.ComputeRange(deviceID, startDate, endDate)
	if err != nil {
		h.logger.Error("Failed to compute usage range for export",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to compute usage")
		return
	}

	data, err := report.BuildUsageWorkbook(reports)
	if err != nil {
		h.logger.Error("Failed to build usage workbook", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := fmt.Sprintf("usage_%s_%s_%s.xlsx",
		deviceID, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write export response", zap.Error(err))
	}
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		h.writeError(w, http.StatusBadRequest, "start and end query parameters are required")
		return time.Time{}, time.Time{}, false
	}

	startDate, err := time.ParseInLocation("2006-01-02", startStr, h.loc)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	endDate, err := time.ParseInLocation("2006-01-02", endStr, h.loc)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	if endDate.Before(startDate) {
		h.writeError(w, http.StatusBadRequest, "end date before start date")
		return time.Time{}, time.Time{}, false
	}
	if endDate.Sub(startDate) > maxRangeDays*24*time.Hour {
		h.writeError(w, http.StatusBadRequest, "date range too large")
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}
