package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the endpoint table.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/capture/run", h.requireKey(h.RunCapture)).Methods(http.MethodPost)
	api.HandleFunc("/sites/overview", h.SitesOverview).Methods(http.MethodGet)
	api.HandleFunc("/sites/{siteId}/closing", h.SiteClosing).Methods(http.MethodGet)
	api.HandleFunc("/devices/{deviceId}/realtime", h.requireKey(h.DeviceRealtime)).Methods(http.MethodGet)
	api.HandleFunc("/devices/{deviceId}/usage", h.DeviceUsage).Methods(http.MethodGet)
	api.HandleFunc("/devices/{deviceId}/usage/export", h.DeviceUsageExport).Methods(http.MethodGet)

	return r
}
