package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/service"
)

// RadarHandler serves radars and their quadrant views.
type RadarHandler struct {
	radars service.RadarService
	logger *slog.Logger
}

// NewRadarHandler creates a new RadarHandler.
func NewRadarHandler(radars service.RadarService, logger *slog.Logger) *RadarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RadarHandler{
		radars: radars,
		logger: logger.With(slog.String("component", "radar_handler")),
	}
}

// CreateRadar handles POST /api/radars for the authenticated user.
func (h *RadarHandler) CreateRadar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req RadarRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	radar, err := h.radars.CreateRadar(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create radar")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("radar created",
		slog.String("radar_id", radar.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, radarToResponse(radar))
}

// GetRadar handles GET /api/radars/{id}. Any radar can be viewed by anyone.
func (h *RadarHandler) GetRadar(w http.ResponseWriter, r *http.Request) {
	radarID, err := getPathUUID(r, "id", service.ErrRadarNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	radar, err := h.radars.FindAny(r.Context(), radarID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get radar")
		return
	}

	view, err := h.radars.QuadrantView(r.Context(), radar)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get radar")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RadarDetailResponse{
		RadarResponse: radarToResponse(radar),
		Quadrants:     quadrantsToResponse(view),
	})
}

// UpdateRadar handles PUT /api/radars/{id}. Only the owner may rename.
func (h *RadarHandler) UpdateRadar(w http.ResponseWriter, r *http.Request) {
	radar, ok := findOwnedRadar(w, r, h.radars, "id")
	if !ok {
		return
	}

	var req RadarRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.radars.RenameRadar(r.Context(), radar, req.Name); err != nil {
		HandleAPIError(w, r, err, "Failed to update radar")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, radarToResponse(radar))
}

// DeleteRadar handles DELETE /api/radars/{id}. The radar's blips go with it.
func (h *RadarHandler) DeleteRadar(w http.ResponseWriter, r *http.Request) {
	radar, ok := findOwnedRadar(w, r, h.radars, "id")
	if !ok {
		return
	}

	if err := h.radars.DeleteRadar(r.Context(), radar); err != nil {
		HandleAPIError(w, r, err, "Failed to delete radar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetQuadrant handles GET /api/radars/{id}/quadrants/{quadrant}.
// An unknown quadrant yields an empty list.
func (h *RadarHandler) GetQuadrant(w http.ResponseWriter, r *http.Request) {
	radarID, err := getPathUUID(r, "id", service.ErrRadarNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	radar, err := h.radars.FindAny(r.Context(), radarID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get radar")
		return
	}

	quadrant := chi.URLParam(r, "quadrant")
	blips, err := h.radars.BlipsByQuadrant(r.Context(), radar, domain.Quadrant(quadrant))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list blips")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuadrantBlipsResponse{
		RadarID:  radar.ID,
		Quadrant: quadrant,
		Blips:    blipsToResponse(blips),
	})
}

// findOwnedRadar loads the radar named by the path parameter within the
// authenticated user's radars. A foreign radar is reported as not found.
func findOwnedRadar(
	w http.ResponseWriter,
	r *http.Request,
	radars service.RadarService,
	param string,
) (*domain.Radar, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return nil, false
	}

	radarID, err := getPathUUID(r, param, service.ErrRadarNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	radar, err := radars.FindOwned(r.Context(), userID, radarID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get radar")
		return nil, false
	}
	return radar, true
}
