package api

import (
	"log/slog"
	"net/http"

	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/service"
)

// BlipHandler serves the blips nested under a radar.
type BlipHandler struct {
	radars service.RadarService
	blips  service.BlipService
	logger *slog.Logger
}

// NewBlipHandler creates a new BlipHandler.
func NewBlipHandler(radars service.RadarService, blips service.BlipService, logger *slog.Logger) *BlipHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlipHandler{
		radars: radars,
		blips:  blips,
		logger: logger.With(slog.String("component", "blip_handler")),
	}
}

// CreateBlip handles POST /api/radars/{id}/blips on an owned radar.
func (h *BlipHandler) CreateBlip(w http.ResponseWriter, r *http.Request) {
	radar, ok := findOwnedRadar(w, r, h.radars, "id")
	if !ok {
		return
	}

	var req CreateBlipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	topicID, err := parseOptionalUUID("topic_id", req.TopicID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	blip := radar.NewBlip(domain.BlipAttrs{
		TopicID:  topicID,
		Quadrant: domain.Quadrant(req.Quadrant),
		Ring:     domain.Ring(req.Ring),
		Notes:    req.Notes,
	})
	if err := h.blips.Save(r.Context(), blip); err != nil {
		HandleAPIError(w, r, err, "Failed to create blip")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("blip created",
		slog.String("radar_id", radar.ID.String()),
		slog.String("blip_id", blip.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, blipToResponse(blip))
}

// GetBlip handles GET /api/radars/{id}/blips/{blipID}. Any radar's blips
// can be viewed by anyone.
func (h *BlipHandler) GetBlip(w http.ResponseWriter, r *http.Request) {
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

	blip, ok := h.findBlip(w, r, radar)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, blipToResponse(blip))
}

// UpdateBlip handles PUT /api/radars/{id}/blips/{blipID}. Only notes can
// be edited through the API.
func (h *BlipHandler) UpdateBlip(w http.ResponseWriter, r *http.Request) {
	radar, ok := findOwnedRadar(w, r, h.radars, "id")
	if !ok {
		return
	}

	blip, ok := h.findBlip(w, r, radar)
	if !ok {
		return
	}

	var req NotesUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.blips.Update(r.Context(), blip, domain.BlipUpdate{Notes: req.Notes}); err != nil {
		HandleAPIError(w, r, err, "Failed to update blip")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, blipToResponse(blip))
}

// DeleteBlip handles DELETE /api/radars/{id}/blips/{blipID}.
func (h *BlipHandler) DeleteBlip(w http.ResponseWriter, r *http.Request) {
	radar, ok := findOwnedRadar(w, r, h.radars, "id")
	if !ok {
		return
	}

	blip, ok := h.findBlip(w, r, radar)
	if !ok {
		return
	}

	if err := h.blips.Destroy(r.Context(), blip); err != nil {
		HandleAPIError(w, r, err, "Failed to delete blip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BlipHandler) findBlip(w http.ResponseWriter, r *http.Request, radar *domain.Radar) (*domain.Blip, bool) {
	blipID, err := getPathUUID(r, "blipID", service.ErrBlipNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	blip, err := h.radars.FindBlip(r.Context(), radar, blipID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get blip")
		return nil, false
	}
	return blip, true
}
