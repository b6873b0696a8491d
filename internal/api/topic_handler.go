package api

import (
	"net/http"

	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/service"
)

// TopicHandler serves the topic catalog.
type TopicHandler struct {
	topics service.TopicService
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(topics service.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// ListTopics handles GET /api/topics. The optional q parameter filters by
// case-insensitive substring.
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.ListTopics(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list topics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, topicsToResponse(topics))
}

// GetTopic handles GET /api/topics/{id}.
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id", service.ErrTopicNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	topic, err := h.topics.GetTopic(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get topic")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, topicToResponse(topic))
}

// CreateTopic handles POST /api/topics.
func (h *TopicHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req CreateTopicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	topic, err := h.topics.CreateTopic(r.Context(), req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create topic")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, topicToResponse(topic))
}

// BulkCreateTopics handles POST /api/bulk_topics. Each name succeeds or
// fails on its own; the response lists both groups in input order.
func (h *TopicHandler) BulkCreateTopics(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req BulkTopicsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.topics.BulkCreateTopics(r.Context(), req.Names)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import topics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, BulkTopicsResponse{
		Created: topicsToResponse(result.Created),
		Failed:  result.Failed,
	})
}
