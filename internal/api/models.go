package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/service"
)

// Request payloads

// CreateUserRequest is sent by account management when an account is created.
type CreateUserRequest struct {
	ID       string `json:"id"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=254"`
}

// RadarRequest names a radar on create and rename.
type RadarRequest struct {
	Name string `json:"name" validate:"max=255"`
}

// CreateBlipRequest places a topic on a radar.
type CreateBlipRequest struct {
	TopicID  string `json:"topic_id" validate:"required"`
	Quadrant string `json:"quadrant" validate:"required,oneof=tools techniques platforms languages-and-frameworks"`
	Ring     string `json:"ring"     validate:"required,oneof=assess trial adopt hold"`
	Notes    string `json:"notes"    validate:"max=10000"`
}

// NotesUpdateRequest is the only blip edit the API accepts.
type NotesUpdateRequest struct {
	Notes *string `json:"notes" validate:"required,max=10000"`
}

// CreateTopicRequest adds a topic to the catalog.
type CreateTopicRequest struct {
	Name        string `json:"name"        validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// BulkTopicsRequest adds many topics by name.
type BulkTopicsRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=1000"`
}

// Response payloads

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// RadarResponse describes a radar without its blips.
type RadarResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RadarDetailResponse is a radar with its blips grouped by quadrant and ring.
type RadarDetailResponse struct {
	RadarResponse
	Quadrants []QuadrantResponse `json:"quadrants"`
}

// QuadrantResponse lists the blips of one quadrant.
type QuadrantResponse struct {
	Quadrant domain.Quadrant `json:"quadrant"`
	Rings    []RingResponse  `json:"rings"`
}

// QuadrantBlipsResponse lists a radar's blips in one quadrant, in creation order.
type QuadrantBlipsResponse struct {
	RadarID  uuid.UUID      `json:"radar_id"`
	Quadrant string         `json:"quadrant"`
	Blips    []BlipResponse `json:"blips"`
}

// RingResponse lists the blips of one ring.
type RingResponse struct {
	Ring  domain.Ring    `json:"ring"`
	Blips []BlipResponse `json:"blips"`
}

// BlipResponse describes a blip.
type BlipResponse struct {
	ID        uuid.UUID       `json:"id"`
	RadarID   uuid.UUID       `json:"radar_id"`
	TopicID   uuid.UUID       `json:"topic_id"`
	Quadrant  domain.Quadrant `json:"quadrant"`
	Ring      domain.Ring     `json:"ring"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TopicResponse describes a catalog topic.
type TopicResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BulkTopicsResponse reports a bulk import.
type BulkTopicsResponse struct {
	Created []TopicResponse       `json:"created"`
	Failed  []service.BulkFailure `json:"failed"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func radarToResponse(r *domain.Radar) RadarResponse {
	return RadarResponse{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func radarsToResponse(radars []*domain.Radar) []RadarResponse {
	out := make([]RadarResponse, 0, len(radars))
	for _, r := range radars {
		out = append(out, radarToResponse(r))
	}
	return out
}

func blipToResponse(b *domain.Blip) BlipResponse {
	return BlipResponse{
		ID:        b.ID,
		RadarID:   b.RadarID,
		TopicID:   b.TopicID,
		Quadrant:  b.Quadrant,
		Ring:      b.Ring,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func blipsToResponse(blips []*domain.Blip) []BlipResponse {
	out := make([]BlipResponse, 0, len(blips))
	for _, b := range blips {
		out = append(out, blipToResponse(b))
	}
	return out
}

func quadrantsToResponse(view []service.QuadrantBlips) []QuadrantResponse {
	out := make([]QuadrantResponse, 0, len(view))
	for _, q := range view {
		rings := make([]RingResponse, 0, len(q.Rings))
		for _, ring := range q.Rings {
			rings = append(rings, RingResponse{Ring: ring.Ring, Blips: blipsToResponse(ring.Blips)})
		}
		out = append(out, QuadrantResponse{Quadrant: q.Quadrant, Rings: rings})
	}
	return out
}

func topicToResponse(t *domain.Topic) TopicResponse {
	return TopicResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func topicsToResponse(topics []*domain.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicToResponse(t))
	}
	return out
}
