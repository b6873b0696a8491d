package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Radar validation errors
var (
	ErrRadarIDEmpty    = errors.New("radar ID cannot be empty")
	ErrRadarOwnerEmpty = errors.New("radar owner cannot be empty")
)

// Radar is a named collection of blips owned by exactly one user.
// Names are free text and need not be unique.
type Radar struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRadar creates a new Radar owned by ownerID.
func NewRadar(ownerID uuid.UUID, name string) (*Radar, error) {
	now := time.Now().UTC()
	radar := &Radar{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := radar.Validate(); err != nil {
		return nil, err
	}

	return radar, nil
}

// Validate checks if the Radar has valid data.
func (r *Radar) Validate() error {
	verr := &ValidationError{}
	if r.ID == uuid.Nil {
		verr.Add("id", "cannot be empty", ErrRadarIDEmpty)
	}
	if r.OwnerID == uuid.Nil {
		verr.Add("owner_id", "must exist", ErrRadarOwnerEmpty)
	}
	return verr.OrNil()
}

// OwnedBy reports whether userID owns the radar.
func (r *Radar) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && r.OwnerID == userID
}

// Rename changes the radar's name and bumps UpdatedAt.
func (r *Radar) Rename(name string) {
	r.Name = name
	r.UpdatedAt = time.Now().UTC()
}

// NewBlip builds an unsaved Blip already associated with this radar.
// It does not validate: the caller persists it through the blip service and
// inspects the validation failures there.
func (r *Radar) NewBlip(attrs BlipAttrs) *Blip {
	now := time.Now().UTC()
	return &Blip{
		ID:        uuid.New(),
		RadarID:   r.ID,
		TopicID:   attrs.TopicID,
		Quadrant:  attrs.Quadrant,
		Ring:      attrs.Ring,
		Notes:     attrs.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
