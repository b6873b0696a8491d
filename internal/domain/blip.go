package domain

import (
	"time"

	"github.com/google/uuid"
)

// Blip classifies one Topic within one Radar.
type Blip struct {
	ID        uuid.UUID `json:"id"`
	RadarID   uuid.UUID `json:"radar_id"`
	TopicID   uuid.UUID `json:"topic_id"`
	Quadrant  Quadrant  `json:"quadrant"`
	Ring      Ring      `json:"ring"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlipAttrs is the input accepted when a blip is created.
type BlipAttrs struct {
	TopicID  uuid.UUID
	Quadrant Quadrant
	Ring     Ring
	Notes    string
}

// BlipUpdate is the input accepted when a blip is updated.
// Nil fields keep their current value.
type BlipUpdate struct {
	Quadrant *Quadrant
	Ring     *Ring
	Notes    *string
}

// IsEmpty reports whether the update changes nothing.
func (u BlipUpdate) IsEmpty() bool {
	return u.Quadrant == nil && u.Ring == nil && u.Notes == nil
}

// Validate checks if the Blip has valid data.
// All failing fields are reported together.
func (b *Blip) Validate() error {
	verr := &ValidationError{}
	if b.ID == uuid.Nil {
		verr.Add("id", "cannot be empty", ErrInvalidID)
	}
	if b.RadarID == uuid.Nil {
		verr.Add("radar_id", "must exist", ErrMissingReference)
	}
	if b.TopicID == uuid.Nil {
		verr.Add("topic_id", "must exist", ErrMissingReference)
	}
	if cerr := ValidateClassification(b.Quadrant, b.Ring); cerr != nil {
		verr.Fields = append(verr.Fields, cerr.(*ValidationError).Fields...)
	}
	return verr.OrNil()
}

// WithUpdate returns a copy of the blip with the update applied.
// The receiver is left untouched so a failed save keeps the prior values.
func (b *Blip) WithUpdate(update BlipUpdate) *Blip {
	next := *b
	if update.Quadrant != nil {
		next.Quadrant = *update.Quadrant
	}
	if update.Ring != nil {
		next.Ring = *update.Ring
	}
	if update.Notes != nil {
		next.Notes = *update.Notes
	}
	next.UpdatedAt = time.Now().UTC()
	return &next
}
