package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
)

// UserStore persists user references. The core only inserts and reads them.
type UserStore interface {
	// Create saves a new user reference.
	// Returns ErrUsernameExists or ErrEmailExists on a unique conflict.
	Create(ctx context.Context, user *domain.User) error

	// CreateIfAbsent saves the user unless a user with the same ID exists.
	// Reports whether a row was inserted. Conflicts on username or email
	// with a different ID are still errors.
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// WithTx returns a UserStore bound to the transaction.
	WithTx(tx *sql.Tx) UserStore
}

// TopicStore persists the shared topic catalog.
type TopicStore interface {
	// Create saves a new topic. Uniqueness of the normalized name is enforced
	// by the storage layer; a conflict returns ErrTopicNameExists.
	Create(ctx context.Context, topic *domain.Topic) error

	// GetOrCreate inserts the topic unless one with the same normalized name
	// exists, then returns the stored record. Safe under concurrent callers.
	GetOrCreate(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)

	// GetByID retrieves a topic by ID. Returns ErrTopicNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)

	// List returns topics ordered by name. A non-empty query restricts the
	// result to names containing it, case-insensitively.
	List(ctx context.Context, query string) ([]*domain.Topic, error)

	// WithTx returns a TopicStore bound to the transaction.
	WithTx(tx *sql.Tx) TopicStore
}

// RadarStore persists radars.
type RadarStore interface {
	// Create saves a new radar. Returns ErrUnknownOwner if the owner does not exist.
	Create(ctx context.Context, radar *domain.Radar) error

	// GetByID retrieves any radar by ID. Returns ErrRadarNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Radar, error)

	// GetOwned retrieves a radar by ID only if ownerID owns it.
	// Returns ErrRadarNotFound both when absent and when owned by someone else.
	GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Radar, error)

	// ListByOwner returns the owner's radars in creation order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Radar, error)

	// Update saves the radar's mutable attributes. Returns ErrRadarNotFound if absent.
	Update(ctx context.Context, radar *domain.Radar) error

	// Delete removes the radar row. Callers delete its blips first.
	// Returns ErrRadarNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a RadarStore bound to the transaction.
	WithTx(tx *sql.Tx) RadarStore
}

// BlipStore persists blips.
type BlipStore interface {
	// Create saves a new blip. Returns ErrUnknownRadar or ErrUnknownTopic if a
	// referenced row does not exist.
	Create(ctx context.Context, blip *domain.Blip) error

	// GetInRadar retrieves a blip by ID within one radar.
	// Returns ErrBlipNotFound if absent or attached to another radar.
	GetInRadar(ctx context.Context, radarID, id uuid.UUID) (*domain.Blip, error)

	// ListByRadar returns the radar's blips in creation order.
	ListByRadar(ctx context.Context, radarID uuid.UUID) ([]*domain.Blip, error)

	// ListByQuadrant returns the radar's blips in one quadrant, in creation order.
	ListByQuadrant(ctx context.Context, radarID uuid.UUID, quadrant domain.Quadrant) ([]*domain.Blip, error)

	// Update overwrites quadrant, ring, notes and topic. Returns ErrBlipNotFound if absent.
	Update(ctx context.Context, blip *domain.Blip) error

	// Delete removes a blip. Returns ErrBlipNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByRadar removes every blip of a radar and reports how many were removed.
	DeleteByRadar(ctx context.Context, radarID uuid.UUID) (int64, error)

	// WithTx returns a BlipStore bound to the transaction.
	WithTx(tx *sql.Tx) BlipStore
}
