package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

// RingBlips is one ring of a quadrant with its blips in creation order.
type RingBlips struct {
	Ring  domain.Ring    `json:"ring"`
	Blips []*domain.Blip `json:"blips"`
}

// QuadrantBlips is one quadrant of a radar grouped by ring.
type QuadrantBlips struct {
	Quadrant domain.Quadrant `json:"quadrant"`
	Rings    []RingBlips     `json:"rings"`
}

// RadarService manages radars and read access to their blips.
type RadarService interface {
	// CreateRadar creates a radar owned by ownerID. The name may be empty.
	CreateRadar(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Radar, error)

	// FindOwned returns the radar only when ownerID owns it. A radar owned by
	// someone else is reported exactly like a missing one.
	FindOwned(ctx context.Context, ownerID, radarID uuid.UUID) (*domain.Radar, error)

	// FindAny returns any radar by ID for read-only access.
	FindAny(ctx context.Context, radarID uuid.UUID) (*domain.Radar, error)

	// ListOwned returns the owner's radars in creation order.
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*domain.Radar, error)

	// RenameRadar changes the radar's name.
	RenameRadar(ctx context.Context, radar *domain.Radar, name string) error

	// DeleteRadar removes the radar and all of its blips atomically.
	DeleteRadar(ctx context.Context, radar *domain.Radar) error

	// FindBlip returns a blip of this radar. Blips of other radars are not found.
	FindBlip(ctx context.Context, radar *domain.Radar, blipID uuid.UUID) (*domain.Blip, error)

	// BlipsByQuadrant returns the radar's blips in quadrant in creation order.
	// An unknown quadrant yields an empty slice.
	BlipsByQuadrant(ctx context.Context, radar *domain.Radar, quadrant domain.Quadrant) ([]*domain.Blip, error)

	// QuadrantView returns every quadrant with its blips grouped by ring.
	QuadrantView(ctx context.Context, radar *domain.Radar) ([]QuadrantBlips, error)
}

type radarServiceImpl struct {
	db     *sql.DB
	radars store.RadarStore
	blips  store.BlipStore
	logger *slog.Logger
}

// NewRadarService creates a RadarService.
// It returns an error if any of the required dependencies are nil.
func NewRadarService(
	db *sql.DB,
	radars store.RadarStore,
	blips store.BlipStore,
	logger *slog.Logger,
) (RadarService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if radars == nil {
		return nil, domain.NewValidationError("radars", "cannot be nil", domain.ErrValidation)
	}
	if blips == nil {
		return nil, domain.NewValidationError("blips", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &radarServiceImpl{
		db:     db,
		radars: radars,
		blips:  blips,
		logger: logger.With(slog.String("component", "radar_service")),
	}, nil
}

// CreateRadar implements RadarService.
func (s *radarServiceImpl) CreateRadar(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Radar, error) {
	radar, err := domain.NewRadar(ownerID, name)
	if err != nil {
		return nil, err
	}

	if err := s.radars.Create(ctx, radar); err != nil {
		if errors.Is(err, store.ErrUnknownOwner) {
			return nil, domain.NewValidationError("owner_id", "must exist", domain.ErrMissingReference)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create radar",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewServiceError("radar", "create_radar", "failed to save radar", err)
	}

	return radar, nil
}

// FindOwned implements RadarService.
func (s *radarServiceImpl) FindOwned(ctx context.Context, ownerID, radarID uuid.UUID) (*domain.Radar, error) {
	if ownerID == uuid.Nil {
		return nil, ErrRadarNotFound
	}
	radar, err := s.radars.GetOwned(ctx, ownerID, radarID)
	if err != nil {
		return nil, NewServiceError("radar", "find_owned", "failed to retrieve radar", err)
	}
	return radar, nil
}

// FindAny implements RadarService.
func (s *radarServiceImpl) FindAny(ctx context.Context, radarID uuid.UUID) (*domain.Radar, error) {
	radar, err := s.radars.GetByID(ctx, radarID)
	if err != nil {
		return nil, NewServiceError("radar", "find_any", "failed to retrieve radar", err)
	}
	return radar, nil
}

// ListOwned implements RadarService.
func (s *radarServiceImpl) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*domain.Radar, error) {
	radars, err := s.radars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewServiceError("radar", "list_owned", "failed to list radars", err)
	}
	return radars, nil
}

// RenameRadar implements RadarService.
// The caller's radar is only changed once the new name is stored.
func (s *radarServiceImpl) RenameRadar(ctx context.Context, radar *domain.Radar, name string) error {
	renamed := *radar
	renamed.Rename(name)

	if err := s.radars.Update(ctx, &renamed); err != nil {
		return NewServiceError("radar", "rename_radar", "failed to save radar", err)
	}

	*radar = renamed
	return nil
}

// DeleteRadar implements RadarService.
func (s *radarServiceImpl) DeleteRadar(ctx context.Context, radar *domain.Radar) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		removed, err = s.blips.WithTx(tx).DeleteByRadar(ctx, radar.ID)
		if err != nil {
			return err
		}
		return s.radars.WithTx(tx).Delete(ctx, radar.ID)
	})
	if err != nil {
		if !errors.Is(err, store.ErrRadarNotFound) {
			log.Error("failed to delete radar",
				slog.String("error", err.Error()),
				slog.String("radar_id", radar.ID.String()))
		}
		return NewServiceError("radar", "delete_radar", "failed to delete radar", err)
	}

	log.Info("radar deleted",
		slog.String("radar_id", radar.ID.String()),
		slog.Int64("blips_removed", removed))
	return nil
}

// FindBlip implements RadarService.
func (s *radarServiceImpl) FindBlip(ctx context.Context, radar *domain.Radar, blipID uuid.UUID) (*domain.Blip, error) {
	blip, err := s.blips.GetInRadar(ctx, radar.ID, blipID)
	if err != nil {
		return nil, NewServiceError("radar", "find_blip", "failed to retrieve blip", err)
	}
	return blip, nil
}

// BlipsByQuadrant implements RadarService.
func (s *radarServiceImpl) BlipsByQuadrant(
	ctx context.Context,
	radar *domain.Radar,
	quadrant domain.Quadrant,
) ([]*domain.Blip, error) {
	if !quadrant.IsValid() {
		return []*domain.Blip{}, nil
	}
	blips, err := s.blips.ListByQuadrant(ctx, radar.ID, quadrant)
	if err != nil {
		return nil, NewServiceError("radar", "blips_by_quadrant", "failed to list blips", err)
	}
	return blips, nil
}

// QuadrantView implements RadarService.
func (s *radarServiceImpl) QuadrantView(ctx context.Context, radar *domain.Radar) ([]QuadrantBlips, error) {
	blips, err := s.blips.ListByRadar(ctx, radar.ID)
	if err != nil {
		return nil, NewServiceError("radar", "quadrant_view", "failed to list blips", err)
	}
	return groupByQuadrant(blips), nil
}

// groupByQuadrant lays blips out in quadrant order, then ring order, keeping
// their relative order within a ring. Empty groups are present.
func groupByQuadrant(blips []*domain.Blip) []QuadrantBlips {
	type cell struct {
		q domain.Quadrant
		r domain.Ring
	}
	cells := make(map[cell][]*domain.Blip)
	for _, b := range blips {
		c := cell{b.Quadrant, b.Ring}
		cells[c] = append(cells[c], b)
	}

	view := make([]QuadrantBlips, 0, len(domain.Quadrants()))
	for _, q := range domain.Quadrants() {
		group := QuadrantBlips{Quadrant: q, Rings: make([]RingBlips, 0, len(domain.Rings()))}
		for _, r := range domain.Rings() {
			inRing := cells[cell{q, r}]
			if inRing == nil {
				inRing = []*domain.Blip{}
			}
			group.Rings = append(group.Rings, RingBlips{Ring: r, Blips: inRing})
		}
		view = append(view, group)
	}
	return view
}
