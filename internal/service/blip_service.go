package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

// BlipService persists changes to blips.
type BlipService interface {
	// Save validates and stores a new blip built with Radar.NewBlip.
	// Nothing is stored when it returns an error.
	Save(ctx context.Context, blip *domain.Blip) error

	// Update applies update to blip. On failure blip keeps its prior values.
	// Concurrent updates of one blip resolve last-write-wins.
	Update(ctx context.Context, blip *domain.Blip, update domain.BlipUpdate) error

	// Destroy removes the blip.
	Destroy(ctx context.Context, blip *domain.Blip) error
}

type blipServiceImpl struct {
	blips  store.BlipStore
	logger *slog.Logger
}

// NewBlipService creates a BlipService.
// It returns an error if the store is nil.
func NewBlipService(blips store.BlipStore, logger *slog.Logger) (BlipService, error) {
	if blips == nil {
		return nil, domain.NewValidationError("blips", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &blipServiceImpl{
		blips:  blips,
		logger: logger.With(slog.String("component", "blip_service")),
	}, nil
}

// Save implements BlipService.
func (s *blipServiceImpl) Save(ctx context.Context, blip *domain.Blip) error {
	if err := blip.Validate(); err != nil {
		return err
	}

	if err := s.blips.Create(ctx, blip); err != nil {
		if verr := referenceError(err); verr != nil {
			return verr
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save blip",
			slog.String("error", err.Error()),
			slog.String("radar_id", blip.RadarID.String()))
		return NewServiceError("blip", "save", "failed to save blip", err)
	}
	return nil
}

// Update implements BlipService.
func (s *blipServiceImpl) Update(ctx context.Context, blip *domain.Blip, update domain.BlipUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	next := blip.WithUpdate(update)
	if err := next.Validate(); err != nil {
		return err
	}

	if err := s.blips.Update(ctx, next); err != nil {
		if verr := referenceError(err); verr != nil {
			return verr
		}
		return NewServiceError("blip", "update", "failed to save blip", err)
	}

	*blip = *next
	return nil
}

// Destroy implements BlipService.
func (s *blipServiceImpl) Destroy(ctx context.Context, blip *domain.Blip) error {
	if err := s.blips.Delete(ctx, blip.ID); err != nil {
		return NewServiceError("blip", "destroy", "failed to delete blip", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("blip deleted",
		slog.String("blip_id", blip.ID.String()),
		slog.String("radar_id", blip.RadarID.String()))
	return nil
}

// referenceError turns a dangling foreign key into a field-level failure.
func referenceError(err error) error {
	switch {
	case errors.Is(err, store.ErrUnknownTopic):
		return domain.NewValidationError("topic_id", "must exist", domain.ErrMissingReference)
	case errors.Is(err, store.ErrUnknownRadar):
		return domain.NewValidationError("radar_id", "must exist", domain.ErrMissingReference)
	}
	return nil
}
