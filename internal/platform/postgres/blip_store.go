package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

const blipColumns = `id, radar_id, topic_id, quadrant, ring, notes, created_at, updated_at`

// PostgresBlipStore implements store.BlipStore.
type PostgresBlipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlipStore creates a blip store over db. A nil logger uses slog.Default.
func NewPostgresBlipStore(db store.DBTX, logger *slog.Logger) *PostgresBlipStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBlipStore{
		db:     db,
		logger: logger.With(slog.String("component", "blip_store")),
	}
}

var _ store.BlipStore = (*PostgresBlipStore)(nil)

// WithTx implements store.BlipStore.
func (s *PostgresBlipStore) WithTx(tx *sql.Tx) store.BlipStore {
	return &PostgresBlipStore{db: tx, logger: s.logger}
}

// Create implements store.BlipStore.
func (s *PostgresBlipStore) Create(ctx context.Context, blip *domain.Blip) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := blip.Validate(); err != nil {
		log.Warn("blip validation failed during create",
			slog.String("error", err.Error()),
			slog.String("blip_id", blip.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blips (id, radar_id, topic_id, quadrant, ring, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		blip.ID,
		blip.RadarID,
		blip.TopicID,
		string(blip.Quadrant),
		string(blip.Ring),
		blip.Notes,
		blip.CreatedAt,
		blip.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidReference) {
			log.Warn("blip references a missing row",
				slog.String("error", err.Error()),
				slog.String("radar_id", blip.RadarID.String()),
				slog.String("topic_id", blip.TopicID.String()))
			return mapped
		}
		log.Error("failed to create blip",
			slog.String("error", err.Error()),
			slog.String("blip_id", blip.ID.String()))
		return mapped
	}

	log.Info("blip created",
		slog.String("blip_id", blip.ID.String()),
		slog.String("radar_id", blip.RadarID.String()),
		slog.String("quadrant", string(blip.Quadrant)),
		slog.String("ring", string(blip.Ring)))
	return nil
}

// GetInRadar implements store.BlipStore.
func (s *PostgresBlipStore) GetInRadar(ctx context.Context, radarID, id uuid.UUID) (*domain.Blip, error) {
	blip, err := scanBlip(s.db.QueryRowContext(ctx,
		`SELECT `+blipColumns+` FROM blips WHERE id = $1 AND radar_id = $2`, id, radarID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBlipNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get blip",
			slog.String("error", err.Error()),
			slog.String("blip_id", id.String()))
		return nil, MapError(err)
	}
	return blip, nil
}

// ListByRadar implements store.BlipStore.
func (s *PostgresBlipStore) ListByRadar(ctx context.Context, radarID uuid.UUID) ([]*domain.Blip, error) {
	return s.list(ctx, `
		SELECT `+blipColumns+`
		FROM blips
		WHERE radar_id = $1
		ORDER BY seq
	`, radarID)
}

// ListByQuadrant implements store.BlipStore.
func (s *PostgresBlipStore) ListByQuadrant(
	ctx context.Context,
	radarID uuid.UUID,
	quadrant domain.Quadrant,
) ([]*domain.Blip, error) {
	return s.list(ctx, `
		SELECT `+blipColumns+`
		FROM blips
		WHERE radar_id = $1 AND quadrant = $2
		ORDER BY seq
	`, radarID, string(quadrant))
}

func (s *PostgresBlipStore) list(ctx context.Context, query string, args ...any) ([]*domain.Blip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list blips",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	blips := make([]*domain.Blip, 0)
	for rows.Next() {
		blip, err := scanBlip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blip row: %w", err)
		}
		blips = append(blips, blip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blip rows: %w", err)
	}
	return blips, nil
}

// Update implements store.BlipStore.
func (s *PostgresBlipStore) Update(ctx context.Context, blip *domain.Blip) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := blip.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE blips
		SET topic_id = $1, quadrant = $2, ring = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`,
		blip.TopicID,
		string(blip.Quadrant),
		string(blip.Ring),
		blip.Notes,
		blip.UpdatedAt,
		blip.ID,
	)
	if err != nil {
		log.Error("failed to update blip",
			slog.String("error", err.Error()),
			slog.String("blip_id", blip.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBlipNotFound); err != nil {
		return err
	}

	log.Debug("blip updated", slog.String("blip_id", blip.ID.String()))
	return nil
}

// Delete implements store.BlipStore.
func (s *PostgresBlipStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM blips WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete blip",
			slog.String("error", err.Error()),
			slog.String("blip_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBlipNotFound); err != nil {
		return err
	}

	log.Info("blip deleted", slog.String("blip_id", id.String()))
	return nil
}

// DeleteByRadar implements store.BlipStore.
func (s *PostgresBlipStore) DeleteByRadar(ctx context.Context, radarID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blips WHERE radar_id = $1`, radarID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete radar blips",
			slog.String("error", err.Error()),
			slog.String("radar_id", radarID.String()))
		return 0, MapError(err)
	}
	return result.RowsAffected()
}

func scanBlip(row rowScanner) (*domain.Blip, error) {
	var (
		blip     domain.Blip
		quadrant string
		ring     string
	)
	if err := row.Scan(
		&blip.ID,
		&blip.RadarID,
		&blip.TopicID,
		&quadrant,
		&ring,
		&blip.Notes,
		&blip.CreatedAt,
		&blip.UpdatedAt,
	); err != nil {
		return nil, err
	}
	blip.Quadrant = domain.Quadrant(quadrant)
	blip.Ring = domain.Ring(ring)
	return &blip, nil
}
