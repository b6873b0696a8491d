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

const radarColumns = `id, owner_id, name, created_at, updated_at`

// PostgresRadarStore implements store.RadarStore.
type PostgresRadarStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRadarStore creates a radar store over db. A nil logger uses slog.Default.
func NewPostgresRadarStore(db store.DBTX, logger *slog.Logger) *PostgresRadarStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRadarStore{
		db:     db,
		logger: logger.With(slog.String("component", "radar_store")),
	}
}

var _ store.RadarStore = (*PostgresRadarStore)(nil)

// WithTx implements store.RadarStore.
func (s *PostgresRadarStore) WithTx(tx *sql.Tx) store.RadarStore {
	return &PostgresRadarStore{db: tx, logger: s.logger}
}

// Create implements store.RadarStore.
func (s *PostgresRadarStore) Create(ctx context.Context, radar *domain.Radar) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := radar.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO radars (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, radar.ID, radar.OwnerID, radar.Name, radar.CreatedAt, radar.UpdatedAt)
	if err != nil {
		log.Error("failed to create radar",
			slog.String("error", err.Error()),
			slog.String("radar_id", radar.ID.String()),
			slog.String("owner_id", radar.OwnerID.String()))
		return MapError(err)
	}

	log.Info("radar created",
		slog.String("radar_id", radar.ID.String()),
		slog.String("owner_id", radar.OwnerID.String()))
	return nil
}

// GetByID implements store.RadarStore.
func (s *PostgresRadarStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Radar, error) {
	return s.getOne(ctx, `SELECT `+radarColumns+` FROM radars WHERE id = $1`, id)
}

// GetOwned implements store.RadarStore.
func (s *PostgresRadarStore) GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Radar, error) {
	return s.getOne(ctx, `SELECT `+radarColumns+` FROM radars WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (s *PostgresRadarStore) getOne(ctx context.Context, query string, args ...any) (*domain.Radar, error) {
	radar, err := scanRadar(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRadarNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get radar",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return radar, nil
}

// ListByOwner implements store.RadarStore.
func (s *PostgresRadarStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Radar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+radarColumns+`
		FROM radars
		WHERE owner_id = $1
		ORDER BY seq
	`, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list radars",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	radars := make([]*domain.Radar, 0)
	for rows.Next() {
		radar, err := scanRadar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan radar row: %w", err)
		}
		radars = append(radars, radar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating radar rows: %w", err)
	}
	return radars, nil
}

// Update implements store.RadarStore.
func (s *PostgresRadarStore) Update(ctx context.Context, radar *domain.Radar) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := radar.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE radars
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, radar.Name, radar.UpdatedAt, radar.ID)
	if err != nil {
		log.Error("failed to update radar",
			slog.String("error", err.Error()),
			slog.String("radar_id", radar.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrRadarNotFound); err != nil {
		return err
	}

	log.Debug("radar updated", slog.String("radar_id", radar.ID.String()))
	return nil
}

// Delete implements store.RadarStore.
func (s *PostgresRadarStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM radars WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete radar",
			slog.String("error", err.Error()),
			slog.String("radar_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrRadarNotFound); err != nil {
		return err
	}

	log.Info("radar deleted", slog.String("radar_id", id.String()))
	return nil
}

func scanRadar(row rowScanner) (*domain.Radar, error) {
	var radar domain.Radar
	if err := row.Scan(
		&radar.ID,
		&radar.OwnerID,
		&radar.Name,
		&radar.CreatedAt,
		&radar.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &radar, nil
}
