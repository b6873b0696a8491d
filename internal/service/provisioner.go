package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

// WelcomeNotes are the notes of the blip every starter radar is seeded with.
const WelcomeNotes = "techradar.io is a great tool for tracking interesting technologies in software development"

// Provisioning steps reported by ProvisioningError.
const (
	StepCreateRadar    = "create_radar"
	StepBootstrapTopic = "bootstrap_topic"
	StepCreateBlip     = "create_blip"
	StepCommit         = "commit"
)

// ProvisioningError reports which step of provisioning failed for a user.
// Nothing is persisted when it is returned.
type ProvisioningError struct {
	UserID uuid.UUID
	Step   string
	Err    error
}

// Error implements the error interface for ProvisioningError.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning radar for user %s failed at %s: %v", e.UserID, e.Step, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Provisioner gives a newly created user their starter radar.
type Provisioner struct {
	db     *sql.DB
	radars store.RadarStore
	topics store.TopicStore
	blips  store.BlipStore
	now    func() time.Time
	logger *slog.Logger
}

// NewProvisioner creates a Provisioner that names radars after the local
// time. A nil logger uses slog.Default.
func NewProvisioner(
	db *sql.DB,
	radars store.RadarStore,
	topics store.TopicStore,
	blips store.BlipStore,
	logger *slog.Logger,
) *Provisioner {
	if db == nil || radars == nil || topics == nil || blips == nil {
		panic("provisioner dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		db:     db,
		radars: radars,
		topics: topics,
		blips:  blips,
		now:    time.Now,
		logger: logger.With(slog.String("component", "provisioner")),
	}
}

// WithClock returns a copy of p that reads the current time from now.
func (p *Provisioner) WithClock(now func() time.Time) *Provisioner {
	cp := *p
	cp.now = now
	return &cp
}

// RadarName returns the name of a starter radar created at t.
func RadarName(t time.Time) string {
	return fmt.Sprintf("Personal Radar for %s %d", t.Month(), t.Year())
}

// Provision creates the starter radar for user with one welcome blip on the
// bootstrap topic. All rows are written in one transaction.
func (p *Provisioner) Provision(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, p.logger).With(slog.String("user_id", user.ID.String()))

	var radar *domain.Radar
	err := store.RunInTransaction(ctx, p.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		radar, err = domain.NewRadar(user.ID, RadarName(p.now()))
		if err != nil {
			return p.fail(user, StepCreateRadar, err)
		}
		if err := p.radars.WithTx(tx).Create(ctx, radar); err != nil {
			return p.fail(user, StepCreateRadar, err)
		}

		topic, err := bootstrapTopic(ctx, p.topics.WithTx(tx))
		if err != nil {
			return p.fail(user, StepBootstrapTopic, err)
		}

		blip := radar.NewBlip(domain.BlipAttrs{
			TopicID:  topic.ID,
			Quadrant: domain.QuadrantTools,
			Ring:     domain.RingAssess,
			Notes:    WelcomeNotes,
		})
		if err := p.blips.WithTx(tx).Create(ctx, blip); err != nil {
			return p.fail(user, StepCreateBlip, err)
		}
		return nil
	})
	if err != nil {
		var perr *ProvisioningError
		if !errors.As(err, &perr) {
			perr = p.fail(user, StepCommit, err)
		}
		log.Error("radar provisioning failed",
			slog.String("step", perr.Step),
			slog.String("error", err.Error()))
		return perr
	}

	log.Info("radar provisioned",
		slog.String("radar_id", radar.ID.String()),
		slog.String("radar_name", radar.Name))
	return nil
}

func (p *Provisioner) fail(user *domain.User, step string, err error) *ProvisioningError {
	return &ProvisioningError{UserID: user.ID, Step: step, Err: err}
}
