//go:build integration

package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/postgres"
	"github.com/techradar-io/radar-api/internal/service"
	"github.com/techradar-io/radar-api/internal/store"
	"github.com/techradar-io/radar-api/internal/testdb"
)

// failingBlipStore rejects every insert after the radar row is written.
type failingBlipStore struct {
	store.BlipStore
}

func (s failingBlipStore) Create(ctx context.Context, blip *domain.Blip) error {
	return errors.New("injected failure")
}

func (s failingBlipStore) WithTx(tx *sql.Tx) store.BlipStore {
	return failingBlipStore{s.BlipStore.WithTx(tx)}
}

func TestProvisioner_Postgres(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	users := postgres.NewPostgresUserStore(db, quiet())
	radars := postgres.NewPostgresRadarStore(db, quiet())
	topics := postgres.NewPostgresTopicStore(db, quiet())
	blips := postgres.NewPostgresBlipStore(db, quiet())

	suffix := uuid.NewString()[:8]
	user, err := domain.NewUser(uuid.Nil, "prov-"+suffix, "prov-"+suffix+"@example.com")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	t.Run("blip failure leaves no radar", func(t *testing.T) {
		p := service.NewProvisioner(db, radars, topics, failingBlipStore{blips}, quiet())

		err := p.Provision(ctx, user)
		var perr *service.ProvisioningError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, service.StepCreateBlip, perr.Step)

		owned, err := radars.ListByOwner(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, owned)
	})

	t.Run("success", func(t *testing.T) {
		p := service.NewProvisioner(db, radars, topics, blips, quiet())
		require.NoError(t, p.Provision(ctx, user))

		owned, err := radars.ListByOwner(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, owned, 1)

		inTools, err := blips.ListByQuadrant(ctx, owned[0].ID, domain.QuadrantTools)
		require.NoError(t, err)
		require.Len(t, inTools, 1)
		assert.Equal(t, service.WelcomeNotes, inTools[0].Notes)
	})
}
