package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/api"
	"github.com/techradar-io/radar-api/internal/auth"
	"github.com/techradar-io/radar-api/internal/config"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/mocks"
	"github.com/techradar-io/radar-api/internal/platform/metrics"
	"github.com/techradar-io/radar-api/internal/service"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

// testEnv wires the real services over in-memory stores. The sqlmock
// database only begins and commits transactions.
type testEnv struct {
	router  http.Handler
	sql     sqlmock.Sqlmock
	users   *mocks.MockUserStore
	topics  *mocks.MockTopicStore
	radars  *mocks.MockRadarStore
	blips   *mocks.MockBlipStore
	metrics *metrics.Metrics
	health  error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		sql:     mock,
		users:   mocks.NewMockUserStore(),
		topics:  mocks.NewMockTopicStore(),
		radars:  mocks.NewMockRadarStore(),
		blips:   mocks.NewMockBlipStore(),
		metrics: metrics.New(),
	}
	env.radars.Users = env.users
	env.blips.Topics = env.topics

	userSvc, err := service.NewUserService(db, env.users, nil, log)
	require.NoError(t, err)
	radarSvc, err := service.NewRadarService(db, env.radars, env.blips, log)
	require.NoError(t, err)
	blipSvc, err := service.NewBlipService(env.blips, log)
	require.NoError(t, err)
	topicSvc, err := service.NewTopicService(env.topics, log)
	require.NoError(t, err)
	validator, err := auth.NewTokenValidator(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	env.router = api.NewRouter(api.RouterConfig{
		Users:       userSvc,
		Radars:      radarSvc,
		Blips:       blipSvc,
		Topics:      topicSvc,
		Validator:   validator,
		Metrics:     env.metrics,
		HealthCheck: func(context.Context) error { return env.health },
		Logger:      log,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) user(t *testing.T, username string) (*domain.User, string) {
	t.Helper()
	user, err := domain.NewUser(uuid.Nil, username, username+"@example.com")
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), user))
	token, err := auth.SignToken(testSecret, user.ID, time.Now(), time.Hour)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) radar(t *testing.T, owner *domain.User, name string) *domain.Radar {
	t.Helper()
	radar, err := domain.NewRadar(owner.ID, name)
	require.NoError(t, err)
	require.NoError(t, e.radars.Create(context.Background(), radar))
	return radar
}

func (e *testEnv) topic(t *testing.T, name string) *domain.Topic {
	t.Helper()
	topic, err := domain.NewTopic(name, "")
	require.NoError(t, err)
	require.NoError(t, e.topics.Create(context.Background(), topic))
	return topic
}

func (e *testEnv) blip(t *testing.T, radar *domain.Radar, topic *domain.Topic, q domain.Quadrant, r domain.Ring) *domain.Blip {
	t.Helper()
	blip := radar.NewBlip(domain.BlipAttrs{TopicID: topic.ID, Quadrant: q, Ring: r, Notes: "seed"})
	require.NoError(t, e.blips.Create(context.Background(), blip))
	return blip
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func (b errorBody) fieldNames() []string {
	names := make([]string, 0, len(b.Fields))
	for _, f := range b.Fields {
		names = append(names, f.Field)
	}
	return names
}

func jsonField(t *testing.T, w *httptest.ResponseRecorder, name string) string {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	return string(fields[name])
}
