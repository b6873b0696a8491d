package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/api"
	"github.com/techradar-io/radar-api/internal/domain"
)

func blipsPath(radar *domain.Radar) string {
	return "/api/radars/" + radar.ID.String() + "/blips"
}

func TestCreateBlip(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.user(t, "alice")
	radar := env.radar(t, alice, "R")
	topic := env.topic(t, "Kafka")

	w := env.do(t, http.MethodPost, blipsPath(radar), map[string]string{
		"topic_id": topic.ID.String(),
		"quadrant": "platforms",
		"ring":     "trial",
		"notes":    "event backbone",
	}, token)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	blip := decode[api.BlipResponse](t, w)
	assert.Equal(t, radar.ID, blip.RadarID)
	assert.Equal(t, topic.ID, blip.TopicID)
	assert.Equal(t, domain.QuadrantPlatforms, blip.Quadrant)
	assert.Equal(t, domain.RingTrial, blip.Ring)
	assert.Equal(t, 1, env.blips.Count())
}

func TestCreateBlip_Rejections(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.user(t, "alice")
	_, bobToken := env.user(t, "bob")
	radar := env.radar(t, alice, "R")
	topic := env.topic(t, "Kafka")

	tests := []struct {
		name   string
		token  string
		body   map[string]string
		status int
		fields []string
	}{
		{
			name:   "invalid quadrant",
			token:  aliceToken,
			body:   map[string]string{"topic_id": topic.ID.String(), "quadrant": "languages", "ring": "hold"},
			status: http.StatusUnprocessableEntity,
			fields: []string{"quadrant"},
		},
		{
			name:   "invalid ring and missing topic",
			token:  aliceToken,
			body:   map[string]string{"quadrant": "tools", "ring": "Adopt"},
			status: http.StatusUnprocessableEntity,
			fields: []string{"topic_id", "ring"},
		},
		{
			name:   "unknown topic",
			token:  aliceToken,
			body:   map[string]string{"topic_id": uuid.NewString(), "quadrant": "tools", "ring": "hold"},
			status: http.StatusUnprocessableEntity,
			fields: []string{"topic_id"},
		},
		{
			name:   "malformed topic id",
			token:  aliceToken,
			body:   map[string]string{"topic_id": "kafka", "quadrant": "tools", "ring": "hold"},
			status: http.StatusUnprocessableEntity,
			fields: []string{"topic_id"},
		},
		{
			name:   "foreign radar",
			token:  bobToken,
			body:   map[string]string{"topic_id": topic.ID.String(), "quadrant": "tools", "ring": "hold"},
			status: http.StatusNotFound,
		},
		{
			name:   "anonymous",
			body:   map[string]string{"topic_id": topic.ID.String(), "quadrant": "tools", "ring": "hold"},
			status: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, blipsPath(radar), tc.body, tc.token)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.fields != nil {
				assert.Equal(t, tc.fields, decode[errorBody](t, w).fieldNames())
			}
		})
	}
	assert.Zero(t, env.blips.Count())
}

func TestGetBlip(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.user(t, "alice")
	radar := env.radar(t, alice, "R")
	other := env.radar(t, alice, "Other")
	blip := env.blip(t, radar, env.topic(t, "Go"), domain.QuadrantLanguagesAndFrameworks, domain.RingAdopt)

	w := env.do(t, http.MethodGet, blipsPath(radar)+"/"+blip.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, blip.ID, decode[api.BlipResponse](t, w).ID)

	w = env.do(t, http.MethodGet, blipsPath(other)+"/"+blip.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blip not found", decode[errorBody](t, w).Error)
}

func TestUpdateBlip_NotesOnly(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.user(t, "alice")
	radar := env.radar(t, alice, "R")
	blip := env.blip(t, radar, env.topic(t, "Go"), domain.QuadrantLanguagesAndFrameworks, domain.RingAdopt)
	path := blipsPath(radar) + "/" + blip.ID.String()

	w := env.do(t, http.MethodPut, path, map[string]string{
		"notes":    "still great",
		"quadrant": "tools",
		"ring":     "hold",
	}, token)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[api.BlipResponse](t, w)
	assert.Equal(t, "still great", updated.Notes)
	assert.Equal(t, domain.QuadrantLanguagesAndFrameworks, updated.Quadrant)
	assert.Equal(t, domain.RingAdopt, updated.Ring)

	w = env.do(t, http.MethodPut, path, map[string]string{}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"notes"}, decode[errorBody](t, w).fieldNames())

	w = env.do(t, http.MethodPut, path, map[string]string{"notes": ""}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.BlipResponse](t, w).Notes)
}

func TestDeleteBlip(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.user(t, "alice")
	_, bobToken := env.user(t, "bob")
	radar := env.radar(t, alice, "R")
	blip := env.blip(t, radar, env.topic(t, "Go"), domain.QuadrantTools, domain.RingAssess)
	path := blipsPath(radar) + "/" + blip.ID.String()

	w := env.do(t, http.MethodDelete, path, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, aliceToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
