package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castletown/compendium/internal/application/handlers"
	"github.com/castletown/compendium/internal/domain/mocks"
	"github.com/castletown/compendium/internal/domain/services"
)

// setupServer wires the full handler stack against in-memory mocks.
func setupServer(t *testing.T) (*echo.Echo, *mocks.Store) {
	t.Helper()

	store := mocks.NewStore()
	vectorDB := &mocks.VectorDB{}
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2, 0.3}}

	characterSvc := services.NewCharacterService(store)
	relationshipSvc := services.NewRelationshipService(store)
	statsSvc := services.NewStatsService(store, relationshipSvc)
	submissionSvc := services.NewSubmissionService(store, vectorDB, embedder)
	calendarSvc := services.NewCalendarService()

	h := NewHandler(
		handlers.NewCharacterHandler(characterSvc, statsSvc),
		handlers.NewRelationshipHandler(relationshipSvc, characterSvc, statsSvc),
		handlers.NewCalendarHandler(calendarSvc),
		handlers.NewStatsHandler(statsSvc),
		handlers.NewSubmissionHandler(submissionSvc, statsSvc),
	)

	e := echo.New()
	h.RegisterRoutes(e)
	return e, store
}

func doJSON(e *echo.Echo, method, path, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

func TestCharacterEndpoints(t *testing.T) {
	e, _ := setupServer(t)

	t.Run("create requires user header", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/characters", "", `{"name":"Malon"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("create", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/characters", "user-1", `{"name":"Malon","race":"Hylian","village":"Lon Lon Ranch"}`)
		require.Equal(t, http.StatusCreated, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, "Malon", body["name"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/characters", "user-2", `{"name":"malon"}`)
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("get by name", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters/Malon", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, "Malon", body["name"])
	})

	t.Run("missing character is 404", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters/Ganondorf", "", "")
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("list includes total", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body struct {
			Characters []map[string]any `json:"characters"`
			Total      int              `json:"total"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Total)
		assert.Len(t, body.Characters, 1)
	})

	t.Run("search", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters/search?q=mal", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		require.Len(t, body, 1)
	})

	t.Run("search requires query", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters/search", "", "")
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		var created map[string]any
		res := doJSON(e, http.MethodGet, "/api/characters/Malon", "", "")
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))

		res = doJSON(e, http.MethodDelete, "/api/characters/"+created["id"].(string), "user-2", "")
		assert.Equal(t, http.StatusForbidden, res.Code)
	})
}

func TestRelationshipEndpoints(t *testing.T) {
	e, _ := setupServer(t)

	createChar := func(t *testing.T, owner, name string) string {
		t.Helper()
		res := doJSON(e, http.MethodPost, "/api/characters", owner, `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		return body["id"].(string)
	}

	malonID := createChar(t, "user-1", "Malon")
	talonID := createChar(t, "user-2", "Talon")

	var relID string

	t.Run("create", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/relationships", "user-1",
			`{"source_id":"`+malonID+`","target_id":"`+talonID+`","types":["family","respect"],"note":"Her father"}`)
		require.Equal(t, http.StatusCreated, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		relID = body["id"].(string)
		require.NotEmpty(t, relID)
	})

	t.Run("self relationship rejected", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/relationships", "user-1",
			`{"source_id":"`+malonID+`","target_id":"`+malonID+`","types":["family"]}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("pairs by character name", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/characters/Malon/relationships", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body struct {
			CharacterID string `json:"character_id"`
			Pairs       []struct {
				CounterpartID string `json:"counterpart_id"`
			} `json:"pairs"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, malonID, body.CharacterID)
		require.Len(t, body.Pairs, 1)
		assert.Equal(t, talonID, body.Pairs[0].CounterpartID)
	})

	t.Run("counts", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/relationships/counts", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var counts map[string]int
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &counts))
		assert.Equal(t, 1, counts[malonID])
		assert.Equal(t, 1, counts[talonID])
	})

	t.Run("types vocabulary", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/relationships/types", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var types []map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &types))
		assert.NotEmpty(t, types)
	})

	t.Run("update by non-author forbidden", func(t *testing.T) {
		res := doJSON(e, http.MethodPut, "/api/relationships/"+relID, "user-2", `{"types":["rival"]}`)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("update", func(t *testing.T) {
		res := doJSON(e, http.MethodPut, "/api/relationships/"+relID, "user-1", `{"types":["rival"],"note":""}`)
		require.Equal(t, http.StatusOK, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, []any{"rival"}, body["types"])
	})

	t.Run("delete", func(t *testing.T) {
		res := doJSON(e, http.MethodDelete, "/api/relationships/"+relID, "user-1", "")
		require.Equal(t, http.StatusOK, res.Code)

		res = doJSON(e, http.MethodGet, "/api/relationships/"+relID, "", "")
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestCalendarEndpoints(t *testing.T) {
	e, _ := setupServer(t)

	t.Run("today", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/calendar/today", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.NotEmpty(t, body["month"])
	})

	t.Run("convert", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/calendar/convert?date=2019-03-01", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, "Din", body["month"])
		assert.Equal(t, float64(1), body["day"])
	})

	t.Run("convert rejects malformed date", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/calendar/convert?date=yesterday", "", "")
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("months", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/calendar/months", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var months []string
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &months))
		require.Len(t, months, 12)
		assert.Equal(t, "Din", months[0])
	})
}

func TestStatsEndpoint(t *testing.T) {
	e, _ := setupServer(t)

	doJSON(e, http.MethodPost, "/api/characters", "user-1", `{"name":"Malon"}`)

	res := doJSON(e, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, res.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["characters"])
}

func TestSubmissionEndpoints(t *testing.T) {
	e, _ := setupServer(t)

	var subID string

	t.Run("submit", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/submissions", "user-1",
			`{"kind":"quest","title":"The lost cucco flock","body":"Round up the cuccos before nightfall."}`)
		require.Equal(t, http.StatusCreated, res.Code)

		var body struct {
			Submission map[string]any `json:"submission"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		subID = body.Submission["id"].(string)
		assert.Equal(t, "pending", body.Submission["status"])
	})

	t.Run("submit rejects unknown kind", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/submissions", "user-1",
			`{"kind":"rumor","title":"A title","body":"A body"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("list by kind", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/submissions?kind=quest", "", "")
		require.Equal(t, http.StatusOK, res.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		require.Len(t, body, 1)
	})

	t.Run("moderate", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/submissions/"+subID+"/status", "mod-1", `{"status":"approved"}`)
		require.Equal(t, http.StatusOK, res.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, "approved", body["status"])
	})

	t.Run("moderate rejects unknown status", func(t *testing.T) {
		res := doJSON(e, http.MethodPost, "/api/submissions/"+subID+"/status", "mod-1", `{"status":"shelved"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("similar", func(t *testing.T) {
		res := doJSON(e, http.MethodGet, "/api/submissions/"+subID+"/similar", "", "")
		assert.Equal(t, http.StatusOK, res.Code)
	})
}
