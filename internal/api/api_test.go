package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-cli/mnemo/internal/store"
)

func newTestAPI(t *testing.T) (*API, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open("file:api_" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	a := New(st)
	a.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	r := gin.New()
	a.Register(r.Group("/api"))
	return a, r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func createDeck(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/decks", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[map[string]any](t, w)["id"].(string)
}

func addCard(t *testing.T, r *gin.Engine, deckID, front, back string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/decks/"+deckID+"/cards", gin.H{
		"cards": []gin.H{{"front": front, "back": back}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[[]map[string]any](t, w)[0]["id"].(string)
}

func TestDeckCRUD(t *testing.T) {
	_, r := newTestAPI(t)

	id := createDeck(t, r, "Spanish")

	w := doJSON(t, r, http.MethodGet, "/api/decks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, "Spanish", got["name"])
	assert.EqualValues(t, 0, got["cardCount"])

	w = doJSON(t, r, http.MethodPut, "/api/decks/"+id, gin.H{"name": "Español", "description": "vocab"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Español", decode[map[string]any](t, w)["name"])

	w = doJSON(t, r, http.MethodGet, "/api/decks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = doJSON(t, r, http.MethodDelete, "/api/decks/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/decks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDeckValidation(t *testing.T) {
	_, r := newTestAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/decks", gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddAndListCards(t *testing.T) {
	_, r := newTestAPI(t)
	deckID := createDeck(t, r, "Go")

	w := doJSON(t, r, http.MethodPost, "/api/decks/"+deckID+"/cards", gin.H{
		"cards": []gin.H{
			{"front": "goroutine", "back": "lightweight thread", "tags": []string{"concurrency"}},
			{"front": "channel", "back": "typed conduit"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[[]map[string]any](t, w)
	require.Len(t, created, 2)
	assert.EqualValues(t, 1, created[0]["interval"])
	assert.EqualValues(t, 2.5, created[0]["easeFactor"])

	w = doJSON(t, r, http.MethodGet, "/api/decks/"+deckID+"/cards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	// Unknown deck is a 404 for both operations.
	w = doJSON(t, r, http.MethodGet, "/api/decks/missing/cards", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/decks/missing/cards", gin.H{
		"cards": []gin.H{{"front": "a", "back": "b"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDueCards(t *testing.T) {
	_, r := newTestAPI(t)
	deckID := createDeck(t, r, "Due")
	addCard(t, r, deckID, "card one", "back")
	addCard(t, r, deckID, "card two", "back")

	// New cards are due immediately on creation.
	w := doJSON(t, r, http.MethodGet, "/api/decks/"+deckID+"/due-cards?includeNew=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)

	stats := got["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["totalCards"])
	assert.EqualValues(t, 2, stats["dueCards"])
	assert.EqualValues(t, 2, stats["newCards"])
	assert.EqualValues(t, 0, stats["reviewCards"])

	cards := got["cards"].([]any)
	require.Len(t, cards, 2)
	first := cards[0].(map[string]any)
	assert.Equal(t, true, first["isNew"])
	assert.Contains(t, first["timeDisplay"], "Due in 0 minutes")

	// Limit truncates the card list but not the stats.
	w = doJSON(t, r, http.MethodGet, "/api/decks/"+deckID+"/due-cards?includeNew=true&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[map[string]any](t, w)
	assert.Len(t, got["cards"].([]any), 1)
	assert.EqualValues(t, 2, got["stats"].(map[string]any)["dueCards"])

	w = doJSON(t, r, http.MethodGet, "/api/decks/missing/due-cards", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/decks/"+deckID+"/due-cards?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewCard(t *testing.T) {
	_, r := newTestAPI(t)
	deckID := createDeck(t, r, "Review")
	cardID := addCard(t, r, deckID, "front", "back")

	w := doJSON(t, r, http.MethodPost, "/api/cards/"+cardID+"/review", gin.H{
		"difficulty":   "good",
		"responseTime": 4,
		"totalCards":   10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, true, got["success"])

	card := got["card"].(map[string]any)
	assert.EqualValues(t, 1, card["repetitions"])
	assert.EqualValues(t, 1, card["reviewCount"])
	// good with reps 0→1, total 10: interval = floor(10·1.2) = 12.
	assert.EqualValues(t, 12, card["interval"])

	next := got["nextReview"].(map[string]any)
	assert.EqualValues(t, 12, next["interval"])
	assert.Equal(t, "12 minutes", next["display"])
}

func TestReviewCardValidation(t *testing.T) {
	_, r := newTestAPI(t)
	deckID := createDeck(t, r, "Validate")
	cardID := addCard(t, r, deckID, "front", "back")

	w := doJSON(t, r, http.MethodPost, "/api/cards/"+cardID+"/review", gin.H{
		"difficulty": "impossible",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "difficulty")

	w = doJSON(t, r, http.MethodPost, "/api/cards/"+cardID+"/review", gin.H{
		"difficulty":   "good",
		"responseTime": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/cards/missing/review", gin.H{
		"difficulty": "good",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCard(t *testing.T) {
	_, r := newTestAPI(t)
	deckID := createDeck(t, r, "Delete")
	cardID := addCard(t, r, deckID, "front", "back")

	w := doJSON(t, r, http.MethodDelete, "/api/cards/"+cardID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/cards/"+cardID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	_, r := newTestAPI(t)

	w := doJSON(t, r, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
