package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/courtline/internal/auth"
	"github.com/mauv0809/courtline/internal/config"
	"github.com/mauv0809/courtline/internal/database"
	"github.com/mauv0809/courtline/internal/gcal"
	"github.com/mauv0809/courtline/internal/metrics"
	"github.com/mauv0809/courtline/internal/notifier"
	"github.com/mauv0809/courtline/internal/tennis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type testEnv struct {
	server   *Server
	calendar *gcal.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	calendarMock := gcal.NewMock()
	notifierMock := notifier.NewMock()
	metricsMock := metrics.NewMock()

	server := NewServer(
		tennis.New(db),
		auth.NewSessionManager(db),
		calendarMock,
		notifierMock,
		metricsMock,
		metrics.NewMetricsHandler(),
		config.Config{Port: "8080", AppURL: "http://localhost:8080"},
	)

	env := &testEnv{
		server:   server,
		calendar: calendarMock,
		notifier: notifierMock,
		metrics:  metricsMock,
	}
	return env, dbTeardown
}

// login creates a session for the user and returns the cookie to attach to
// requests.
func login(t *testing.T, env *testEnv, userID string, token *oauth2.Token) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, env.server.Sessions.Create(rec, &auth.Session{
		UserID: userID,
		Email:  userID + "@example.com",
		Name:   "Tester",
		Token:  token,
	}))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func doRequest(env *testEnv, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealthCheckHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doRequest(env, "GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rec.Body.String(), "handler returned unexpected body")
}

func TestAPIRequiresSession(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	for _, path := range []string{"/api/matches", "/api/players", "/api/settings", "/api/stats", "/api/init"} {
		rec := doRequest(env, "GET", path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "expected 401 for %s", path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}
}

func TestCreateAndListMatches(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me",
		"player2": "Alex",
		"date":    "2026-03-01",
		"surface": "Hard",
		"season":  "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.EqualValues(t, 1, created["id"])

	assert.Equal(t, 1, env.metrics.MatchesCreated())
	require.Len(t, env.notifier.MatchScheduledCalls, 1)
	assert.Equal(t, "Alex", env.notifier.MatchScheduledCalls[0].Player2)

	rec = doRequest(env, "GET", "/api/matches", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Alex", matches[0]["player2"])
	assert.Equal(t, "scheduled", matches[0]["status"])
	assert.Nil(t, matches[0]["score1"])
	assert.Nil(t, matches[0]["score2"])
}

func TestCreateMatchValidation(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player2": "Alex",
		"date":    "2026-03-01",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())
	assert.Equal(t, 0, env.metrics.MatchesCreated())
}

func TestUpdateScoreHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "PUT", "/api/matches/1/score", map[string]string{
		"score1": "6,6", "score2": "4,3",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 1, env.metrics.ScoresRecorded())
	require.Len(t, env.notifier.MatchCompletedCalls, 1)
	assert.Equal(t, "completed", string(env.notifier.MatchCompletedCalls[0].Status))

	rec = doRequest(env, "GET", "/api/matches", nil, cookie)
	var matches []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "completed", matches[0]["status"])
	assert.Equal(t, "6,6", matches[0]["score1"])
}

func TestUpdateScoreUnknownMatch(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "PUT", "/api/matches/42/score", map[string]string{
		"score1": "6,6", "score2": "4,3",
	}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Match not found"}`, rec.Body.String())
}

func TestMatchUserIsolation(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookieA := login(t, env, "user-a", nil)
	cookieB := login(t, env, "user-b", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookieA)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot see or touch the match.
	rec = doRequest(env, "GET", "/api/matches", nil, cookieB)
	var matches []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Empty(t, matches)

	rec = doRequest(env, "PUT", "/api/matches/1/score", map[string]string{
		"score1": "6,6", "score2": "4,3",
	}, cookieB)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMatchIdempotent(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "DELETE", "/api/matches/1", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "DELETE", "/api/matches/1", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddPlayerDuplicate(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/players", map[string]string{"name": "Alex"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "POST", "/api/players", map[string]string{"name": "Alex"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Player already exists"}`, rec.Body.String())
}

func TestAddPlayerMissingName(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/players", map[string]string{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInitHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "GET", "/api/init", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Len(t, payload["matches"], 1)
	assert.Equal(t, []any{"2026"}, payload["seasons"])
	assert.Equal(t, []any{"Alex"}, payload["players"])
	assert.Equal(t, false, payload["googleConnected"])

	settings, ok := payload["settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10:00", settings["defaultStartTime"])
}

func TestSettingsRoundTrip(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/settings", map[string]any{
		"userName":        "Mark",
		"defaultDuration": 120,
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(env, "GET", "/api/settings", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "Mark", payload["userName"])
	assert.Equal(t, "120", payload["defaultDuration"])
	// Untouched fields keep their defaults.
	assert.Equal(t, "10:00", payload["defaultStartTime"])
}

func TestGoogleAuthURLHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doRequest(env, "GET", "/api/auth/google/url", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.NotEmpty(t, payload["url"])
}

func TestGoogleCallbackSeedsSettings(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doRequest(env, "GET", "/api/auth/google/callback?code=test-code", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The popup response notifies the opener and closes itself.
	assert.Contains(t, rec.Body.String(), "OAUTH_AUTH_SUCCESS")
	assert.Equal(t, []string{"test-code"}, env.calendar.ExchangeCalls)

	// A session cookie was set; the new user got seeded settings.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	has, err := env.server.Store.HasSettings("mock-user")
	require.NoError(t, err)
	assert.True(t, has)

	settings, err := env.server.Store.GetSettings("mock-user")
	require.NoError(t, err)
	assert.Equal(t, "Mock", settings.UserName)

	// The session works for authenticated routes.
	req := httptest.NewRequest("GET", "/api/init", nil)
	req.AddCookie(cookies[0])
	initRec := httptest.NewRecorder()
	env.server.ServeHTTP(initRec, req)
	require.Equal(t, http.StatusOK, initRec.Code)
	assert.Equal(t, true, decodeBody(t, initRec)["googleConnected"])
}

func TestGoogleCallbackMissingCode(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doRequest(env, "GET", "/api/auth/google/callback", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleStatusHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doRequest(env, "GET", "/api/auth/google/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, false, payload["connected"])
	assert.Nil(t, payload["user"])

	cookie := login(t, env, "user-1", &oauth2.Token{AccessToken: "access"})
	rec = doRequest(env, "GET", "/api/auth/google/status", nil, cookie)
	payload = decodeBody(t, rec)
	assert.Equal(t, true, payload["connected"])
	require.NotNil(t, payload["user"])
}

func TestLogoutHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "GET", "/api/matches", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalendarEventNotConnected(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/calendar/event", map[string]any{
		"opponent": "Alex", "surface": "Hard", "date": "2026-03-01", "startTime": "10:00", "duration": 90,
	}, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not connected to Google Calendar"}`, rec.Body.String())
	assert.Empty(t, env.calendar.CreateEventCalls)
}

func TestCalendarEventHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", &oauth2.Token{AccessToken: "access"})

	rec := doRequest(env, "POST", "/api/calendar/event", map[string]any{
		"opponent": "Alex", "surface": "Hard", "date": "2026-03-01", "startTime": "10:00", "duration": 90,
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.calendar.CreateEventCalls, 1)
	assert.Equal(t, "Alex", env.calendar.CreateEventCalls[0].Opponent)
	assert.Equal(t, 1, env.metrics.CalendarEventsCreated())
}

func TestCalendarEventProviderFailure(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", &oauth2.Token{AccessToken: "access"})

	env.calendar.CreateEventFunc = func(ctx context.Context, token *oauth2.Token, event gcal.Event) error {
		return assert.AnError
	}

	rec := doRequest(env, "POST", "/api/calendar/event", map[string]any{
		"opponent": "Alex", "surface": "Hard", "date": "2026-03-01", "startTime": "10:00", "duration": 90,
	}, cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, env.metrics.CalendarEventsFailed())
}

func TestStatsHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(env, "PUT", "/api/matches/1/score", map[string]string{
		"score1": "6,3", "score2": "4,6",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "GET", "/api/stats", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.EqualValues(t, 1, payload["totalGames"])
	assert.Len(t, payload["matches"], 1)

	summary, ok := payload["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9, summary["gamesWon"])
	assert.EqualValues(t, 9, summary["gamesLost"])
	assert.Equal(t, "50", summary["winPercentage"])

	surfaces, ok := payload["surfaces"].([]any)
	require.True(t, ok)
	require.Len(t, surfaces, 4)
	top, ok := surfaces[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hard", top["surface"])
	assert.EqualValues(t, 1, top["matchCount"])
}

func TestHeadToHeadHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	rec := doRequest(env, "POST", "/api/matches", map[string]any{
		"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": "2026",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(env, "PUT", "/api/matches/1/score", map[string]string{
		"score1": "6,6", "score2": "4,3",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(env, "GET", "/api/stats/head-to-head?opponent=Alex&surface=Hard", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.EqualValues(t, 1, payload["totalMatches"])
	assert.EqualValues(t, 12, payload["gamesWon"])
	assert.EqualValues(t, 7, payload["gamesLost"])

	// No completed match on the other surface.
	rec = doRequest(env, "GET", "/api/stats/head-to-head?opponent=Alex&surface=Clay", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())

	rec = doRequest(env, "GET", "/api/stats/head-to-head?opponent=Alex", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeasonsHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	cookie := login(t, env, "user-1", nil)

	for _, season := range []string{"Fall 2025", "Winter 2026"} {
		rec := doRequest(env, "POST", "/api/matches", map[string]any{
			"player1": "Me", "player2": "Alex", "date": "2026-03-01", "surface": "Hard", "season": season,
		}, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(env, "GET", "/api/seasons", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var seasons []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seasons))
	assert.Equal(t, []string{"Winter 2026", "Fall 2025"}, seasons)
}
