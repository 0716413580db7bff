package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

const testJobToken = "job-secret"

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data"`
	Error      *errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Errors []struct {
		Reason string `json:"reason"`
	} `json:"errors"`
}

func (e errorEnvelope) reasons() []string {
	out := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		out = append(out, item.Reason)
	}
	return out
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	rules := fantasy.DefaultRules()

	players := memory.NewPlayerRepository(memory.SeedPlayers())
	clubs := memory.NewClubRepository(memory.SeedClubs())
	rounds := memory.NewRoundRepository(memory.SeedRounds())
	squads := memory.NewSquadRepository()

	catalogSvc := usecase.NewCatalogService(players, clubs, nil, nil, logger)
	squadSvc := usecase.NewSquadService(
		players,
		squads,
		memory.NewTransferRepository(squads),
		rounds,
		rules,
		fantasy.NewSynthesizer(rules, fantasy.WithSeed(7)),
		idgen.NewUUIDGenerator(),
		nil,
		logger,
	)
	lineupSvc := usecase.NewLineupService(players, squads, memory.NewLineupRepository(), rounds, rules, nil, logger)
	validationSvc := usecase.NewValidationService(players, rules, 2, nil, logger)
	scheduleSvc := usecase.NewRoundScheduleService(rounds, usecase.NewNoopJobQueue(), logger)

	handler := NewHandler(catalogSvc, squadSvc, lineupSvc, validationSvc, scheduleSvc, logger)
	return NewRouter(handler, logger, RouterOptions{
		CORSAllowedOrigins: []string{"*"},
		InternalJobToken:   testJobToken,
	})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers ...string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body=%s", rec.Body.String())
	return rec.Code, out
}

const seededSquadBody = `{"name":"Garuda FC","player_ids":[201,401,102,202,302,402,602,105,205,305,505,605,508,608,108]}`

const seededLineupBody = `{
  "slots": [
    {"index":0,"is_starter":true,"player_id":201},
    {"index":1,"is_starter":true,"player_id":102},
    {"index":2,"is_starter":true,"player_id":202},
    {"index":3,"is_starter":true,"player_id":302},
    {"index":4,"is_starter":true,"player_id":402},
    {"index":5,"is_starter":true,"player_id":105},
    {"index":6,"is_starter":true,"player_id":205},
    {"index":7,"is_starter":true,"player_id":305},
    {"index":8,"is_starter":true,"player_id":505},
    {"index":9,"is_starter":true,"player_id":508},
    {"index":10,"is_starter":true,"player_id":608},
    {"index":11,"is_starter":false,"player_id":401},
    {"index":12,"is_starter":false,"player_id":602},
    {"index":13,"is_starter":false,"player_id":605},
    {"index":14,"is_starter":false,"player_id":108}
  ],
  "captain_id":105,
  "vice_captain_id":508
}`

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, googleAPIVersion, out.APIVersion)
}

func TestListPlayers_FiltersByPosition(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodGet, "/v1/players?position=GK", "")
	require.Equal(t, http.StatusOK, status)

	items, ok := out.Data.([]any)
	require.True(t, ok)
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, "GK", item.(map[string]any)["position"])
	}
}

func TestListPlayers_RejectsUnknownPosition(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodGet, "/v1/players?position=COACH", "")
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, out.Error)
	assert.Equal(t, http.StatusBadRequest, out.Error.Code)
}

func TestSaveSquad_ThenGet(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", seededSquadBody)
	require.Equal(t, http.StatusOK, status, "error=%+v", out.Error)

	data := out.Data.(map[string]any)
	assert.Equal(t, "team-1", data["team_id"])
	assert.InDelta(t, 78.0, data["budget_used"], 0.0001)
	assert.InDelta(t, 22.0, data["budget_left"], 0.0001)
	assert.Empty(t, data["violations"])

	status, out = doRequest(t, router, http.MethodGet, "/v1/teams/team-1/squad", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out.Data.(map[string]any)["player_ids"], 15)
}

func TestSaveSquad_ReportsViolationCodes(t *testing.T) {
	router := newTestRouter(t)

	body := `{"player_ids":[201,401,102,202,302,402,602,105,205,305,505,605,508,608]}`
	status, out := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", body)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.reasons(), string(fantasy.ViolationSquadSize))
}

func TestSaveSquad_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", `{"player_ids":[1],"formation":"4-4-2"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetSquad_NotFound(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodGet, "/v1/teams/nobody/squad", "")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, out.Error)
}

func TestRandomSquad_ReturnsFullSquad(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodPost, "/v1/squads/random", "")
	require.Equal(t, http.StatusOK, status, "error=%+v", out.Error)

	data := out.Data.(map[string]any)
	assert.Len(t, data["player_ids"], 15)
	assert.GreaterOrEqual(t, data["budget_left"].(float64), 0.0)
}

func TestLineup_SaveAndScore(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", seededSquadBody)
	require.Equal(t, http.StatusOK, status)

	status, out := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/rounds/1/lineup", seededLineupBody)
	require.Equal(t, http.StatusOK, status, "error=%+v", out.Error)
	data := out.Data.(map[string]any)
	assert.InDelta(t, 105, data["captain_id"], 0)
	assert.Len(t, data["slots"], 15)

	status, out = doRequest(t, router, http.MethodGet, "/v1/teams/team-1/rounds/1/points", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out.Data.(map[string]any)["slots"], 15)
}

func TestLineup_RejectsCaptainOnBench(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", seededSquadBody)
	require.Equal(t, http.StatusOK, status)

	body := strings.Replace(seededLineupBody, `"captain_id":105`, `"captain_id":401`, 1)
	status, out := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/rounds/1/lineup", body)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, out.Error.reasons(), string(fantasy.ViolationCaptainNotStarter))
}

func TestLineup_BadRoundID(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodGet, "/v1/teams/team-1/rounds/abc/lineup", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidateSquads_KeepsRequestOrder(t *testing.T) {
	router := newTestRouter(t)

	body := `{"candidates":[
	  {"key":"ok","player_ids":[201,401,102,202,302,402,602,105,205,305,505,605,508,608,108],"budget_cap":100},
	  {"key":"short","player_ids":[201,401],"budget_cap":100}
	]}`
	status, out := doRequest(t, router, http.MethodPost, "/v1/squads/validate", body)
	require.Equal(t, http.StatusOK, status, "error=%+v", out.Error)

	items := out.Data.([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	second := items[1].(map[string]any)
	assert.Equal(t, "ok", first["key"])
	assert.Equal(t, true, first["valid"])
	assert.Equal(t, "short", second["key"])
	assert.Equal(t, false, second["valid"])
}

func TestCloseRound_RequiresJobToken(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rounds/1/close", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rounds/1/close", "", internalJobTokenHeader, testJobToken)
	require.Equal(t, http.StatusOK, status, "error=%+v", out.Error)
	assert.InDelta(t, 1, out.Data.(map[string]any)["round_id"], 0)

	status, out = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rounds/1/close", "", internalJobTokenHeader, testJobToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out.Data.(map[string]any)["already_closed"])
}

func TestClosedRound_RejectsLineupChanges(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/squad", seededSquadBody)
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rounds/1/close", "", internalJobTokenHeader, testJobToken)
	require.Equal(t, http.StatusOK, status)

	status, out := doRequest(t, router, http.MethodPut, "/v1/teams/team-1/rounds/1/lineup", seededLineupBody)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, out.Error.reasons(), string(fantasy.ViolationRoundClosed))
}

func TestScheduleRoundClosures_Accepted(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rounds/schedule", "", internalJobTokenHeader, testJobToken)
	assert.Equal(t, http.StatusAccepted, status)
}

func TestSyncCatalog_WithoutProvider(t *testing.T) {
	router := newTestRouter(t)

	status, out := doRequest(t, router, http.MethodPost, "/v1/internal/catalog/sync", "", internalJobTokenHeader, testJobToken)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, out.Error)
}
