package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/stadtaev/tennisfinals/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type groupPath struct {
	Group string `path:"group" description:"Group name, e.g. A or Group A."`
}

type playerPath struct {
	Name string `path:"name"`
}

type updatePlayerInput struct {
	playerPath
	UpdatePlayerRequest
}

type archivePath struct {
	ID string `path:"id" description:"Tournament id."`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "Tennis Finals API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Round-robin groups and a seeded knockout for a club tennis tournament.")

	op := func(method, path, summary, description string, req any, resps ...resp) {
		oc, _ := r.NewOperationContext(method, path)
		oc.SetSummary(summary)
		oc.SetDescription(description)
		if req != nil {
			oc.AddReqStructure(req)
		}
		for _, rs := range resps {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(rs.status)}
			if rs.contentType != "" {
				opts = append(opts, openapi.WithContentType(rs.contentType))
			}
			oc.AddRespStructure(rs.body, opts...)
		}
		_ = r.AddOperation(oc)
	}
	errResp := func(status int) resp { return resp{status: status, body: ErrorResponse{}} }
	ok := func(body any) resp { return resp{status: http.StatusOK, body: body} }

	op(http.MethodGet, "/healthz", "Health check",
		"Returns the health status of backend dependencies.", nil,
		ok(map[string]health.Result{}),
		resp{status: http.StatusServiceUnavailable, body: map[string]health.Result{}})

	// Tournament
	op(http.MethodGet, "/api/tournament", "Get tournament",
		"Returns the current tournament: phase, groups with standings and playoff fixtures.", nil,
		ok(TournamentResponse{}), errResp(http.StatusNotFound))
	op(http.MethodPost, "/api/tournament", "Create tournament",
		"Starts a new tournament from named roster players or the top of the roster by rating. Requires admin_session cookie.",
		CreateTournamentRequest{},
		resp{status: http.StatusCreated, body: TournamentResponse{}},
		errResp(http.StatusBadRequest), errResp(http.StatusNotFound),
		errResp(http.StatusConflict), errResp(http.StatusUnauthorized))
	op(http.MethodGet, "/api/tournament/schedule", "Get schedule",
		"Lists group and playoff fixtures by time slot and court.", nil,
		ok(ScheduleResponse{}), errResp(http.StatusNotFound))
	op(http.MethodGet, "/api/tournament/standings/{group}", "Get group standings",
		"Ranks a group by wins, game difference, games won, then head-to-head.", groupPath{},
		ok(StandingsResponse{}), errResp(http.StatusNotFound))
	op(http.MethodGet, "/api/tournament/results", "Get final results",
		"Returns champion and runner-up once the final is played; third and fourth once the third-place match is played.", nil,
		ok(PodiumResponse{}), errResp(http.StatusNotFound), errResp(http.StatusConflict))
	op(http.MethodGet, "/api/tournament/events", "SSE event stream",
		"Server-Sent Events for tournament_created, result_recorded, playoffs_started, finals_scheduled and tournament_completed.", nil,
		resp{status: http.StatusOK, contentType: "text/event-stream"})
	op(http.MethodPost, "/api/tournament/results/group", "Record group result",
		"Records or edits a group match result. Requires admin_session cookie.",
		GroupResultRequest{},
		ok(TournamentResponse{}), errResp(http.StatusBadRequest), errResp(http.StatusNotFound),
		errResp(http.StatusUnauthorized))
	op(http.MethodPost, "/api/tournament/playoffs", "Begin playoffs",
		"Seeds the semifinals from the final group standings. Requires admin_session cookie.", nil,
		ok(TournamentResponse{}), errResp(http.StatusNotFound), errResp(http.StatusConflict),
		errResp(http.StatusUnauthorized))
	op(http.MethodPost, "/api/tournament/results/playoff", "Record playoff result",
		"Records or edits a semifinal, third-place or final result. Requires admin_session cookie.",
		PlayoffResultRequest{},
		ok(TournamentResponse{}), errResp(http.StatusBadRequest), errResp(http.StatusNotFound),
		errResp(http.StatusConflict), errResp(http.StatusUnauthorized))

	// Roster
	op(http.MethodGet, "/api/players", "List players",
		"Returns the roster by rating, highest first.", nil,
		ok([]PlayerResponse{}))
	op(http.MethodPost, "/api/players", "Register player",
		"Adds a player to the roster with a starting rating of 1000. Requires admin_session cookie.",
		RegisterPlayerRequest{},
		resp{status: http.StatusCreated, body: PlayerResponse{}},
		errResp(http.StatusBadRequest), errResp(http.StatusConflict), errResp(http.StatusUnauthorized))
	op(http.MethodGet, "/api/players/{name}", "Get player",
		"Returns a roster entry with total matches and win rate.", playerPath{},
		ok(PlayerResponse{}), errResp(http.StatusNotFound))
	op(http.MethodPut, "/api/players/{name}", "Update player",
		"Changes a player's level or rating. Requires admin_session cookie.", updatePlayerInput{},
		ok(PlayerResponse{}), errResp(http.StatusBadRequest), errResp(http.StatusNotFound),
		errResp(http.StatusUnauthorized))
	op(http.MethodDelete, "/api/players/{name}", "Delete player",
		"Removes a player from the roster. Requires admin_session cookie.", playerPath{},
		ok(StatusResponse{}), errResp(http.StatusNotFound), errResp(http.StatusUnauthorized))

	// Archive
	op(http.MethodGet, "/api/archive/{id}", "Get archived tournament",
		"Returns the stored record of a completed tournament.", archivePath{},
		ok(ArchiveRecord{}), errResp(http.StatusNotFound))

	// Admin
	op(http.MethodPost, "/api/admin/login", "Admin login",
		"Authenticates an admin and sets the admin_session cookie.", AdminLoginRequest{},
		ok(AdminMeResponse{}), errResp(http.StatusBadRequest), errResp(http.StatusUnauthorized))
	op(http.MethodPost, "/api/admin/logout", "Admin logout",
		"Ends the admin session and clears the cookie.", nil,
		ok(StatusResponse{}))
	op(http.MethodGet, "/api/admin/me", "Current admin",
		"Returns the admin bound to the admin_session cookie.", nil,
		ok(AdminMeResponse{}), errResp(http.StatusUnauthorized))

	return r.Spec
}

type resp struct {
	status      int
	body        any
	contentType string
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
