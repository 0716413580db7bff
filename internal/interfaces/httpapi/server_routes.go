package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/clubs", handler.ListClubs)
}

func registerSquadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/squad", handler.GetSquad)
	mux.HandleFunc("PUT /v1/teams/{teamID}/squad", handler.SaveSquad)
	mux.HandleFunc("POST /v1/teams/{teamID}/squad/preview", handler.PreviewSquad)
	mux.HandleFunc("GET /v1/teams/{teamID}/transfers", handler.ListTransfers)
	mux.HandleFunc("POST /v1/teams/{teamID}/transfers", handler.CreateTransfer)
	mux.HandleFunc("POST /v1/squads/validate", handler.ValidateSquads)
	mux.HandleFunc("POST /v1/squads/random", handler.RandomSquad)
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/rounds/{roundID}/lineup", handler.GetLineup)
	mux.HandleFunc("PUT /v1/teams/{teamID}/rounds/{roundID}/lineup", handler.SaveLineup)
	mux.HandleFunc("GET /v1/teams/{teamID}/rounds/{roundID}/points", handler.GetRoundPoints)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/catalog/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncCatalog)))
	mux.Handle("POST /v1/internal/jobs/rounds/{roundID}/close", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CloseRound)))
	mux.Handle("POST /v1/internal/jobs/rounds/schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScheduleRoundClosures)))
}
