package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{playerID}/batting", handler.GetPlayerBattingStats)
	mux.HandleFunc("GET /v1/players/{playerID}/bowling", handler.GetPlayerBowlingStats)
	mux.HandleFunc("GET /v1/players/{playerID}/summary", handler.GetPlayerSummary)
	mux.HandleFunc("GET /v1/players/{playerID}/form", handler.GetPlayerForm)
	mux.HandleFunc("GET /v1/teams/{teamID}/performance", handler.GetTeamPerformance)
	mux.HandleFunc("GET /v1/analytics/collapses/{matchID}", handler.GetMatchCollapses)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/ingestions", handler.RunIngestion)
}
