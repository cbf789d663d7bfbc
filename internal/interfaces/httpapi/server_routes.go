package httpapi

import "net/http"

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, nameRouteSpan(pattern, h))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	handle(mux, "GET /{$}", handler.Index)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	handle(mux, "GET /openapi.yaml", handler.OpenAPI)
	handle(mux, "GET /docs", handler.SwaggerUI)
	handle(mux, "GET /docs/", handler.SwaggerUI)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /teams", handler.ListTeams)
	handle(mux, "POST /teams", handler.CreateTeam)
	handle(mux, "GET /teams/{slug}", handler.GetTeam)
	handle(mux, "PATCH /teams/{slug}", handler.UpdateTeam)
	handle(mux, "DELETE /teams/{slug}", handler.DeleteTeam)
}

// Games have no PATCH route.
func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /games", handler.ListGames)
	handle(mux, "POST /games", handler.CreateGame)
	handle(mux, "GET /games/{id}", handler.GetGame)
	handle(mux, "DELETE /games/{id}", handler.DeleteGame)
}
