package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, deps Deps) {
	manager := deps.Manager
	adminSess := newAdminSessions()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Basta API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(deps.Logger, deps.Health))

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", handleCreateRoom(manager))

		r.Route("/{code}", func(r chi.Router) {
			// Open endpoints: joining and share material.
			r.Post("/join", handleJoinRoom(manager))
			r.Get("/qr", handleRoomQR(manager, deps.BaseURL))
			r.Get("/events", handleEvents(manager, deps.Broker))
			r.Get("/ws", handleWS(deps.Logger, manager, deps.Broker))

			// Everything else needs a session token.
			r.Group(func(r chi.Router) {
				r.Use(playerAuthMiddleware(manager))
				r.Get("/", handleRoomState(manager))
				r.Post("/leave", handleLeaveRoom(manager))
				r.Post("/ready", handleReady(manager))
				r.Post("/start", handleStartRound(manager))
				r.Post("/answers", handleSubmitAnswers(manager))
				r.Post("/stop", handleStop(manager))
				r.Get("/verdicts", handleVerdicts(manager))
				r.Post("/appeals", handleFileAppeal(manager))
				r.Post("/appeals/vote", handleAppealVote(manager))
				r.Post("/powerups/use", handleUsePowerUp(manager))
				r.Post("/powerups/grant", handleGrantPowerUp(manager))
				r.Post("/chat", handleChat(manager))
				r.Post("/penalize", handlePenalize(manager))
			})
		})
	})

	r.Post("/api/admin/login", handleAdminLogin(deps.AdminPassword, adminSess))
	r.Post("/api/admin/logout", handleAdminLogout(adminSess))

	r.With(adminAuthMiddleware(adminSess)).Get("/api/admin/stats", handleAdminStats(manager))

	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(adminAuthMiddleware(adminSess))
		r.Get("/", handleAdminListRooms(manager))
		r.Get("/{code}", handleAdminRoomDetail(manager))
		r.Post("/{code}/pause", handleAdminPause(manager))
		r.Post("/{code}/expel", handleAdminExpel(manager))
		r.Post("/{code}/penalize", handleAdminPenalize(manager))
	})
}
