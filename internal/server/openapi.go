package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/bastaclub/basta/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	SQLite struct {
		Status string `json:"status"`
	} `json:"sqlite"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// codePathParams declares the {code} path parameter so the reflector
// accepts operations on /api/rooms/{code}/... paths.
type codePathParams struct {
	Code string `path:"code"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Basta API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Basta multiplayer word game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/rooms
	createRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	createRoom.SetSummary("Create room")
	createRoom.SetDescription("Creates a room and returns its code plus the host's session token.")
	createRoom.AddReqStructure(CreateRoomRequest{})
	createRoom.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createRoom)

	// POST /api/rooms/{code}/join
	joinRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/join")
	joinRoom.AddReqStructure(codePathParams{})
	joinRoom.SetSummary("Join room")
	joinRoom.SetDescription("Joins a waiting room. Returns a session token for all further calls.")
	joinRoom.AddReqStructure(JoinRoomRequest{})
	joinRoom.AddRespStructure(JoinRoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	joinRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	joinRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(joinRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.AddReqStructure(codePathParams{})
	getRoom.SetSummary("Room state")
	getRoom.SetDescription("Returns the full room snapshot. Requires Bearer token.")
	getRoom.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getRoom)

	// GET /api/rooms/{code}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/qr")
	getQR.AddReqStructure(codePathParams{})
	getQR.SetSummary("Join QR code")
	getQR.SetDescription("Renders the room's join link as a QR PNG.")
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// POST /api/rooms/{code}/leave
	leaveRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/leave")
	leaveRoom.AddReqStructure(codePathParams{})
	leaveRoom.SetSummary("Leave room")
	leaveRoom.SetDescription("Removes the caller from the room. The last player to leave destroys it. Requires Bearer token.")
	leaveRoom.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	leaveRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(leaveRoom)

	// POST /api/rooms/{code}/ready
	ready, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/ready")
	ready.AddReqStructure(codePathParams{})
	ready.SetSummary("Mark ready")
	ready.SetDescription("Marks the caller ready for the next round. Requires Bearer token.")
	ready.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	ready.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(ready)

	// POST /api/rooms/{code}/start
	start, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/start")
	start.AddReqStructure(codePathParams{})
	start.SetSummary("Start round")
	start.SetDescription("Host starts the next round: draws a letter, picks categories, starts the countdown. Requires Bearer token.")
	start.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	start.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	start.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(start)

	// POST /api/rooms/{code}/answers
	answers, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/answers")
	answers.AddReqStructure(codePathParams{})
	answers.SetSummary("Submit answers")
	answers.SetDescription("Submits or replaces the caller's answer sheet for the running round. Requires Bearer token.")
	answers.AddReqStructure(SubmitAnswersRequest{})
	answers.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	answers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(answers)

	// POST /api/rooms/{code}/stop
	stop, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/stop")
	stop.AddReqStructure(codePathParams{})
	stop.SetSummary("Call basta")
	stop.SetDescription("Stops the round after the grace countdown and triggers scoring. Rejected before the minimum round age. Requires Bearer token.")
	stop.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	stop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(stop)

	// GET /api/rooms/{code}/verdicts
	verdicts, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/verdicts")
	verdicts.AddReqStructure(codePathParams{})
	verdicts.SetSummary("Own verdicts")
	verdicts.SetDescription("Returns the caller's verdicts for the last scored round. Requires Bearer token.")
	verdicts.AddRespStructure(map[string]game.Verdict{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(verdicts)

	// POST /api/rooms/{code}/appeals
	fileAppeal, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/appeals")
	fileAppeal.AddReqStructure(codePathParams{})
	fileAppeal.SetSummary("File appeal")
	fileAppeal.SetDescription("Opens a peer vote on an appealable rejection of the caller's answer. Requires Bearer token.")
	fileAppeal.AddReqStructure(FileAppealRequest{})
	fileAppeal.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	fileAppeal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(fileAppeal)

	// POST /api/rooms/{code}/appeals/vote
	vote, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/appeals/vote")
	vote.AddReqStructure(codePathParams{})
	vote.SetSummary("Vote on appeal")
	vote.SetDescription("Casts the caller's vote on another player's appeal. Resolves at quorum. Requires Bearer token.")
	vote.AddReqStructure(AppealVoteRequest{})
	vote.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	vote.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(vote)

	// POST /api/rooms/{code}/powerups/use
	usePowerUp, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/powerups/use")
	usePowerUp.AddReqStructure(codePathParams{})
	usePowerUp.SetSummary("Use power-up")
	usePowerUp.SetDescription("Consumes one power-up from the caller's inventory. Requires Bearer token.")
	usePowerUp.AddReqStructure(UsePowerUpRequest{})
	usePowerUp.AddRespStructure(game.PowerUpOutcome{}, openapi.WithHTTPStatus(http.StatusOK))
	usePowerUp.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(usePowerUp)

	// POST /api/rooms/{code}/powerups/grant
	grant, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/powerups/grant")
	grant.AddReqStructure(codePathParams{})
	grant.SetSummary("Grant power-up")
	grant.SetDescription("Host grants a power-up to a player. Requires Bearer token.")
	grant.AddReqStructure(GrantPowerUpRequest{})
	grant.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	grant.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(grant)

	// POST /api/rooms/{code}/chat
	chat, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/chat")
	chat.AddReqStructure(codePathParams{})
	chat.SetSummary("Post chat message")
	chat.SetDescription("Appends a message to the room transcript. Requires Bearer token.")
	chat.AddReqStructure(ChatRequest{})
	chat.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	chat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(chat)

	// POST /api/rooms/{code}/penalize
	penalize, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/penalize")
	penalize.AddReqStructure(codePathParams{})
	penalize.SetSummary("Penalize player")
	penalize.SetDescription("Host subtracts penalty points from a player. Requires Bearer token.")
	penalize.AddReqStructure(PenalizeRequest{})
	penalize.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	penalize.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(penalize)

	// GET /api/rooms/{code}/events
	events, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/events")
	events.AddReqStructure(codePathParams{})
	events.SetSummary("SSE event stream")
	events.SetDescription("Server-Sent Events stream of room updates. Pass token as query parameter.")
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(events)

	// GET /api/rooms/{code}/ws
	ws, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/ws")
	ws.AddReqStructure(codePathParams{})
	ws.SetSummary("WebSocket state stream")
	ws.SetDescription("Upgrades to a WebSocket that sends a snapshot followed by room events. Pass token as query parameter.")
	ws.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(ws)

	// POST /api/admin/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	login.SetSummary("Admin login")
	login.SetDescription("Authenticate with the admin password. Sets admin_session cookie.")
	login.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/admin/logout
	logout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	logout.SetSummary("Admin logout")
	logout.SetDescription("Clears admin session and cookie.")
	logout.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(logout)

	// GET /api/admin/stats
	adminStats, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stats")
	adminStats.SetSummary("Aggregate stats")
	adminStats.SetDescription("Returns room, player and active round counts. Requires admin_session cookie.")
	adminStats.AddRespStructure(AdminStats{}, openapi.WithHTTPStatus(http.StatusOK))
	adminStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminStats)

	// GET /api/admin/rooms
	adminRooms, _ := r.NewOperationContext(http.MethodGet, "/api/admin/rooms")
	adminRooms.SetSummary("List rooms")
	adminRooms.SetDescription("Returns a summary of every live room. Requires admin_session cookie.")
	adminRooms.AddRespStructure([]game.RoomSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	adminRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminRooms)

	// GET /api/admin/rooms/{code}
	adminRoom, _ := r.NewOperationContext(http.MethodGet, "/api/admin/rooms/{code}")
	adminRoom.AddReqStructure(codePathParams{})
	adminRoom.SetSummary("Room detail")
	adminRoom.SetDescription("Returns the full snapshot of one room. Requires admin_session cookie.")
	adminRoom.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	adminRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminRoom)

	// POST /api/admin/rooms/{code}/pause
	pause, _ := r.NewOperationContext(http.MethodPost, "/api/admin/rooms/{code}/pause")
	pause.AddReqStructure(codePathParams{})
	pause.SetSummary("Pause or resume round")
	pause.SetDescription("Freezes the countdown of a running round. Requires admin_session cookie.")
	pause.AddReqStructure(AdminPauseRequest{})
	pause.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	pause.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(pause)

	// POST /api/admin/rooms/{code}/expel
	expel, _ := r.NewOperationContext(http.MethodPost, "/api/admin/rooms/{code}/expel")
	expel.AddReqStructure(codePathParams{})
	expel.SetSummary("Expel player")
	expel.SetDescription("Removes a player from a room. A running round must be paused first. Requires admin_session cookie.")
	expel.AddReqStructure(AdminExpelRequest{})
	expel.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	expel.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(expel)

	// POST /api/admin/rooms/{code}/penalize
	adminPenalize, _ := r.NewOperationContext(http.MethodPost, "/api/admin/rooms/{code}/penalize")
	adminPenalize.AddReqStructure(codePathParams{})
	adminPenalize.SetSummary("Penalize player")
	adminPenalize.SetDescription("Applies a penalty on the host's behalf. Requires admin_session cookie.")
	adminPenalize.AddReqStructure(AdminPenalizeRequest{})
	adminPenalize.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminPenalize.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(adminPenalize)

	return r.Spec
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
