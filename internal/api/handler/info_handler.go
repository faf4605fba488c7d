package handler

import (
	"context"
	"net/http"
	"time"

	"dsc_team/internal/app/service"
	"dsc_team/internal/common"

	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 5 * time.Second

type InfoHandler struct {
	memberService *service.MemberService
	clubService   *service.ClubService
}

func NewInfoHandler(ms *service.MemberService, cs *service.ClubService) *InfoHandler {
	return &InfoHandler{memberService: ms, clubService: cs}
}

type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthResponse is always served with 200; an unreachable store is
// reported in the body.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RegisterRoutes mounts the endpoints that live under /api.
func (h *InfoHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/club-info", h.clubInfo)
}

func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, RootResponse{
		Message: "DSC Team Management API",
		Status:  "running",
	})
}

func (h *InfoHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.memberService.CheckStore(ctx); err != nil {
		common.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Database: "connected"})
}

func (h *InfoHandler) clubInfo(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, h.clubService.ClubInfo())
}
