package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dsc_team/internal/app/service"
	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(ms *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

func (h *MemberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listMembers)               // GET /api/team-members
	r.Post("/", h.createMember)             // POST /api/team-members
	r.Get("/{memberID}", h.getMember)       // GET /api/team-members/{id}
	r.Put("/{memberID}", h.updateMember)    // PUT /api/team-members/{id}
	r.Delete("/{memberID}", h.deleteMember) // DELETE /api/team-members/{id}
}

type DeleteMemberResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (h *MemberHandler) createMember(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMemberRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithServiceError(w, err, "Error creating team member")
		return
	}

	member, err := h.memberService.CreateMember(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Error creating team member")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.ListMembers(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Error fetching team members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	common.RespondWithJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) getMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	member, err := h.memberService.GetMember(r.Context(), memberID)
	if err != nil {
		respondWithServiceError(w, err, "Error fetching team member")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) updateMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	var patch model.MemberPatch
	if err := decodeBody(r, &patch); err != nil {
		respondWithServiceError(w, err, "Error updating team member")
		return
	}

	member, err := h.memberService.UpdateMember(r.Context(), memberID, patch)
	if err != nil {
		respondWithServiceError(w, err, "Error updating team member")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) deleteMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	deleted, err := h.memberService.DeleteMember(r.Context(), memberID)
	if err != nil {
		respondWithServiceError(w, err, "Error deleting team member")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, DeleteMemberResponse{
		Message: "Team member deleted successfully",
		ID:      deleted,
	})
}

// decodeBody rejects malformed JSON, wrong primitive types, a null body and
// a missing body as validation failures.
func decodeBody(r *http.Request, dst interface{}) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return common.Errorf("request body required: %w", common.ErrValidation)
		}
		return common.Errorf("invalid JSON body: %v: %w", err, common.ErrValidation)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return common.Errorf("body: expected object, got null: %w", common.ErrValidation)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return common.Errorf("%s: expected %s, got %s: %w", field, typeErr.Type, typeErr.Value, common.ErrValidation)
		}
		return common.Errorf("invalid JSON body: %v: %w", err, common.ErrValidation)
	}
	return nil
}

// respondWithServiceError maps err to its status. Only unclassified failures
// carry the operation prefix, followed by the underlying message.
func respondWithServiceError(w http.ResponseWriter, err error, prefix string) {
	status := common.HTTPStatusFromError(err)
	switch status {
	case http.StatusNotFound:
		common.RespondWithError(w, status, "Team member not found")
	case http.StatusBadRequest:
		common.RespondWithError(w, status, "No changes made to team member")
	case http.StatusInternalServerError:
		common.RespondWithError(w, status, prefix+": "+err.Error())
	default:
		common.RespondWithError(w, status, err.Error())
	}
}
