package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/Orka-kun/Users-API/internal/domain"
)

type userResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Status    string  `json:"status"`
	LastLogin *string `json:"last_login"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Status:    string(u.Status),
		LastLogin: formatMillisPtr(u.LastLoginAt),
	}
}

func (a *api) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.usersSvc.ListUsers(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	WriteJSON(w, http.StatusOK, out)
}

type bulkRequest struct {
	UserIDs []string `json:"userIds"`
}

func (a *api) handleUsersBlock(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := a.decodeBulk(w, r)
	if !ok {
		return
	}

	if err := a.usersSvc.BlockUsers(r.Context(), actor.ID, req.UserIDs); err != nil {
		if errors.Is(err, domain.ErrSelfAction) {
			WriteError(w, http.StatusForbidden, "self_action_forbidden", "cannot block yourself")
			return
		}
		WriteDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "users blocked")
}

func (a *api) handleUsersUnblock(w http.ResponseWriter, r *http.Request) {
	_, req, ok := a.decodeBulk(w, r)
	if !ok {
		return
	}

	if err := a.usersSvc.UnblockUsers(r.Context(), req.UserIDs); err != nil {
		WriteDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "users unblocked")
}

func (a *api) handleUsersDelete(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := a.decodeBulk(w, r)
	if !ok {
		return
	}

	if err := a.usersSvc.DeleteUsers(r.Context(), actor.ID, req.UserIDs); err != nil {
		if errors.Is(err, domain.ErrSelfAction) {
			WriteError(w, http.StatusForbidden, "self_action_forbidden", "cannot delete yourself")
			return
		}
		WriteDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "users deleted")
}

func (a *api) decodeBulk(w http.ResponseWriter, r *http.Request) (domain.User, bulkRequest, bool) {
	actor, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return domain.User{}, bulkRequest{}, false
	}

	var req bulkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return domain.User{}, bulkRequest{}, false
	}

	return actor, req, true
}

func formatMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func formatMillisPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	out := formatMillis(*t)
	return &out
}
