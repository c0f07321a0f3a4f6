package http

import (
	"net/http"

	"github.com/google/uuid"

	httpmiddleware "github.com/smartrw/api/internal/http/middleware"
	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/resident"
)

type joinRTPayload struct {
	RTNumber string `json:"rtNumber"`
	RWNumber string `json:"rwNumber"`
}

// JoinRT menetapkan RT pilihan warga yang sedang login.
func (h *Handler) JoinRT(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	var payload joinRTPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.residents.JoinRT(r.Context(), userID, payload.RTNumber, payload.RWNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"resident": res})
}

// ListResidents mengembalikan daftar warga dalam lingkup aktor.
func (h *Handler) ListResidents(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := resident.Filter{
		RTNumber: r.URL.Query().Get("rtNumber"),
		RWNumber: r.URL.Query().Get("rwNumber"),
		Search:   r.URL.Query().Get("search"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("verified"); raw != "" {
		verified := raw == "true"
		filter.Verified = &verified
	}

	residents, err := h.residents.List(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"residents": residents})
}

// GetResident mengambil satu profil warga dengan pemeriksaan lingkup.
func (h *Handler) GetResident(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	res, err := h.residents.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	scope := rbac.Resource{Kind: rbac.KindResident, OwnerID: res.UserID}
	if res.RTNumber != nil {
		scope.RTNumber = *res.RTNumber
	}
	if res.RWNumber != nil {
		scope.RWNumber = *res.RWNumber
	}
	if !rbac.CanPerform(actor, scope, rbac.ActionView) {
		WriteError(w, http.StatusForbidden, rbac.ErrForbidden.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"resident":          res,
		"profileCompletion": resident.CompletionPercentage(res),
	})
}
