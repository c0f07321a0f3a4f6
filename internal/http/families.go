package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/family"
)

type createFamilyPayload struct {
	KKNumber       string  `json:"kkNumber"`
	HeadResidentID *string `json:"headResidentId,omitempty"`
	RTNumber       string  `json:"rtNumber"`
	RWNumber       string  `json:"rwNumber"`
	Address        *string `json:"address,omitempty"`
}

// CreateFamily mendaftarkan kartu keluarga baru.
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload createFamilyPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := family.CreateInput{
		KKNumber: payload.KKNumber,
		RTNumber: payload.RTNumber,
		RWNumber: payload.RWNumber,
		Address:  payload.Address,
	}
	if payload.HeadResidentID != nil {
		headID, err := uuid.Parse(*payload.HeadResidentID)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "headResidentId", Message: "headResidentId tidak valid"},
			})
			return
		}
		input.HeadResidentID = &headID
	}

	created, err := h.families.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"family": created})
}

// ListFamilies mengembalikan kartu keluarga dalam lingkup aktor.
func (h *Handler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := family.Filter{
		RTNumber: r.URL.Query().Get("rtNumber"),
		RWNumber: r.URL.Query().Get("rwNumber"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	families, err := h.families.List(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"families": families})
}

// GetFamily mengambil satu kartu keluarga.
func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.families.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"family": f})
}
