package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/rt"
)

type createRTPayload struct {
	Number      string  `json:"number"`
	RWNumber    string  `json:"rwNumber"`
	Chairperson string  `json:"chairperson"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	ChairUserID *string `json:"chairUserId,omitempty"`
}

// CreateRT menambah RT baru ke direktori; rute dibatasi ke ADMIN/RW.
func (h *Handler) CreateRT(w http.ResponseWriter, r *http.Request) {
	var payload createRTPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := rt.CreateInput{
		Number:      payload.Number,
		RWNumber:    payload.RWNumber,
		Chairperson: payload.Chairperson,
		Phone:       payload.Phone,
		Address:     payload.Address,
	}
	if payload.ChairUserID != nil {
		id, err := uuid.Parse(*payload.ChairUserID)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "chairUserId", Message: "chairUserId tidak valid"},
			})
			return
		}
		input.ChairUserID = &id
	}

	created, err := h.rts.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"rt": created})
}

// ListRT mengembalikan direktori RT; warga memakainya untuk alur pilih-RT.
func (h *Handler) ListRT(w http.ResponseWriter, r *http.Request) {
	filter := rt.Filter{
		RWNumber:   r.URL.Query().Get("rwNumber"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	}

	rts, err := h.rts.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"rts": rts})
}

// GetRT mengambil satu RT.
func (h *Handler) GetRT(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	record, err := h.rts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"rt": record})
}

type updateRTPayload struct {
	Chairperson *string `json:"chairperson,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Active      *bool   `json:"isActive,omitempty"`
	ChairUserID *string `json:"chairUserId,omitempty"`
}

// UpdateRT menerapkan perubahan parsial; rute dibatasi ke ADMIN/RW.
func (h *Handler) UpdateRT(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	var payload updateRTPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := rt.UpdateInput{
		ID:          id,
		Chairperson: payload.Chairperson,
		Phone:       payload.Phone,
		Address:     payload.Address,
		Active:      payload.Active,
	}
	if payload.ChairUserID != nil {
		chairID, err := uuid.Parse(*payload.ChairUserID)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "chairUserId", Message: "chairUserId tidak valid"},
			})
			return
		}
		input.ChairUserID = &chairID
	}

	updated, err := h.rts.Update(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"rt": updated})
}

// DeleteRT menghapus RT; rute dibatasi ke ADMIN/RW.
func (h *Handler) DeleteRT(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	if err := h.rts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "RT dihapus"})
}
