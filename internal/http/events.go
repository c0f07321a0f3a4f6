package http

import (
	"net/http"
	"time"

	"github.com/smartrw/api/internal/event"
)

type createEventPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	RTNumber    string  `json:"rtNumber"`
	RWNumber    string  `json:"rwNumber"`
	StartAt     string  `json:"startAt"`
	EndAt       *string `json:"endAt,omitempty"`
}

// CreateEvent menambah kegiatan baru; RT otomatis terkunci ke lingkupnya.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload createEventPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	startAt, err := time.Parse(time.RFC3339, payload.StartAt)
	if err != nil {
		WriteValidationError(w, "validasi gagal", []FieldError{
			{Field: "startAt", Message: "startAt harus berformat RFC3339"},
		})
		return
	}

	input := event.CreateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		RTNumber:    payload.RTNumber,
		RWNumber:    payload.RWNumber,
		StartAt:     startAt,
	}
	if payload.EndAt != nil && *payload.EndAt != "" {
		endAt, err := time.Parse(time.RFC3339, *payload.EndAt)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "endAt", Message: "endAt harus berformat RFC3339"},
			})
			return
		}
		input.EndAt = &endAt
	}

	created, err := h.events.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"event": created})
}

// ListEvents mengembalikan kegiatan dalam lingkup aktor.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := event.Filter{
		RTNumber: r.URL.Query().Get("rtNumber"),
		RWNumber: r.URL.Query().Get("rwNumber"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if r.URL.Query().Get("upcoming") == "true" {
		now := time.Now().UTC()
		filter.After = &now
	}

	events, err := h.events.List(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// GetEvent mengambil satu kegiatan.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
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

	ev, err := h.events.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"event": ev})
}

type updateEventPayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartAt     *string `json:"startAt,omitempty"`
	EndAt       *string `json:"endAt,omitempty"`
}

// UpdateEvent menyunting kegiatan dalam lingkup pengelola.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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

	var payload updateEventPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := event.UpdateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
	}
	if payload.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *payload.StartAt)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "startAt", Message: "startAt harus berformat RFC3339"},
			})
			return
		}
		input.StartAt = &startAt
	}
	if payload.EndAt != nil {
		endAt, err := time.Parse(time.RFC3339, *payload.EndAt)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "endAt", Message: "endAt harus berformat RFC3339"},
			})
			return
		}
		input.EndAt = &endAt
	}

	updated, err := h.events.Update(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"event": updated})
}

// DeleteEvent membatalkan kegiatan.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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

	if err := h.events.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "kegiatan dibatalkan"})
}

type rsvpPayload struct {
	Status string `json:"status"`
}

// RSVPEvent mencatat konfirmasi kehadiran warga; idempoten per user.
func (h *Handler) RSVPEvent(w http.ResponseWriter, r *http.Request) {
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

	var payload rsvpPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	participant, err := h.events.RSVP(r.Context(), actor, id, payload.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"participant": participant})
}

// ListEventParticipants mengembalikan daftar konfirmasi kehadiran.
func (h *Handler) ListEventParticipants(w http.ResponseWriter, r *http.Request) {
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

	participants, err := h.events.Participants(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"participants": participants})
}
