package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/assistance"
)

type programPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// CreateAssistanceProgram membuat program bantuan sosial baru.
func (h *Handler) CreateAssistanceProgram(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload programPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, ok := parseDateField(w, "startDate", payload.StartDate)
	if !ok {
		return
	}
	endDate, ok := parseDateField(w, "endDate", payload.EndDate)
	if !ok {
		return
	}

	input := assistance.CreateProgramInput{
		Name:        payload.Name,
		Description: payload.Description,
		Source:      payload.Source,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	created, err := h.assistances.CreateProgram(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"program": created})
}

// ListAssistancePrograms mengembalikan daftar program bantuan.
func (h *Handler) ListAssistancePrograms(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := assistance.ProgramFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	programs, err := h.assistances.ListPrograms(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"programs": programs})
}

// GetAssistanceProgram mengambil satu program bantuan.
func (h *Handler) GetAssistanceProgram(w http.ResponseWriter, r *http.Request) {
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

	program, err := h.assistances.GetProgram(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"program": program})
}

type updateProgramPayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Source      *string `json:"source,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// UpdateAssistanceProgram menyunting program bantuan.
func (h *Handler) UpdateAssistanceProgram(w http.ResponseWriter, r *http.Request) {
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

	var payload updateProgramPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, ok := parseDateField(w, "startDate", payload.StartDate)
	if !ok {
		return
	}
	endDate, ok := parseDateField(w, "endDate", payload.EndDate)
	if !ok {
		return
	}

	input := assistance.UpdateProgramInput{
		Name:        payload.Name,
		Description: payload.Description,
		Source:      payload.Source,
		Status:      payload.Status,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	updated, err := h.assistances.UpdateProgram(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"program": updated})
}

// DeleteAssistanceProgram menghapus program bantuan.
func (h *Handler) DeleteAssistanceProgram(w http.ResponseWriter, r *http.Request) {
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

	if err := h.assistances.DeleteProgram(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "program dihapus"})
}

type addRecipientPayload struct {
	ResidentID string  `json:"residentId"`
	Note       *string `json:"note,omitempty"`
}

// AddAssistanceRecipient mendaftarkan warga ke sebuah program.
func (h *Handler) AddAssistanceRecipient(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	programID, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	var payload addRecipientPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	residentID, err := uuid.Parse(payload.ResidentID)
	if err != nil {
		WriteValidationError(w, "validasi gagal", []FieldError{
			{Field: "residentId", Message: "residentId tidak valid"},
		})
		return
	}

	recipient, err := h.assistances.AddRecipient(r.Context(), actor, programID, residentID, payload.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"recipient": recipient})
}

// ListAssistanceRecipients mengembalikan penerima sebuah program dalam
// lingkup aktor.
func (h *Handler) ListAssistanceRecipients(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	programID, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	recipients, err := h.assistances.ListRecipients(r.Context(), actor, programID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"recipients": recipients})
}

// VerifyAssistanceRecipient menandai penerima sebagai terverifikasi.
func (h *Handler) VerifyAssistanceRecipient(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathUUID(r, "recipientID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "recipientID tidak valid")
		return
	}

	recipient, err := h.assistances.VerifyRecipient(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"recipient": recipient})
}

// MarkAssistanceReceived mencatat penyaluran bantuan ke penerima.
func (h *Handler) MarkAssistanceReceived(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathUUID(r, "recipientID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "recipientID tidak valid")
		return
	}

	recipient, err := h.assistances.MarkReceived(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"recipient": recipient})
}

// RemoveAssistanceRecipient mencoret penerima dari program.
func (h *Handler) RemoveAssistanceRecipient(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathUUID(r, "recipientID")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "recipientID tidak valid")
		return
	}

	if err := h.assistances.RemoveRecipient(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "penerima dicoret"})
}

// parseDateField mengurai tanggal YYYY-MM-DD opsional; menulis error validasi
// dan mengembalikan ok=false bila formatnya salah.
func parseDateField(w http.ResponseWriter, field string, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		WriteValidationError(w, "validasi gagal", []FieldError{
			{Field: field, Message: field + " harus berformat YYYY-MM-DD"},
		})
		return nil, false
	}
	return &parsed, true
}
