package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/smartrw/api/internal/complaint"
)

type createComplaintPayload struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateComplaint menerima pengaduan baru dari warga.
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload createComplaintPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.complaints.Create(r.Context(), actor, complaint.CreateInput{
		Category:    payload.Category,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"complaint": created})
}

// ListComplaints mengembalikan pengaduan dalam lingkup aktor.
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	complaints, err := h.complaints.List(r.Context(), actor, complaintFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaints": complaints})
}

// ExportComplaints mengunduh rekap pengaduan sebagai CSV.
func (h *Handler) ExportComplaints(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	// rakit CSV di buffer dulu supaya kegagalan (mis. 403) tidak keburu
	// membawa header attachment
	var buf bytes.Buffer
	if err := h.complaints.ExportCSV(r.Context(), actor, complaintFilterFromQuery(r), &buf); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="rekap-pengaduan-%s.csv"`, time.Now().Format("2006-01-02")))
	_, _ = buf.WriteTo(w)
}

func complaintFilterFromQuery(r *http.Request) complaint.Filter {
	return complaint.Filter{
		RTNumber: r.URL.Query().Get("rtNumber"),
		RWNumber: r.URL.Query().Get("rwNumber"),
		Status:   r.URL.Query().Get("status"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
}

// GetComplaint mengambil satu pengaduan.
func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.complaints.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaint": c})
}

type updateComplaintPayload struct {
	Category    *string `json:"category,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateComplaint menyunting pengaduan selama masih DITERIMA.
func (h *Handler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
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

	var payload updateComplaintPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.complaints.Update(r.Context(), actor, id, complaint.UpdateInput{
		Category:    payload.Category,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaint": updated})
}

type respondComplaintPayload struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// RespondComplaint menanggapi pengaduan dan menggeser statusnya.
func (h *Handler) RespondComplaint(w http.ResponseWriter, r *http.Request) {
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

	var payload respondComplaintPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.complaints.Respond(r.Context(), actor, id, payload.Status, payload.Response)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaint": updated})
}

// UploadComplaintAttachment mengunggah bukti foto pengaduan.
func (h *Handler) UploadComplaintAttachment(w http.ResponseWriter, r *http.Request) {
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

	key, err := h.storeAttachment(r, "complaints", id)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.complaints.AttachFile(r.Context(), actor, id, key); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"attachmentKey": key})
}

// DeleteComplaint menghapus pengaduan.
func (h *Handler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
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

	if err := h.complaints.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "pengaduan dihapus"})
}
