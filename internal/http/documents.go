package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/document"
	"github.com/smartrw/api/internal/storage"
)

type createDocumentPayload struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Purpose string `json:"purpose"`
}

// CreateDocument menerima pengajuan surat baru.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload createDocumentPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.documents.Create(r.Context(), actor, document.CreateInput{
		Type:    payload.Type,
		Subject: payload.Subject,
		Purpose: payload.Purpose,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"document": created})
}

// ListDocuments mengembalikan pengajuan dalam lingkup aktor.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	docs, err := h.documents.List(r.Context(), actor, documentFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// GetDocument mengambil satu pengajuan.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.documents.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"document": d})
}

type updateDocumentPayload struct {
	Type    *string `json:"type,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Purpose *string `json:"purpose,omitempty"`
}

// UpdateDocument menyunting pengajuan selama masih DIAJUKAN.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
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

	var payload updateDocumentPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.documents.Update(r.Context(), actor, id, document.UpdateInput{
		Type:    payload.Type,
		Subject: payload.Subject,
		Purpose: payload.Purpose,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"document": updated})
}

type processDocumentPayload struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// ProcessDocument menggeser status pengajuan.
func (h *Handler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
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

	var payload processDocumentPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.documents.Process(r.Context(), actor, id, payload.Status, payload.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"document": updated})
}

// UploadDocumentAttachment mengunggah lampiran ke object storage dan
// menautkannya ke pengajuan.
func (h *Handler) UploadDocumentAttachment(w http.ResponseWriter, r *http.Request) {
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

	key, err := h.storeAttachment(r, "documents", id)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.documents.AttachFile(r.Context(), actor, id, key); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"attachmentKey": key})
}

// DeleteDocument membatalkan pengajuan.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
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

	if err := h.documents.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "pengajuan dibatalkan"})
}

// ExportDocuments mengunduh rekap pengajuan sebagai CSV.
func (h *Handler) ExportDocuments(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	// rakit CSV di buffer dulu supaya kegagalan (mis. 403) tidak keburu
	// membawa header attachment
	var buf bytes.Buffer
	if err := h.documents.ExportCSV(r.Context(), actor, documentFilterFromQuery(r), &buf); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="rekap-surat-%s.csv"`, time.Now().Format("2006-01-02")))
	_, _ = buf.WriteTo(w)
}

func documentFilterFromQuery(r *http.Request) document.Filter {
	return document.Filter{
		RTNumber: r.URL.Query().Get("rtNumber"),
		RWNumber: r.URL.Query().Get("rwNumber"),
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
}

// storeAttachment membaca berkas multipart dan menyimpannya ke storage.
func (h *Handler) storeAttachment(r *http.Request, prefix string, id uuid.UUID) (string, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "", fmt.Errorf("berkas tidak valid")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("kolom file wajib diisi")
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		return "", fmt.Errorf("gagal membaca berkas")
	}

	// buang komponen direktori dari nama kiriman klien agar tata letak
	// <domain>/<id>/<nama> di storage tidak bisa dipolusi
	name := path.Base(header.Filename)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", fmt.Errorf("nama berkas tidak valid")
	}
	key := fmt.Sprintf("%s/%s/%s", prefix, id.String(), name)
	err = h.storage.Upload(r.Context(), storage.UploadInput{
		Key:         key,
		Body:        body,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", fmt.Errorf("gagal menyimpan berkas")
	}
	return key, nil
}
