package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ServeUpload memproxikan objek dari storage ke klien. Kunci diambil dari
// sisa path setelah /api/uploads/.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		WriteError(w, http.StatusBadRequest, "kunci objek kosong")
		return
	}

	obj, err := h.storage.Open(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	_, _ = io.Copy(w, obj.Body)
}
