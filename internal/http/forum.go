package http

import (
	"net/http"

	"github.com/smartrw/api/internal/forum"
)

type createPostPayload struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// CreateForumPost membuat post forum baru; kategori PENGUMUMAN dibatasi
// ke pengurus dan ditolak, bukan diturunkan diam-diam.
func (h *Handler) CreateForumPost(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload createPostPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.forums.Create(r.Context(), actor, forum.CreateInput{
		Category: payload.Category,
		Title:    payload.Title,
		Content:  payload.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"post": created})
}

// ListForumPosts mengembalikan daftar post; yang dipin tampil lebih dulu.
func (h *Handler) ListForumPosts(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := forum.Filter{
		Category: r.URL.Query().Get("category"),
		RTNumber: r.URL.Query().Get("rtNumber"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("pinned"); raw != "" {
		pinned := raw == "true"
		filter.Pinned = &pinned
	}

	posts, err := h.forums.List(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// GetForumPost mengambil satu post.
func (h *Handler) GetForumPost(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.forums.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"post": post})
}

type updatePostPayload struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// UpdateForumPost menyunting post; penulis diblokir bila post terkunci.
func (h *Handler) UpdateForumPost(w http.ResponseWriter, r *http.Request) {
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

	var payload updatePostPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.forums.Update(r.Context(), actor, id, forum.UpdateInput{
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"post": updated})
}

type postFlagsPayload struct {
	Pinned bool `json:"isPinned"`
	Locked bool `json:"isLocked"`
}

// SetForumPostFlags mengatur pin dan kunci post; khusus pengurus.
func (h *Handler) SetForumPostFlags(w http.ResponseWriter, r *http.Request) {
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

	var payload postFlagsPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.forums.SetFlags(r.Context(), actor, id, payload.Pinned, payload.Locked)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"post": updated})
}

// DeleteForumPost menghapus post; penulis atau moderasi pengurus.
func (h *Handler) DeleteForumPost(w http.ResponseWriter, r *http.Request) {
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

	if err := h.forums.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "post dihapus"})
}
