package http

import (
	"net/http"

	"github.com/google/uuid"

	httpmiddleware "github.com/smartrw/api/internal/http/middleware"
)

// ListNotifications mengembalikan notifikasi milik user yang sedang login.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := h.notifications.ListOwn(r.Context(), userID, unreadOnly,
		queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// CountUnreadNotifications mengembalikan jumlah notifikasi belum dibaca.
func (h *Handler) CountUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	count, err := h.notifications.CountUnread(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkNotificationRead menandai satu notifikasi milik sendiri sebagai dibaca.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "notifikasi dibaca"})
}

// MarkAllNotificationsRead menandai seluruh notifikasi sebagai dibaca.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "semua notifikasi dibaca"})
}
