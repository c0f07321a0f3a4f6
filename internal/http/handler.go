package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/smartrw/api/internal/assistance"
	"github.com/smartrw/api/internal/complaint"
	"github.com/smartrw/api/internal/config"
	"github.com/smartrw/api/internal/document"
	"github.com/smartrw/api/internal/event"
	"github.com/smartrw/api/internal/family"
	"github.com/smartrw/api/internal/forum"
	httpmiddleware "github.com/smartrw/api/internal/http/middleware"
	"github.com/smartrw/api/internal/notification"
	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/resident"
	"github.com/smartrw/api/internal/rt"
	"github.com/smartrw/api/internal/service"
	"github.com/smartrw/api/internal/storage"
	"github.com/smartrw/api/internal/util"
)

// Handler memegang seluruh dependensi lapisan HTTP.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	residents     *resident.Service
	rts           *rt.Service
	families      *family.Service
	documents     *document.Service
	complaints    *complaint.Service
	assistances   *assistance.Service
	events        *event.Service
	forums        *forum.Service
	notifications *notification.Service
	storage       storage.Storage
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// Services mengelompokkan service domain yang dirutekan.
type Services struct {
	Auth          *service.AuthService
	Residents     *resident.Service
	RTs           *rt.Service
	Families      *family.Service
	Documents     *document.Service
	Complaints    *complaint.Service
	Assistances   *assistance.Service
	Events        *event.Service
	Forums        *forum.Service
	Notifications *notification.Service
	Storage       storage.Storage
}

// NewRouter merakit router chi lengkap dengan middleware dan seluruh rute API.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, svcs Services) http.Handler {
	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   svcs.Auth,
		residents:     svcs.Residents,
		rts:           svcs.RTs,
		families:      svcs.Families,
		documents:     svcs.Documents,
		complaints:    svcs.Complaints,
		assistances:   svcs.Assistances,
		events:        svcs.Events,
		forums:        svcs.Forums,
		notifications: svcs.Notifications,
		storage:       svcs.Storage,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/api/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/register/warga", h.RegisterWarga)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(h.authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Route("/api/auth", func(auth chi.Router) {
			auth.Get("/profile", h.Profile)
			auth.Patch("/profile", h.UpdateProfile)
			auth.With(httpmiddleware.RequireRoles(rbac.RoleAdmin, rbac.RoleRW)).
				Post("/register", h.RegisterStaff)
			auth.Post("/verify-resident", h.VerifyResident)
			auth.Post("/reject-resident", h.RejectResident)
		})

		private.Route("/api/residents", func(res chi.Router) {
			res.Post("/join-rt", h.JoinRT)
			res.Get("/", h.ListResidents)
			res.Get("/{id}", h.GetResident)
		})

		private.Route("/api/rt", func(rts chi.Router) {
			rts.Get("/", h.ListRT)
			rts.Get("/{id}", h.GetRT)
			rts.Group(func(manage chi.Router) {
				manage.Use(httpmiddleware.RequireRoles(rbac.RoleAdmin, rbac.RoleRW))
				manage.Post("/", h.CreateRT)
				manage.Patch("/{id}", h.UpdateRT)
				manage.Delete("/{id}", h.DeleteRT)
			})
		})

		private.Route("/api/families", func(fam chi.Router) {
			fam.Get("/", h.ListFamilies)
			fam.Get("/{id}", h.GetFamily)
			fam.Post("/", h.CreateFamily)
		})

		private.Route("/api/documents", func(docs chi.Router) {
			docs.Get("/", h.ListDocuments)
			docs.Get("/export", h.ExportDocuments)
			docs.Post("/", h.CreateDocument)
			docs.Get("/{id}", h.GetDocument)
			docs.Patch("/{id}", h.UpdateDocument)
			docs.Patch("/{id}/status", h.ProcessDocument)
			docs.Post("/{id}/attachment", h.UploadDocumentAttachment)
			docs.Delete("/{id}", h.DeleteDocument)
		})

		private.Route("/api/complaints", func(cmp chi.Router) {
			cmp.Get("/", h.ListComplaints)
			cmp.Get("/export", h.ExportComplaints)
			cmp.Post("/", h.CreateComplaint)
			cmp.Get("/{id}", h.GetComplaint)
			cmp.Patch("/{id}", h.UpdateComplaint)
			cmp.Patch("/{id}/respond", h.RespondComplaint)
			cmp.Post("/{id}/attachment", h.UploadComplaintAttachment)
			cmp.Delete("/{id}", h.DeleteComplaint)
		})

		private.Route("/api/events", func(ev chi.Router) {
			ev.Get("/", h.ListEvents)
			ev.Post("/", h.CreateEvent)
			ev.Get("/{id}", h.GetEvent)
			ev.Patch("/{id}", h.UpdateEvent)
			ev.Delete("/{id}", h.DeleteEvent)
			ev.Post("/{id}/rsvp", h.RSVPEvent)
			ev.Get("/{id}/participants", h.ListEventParticipants)
		})

		private.Route("/api/social-assistance", func(sa chi.Router) {
			sa.Get("/", h.ListAssistancePrograms)
			sa.Post("/", h.CreateAssistanceProgram)
			sa.Get("/{id}", h.GetAssistanceProgram)
			sa.Patch("/{id}", h.UpdateAssistanceProgram)
			sa.Delete("/{id}", h.DeleteAssistanceProgram)
			sa.Get("/{id}/recipients", h.ListAssistanceRecipients)
			sa.Post("/{id}/recipients", h.AddAssistanceRecipient)
			sa.Patch("/recipients/{recipientID}/verify", h.VerifyAssistanceRecipient)
			sa.Patch("/recipients/{recipientID}/receive", h.MarkAssistanceReceived)
			sa.Delete("/recipients/{recipientID}", h.RemoveAssistanceRecipient)
		})

		private.Route("/api/forum", func(f chi.Router) {
			f.Get("/", h.ListForumPosts)
			f.Post("/", h.CreateForumPost)
			f.Get("/{id}", h.GetForumPost)
			f.Patch("/{id}", h.UpdateForumPost)
			f.Patch("/{id}/flags", h.SetForumPostFlags)
			f.Delete("/{id}", h.DeleteForumPost)
		})

		private.Route("/api/notifications", func(n chi.Router) {
			n.Get("/", h.ListNotifications)
			n.Get("/unread-count", h.CountUnreadNotifications)
			n.Patch("/{id}/read", h.MarkNotificationRead)
			n.Patch("/read-all", h.MarkAllNotificationsRead)
		})

		private.Get("/api/uploads/*", h.ServeUpload)
	})

	return r
}

// Health menjawab status sederhana.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready memeriksa koneksi Postgres dan Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "database tidak siap")
		return
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "redis tidak siap")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// actor membangun konteks aktor RBAC dari claim request.
func (h *Handler) actor(r *http.Request) (rbac.Actor, error) {
	subject := httpmiddleware.GetSubject(r.Context())
	userID, err := uuid.Parse(subject)
	if err != nil {
		return rbac.Actor{}, errors.New("subject tidak valid")
	}
	return h.residents.ActorFor(r.Context(), userID, httpmiddleware.GetRole(r.Context())), nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("JSON tidak valid")
	}
	return nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// writeServiceError memetakan error sentinel domain ke status HTTP + envelope.
// Kegagalan validasi kolom dirender sebagai daftar error per kolom.
func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErr *util.FieldError
	switch {
	case errors.Is(err, rbac.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &fieldErr):
		WriteValidationError(w, "validasi gagal", []FieldError{
			{Field: fieldErr.Field, Message: fieldErr.Message},
		})
	case isNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error())
	case isConflict(err):
		WriteError(w, http.StatusConflict, err.Error())
	case isBadRequest(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "terjadi kesalahan internal")
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		resident.ErrNotFound, rt.ErrNotFound, family.ErrNotFound,
		document.ErrNotFound, complaint.ErrNotFound, assistance.ErrNotFound,
		assistance.ErrRecipientNotFound, event.ErrNotFound, forum.ErrNotFound,
		notification.ErrNotFound, storage.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflict(err error) bool {
	for _, target := range []error{
		resident.ErrAlreadyVerified, resident.ErrDuplicateNIK,
		rt.ErrDuplicateNumber, family.ErrDuplicateKK,
		assistance.ErrDuplicateRecipient, service.ErrEmailTaken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isBadRequest(err error) bool {
	for _, target := range []error{
		resident.ErrNoRTSelected, resident.ErrRTUnavailable, rt.ErrInactive,
		document.ErrInvalidType, document.ErrInvalidTransition, document.ErrReasonRequired,
		complaint.ErrInvalidCategory, complaint.ErrInvalidTransition,
		assistance.ErrInvalidStatus, assistance.ErrNotVerified,
		event.ErrInvalidRSVP, event.ErrEventPassed,
		forum.ErrInvalidCategory, forum.ErrLocked,
		service.ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
