package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	httpmiddleware "github.com/smartrw/api/internal/http/middleware"
	"github.com/smartrw/api/internal/resident"
	"github.com/smartrw/api/internal/service"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login mengautentikasi user dengan email dan kata sandi.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var fields []FieldError
	if strings.TrimSpace(payload.Email) == "" {
		fields = append(fields, FieldError{Field: "email", Message: "email wajib diisi"})
	}
	if strings.TrimSpace(payload.Password) == "" {
		fields = append(fields, FieldError{Field: "password", Message: "kata sandi wajib diisi"})
	}
	if len(fields) > 0 {
		WriteValidationError(w, "validasi gagal", fields)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeSession(w, result)
}

type registerWargaPayload struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	NIK            *string `json:"nik,omitempty"`
	KK             *string `json:"noKK,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	BirthPlace     *string `json:"birthPlace,omitempty"`
	BirthDate      *string `json:"birthDate,omitempty"`
	Address        *string `json:"address,omitempty"`
	DomicileStatus *string `json:"domicileStatus,omitempty"`
}

// RegisterWarga menangani pendaftaran mandiri warga.
func (h *Handler) RegisterWarga(w http.ResponseWriter, r *http.Request) {
	var payload registerWargaPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.RegisterWargaInput{
		Name:           payload.Name,
		Email:          payload.Email,
		Password:       payload.Password,
		NIK:            payload.NIK,
		KK:             payload.KK,
		Gender:         payload.Gender,
		BirthPlace:     payload.BirthPlace,
		Address:        payload.Address,
		DomicileStatus: payload.DomicileStatus,
	}
	if payload.BirthDate != nil && *payload.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", *payload.BirthDate)
		if err != nil {
			WriteValidationError(w, "validasi gagal", []FieldError{
				{Field: "birthDate", Message: "format tanggal lahir harus YYYY-MM-DD"},
			})
			return
		}
		input.BirthDate = &parsed
	}

	result, err := h.authService.RegisterWarga(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.writeSessionStatus(w, http.StatusCreated, result)
}

type registerStaffPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegisterStaff membuat akun pengurus; rute sudah dibatasi ke ADMIN/RW.
func (h *Handler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var payload registerStaffPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.authService.RegisterStaff(r.Context(), payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": profile})
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh merotasi refresh token dan menerbitkan sesi baru.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.RefreshToken) == "" {
		WriteError(w, http.StatusUnauthorized, "refresh token tidak ditemukan")
		return
	}

	result, err := h.authService.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeSession(w, result)
}

// Logout mencabut refresh token aktif.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decodeJSON(r, &payload); err == nil && payload.RefreshToken != "" {
		_ = h.authService.Logout(r.Context(), payload.RefreshToken)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "berhasil keluar"})
}

// Profile mengembalikan profil user beserta data warganya.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	profile, res, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data := map[string]any{"user": profile}
	if res != nil {
		data["resident"] = res
		data["profileCompletion"] = resident.CompletionPercentage(res)
	}
	WriteJSON(w, http.StatusOK, data)
}

type updateProfilePayload struct {
	Phone             *string `json:"phone,omitempty"`
	Occupation        *string `json:"occupation,omitempty"`
	Education         *string `json:"education,omitempty"`
	BPJSNumber        *string `json:"bpjsNumber,omitempty"`
	DomicileStatus    *string `json:"domicileStatus,omitempty"`
	VaccinationStatus *string `json:"vaccinationStatus,omitempty"`
	Address           *string `json:"address,omitempty"`
}

// UpdateProfile melengkapi kolom opsional profil warga milik sendiri.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "subject tidak valid")
		return
	}

	var payload updateProfilePayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.residents.UpdateProfileByUser(r.Context(), userID, resident.UpdateProfileInput{
		Phone:             payload.Phone,
		Occupation:        payload.Occupation,
		Education:         payload.Education,
		BPJSNumber:        payload.BPJSNumber,
		DomicileStatus:    payload.DomicileStatus,
		VaccinationStatus: payload.VaccinationStatus,
		Address:           payload.Address,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"resident":          res,
		"profileCompletion": resident.CompletionPercentage(res),
	})
}

type verifyResidentPayload struct {
	ResidentID string `json:"residentId"`
	Reason     string `json:"reason,omitempty"`
}

// VerifyResident menyetujui permohonan keanggotaan warga.
func (h *Handler) VerifyResident(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload verifyResidentPayload
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

	res, err := h.residents.Verify(r.Context(), actor, residentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"resident": res})
}

// RejectResident menolak permohonan keanggotaan warga yang masih pending.
func (h *Handler) RejectResident(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload verifyResidentPayload
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

	res, err := h.residents.Reject(r.Context(), actor, residentID, payload.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"resident": res})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrInvalidCredentials, service.ErrRefreshInvalid:
		WriteError(w, http.StatusUnauthorized, err.Error())
	case service.ErrAccountDisabled:
		WriteError(w, http.StatusForbidden, err.Error())
	default:
		writeServiceError(w, err)
	}
}

func (h *Handler) writeSession(w http.ResponseWriter, result *service.LoginResult) {
	h.writeSessionStatus(w, http.StatusOK, result)
}

func (h *Handler) writeSessionStatus(w http.ResponseWriter, status int, result *service.LoginResult) {
	data := map[string]any{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         result.User,
	}
	if result.Resident != nil {
		data["resident"] = result.Resident
	}
	WriteJSON(w, status, data)
}
