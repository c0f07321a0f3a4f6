package util

import (
	"net/mail"
	"strings"
)

// FieldError adalah kegagalan validasi yang menunjuk kolom penyebabnya,
// sehingga lapisan HTTP bisa merender daftar error per kolom.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// NewFieldError membentuk error validasi untuk satu kolom.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// ValidateEmail mengembalikan error untuk alamat email yang tidak valid.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrRequired("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return NewFieldError("email", "email tidak valid")
	}
	return nil
}

// ValidatePassword memeriksa syarat minimum kata sandi.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return NewFieldError("password", "kata sandi minimal 8 karakter")
	}
	return nil
}

// ValidateRTNumber memastikan nomor RT tepat 3 digit angka.
func ValidateRTNumber(number string) error {
	if !isDigits(number, 3) {
		return NewFieldError("number", "nomor RT harus 3 digit angka")
	}
	return nil
}

// ValidateRWNumber memastikan nomor RW tepat 3 digit angka.
func ValidateRWNumber(number string) error {
	if !isDigits(number, 3) {
		return NewFieldError("rwNumber", "nomor RW harus 3 digit angka")
	}
	return nil
}

// ValidateNIK memastikan NIK 16 digit. String kosong dibiarkan lolos karena
// warga kost/kontrak boleh mendaftar tanpa NIK.
func ValidateNIK(nik string) error {
	if nik == "" {
		return nil
	}
	if !isDigits(nik, 16) {
		return NewFieldError("nik", "NIK harus 16 digit angka")
	}
	return nil
}

// ValidateKK memastikan nomor KK 16 digit; kosong diperbolehkan.
func ValidateKK(kk string) error {
	if kk == "" {
		return nil
	}
	if !isDigits(kk, 16) {
		return NewFieldError("kkNumber", "nomor KK harus 16 digit angka")
	}
	return nil
}

// RequireString memastikan string tidak kosong.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired(field)
	}
	return nil
}

// ErrRequired membentuk error kolom-wajib yang seragam.
func ErrRequired(field string) error {
	return NewFieldError(field, field+" wajib diisi")
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
