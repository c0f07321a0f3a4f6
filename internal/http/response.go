package http

import (
	"encoding/json"
	"net/http"
)

// SuccessEnvelope membungkus respons berhasil.
type SuccessEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorEnvelope membungkus respons gagal.
type ErrorEnvelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError menunjuk kolom yang gagal validasi.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// WriteJSON menulis envelope sukses.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Status: "success", Data: data})
}

// WriteError menulis envelope gagal tanpa rincian kolom.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Status: "error", Message: message})
}

// WriteValidationError menulis envelope gagal beserta rincian per kolom.
func WriteValidationError(w http.ResponseWriter, message string, fields []FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Status: "error", Message: message, Errors: fields})
}
