package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Recover menjamin respons tersanitasi saat terjadi panic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("panic terpulihkan")
				writeError(w, http.StatusInternalServerError, "terjadi kesalahan internal")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
