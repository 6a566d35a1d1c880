package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/bucketdrop/service/internal/response"
	"github.com/rs/zerolog/log"
)

type panicBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Recoverer turns a handler panic into a 500 JSON response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			log.Error().
				Str("panic", fmt.Sprint(rvr)).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("recovered from panic")

			response.JSON(w, http.StatusInternalServerError, panicBody{
				Error:   "Something went wrong!",
				Message: fmt.Sprint(rvr),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
