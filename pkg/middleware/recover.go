package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/hbdiaz/ferremat/pkg/logger"
	"github.com/hbdiaz/ferremat/pkg/response"
)

// Recovery catches panics in downstream handlers, logs the stack trace, and
// returns a 500 to the client. Wire it after reqid/metrics so it wraps all
// handler code.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(stack),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Error interno del servidor")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
