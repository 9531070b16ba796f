package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
)

// PanicRecovery creates middleware that recovers from panics in HTTP handlers.
// This prevents server crashes and returns a proper error response.
// Internal details are logged but not exposed to clients.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logging.ErrorLog("panic in http handler",
						logging.String("method", r.Method),
						logging.Path(r.URL.Path),
						logging.Error(fmt.Errorf("%v", err)),
						logging.String("stack", string(debug.Stack())))

					http.Error(w,
						"Internal server error",
						http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
