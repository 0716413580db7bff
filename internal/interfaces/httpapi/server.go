package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
)

// RouterOptions carries the optional surfaces mounted next to the roster routes.
type RouterOptions struct {
	SwaggerEnabled     bool
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerCatalogRoutes(mux, handler)
	registerSquadRoutes(mux, handler)
	registerLineupRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, opts.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
