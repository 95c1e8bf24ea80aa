package mockserver

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"

	"github.com/cristianoliveira/condoview/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options configures the HTTP handler.
type Options struct {
	// HTTPLog receives one JSON line per request when set.
	HTTPLog io.Writer
	// Token, when set, must be presented as a bearer token.
	Token  string
	Logger logging.Logger
}

type server struct {
	store  *Store
	logger logging.Logger
}

// NewHandler returns the backend API mounted under /api.
func NewHandler(store *Store, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	s := &server{store: store, logger: logger.With("component", "mockserver")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	if opts.HTTPLog != nil {
		httpLogger := httplog.NewLogger("condoview-mock", httplog.Options{
			Writer: opts.HTTPLog,
			JSON:   true,
		})
		r.Use(httplog.RequestLogger(httpLogger))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		if opts.Token != "" {
			r.Use(requireBearer(opts.Token))
		}
		r.Get("/ocorrencias/search", s.searchAll)
		r.Get("/ocorrencias/morador/{residentID}/search", s.searchByResident)
		r.Post("/ocorrencias", s.create)
		r.Get("/ocorrencias/{id}", s.get)
		r.Put("/ocorrencias/{id}", s.update)
		r.Patch("/ocorrencias/{id}/cancelar", s.cancel)
		r.Post("/ocorrencias/{id}/comentarios", s.addComment)
		r.Get("/ocorrencias/{id}/comentarios", s.listComments)
		r.Get("/imagens/{id}", s.image)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	return otelhttp.NewHandler(r, "condoview-mock")
}

// echoRequestID copies the request id chosen by middleware.RequestID onto
// the response.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

func requireBearer(token string) func(http.Handler) http.Handler {
	want := []byte("Bearer " + token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(strings.TrimSpace(r.Header.Get("Authorization")))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
