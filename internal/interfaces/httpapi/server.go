package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/gameday-api/internal/platform/logging"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.SwaggerEnabled)
	registerTeamRoutes(mux, handler)
	registerGameRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

type ServerOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewServer(router http.Handler, opts ServerOptions) (*http.Server, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
	}, nil
}
