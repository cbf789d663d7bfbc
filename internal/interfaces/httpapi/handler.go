package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/riskibarqy/gameday-api/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	teamService *usecase.TeamService
	gameService *usecase.GameService
	pinger      Pinger
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	gameService *usecase.GameService,
	pinger Pinger,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService: teamService,
		gameService: gameService,
		pinger:      pinger,
		logger:      logger.Named("httpapi"),
		validator:   newValidator(),
	}
}

type routeDTO struct {
	Href    string   `json:"href"`
	Methods []string `json:"methods"`
}

var routeIndex = []routeDTO{
	{Href: "/teams", Methods: []string{http.MethodGet, http.MethodPost}},
	{Href: "/teams/:slug", Methods: []string{http.MethodGet, http.MethodPatch, http.MethodDelete}},
	{Href: "/games", Methods: []string{http.MethodGet, http.MethodPost}},
	{Href: "/games/:id", Methods: []string{http.MethodGet, http.MethodDelete}},
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Index")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, routeIndex)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "error", err)
			writeJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON rejects unknown fields and bodies over maxRequestBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
