package observability

import (
	"strings"

	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// InitUptrace installs the global OpenTelemetry providers exporting to
// Uptrace. While disabled the otel globals stay no-op and the spans opened by
// the handlers, usecases and otelsql are dropped.
func InitUptrace(cfg config.Config, logger *logging.Logger) (Stop, error) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing off", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	case dsn == "":
		logger.Warn("tracing off", "reason", "UPTRACE_ENABLED=true but UPTRACE_DSN is empty")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("tracing to uptrace", "service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)

	return uptrace.Shutdown, nil
}
