package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
)

// Stop releases one started component.
type Stop func(context.Context) error

func noop(context.Context) error { return nil }

type component struct {
	name  string
	start func(config.Config, *logging.Logger) (Stop, error)
}

var components = []component{
	{name: "uptrace", start: InitUptrace},
	{name: "pyroscope", start: InitPyroscope},
	{name: "pprof", start: StartPprof},
}

// Setup starts tracing, profiling and the pprof listener as configured. The
// returned Stop shuts them down in reverse order and joins their errors. A
// failed start stops whatever already started.
func Setup(cfg config.Config, logger *logging.Logger) (Stop, error) {
	logger = logger.Named("observability")

	started := make([]Stop, 0, len(components))
	names := make([]string, 0, len(components))
	stopAll := func(ctx context.Context) error {
		var errs []error
		for i := len(started) - 1; i >= 0; i-- {
			if err := started[i](ctx); err != nil {
				errs = append(errs, fmt.Errorf("stop %s: %w", names[i], err))
			}
		}
		return errors.Join(errs...)
	}

	for _, c := range components {
		stop, err := c.start(cfg, logger)
		if err != nil {
			_ = stopAll(context.Background())
			return nil, fmt.Errorf("init %s: %w", c.name, err)
		}
		started = append(started, stop)
		names = append(names, c.name)
	}
	return stopAll, nil
}
