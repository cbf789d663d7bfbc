package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUptrace_Off(t *testing.T) {
	cases := map[string]config.Config{
		"disabled":          {UptraceEnabled: false, ServiceName: "gameday-api", AppEnv: config.EnvDev},
		"enabled_blank_dsn": {UptraceEnabled: true, UptraceDSN: "  "},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			stop, err := InitUptrace(cfg, logging.NewNop())
			require.NoError(t, err)
			assert.NoError(t, stop(context.Background()))
		})
	}
}

func TestInitPyroscope_Off(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	assert.NoError(t, stop(context.Background()))
}

func TestPyroscopeConfig_Tags(t *testing.T) {
	got := pyroscopeConfig(config.Config{
		PyroscopeAppName: "gameday-api",
		AppEnv:           config.EnvProd,
		ServiceName:      "gameday-api",
		ServiceVersion:   "1.2.0",
	})
	assert.Equal(t, "gameday-api", got.ApplicationName)
	assert.Equal(t, map[string]string{"env": config.EnvProd, "service": "gameday-api", "version": "1.2.0"}, got.Tags)
	assert.Len(t, got.ProfileTypes, 6)
}

func TestSetup_AllOff(t *testing.T) {
	stop, err := Setup(config.Config{AppEnv: config.EnvDev}, logging.NewNop())
	require.NoError(t, err)
	assert.NoError(t, stop(context.Background()))
}

func TestStartPprof_ServesAndStops(t *testing.T) {
	stop, err := StartPprof(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	require.NoError(t, err)
	assert.NoError(t, stop(context.Background()))
}

func TestStartPprof_BusyPortFails(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(busy.Close)

	_, err := StartPprof(config.Config{PprofEnabled: true, PprofAddr: busy.Listener.Addr().String()}, logging.NewNop())
	assert.Error(t, err)
}

func TestPprofMux_Routes(t *testing.T) {
	for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline", "/debug/pprof/symbol"} {
		rec := httptest.NewRecorder()
		pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
