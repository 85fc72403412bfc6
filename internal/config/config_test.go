package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"pedido", "orden", "abono cliente"}, cfg.Ledger.PaymentMarkers)
	assert.Equal(t, "postgres://postgres:@localhost:5432/washrent?sslmode=disable", cfg.ConnectionString())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", loc.String())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LEDGER_PAYMENT_MARKERS", "pago pedido,nequi cliente")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"pago pedido", "nequi cliente"}, cfg.Ledger.PaymentMarkers)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, config.NewLogger(cfg).Enabled(t.Context(), slog.LevelDebug))
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLocation_Invalid(t *testing.T) {
	t.Setenv("LEDGER_LOCATION", "Mars/Olympus")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.Location()
	assert.Error(t, err)
}
