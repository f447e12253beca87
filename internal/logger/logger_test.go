package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sparkmatch/internal/config"
	"github.com/oggyb/sparkmatch/internal/logger"
)

func TestLNeverNil(t *testing.T) {
	require.NotNil(t, logger.L())
}

func TestInitFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	cfg.Log.Component = "test"

	logger.InitFromConfig(cfg)
	require.NotNil(t, logger.L())

	// re-init back to defaults must be safe
	logger.InitFromConfig(nil)
	require.NotNil(t, logger.L())
}

func TestWithReturnsChild(t *testing.T) {
	child := logger.With("op", "login")
	assert.NotNil(t, child)
}

func TestDiscard(t *testing.T) {
	l := logger.Discard()
	require.NotNil(t, l)
	l.Info("dropped")
}
