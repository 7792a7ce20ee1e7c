package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crudapi/internal/config"
	"crudapi/internal/otel"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), &config.AppConfig{StoreDriver: "redis"}, zap.NewNop())

	assert.ErrorContains(t, err, `unknown STORE_DRIVER "redis"`)
}

func TestRunMigrate_SkipsMongo(t *testing.T) {
	err := runMigrate(context.Background(), &config.AppConfig{StoreDriver: config.DriverMongo}, zap.NewNop())

	assert.NoError(t, err)
}

func TestRunServe_StoreFailureStopsTracing(t *testing.T) {
	orig := initTracing
	defer func() { initTracing = orig }()

	stopped := false
	initTracing = func(context.Context, string, *zap.Logger) (otel.ShutdownFunc, error) {
		return func(context.Context) error {
			stopped = true
			return errors.New("exporter flush failed")
		}, nil
	}

	err := runServe(context.Background(), &config.AppConfig{StoreDriver: "redis"}, zap.NewNop())

	assert.ErrorContains(t, err, `unknown STORE_DRIVER "redis"`)
	assert.ErrorContains(t, err, "exporter flush failed")
	assert.True(t, stopped)
}
