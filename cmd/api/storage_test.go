package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/leadbook/backend/internal/config"
	"github.com/pkordes/leadbook/backend/internal/repo"
)

func TestOpenKV_Backends(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	mr := miniredis.RunT(t)

	cases := []struct {
		cfg  config.Config
		want any
	}{
		{config.Config{StorageBackend: config.BackendMemory}, &repo.MemoryKV{}},
		{config.Config{StorageBackend: config.BackendFile, DataDir: t.TempDir()}, &repo.FileKV{}},
		{config.Config{StorageBackend: config.BackendRedis, RedisAddr: mr.Addr()}, &repo.RedisKV{}},
	}
	for _, tc := range cases {
		t.Run(tc.cfg.StorageBackend, func(t *testing.T) {
			kv, closeKV, err := openKV(context.Background(), tc.cfg, log)
			require.NoError(t, err)
			t.Cleanup(closeKV)

			assert.IsType(t, tc.want, kv)
			require.NoError(t, kv.Set(context.Background(), repo.StorageKey, []byte(`[]`)))
		})
	}
}

func TestOpenKV_UnknownBackend(t *testing.T) {
	_, closeKV, err := openKV(context.Background(), config.Config{StorageBackend: "tape"}, slog.New(slog.DiscardHandler))

	assert.Error(t, err)
	assert.NotNil(t, closeKV)
}
