package main

import (
	"context"
	"io"
	"testing"

	"github.com/memora-app/memora/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// testLookupEnv configures a hermetic server: a dynamically allocated port,
// an in-memory database and object store, and no navigation cooldown so
// tests don't have to sleep.
func testLookupEnv(key string) (string, bool) {
	switch key {
	case "MEMORA_ADDR":
		return "localhost:0", true
	case "MEMORA_PPROF_PORT":
		return ":0", true
	case "MEMORA_SQLITE_URL":
		return ":memory:", true
	case "MEMORA_OBJECT_STORE":
		return "memory", true
	case "MEMORA_PUBLIC_BASE_URL":
		return "http://objects.test", true
	case "MEMORA_FEED_COOLDOWN":
		return "0s", true
	default:
		return "", false
	}
}

func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(context.Background(), io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	return server
}
