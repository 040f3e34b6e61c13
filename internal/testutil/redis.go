package testutil

import (
	"context"
	"net"
	"os"
	"testing"
)

// RequireRedis skips the test unless REDIS_ADDR points at a reachable Redis
// server and returns the address.
func RequireRedis(t *testing.T) string {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis test")
	}

	var d net.Dialer
	conn, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	_ = conn.Close()
	return addr
}

// RedisTestDB is the logical database used by integration tests so they do not
// touch data in the default database.
const RedisTestDB = 15
