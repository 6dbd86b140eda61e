package merger

import (
	"context"
	"testing"
)

// testConfig is DefaultConfig without fsync, which only slows tests down.
func testConfig() EngineConfig {
	cfg := DefaultConfig()
	cfg.Sync = false
	return cfg
}

func run(t *testing.T, cfg EngineConfig, jobs ...Job) (*Result, error) {
	t.Helper()
	return New(cfg).Run(context.Background(), jobs)
}
