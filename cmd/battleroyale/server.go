package main

import (
	"time"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/logging"
)

type sweeper interface {
	Sweep(idle time.Duration) int
}

// startSessionSweeper periodically evicts sessions idle for longer than ttl.
// A zero ttl keeps sessions until the process exits.
func startSessionSweeper(store sweeper, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if n := store.Sweep(ttl); n > 0 {
				logging.Info("evicted idle sessions", logging.Fields{constants.LogFieldCount: n})
			}
		}
	}()
}
