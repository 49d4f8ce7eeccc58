// Package modkit provides module wiring and core deps
package modkit

import (
	"printfarm/internal/modkit/repokit"
	"printfarm/internal/platform/config"
	"printfarm/internal/platform/logger"
	"printfarm/internal/platform/store"
)

// Deps holds core dependencies passed to modules.
// This is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// ZeroOK returns true when deps are safe to use with zero values in tests.
// Consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
