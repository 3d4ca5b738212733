package service

import (
	"sync/atomic"

	"rentvault-backend/internal/domain"
)

// OpGuard is the engine-wide "operation in progress" flag. Every
// mutating operation acquires it on entry and releases it on every exit
// path. External transfers run while the guard is held, so a hostile
// callback that re-enters the engine is rejected instead of
// interleaving with the half-finished operation. One instance is shared
// by all engine services.
type OpGuard struct {
	busy atomic.Bool
}

func NewOpGuard() *OpGuard {
	return &OpGuard{}
}

// Acquire takes the guard and returns the release func to defer.
func (g *OpGuard) Acquire() (func(), error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrOperationInProgress
	}
	return func() { g.busy.Store(false) }, nil
}
