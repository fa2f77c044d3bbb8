package webhook

import (
	"math/rand/v2"
	"sync"

	"github.com/Conversly/analytics-dashboard/internal/types"
)

// DefaultSuccessRate is the simulated share of transactions that complete.
const DefaultSuccessRate = 0.9

// SettlementPolicy decides the terminal status of a processing transaction.
// It stands in for a real settlement outcome.
type SettlementPolicy interface {
	Settle() types.ProcessStatus
}

// SettlementFunc adapts a function to SettlementPolicy.
type SettlementFunc func() types.ProcessStatus

func (f SettlementFunc) Settle() types.ProcessStatus { return f() }

// Always returns a policy that settles every transaction to status.
func Always(status types.ProcessStatus) SettlementPolicy {
	return SettlementFunc(func() types.ProcessStatus { return status })
}

// RandomSettlement completes with probability SuccessRate, otherwise fails.
type RandomSettlement struct {
	SuccessRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomSettlement(successRate float64) *RandomSettlement {
	return &RandomSettlement{SuccessRate: successRate}
}

// NewSeededSettlement is RandomSettlement with a deterministic source.
func NewSeededSettlement(successRate float64, seed uint64) *RandomSettlement {
	return &RandomSettlement{SuccessRate: successRate, rnd: rand.New(rand.NewPCG(seed, seed))}
}

func (r *RandomSettlement) Settle() types.ProcessStatus {
	var draw float64
	if r.rnd != nil {
		r.mu.Lock()
		draw = r.rnd.Float64()
		r.mu.Unlock()
	} else {
		draw = rand.Float64()
	}
	if draw < r.SuccessRate {
		return types.StatusCompleted
	}
	return types.StatusFailed
}
