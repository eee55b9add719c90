package statesync

import "sync/atomic"

// Stats is a snapshot of the service counters
type Stats struct {
	Saves         int64 `json:"saves"`
	Conflicts     int64 `json:"conflicts"`
	LockBusy      int64 `json:"lock_busy"`
	StoreFailures int64 `json:"store_failures"`
	Unavailable   int64 `json:"store_unavailable"`
	Corrupted     int64 `json:"corrupted_records"`
	GetRetries    int64 `json:"get_retries"`
	Rejected      int64 `json:"rejected_requests"`
}

type counters struct {
	saves         atomic.Int64
	conflicts     atomic.Int64
	lockBusy      atomic.Int64
	storeFailures atomic.Int64
	unavailable   atomic.Int64
	corrupted     atomic.Int64
	getRetries    atomic.Int64
	rejected      atomic.Int64
}

// Stats returns the current counter values
func (s *Service) Stats() Stats {
	return Stats{
		Saves:         s.stats.saves.Load(),
		Conflicts:     s.stats.conflicts.Load(),
		LockBusy:      s.stats.lockBusy.Load(),
		StoreFailures: s.stats.storeFailures.Load(),
		Unavailable:   s.stats.unavailable.Load(),
		Corrupted:     s.stats.corrupted.Load(),
		GetRetries:    s.stats.getRetries.Load(),
		Rejected:      s.stats.rejected.Load(),
	}
}
