package jobs

import (
	"context"
	"time"

	"marcenapp/internal/services"
)

// CacheSweepJob evicts expired supplier-search answers from the in-process
// cache once an hour.
type CacheSweepJob struct {
	suppliers *services.SupplierService
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(suppliers *services.SupplierService) *CacheSweepJob {
	return &CacheSweepJob{suppliers: suppliers}
}

// Run executes one sweep
func (j *CacheSweepJob) Run(ctx context.Context) error {
	j.suppliers.SweepExpired()
	return nil
}

// GetNextRunTime returns the top of the next hour
func (j *CacheSweepJob) GetNextRunTime() time.Time {
	return time.Now().Truncate(time.Hour).Add(time.Hour)
}
