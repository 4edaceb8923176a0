// Package metrics exposes scheduling runs to Prometheus.
package metrics

import (
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// Recorder receives the outcome of every scheduling run.
type Recorder interface {
	RecordRun(elapsed time.Duration, sites []domain.Site, blockers []contract.ScheduleBlocker)
}

// Noop discards everything. Used when metrics are disabled.
type Noop struct{}

func (Noop) RecordRun(time.Duration, []domain.Site, []contract.ScheduleBlocker) {}
