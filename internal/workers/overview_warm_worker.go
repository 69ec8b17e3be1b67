package workers

import (
	"context"
	"time"

	"npu-collective/sabha/internal/logging"
	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/services"
)

// OverviewWarmWorker keeps the global finance overview warm so the first
// dashboard load after a quiet period does not pay the aggregate query.
// The same tick refreshes the pending-approvals gauge.
type OverviewWarmWorker struct {
	ledger     *services.LedgerService
	workflow   *services.WorkflowService
	metricsReg *metrics.MetricsRegistry
}

func NewOverviewWarmWorker(ledger *services.LedgerService, workflow *services.WorkflowService, metricsReg *metrics.MetricsRegistry) *OverviewWarmWorker {
	return &OverviewWarmWorker{
		ledger:     ledger,
		workflow:   workflow,
		metricsReg: metricsReg,
	}
}

func (w *OverviewWarmWorker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *OverviewWarmWorker) warm(ctx context.Context) {
	start := time.Now()
	if _, err := w.ledger.ComputeOverview(ctx, services.OverviewScope{}); err != nil {
		logging.Warn("Overview warm failed", "error", err)
		return
	}

	if pending, err := w.workflow.ListPendingProfiles(ctx); err == nil {
		w.metricsReg.ApprovalsPendingGauge.WithLabelValues("profiles").Set(float64(len(pending)))
	}

	w.metricsReg.JobDuration.WithLabelValues("overview_warm").Observe(time.Since(start).Seconds())
}
