package workers

import (
	"context"
	"time"

	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/services"
)

type WorkersContainer struct {
	OverviewWarmer *OverviewWarmWorker
}

func InitWorkers(ledger *services.LedgerService, workflow *services.WorkflowService, metricsReg *metrics.MetricsRegistry) *WorkersContainer {
	warmer := NewOverviewWarmWorker(ledger, workflow, metricsReg)

	go warmer.Start(context.Background(), 25*time.Second)

	return &WorkersContainer{
		OverviewWarmer: warmer,
	}
}
