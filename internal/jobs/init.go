package jobs

import (
	"context"
	"time"

	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/services"
)

// InitializeJobs starts all background jobs.
func InitializeJobs(
	ctx context.Context,
	workflow *services.WorkflowService,
	metricsReg *metrics.MetricsRegistry,
) *ScheduledPublishJob {
	publishJob := NewScheduledPublishJob(workflow, metricsReg)

	go publishJob.RunScheduled(ctx, 1*time.Minute)

	return publishJob
}
