package jobs

import (
	"context"
	"time"

	"npu-collective/sabha/internal/logging"
	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/services"
)

// ScheduledPublishJob sweeps scheduled content whose time has come and
// publishes it. The sweep is idempotent: each item is re-checked inside
// its own transaction, so overlapping ticks cannot double-publish.
type ScheduledPublishJob struct {
	workflow   *services.WorkflowService
	metricsReg *metrics.MetricsRegistry
}

func NewScheduledPublishJob(workflow *services.WorkflowService, metricsReg *metrics.MetricsRegistry) *ScheduledPublishJob {
	return &ScheduledPublishJob{
		workflow:   workflow,
		metricsReg: metricsReg,
	}
}

// Run executes one sweep.
func (j *ScheduledPublishJob) Run(ctx context.Context) error {
	start := time.Now()

	published, err := j.workflow.PublishDueScheduled(ctx, start)
	if err != nil {
		logging.Error("Scheduled publish sweep failed", "error", err)
		return err
	}

	duration := time.Since(start)
	j.metricsReg.JobDuration.WithLabelValues("scheduled_publish").Observe(duration.Seconds())
	if published > 0 {
		j.metricsReg.ScheduledPublishTotal.Add(float64(published))
		logging.Info("Scheduled publish sweep completed",
			"published", published,
			"duration_ms", duration.Milliseconds())
	}
	return nil
}

// RunScheduled runs the sweep on a fixed interval until ctx is cancelled.
func (j *ScheduledPublishJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Sweep once on start so a restart never delays overdue content.
	if err := j.Run(ctx); err != nil {
		logging.Error("Initial scheduled publish sweep failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Scheduled publish sweep failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
