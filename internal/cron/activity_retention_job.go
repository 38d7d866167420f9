package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/foguel/delivery-backend/pkg/logger"
)

const activityRetentionDays = 90

type activityPurger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

type ActivityRetentionJobParams struct {
	Logger    *logger.Logger
	Activity  activityPurger
	Retention int
	Now       func() time.Time
}

// NewActivityRetentionJob drops change-log rows older than the retention window.
func NewActivityRetentionJob(params ActivityRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity service required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = activityRetentionDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &activityRetentionJob{
		logg:      params.Logger,
		activity:  params.Activity,
		retention: retention,
		now:       now,
	}, nil
}

type activityRetentionJob struct {
	logg      *logger.Logger
	activity  activityPurger
	retention int
	now       func() time.Time
}

func (j *activityRetentionJob) Name() string { return "activity-retention" }

func (j *activityRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retention)
	deleted, err := j.activity.Purge(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("activity retention: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	}), "activity retention cleanup complete")
	return nil
}
