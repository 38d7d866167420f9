package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foguel/delivery-backend/pkg/logger"
)

type fakePurger struct {
	cutoff time.Time
	err    error
}

func (f *fakePurger) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestActivityRetentionJobUsesWindow(t *testing.T) {
	purger := &fakePurger{}
	now := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	job, err := NewActivityRetentionJob(ActivityRetentionJobParams{
		Logger:    logger.Nop(),
		Activity:  purger,
		Retention: 30,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Equal(t, "activity-retention", job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, time.Date(2026, 9, 18, 3, 0, 0, 0, time.UTC), purger.cutoff)
}

func TestActivityRetentionJobWrapsError(t *testing.T) {
	job, err := NewActivityRetentionJob(ActivityRetentionJobParams{
		Logger:   logger.Nop(),
		Activity: &fakePurger{err: errors.New("db down")},
	})
	require.NoError(t, err)
	require.ErrorContains(t, job.Run(context.Background()), "activity retention")
}

func TestActivityRetentionJobRequiresDependencies(t *testing.T) {
	_, err := NewActivityRetentionJob(ActivityRetentionJobParams{Logger: logger.Nop()})
	require.Error(t, err)
}
