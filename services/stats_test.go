package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActivityStore struct {
	activities int64
	carbon     float64
	activeDays int64
	dates      []string
	datesErr   error
	lastLimit  int
}

func (f *fakeActivityStore) CountActivities(userID uint) (int64, error) { return f.activities, nil }
func (f *fakeActivityStore) SumCarbon(userID uint) (float64, error)     { return f.carbon, nil }
func (f *fakeActivityStore) CountActiveDays(userID uint) (int64, error) { return f.activeDays, nil }
func (f *fakeActivityStore) RecentActivityDates(userID uint, limit int) ([]string, error) {
	f.lastLimit = limit
	return f.dates, f.datesErr
}

func day(t *testing.T, offset int) string {
	t.Helper()
	return fixedNow().AddDate(0, 0, offset).Format(DateLayout)
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)
}

func newTestAggregator(store ActivityStore) *StatsAggregator {
	agg := NewStatsAggregator(store)
	agg.now = fixedNow
	return agg
}

func TestCurrentStreakConsecutiveDays(t *testing.T) {
	store := &fakeActivityStore{
		activities: 5,
		dates:      []string{day(t, 0), day(t, -1), day(t, -2)},
	}

	snap, err := newTestAggregator(store).Compute(1)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.CurrentStreak)
}

func TestCurrentStreakZeroWithoutActivityToday(t *testing.T) {
	store := &fakeActivityStore{
		activities: 5,
		dates:      []string{day(t, -1), day(t, -2), day(t, -3)},
	}

	snap, err := newTestAggregator(store).Compute(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentStreak)
}

func TestCurrentStreakStopsAtGap(t *testing.T) {
	store := &fakeActivityStore{
		activities: 3,
		dates:      []string{day(t, 0), day(t, -2), day(t, -3)},
	}

	snap, err := newTestAggregator(store).Compute(1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentStreak)
}

func TestCurrentStreakEmptyHistory(t *testing.T) {
	snap, err := newTestAggregator(&fakeActivityStore{}).Compute(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentStreak)
}

func TestComputeQueriesThirtyDayWindow(t *testing.T) {
	store := &fakeActivityStore{dates: []string{day(t, 0)}}

	_, err := newTestAggregator(store).Compute(1)
	require.NoError(t, err)
	assert.Equal(t, StreakWindowDays, store.lastLimit)
}

func TestComputeAggregatesTotals(t *testing.T) {
	store := &fakeActivityStore{
		activities: 12,
		carbon:     87.5,
		activeDays: 9,
		dates:      []string{day(t, 0), day(t, -1)},
	}

	snap, err := newTestAggregator(store).Compute(7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), snap.TotalActivities)
	assert.Equal(t, 87.5, snap.TotalCarbon)
	assert.Equal(t, int64(9), snap.DaysActive)
	assert.Equal(t, 2, snap.CurrentStreak)
}

func TestComputePropagatesStoreErrors(t *testing.T) {
	store := &fakeActivityStore{datesErr: errors.New("connection reset")}

	_, err := newTestAggregator(store).Compute(1)
	assert.Error(t, err)
}
