package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		anchor string
		want   string
	}{
		{"2024-01-10", "2024-01-05"}, // Wednesday
		{"2024-01-05", "2024-01-05"}, // Friday
		{"2024-01-06", "2024-01-05"}, // Saturday
		{"2024-01-11", "2024-01-05"}, // Thursday
		{"2024-01-12", "2024-01-12"}, // next Friday
		{"2024-03-01", "2024-03-01"},
		{"2024-02-29", "2024-02-23"}, // leap day, Thursday
	}
	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(WeekStart(date(t, tt.anchor))))
		})
	}
}

func TestWeekStartIgnoresTimeOfDay(t *testing.T) {
	anchor := time.Date(2024, 1, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2024-01-05", FormatDate(WeekStart(anchor)))
}

func TestWeekDates(t *testing.T) {
	days := WeekDates(date(t, "2024-01-10"))
	require.Len(t, days, 7)
	assert.Equal(t, time.Friday, days[0].Weekday())
	assert.Equal(t, time.Thursday, days[6].Weekday())
	assert.Equal(t, "2024-01-11", FormatDate(days[6]))
}

func TestMonthGrid(t *testing.T) {
	g := MonthGrid(2024, time.February, time.UTC)
	assert.Equal(t, 4, g.LeadingBlanks, "Feb 1 2024 is a Thursday")
	assert.Len(t, g.Days, 29)

	weeks := g.Weeks()
	require.Len(t, weeks, 5)
	assert.Nil(t, weeks[0][0])
	require.NotNil(t, weeks[0][4])
	assert.Equal(t, 1, weeks[0][4].Day())

	sept := MonthGrid(2024, time.September, time.UTC)
	assert.Zero(t, sept.LeadingBlanks, "Sep 1 2024 is a Sunday")
}

func TestBucketByDate(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Date: "2024-01-05"},
		{ID: "2", Date: "2024-01-06"},
		{ID: "3", Date: "2024-01-05"},
		{ID: "4", Date: "2024-1-5"},
	}
	buckets := BucketByDate(tasks)
	require.Len(t, buckets["2024-01-05"], 2)
	assert.Equal(t, "3", buckets["2024-01-05"][1].ID)
	assert.Len(t, buckets["2024-1-5"], 1, "no normalization beyond exact match")
}
