package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "mid month",
			at:        time.Date(2024, time.January, 15, 13, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, time.January, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "leap february",
			at:        time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			wantFirst: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := MonthBounds(tt.at)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestEndOfDay(t *testing.T) {
	day := time.Date(2024, time.March, 3, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 3, 23, 59, 59, 999999999, time.UTC), EndOfDay(day))
}

func TestMockClock(t *testing.T) {
	clock := &MockClock{FixedNow: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)}
	next := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

	clock.SetNow(next)

	assert.Equal(t, next, clock.Now())
}
