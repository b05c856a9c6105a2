package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{
			name:     "same day",
			from:     baseDate,
			to:       baseDate,
			expected: 0,
		},
		{
			name:     "thirty days",
			from:     baseDate,
			to:       baseDate.AddDate(0, 0, 30),
			expected: 30,
		},
		{
			name:     "ignores time of day",
			from:     time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "negative when to precedes from",
			from:     baseDate,
			to:       baseDate.AddDate(0, 0, -5),
			expected: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDaysSince(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		now      time.Time
		expected int
	}{
		{
			name:     "five days elapsed",
			date:     baseDate,
			now:      baseDate.AddDate(0, 0, 5),
			expected: 5,
		},
		{
			name:     "clamps future dates to zero",
			date:     baseDate.AddDate(0, 0, 10),
			now:      baseDate,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysSince(tt.date, tt.now))
		})
	}
}

func TestCalculateDueDate(t *testing.T) {
	loanDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cycleDays int
		expected  time.Time
	}{
		{
			name:      "default thirty day cycle",
			cycleDays: 30,
			expected:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "custom fifteen day cycle",
			cycleDays: 15,
			expected:  time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDueDate(loanDate, tt.cycleDays))
		})
	}
}

func TestClampToZero(t *testing.T) {
	assert.True(t, ClampToZero(decimal.NewFromInt(-10)).IsZero())
	assert.True(t, ClampToZero(decimal.Zero).IsZero())

	positive := decimal.NewFromFloat(12.34)
	assert.True(t, ClampToZero(positive).Equal(positive))
}
