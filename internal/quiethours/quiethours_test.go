package quiethours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInWindow_SameDay(t *testing.T) {
	start, end := 9*60, 17*60
	for now := 0; now < MinutesPerDay; now++ {
		want := now >= start && now <= end
		if got := InWindow(start, end, now); got != want {
			t.Fatalf("InWindow(%d, %d, %d) = %v, want %v", start, end, now, got, want)
		}
	}
}

func TestInWindow_WrapsMidnight(t *testing.T) {
	start, end := 22*60, 7*60
	for now := 0; now < MinutesPerDay; now++ {
		want := now >= start || now <= end
		if got := InWindow(start, end, now); got != want {
			t.Fatalf("InWindow(%d, %d, %d) = %v, want %v", start, end, now, got, want)
		}
	}
}

func TestInWindow_Boundaries(t *testing.T) {
	tests := []struct {
		name            string
		start, end, now int
		want            bool
	}{
		{"same-day start", 540, 1020, 540, true},
		{"same-day end", 540, 1020, 1020, true},
		{"same-day before", 540, 1020, 539, false},
		{"same-day after", 540, 1020, 1021, false},
		{"wrap start", 1320, 420, 1320, true},
		{"wrap end", 1320, 420, 420, true},
		{"wrap midnight", 1320, 420, 0, true},
		{"wrap just after end", 1320, 420, 421, false},
		{"wrap just before start", 1320, 420, 1319, false},
		{"single minute", 600, 600, 600, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(tt.start, tt.end, tt.now))
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 3, 1, h, m, 30, 0, time.Local) }

	w := Window{Enabled: true, Start: "22:00", End: "07:00"}
	assert.True(t, w.Contains(at(23, 15)))
	assert.True(t, w.Contains(at(7, 0)))
	assert.False(t, w.Contains(at(7, 1)))
	assert.False(t, w.Contains(at(12, 0)))

	w.Enabled = false
	assert.False(t, w.Contains(at(23, 15)), "disabled window never suppresses")

	bad := Window{Enabled: true, Start: "late", End: "07:00"}
	assert.False(t, bad.Contains(at(23, 15)))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:00", 420, false},
		{"7:05", 425, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:5", 0, true},
		{"1200", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrBadClock, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "07:05", FormatClock(425))
	assert.Equal(t, "23:59", FormatClock(-1))

	got, err := NormalizeClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", got)
}
