package scheduler

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    Window
		wantErr bool
	}{
		{input: "07:45-08:15", want: Window{Start: TimeOfDay{7, 45}, End: TimeOfDay{8, 15}}},
		{input: "7:00 - 7:45", want: Window{Start: TimeOfDay{7, 0}, End: TimeOfDay{7, 45}}},
		{input: "17:10-17:10", want: Window{Start: TimeOfDay{17, 10}, End: TimeOfDay{17, 10}}},
		{input: "18:00-17:10", wantErr: true},
		{input: "25:00-26:00", wantErr: true},
		{input: "07:45", wantErr: true},
		{input: "aa:bb-cc:dd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w, err := ParseWindow(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}
}

func TestWindow_Draw(t *testing.T) {
	day := time.Date(2024, time.June, 4, 0, 5, 0, 0, time.FixedZone("WIB", 7*3600))
	r := rand.New(rand.NewPCG(1, 2))

	for _, w := range []Window{
		{Start: TimeOfDay{7, 45}, End: TimeOfDay{8, 15}},
		{Start: TimeOfDay{17, 10}, End: TimeOfDay{18, 0}},
		{Start: TimeOfDay{0, 0}, End: TimeOfDay{0, 1}},
		{Start: TimeOfDay{12, 0}, End: TimeOfDay{12, 0}},
	} {
		t.Run(w.String(), func(t *testing.T) {
			start, end := w.Start.On(day), w.End.On(day)
			for range 1000 {
				got := w.Draw(day, r)
				assert.False(t, got.Before(start), got)
				assert.False(t, got.After(end), got)
				assert.Zero(t, got.Nanosecond())
			}
		})
	}
}

func TestWindow_Draw_ReachesBounds(t *testing.T) {
	day := time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC)
	w := Window{Start: TimeOfDay{8, 0}, End: TimeOfDay{8, 1}}
	r := rand.New(rand.NewPCG(3, 4))

	seen := make(map[time.Time]bool)
	for range 10000 {
		seen[w.Draw(day, r)] = true
	}
	assert.True(t, seen[w.Start.On(day)])
	assert.True(t, seen[w.End.On(day)])
	assert.Len(t, seen, 61)
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays(WorkingDays)
	require.NoError(t, err)
	assert.True(t, days.Contains(time.Monday))
	assert.True(t, days.Contains(time.Saturday))
	assert.False(t, days.Contains(time.Sunday))

	_, err = ParseWeekdays([]string{"Funday"})
	assert.Error(t, err)
	_, err = ParseWeekdays(nil)
	assert.Error(t, err)
}

func TestTimeOfDay_String(t *testing.T) {
	tod, err := ParseTimeOfDay("0:05")
	require.NoError(t, err)
	assert.Equal(t, "00:05", tod.String())
}
