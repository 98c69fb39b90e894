//go:build unit

package schedule_test

import (
	"testing"

	"vintour/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		minutes int
		wantErr bool
	}{
		{name: "midnight", in: "00:00", minutes: 0},
		{name: "morning", in: "09:30", minutes: 570},
		{name: "overnight end past 24h", in: "25:30", minutes: 1530},
		{name: "minutes out of range", in: "10:75", wantErr: true},
		{name: "garbage", in: "later", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := schedule.ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, got.Minutes())
		})
	}
}

func TestTimeOfDayAddHours(t *testing.T) {
	start, err := schedule.ParseTimeOfDay("10:30")
	require.NoError(t, err)

	t.Run("minute overflow carries into hours", func(t *testing.T) {
		assert.Equal(t, "14:00", start.AddHours(3.5).String())
	})

	t.Run("never wraps at midnight", func(t *testing.T) {
		late, err := schedule.ParseTimeOfDay("22:00")
		require.NoError(t, err)
		end := late.AddHours(4)
		assert.Equal(t, "26:00", end.String())
		assert.Equal(t, 26*60, end.Minutes())
	})
}

func TestIntervalOverlaps(t *testing.T) {
	mk := func(start, end string) schedule.Interval {
		s, err := schedule.ParseTimeOfDay(start)
		require.NoError(t, err)
		e, err := schedule.ParseTimeOfDay(end)
		require.NoError(t, err)
		iv, err := schedule.NewInterval(s, e)
		require.NoError(t, err)
		return iv
	}

	cases := []struct {
		name string
		a, b schedule.Interval
		want bool
	}{
		{name: "identical", a: mk("10:00", "14:00"), b: mk("10:00", "14:00"), want: true},
		{name: "partial overlap", a: mk("10:00", "14:00"), b: mk("13:00", "16:00"), want: true},
		{name: "contained", a: mk("10:00", "18:00"), b: mk("12:00", "13:00"), want: true},
		{name: "touching ends are free", a: mk("10:00", "14:00"), b: mk("14:00", "16:00"), want: false},
		{name: "disjoint", a: mk("08:00", "10:00"), b: mk("15:00", "18:00"), want: false},
		{name: "overnight overlaps next morning slot", a: mk("22:00", "26:00"), b: mk("23:00", "24:00"), want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestIntervalValidation(t *testing.T) {
	s, err := schedule.ParseTimeOfDay("10:00")
	require.NoError(t, err)

	_, err = schedule.NewInterval(s, s)
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	_, err = schedule.IntervalFromDuration(s, 0)
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	iv, err := schedule.IntervalFromDuration(s, 6)
	require.NoError(t, err)
	assert.Equal(t, "10:00-16:00", iv.String())
}
