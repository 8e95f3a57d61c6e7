package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarService_Convert(t *testing.T) {
	svc := NewCalendarService()

	t.Run("founding day is day one of Din, year one", func(t *testing.T) {
		d := svc.Convert(epoch)

		assert.Equal(t, Era, d.Era)
		assert.Equal(t, 1, d.Year)
		assert.Equal(t, "Din", d.Month)
		assert.Equal(t, 1, d.MonthIdx)
		assert.Equal(t, 1, d.Day)
		assert.Equal(t, "New Moon", d.Moon.Name)
		assert.False(t, d.BloodMoon)
	})

	t.Run("time of day does not shift the date", func(t *testing.T) {
		noon := epoch.Add(12 * time.Hour)
		d := svc.Convert(noon)

		assert.Equal(t, 1, d.Day)
		assert.Equal(t, "Din", d.Month)
	})

	t.Run("month rollover", func(t *testing.T) {
		d := svc.Convert(epoch.AddDate(0, 0, 29))
		assert.Equal(t, "Din", d.Month)
		assert.Equal(t, 30, d.Day)

		d = svc.Convert(epoch.AddDate(0, 0, 30))
		assert.Equal(t, "Nayru", d.Month)
		assert.Equal(t, 2, d.MonthIdx)
		assert.Equal(t, 1, d.Day)
	})

	t.Run("year rollover after twelve months", func(t *testing.T) {
		d := svc.Convert(epoch.AddDate(0, 0, 359))
		assert.Equal(t, 1, d.Year)
		assert.Equal(t, "Tabantha", d.Month)
		assert.Equal(t, 30, d.Day)

		d = svc.Convert(epoch.AddDate(0, 0, 360))
		assert.Equal(t, 2, d.Year)
		assert.Equal(t, "Din", d.Month)
		assert.Equal(t, 1, d.Day)
	})

	t.Run("pre-founding dates fold into year zero", func(t *testing.T) {
		d := svc.Convert(epoch.AddDate(0, 0, -1))

		assert.Equal(t, 0, d.Year)
		assert.Equal(t, "Tabantha", d.Month)
		assert.Equal(t, 30, d.Day)
		assert.Equal(t, "Waning Crescent", d.Moon.Name)
	})

	t.Run("moon walks the phase table", func(t *testing.T) {
		cases := []struct {
			offset int
			phase  string
		}{
			{0, "New Moon"},
			{2, "New Moon"},
			{3, "Waxing Crescent"},
			{7, "First Quarter"},
			{14, "Full Moon"},
			{16, "Full Moon"},
			{27, "Waning Crescent"},
			{28, "New Moon"},
		}
		for _, tc := range cases {
			d := svc.Convert(epoch.AddDate(0, 0, tc.offset))
			assert.Equal(t, tc.phase, d.Moon.Name, "offset %d", tc.offset)
		}
	})

	t.Run("every third full moon is a blood moon", func(t *testing.T) {
		// Cycle 0 and 1 full moons are ordinary.
		d := svc.Convert(epoch.AddDate(0, 0, 14))
		assert.Equal(t, "Full Moon", d.Moon.Name)
		assert.False(t, d.BloodMoon)

		d = svc.Convert(epoch.AddDate(0, 0, 28+14))
		assert.False(t, d.BloodMoon)

		// Cycle 2 full moon rises red.
		d = svc.Convert(epoch.AddDate(0, 0, 2*28+14))
		assert.Equal(t, "Full Moon", d.Moon.Name)
		assert.True(t, d.BloodMoon)

		// And again three cycles later.
		d = svc.Convert(epoch.AddDate(0, 0, 5*28+14))
		assert.True(t, d.BloodMoon)
	})
}

func TestCalendarService_Today(t *testing.T) {
	svc := NewCalendarService()

	original := timeNow
	timeNow = func() time.Time { return epoch.AddDate(0, 0, 45) }
	defer func() { timeNow = original }()

	d := svc.Today()
	assert.Equal(t, "Nayru", d.Month)
	assert.Equal(t, 16, d.Day)
}

func TestCalendarService_Tables(t *testing.T) {
	svc := NewCalendarService()

	assert.Equal(t, 28, svc.CycleLength())

	months := svc.Months()
	assert.Len(t, months, 12)
	assert.Equal(t, "Din", months[0])
	assert.Equal(t, "Tabantha", months[11])
}
