package services

import (
	"time"

	"github.com/castletown/compendium/internal/domain/entities"
)

// Era is the calendar era name shown on every dashboard date.
const Era = "Era of the Wild"

// epoch is day 1 of year 1 of the in-world calendar: the community's founding
// date. All date arithmetic is in whole UTC days since this instant.
var epoch = time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC)

// daysPerMonth and the month table define the 360-day Hyrulean year.
const daysPerMonth = 30

// hyruleanMonths is the fixed in-world month cycle.
var hyruleanMonths = []string{
	"Din", "Nayru", "Farore", "Hylia",
	"Eldin", "Lanayru", "Faron", "Akkala",
	"Necluda", "Hebra", "Gerudo", "Tabantha",
}

// moonPhases is the fixed lunar-cycle table. Phase durations sum to the
// 28-night cycle; the table order is the order phases occur in.
var moonPhases = []entities.MoonPhase{
	{Name: "New Moon", Icon: "moon-new", Days: 3},
	{Name: "Waxing Crescent", Icon: "moon-waxing-crescent", Days: 4},
	{Name: "First Quarter", Icon: "moon-first-quarter", Days: 3},
	{Name: "Waxing Gibbous", Icon: "moon-waxing-gibbous", Days: 4},
	{Name: "Full Moon", Icon: "moon-full", Days: 3},
	{Name: "Waning Gibbous", Icon: "moon-waning-gibbous", Days: 4},
	{Name: "Last Quarter", Icon: "moon-last-quarter", Days: 3},
	{Name: "Waning Crescent", Icon: "moon-waning-crescent", Days: 4},
}

// bloodMoonEvery is the cycle count between blood moons: every third full
// moon rises red.
const bloodMoonEvery = 3

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// CalendarService converts real-world instants into the community's in-world
// calendar. It is pure computation over the fixed tables above.
type CalendarService struct{}

// NewCalendarService creates a new CalendarService.
func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

// Today converts the current time.
func (s *CalendarService) Today() entities.HyruleanDate {
	return s.Convert(timeNow())
}

// Convert maps a real instant to its Hyrulean date. Instants before the epoch
// fold into non-positive years rather than failing; the dashboard only ever
// asks for dates after the founding, but the conversion stays total.
func (s *CalendarService) Convert(t time.Time) entities.HyruleanDate {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	days := int(midnight.Sub(epoch).Hours() / 24)

	daysPerYear := daysPerMonth * len(hyruleanMonths)
	year := floorDiv(days, daysPerYear) + 1
	dayOfYear := mod(days, daysPerYear)

	monthIdx := dayOfYear / daysPerMonth
	day := dayOfYear%daysPerMonth + 1

	phase, cycle := moonAt(days)

	return entities.HyruleanDate{
		Era:       Era,
		Year:      year,
		Month:     hyruleanMonths[monthIdx],
		MonthIdx:  monthIdx + 1,
		Day:       day,
		Moon:      phase,
		BloodMoon: phase.Name == "Full Moon" && mod(cycle, bloodMoonEvery) == bloodMoonEvery-1,
	}
}

// CycleLength returns the length of one lunar cycle in nights.
func (s *CalendarService) CycleLength() int {
	total := 0
	for _, p := range moonPhases {
		total += p.Days
	}
	return total
}

// Months returns the fixed month table, for pickers.
func (s *CalendarService) Months() []string {
	months := make([]string, len(hyruleanMonths))
	copy(months, hyruleanMonths)
	return months
}

// moonAt returns the moon phase for a day offset from the epoch, plus the
// index of the lunar cycle that day falls in.
func moonAt(days int) (entities.MoonPhase, int) {
	cycleLen := 0
	for _, p := range moonPhases {
		cycleLen += p.Days
	}

	cycle := floorDiv(days, cycleLen)
	night := mod(days, cycleLen)
	for _, p := range moonPhases {
		if night < p.Days {
			return p, cycle
		}
		night -= p.Days
	}
	// Unreachable: the loop always terminates within the table.
	return moonPhases[0], cycle
}

// floorDiv divides rounding toward negative infinity, so pre-epoch dates
// stay consistent.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// mod is the non-negative remainder companion to floorDiv.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
