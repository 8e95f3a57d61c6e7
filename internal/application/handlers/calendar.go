package handlers

import (
	"fmt"
	"time"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/services"
)

// CalendarHandler handles in-world calendar lookups.
type CalendarHandler struct {
	service *services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(service *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		service: service,
	}
}

// HandleToday returns today's in-world date.
func (h *CalendarHandler) HandleToday() entities.HyruleanDate {
	return h.service.Today()
}

// HandleConvert converts a real-world date given as YYYY-MM-DD.
func (h *CalendarHandler) HandleConvert(date string) (entities.HyruleanDate, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return entities.HyruleanDate{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return h.service.Convert(t), nil
}

// HandleMonths returns the in-world month table.
func (h *CalendarHandler) HandleMonths() []string {
	return h.service.Months()
}
