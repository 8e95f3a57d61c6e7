package entities

// MoonPhase is one entry of the fixed lunar-cycle table the in-world calendar
// is computed against.
type MoonPhase struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	// Days is how many nights the phase lasts within one lunar cycle.
	Days int `json:"days"`
}

// HyruleanDate is a real-world instant expressed in the community's in-world
// calendar. Derived on demand, never persisted.
type HyruleanDate struct {
	Era       string    `json:"era"`
	Year      int       `json:"year"`
	Month     string    `json:"month"`
	MonthIdx  int       `json:"month_idx"` // 1-based
	Day       int       `json:"day"`       // 1-based
	Moon      MoonPhase `json:"moon"`
	BloodMoon bool      `json:"blood_moon"`
}
