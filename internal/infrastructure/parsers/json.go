package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses roster entries from JSON format.
type JSONParser struct{}

// Parse reads a JSON array from the reader and returns parsed entries.
func (p *JSONParser) Parse(r io.Reader) ([]RawCharacter, error) {
	var chars []RawCharacter

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&chars); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range chars {
		chars[i].LineNum = i + 1
	}

	return chars, nil
}
