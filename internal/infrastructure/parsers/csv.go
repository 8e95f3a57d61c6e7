package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses roster entries from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed entries.
// Expected columns: owner_user_id, name, race, job, village, icon, bio
func (p *CSVParser) Parse(r io.Reader) ([]RawCharacter, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"owner_user_id", "name"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawCharacters.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawCharacter, error) {
	var chars []RawCharacter
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		chars = append(chars, p.parseRecord(record, colIndex, lineNum))
	}

	return chars, nil
}

// parseRecord converts a CSV record to a RawCharacter.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) RawCharacter {
	return RawCharacter{
		ID:          getColumn(record, colIndex, "id"),
		OwnerUserID: getColumn(record, colIndex, "owner_user_id"),
		Name:        getColumn(record, colIndex, "name"),
		Race:        getColumn(record, colIndex, "race"),
		Job:         getColumn(record, colIndex, "job"),
		Village:     getColumn(record, colIndex, "village"),
		Icon:        getColumn(record, colIndex, "icon"),
		Bio:         getColumn(record, colIndex, "bio"),
		LineNum:     lineNum,
	}
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
