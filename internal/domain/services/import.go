package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
	"github.com/castletown/compendium/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle existing characters during import.
type ConflictStrategy string

const (
	// ConflictSkip skips characters that already exist (by normalized name).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite overwrites existing characters with imported data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing characters
}

// ImportError represents an error for a specific entry during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService bulk-loads roster characters parsed from JSON or CSV, used
// when migrating an existing community roster into the compendium.
type ImportService struct {
	store ports.Store
}

// NewImportService creates a new import service.
func NewImportService(store ports.Store) *ImportService {
	return &ImportService{
		store: store,
	}
}

// Import validates and imports parsed roster entries.
func (s *ImportService) Import(ctx context.Context, raw []parsers.RawCharacter, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	valid, validationErrors := s.validate(raw)
	result.Errors = validationErrors

	if len(valid) == 0 {
		return result, nil
	}

	chars := s.convert(valid)

	if opts.DryRun {
		result.Imported = len(chars)
		return result, nil
	}

	imported, skipped, err := s.save(ctx, chars, opts.OnConflict)
	if err != nil {
		return nil, fmt.Errorf("saving characters: %w", err)
	}

	result.Imported = imported
	result.Skipped = skipped

	return result, nil
}

// validate checks raw entries and returns valid ones with any errors.
func (s *ImportService) validate(raw []parsers.RawCharacter) ([]parsers.RawCharacter, []ImportError) {
	valid := make([]parsers.RawCharacter, 0, len(raw))
	var errors []ImportError

	for i := range raw {
		entry := &raw[i]
		lineNum := entry.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		if entry.Name == "" {
			errors = append(errors, ImportError{Line: lineNum, Field: "name", Message: "missing required field: name"})
			continue
		}
		if entry.OwnerUserID == "" {
			errors = append(errors, ImportError{Line: lineNum, Field: "owner_user_id", Message: "missing required field: owner_user_id"})
			continue
		}

		valid = append(valid, *entry)
	}

	return valid, errors
}

// convert turns raw entries into domain characters.
func (s *ImportService) convert(raw []parsers.RawCharacter) []entities.Character {
	chars := make([]entities.Character, 0, len(raw))
	now := time.Now()

	for i := range raw {
		entry := &raw[i]
		id := entry.ID
		if id == "" {
			id = uuid.New().String()
		}

		chars = append(chars, entities.Character{
			ID:             id,
			OwnerUserID:    entry.OwnerUserID,
			Name:           entry.Name,
			NormalizedName: entities.NormalizeName(entry.Name),
			Race:           entry.Race,
			Job:            entry.Job,
			Village:        entry.Village,
			Icon:           entry.Icon,
			Bio:            entry.Bio,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return chars
}

// save persists characters applying the conflict strategy.
func (s *ImportService) save(ctx context.Context, chars []entities.Character, onConflict ConflictStrategy) (imported, skipped int, err error) {
	for i := range chars {
		ch := chars[i]

		existing, err := s.store.FindCharacterByName(ctx, ch.Name)
		if err != nil {
			return imported, skipped, fmt.Errorf("checking existing character: %w", err)
		}
		if existing != nil {
			if onConflict != ConflictOverwrite {
				skipped++
				continue
			}
			// Keep the stable id so relationship snapshots stay resolvable.
			ch.ID = existing.ID
			ch.CreatedAt = existing.CreatedAt
		}

		if err := s.store.SaveCharacter(ctx, &ch); err != nil {
			return imported, skipped, fmt.Errorf("saving character %q: %w", ch.Name, err)
		}
		imported++
	}
	return imported, skipped, nil
}
