package ports

import (
	"context"

	"github.com/castletown/compendium/internal/domain/entities"
)

// Store defines the interface for relational persistence: the character
// roster, relationship records, member submissions and the audit log.
type Store interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Character operations

	// SaveCharacter saves or updates a roster character.
	SaveCharacter(ctx context.Context, ch *entities.Character) error

	// FindCharacterByID finds a character by its ID. Returns nil if absent.
	FindCharacterByID(ctx context.Context, id string) (*entities.Character, error)

	// FindCharacterByName finds a character by normalized name (case-insensitive).
	FindCharacterByName(ctx context.Context, name string) (*entities.Character, error)

	// ListCharacters lists roster characters with pagination, newest first.
	ListCharacters(ctx context.Context, limit, offset int) ([]*entities.Character, error)

	// SearchCharacters searches characters by name pattern.
	SearchCharacters(ctx context.Context, query string, limit int) ([]*entities.Character, error)

	// DeleteCharacter deletes a character by ID.
	DeleteCharacter(ctx context.Context, id string) error

	// CountCharacters returns the roster size.
	CountCharacters(ctx context.Context) (int, error)

	// GroupCharactersByRace returns roster counts keyed by race.
	GroupCharactersByRace(ctx context.Context) (map[string]int, error)

	// GroupCharactersByVillage returns roster counts keyed by home village.
	GroupCharactersByVillage(ctx context.Context) (map[string]int, error)

	// Relationship operations

	// SaveRelationship saves or updates a relationship record.
	SaveRelationship(ctx context.Context, rel *entities.Relationship) error

	// FindRelationshipByID finds a relationship by ID. Returns nil if absent.
	FindRelationshipByID(ctx context.Context, id string) (*entities.Relationship, error)

	// FindRelationshipsBySource returns records authored from the given
	// character's side, in creation order.
	FindRelationshipsBySource(ctx context.Context, characterID string) ([]entities.Relationship, error)

	// FindRelationshipsByTarget returns records directed at the given
	// character, in creation order.
	FindRelationshipsByTarget(ctx context.Context, characterID string) ([]entities.Relationship, error)

	// ListRelationships returns the roster's entire relationship set.
	ListRelationships(ctx context.Context) ([]entities.Relationship, error)

	// DeleteRelationship deletes a relationship by ID.
	DeleteRelationship(ctx context.Context, id string) error

	// DeleteRelationshipsByCharacter deletes all records referencing a
	// character in either role. Used when a character leaves the roster.
	DeleteRelationshipsByCharacter(ctx context.Context, characterID string) error

	// CountRelationships returns the total number of relationship records.
	CountRelationships(ctx context.Context) (int, error)

	// GroupRelationshipsByPrimaryType returns record counts keyed by
	// primary (first-listed) type tag.
	GroupRelationshipsByPrimaryType(ctx context.Context) (map[string]int, error)

	// Submission operations

	// SaveSubmission saves or updates a member submission.
	SaveSubmission(ctx context.Context, sub *entities.Submission) error

	// FindSubmissionByID finds a submission by ID. Returns nil if absent.
	FindSubmissionByID(ctx context.Context, id string) (*entities.Submission, error)

	// ListSubmissions lists submissions, newest first. Kind and status filter
	// when non-empty.
	ListSubmissions(ctx context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus, limit, offset int) ([]*entities.Submission, error)

	// CountSubmissions counts submissions matching the filters.
	CountSubmissions(ctx context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus) (int, error)

	// DeleteSubmission deletes a submission by ID.
	DeleteSubmission(ctx context.Context, id string) error

	// Audit log

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action, subjectID, userID string, details map[string]any) error

	// FindAuditLog finds audit entries for a subject, newest first.
	FindAuditLog(ctx context.Context, subjectID string) ([]entities.AuditEntry, error)
}
