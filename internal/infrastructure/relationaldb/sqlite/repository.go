// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Repository implements ports.Store using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Roster characters
	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL UNIQUE,
		race TEXT NOT NULL DEFAULT '',
		job TEXT NOT NULL DEFAULT '',
		village TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_characters_owner ON characters(owner_user_id);
	CREATE INDEX IF NOT EXISTS idx_characters_normalized ON characters(normalized_name);

	-- Directed relationship records. The endpoint refs are stored as JSON so
	-- records keep their name snapshots even after a character is deleted;
	-- the id columns exist for indexed lookups.
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		source_ref TEXT NOT NULL,
		target_ref TEXT NOT NULL,
		types TEXT NOT NULL,
		primary_type TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_owner ON relationships(owner_user_id);

	-- Member quest ideas and suggestions
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		author_user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		status TEXT NOT NULL,
		embedding TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_kind ON submissions(kind);
	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		subject_id TEXT,
		user_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_subject ON audit_log(subject_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveCharacter saves or updates a roster character.
func (r *Repository) SaveCharacter(ctx context.Context, ch *entities.Character) error {
	query := `
		INSERT INTO characters (id, owner_user_id, name, normalized_name, race, job, village, icon, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_user_id = excluded.owner_user_id,
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			race = excluded.race,
			job = excluded.job,
			village = excluded.village,
			icon = excluded.icon,
			bio = excluded.bio,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		ch.ID,
		ch.OwnerUserID,
		ch.Name,
		ch.NormalizedName,
		ch.Race,
		ch.Job,
		ch.Village,
		ch.Icon,
		ch.Bio,
		ch.CreatedAt,
		ch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	return nil
}

// FindCharacterByID finds a character by its ID.
func (r *Repository) FindCharacterByID(ctx context.Context, id string) (*entities.Character, error) {
	query := characterSelect + ` WHERE id = ?`
	return r.scanCharacterRow(r.db.QueryRowContext(ctx, query, id))
}

// FindCharacterByName finds a character by its normalized name (case-insensitive).
func (r *Repository) FindCharacterByName(ctx context.Context, name string) (*entities.Character, error) {
	query := characterSelect + ` WHERE normalized_name = ?`
	return r.scanCharacterRow(r.db.QueryRowContext(ctx, query, entities.NormalizeName(name)))
}

// ListCharacters lists roster characters with pagination, newest first.
func (r *Repository) ListCharacters(ctx context.Context, limit, offset int) ([]*entities.Character, error) {
	query := characterSelect + `
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`
	return r.queryCharacters(ctx, query, limit, offset)
}

// SearchCharacters searches characters by name pattern.
func (r *Repository) SearchCharacters(ctx context.Context, query string, limit int) ([]*entities.Character, error) {
	pattern := "%" + entities.NormalizeName(query) + "%"
	sqlQuery := characterSelect + `
		WHERE normalized_name LIKE ?
		ORDER BY name ASC
		LIMIT ?
	`
	return r.queryCharacters(ctx, sqlQuery, pattern, limit)
}

// DeleteCharacter deletes a character by ID.
func (r *Repository) DeleteCharacter(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("character not found: %s", id)
	}
	return nil
}

// CountCharacters returns the roster size.
func (r *Repository) CountCharacters(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return count, nil
}

// GroupCharactersByRace returns roster counts keyed by race.
func (r *Repository) GroupCharactersByRace(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT race, COUNT(*) FROM characters WHERE race != '' GROUP BY race`)
}

// GroupCharactersByVillage returns roster counts keyed by home village.
func (r *Repository) GroupCharactersByVillage(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT village, COUNT(*) FROM characters WHERE village != '' GROUP BY village`)
}

const characterSelect = `
	SELECT id, owner_user_id, name, normalized_name, race, job, village, icon, bio, created_at, updated_at
	FROM characters`

// scanCharacterRow scans a single character row, mapping no-rows to nil.
func (r *Repository) scanCharacterRow(row *sql.Row) (*entities.Character, error) {
	var ch entities.Character
	err := row.Scan(
		&ch.ID,
		&ch.OwnerUserID,
		&ch.Name,
		&ch.NormalizedName,
		&ch.Race,
		&ch.Job,
		&ch.Village,
		&ch.Icon,
		&ch.Bio,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning character: %w", err)
	}
	return &ch, nil
}

// queryCharacters is a helper to execute character list queries.
func (r *Repository) queryCharacters(ctx context.Context, query string, args ...any) ([]*entities.Character, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Character, 0, 16)
	for rows.Next() {
		var ch entities.Character
		if err := rows.Scan(
			&ch.ID,
			&ch.OwnerUserID,
			&ch.Name,
			&ch.NormalizedName,
			&ch.Race,
			&ch.Job,
			&ch.Village,
			&ch.Icon,
			&ch.Bio,
			&ch.CreatedAt,
			&ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		result = append(result, &ch)
	}
	return result, rows.Err()
}

// SaveRelationship saves or updates a relationship record.
func (r *Repository) SaveRelationship(ctx context.Context, rel *entities.Relationship) error {
	sourceRef, err := json.Marshal(rel.Source)
	if err != nil {
		return fmt.Errorf("marshaling source ref: %w", err)
	}
	targetRef, err := json.Marshal(rel.Target)
	if err != nil {
		return fmt.Errorf("marshaling target ref: %w", err)
	}
	types, err := json.Marshal(rel.Types)
	if err != nil {
		return fmt.Errorf("marshaling types: %w", err)
	}

	query := `
		INSERT INTO relationships (id, owner_user_id, source_id, target_id, source_ref, target_ref, types, primary_type, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_user_id = excluded.owner_user_id,
			source_id = excluded.source_id,
			target_id = excluded.target_id,
			source_ref = excluded.source_ref,
			target_ref = excluded.target_ref,
			types = excluded.types,
			primary_type = excluded.primary_type,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		rel.ID,
		rel.OwnerUserID,
		rel.Source.ID(),
		rel.Target.ID(),
		string(sourceRef),
		string(targetRef),
		string(types),
		string(rel.PrimaryType()),
		rel.Note,
		rel.CreatedAt,
		rel.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving relationship: %w", err)
	}
	return nil
}

// FindRelationshipByID finds a relationship by ID.
func (r *Repository) FindRelationshipByID(ctx context.Context, id string) (*entities.Relationship, error) {
	query := relationshipSelect + ` WHERE id = ?`
	rels, err := r.queryRelationships(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}

// FindRelationshipsBySource returns records authored from the character's
// side, in creation order.
func (r *Repository) FindRelationshipsBySource(ctx context.Context, characterID string) ([]entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE source_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	return r.queryRelationships(ctx, query, characterID)
}

// FindRelationshipsByTarget returns records directed at the character, in
// creation order.
func (r *Repository) FindRelationshipsByTarget(ctx context.Context, characterID string) ([]entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE target_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	return r.queryRelationships(ctx, query, characterID)
}

// ListRelationships returns the roster's entire relationship set.
func (r *Repository) ListRelationships(ctx context.Context) ([]entities.Relationship, error) {
	query := relationshipSelect + ` ORDER BY created_at ASC, rowid ASC`
	return r.queryRelationships(ctx, query)
}

// DeleteRelationship deletes a relationship by ID.
func (r *Repository) DeleteRelationship(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship not found: %s", id)
	}
	return nil
}

// DeleteRelationshipsByCharacter deletes all records referencing a character.
func (r *Repository) DeleteRelationshipsByCharacter(ctx context.Context, characterID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE source_id = ? OR target_id = ?`,
		characterID, characterID,
	)
	if err != nil {
		return fmt.Errorf("deleting relationships by character: %w", err)
	}
	return nil
}

// CountRelationships returns the total number of relationship records.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

// GroupRelationshipsByPrimaryType returns record counts keyed by primary tag.
func (r *Repository) GroupRelationshipsByPrimaryType(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT primary_type, COUNT(*) FROM relationships GROUP BY primary_type`)
}

const relationshipSelect = `
	SELECT id, owner_user_id, source_ref, target_ref, types, note, created_at, updated_at
	FROM relationships`

// queryRelationships is a helper to execute relationship queries.
func (r *Repository) queryRelationships(ctx context.Context, query string, args ...any) ([]entities.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	relationships := make([]entities.Relationship, 0, 16)
	for rows.Next() {
		var rel entities.Relationship
		var sourceRef, targetRef, types string
		if err := rows.Scan(
			&rel.ID,
			&rel.OwnerUserID,
			&sourceRef,
			&targetRef,
			&types,
			&rel.Note,
			&rel.CreatedAt,
			&rel.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}

		// CharacterRef leaves a zero ref on malformed payloads; only invalid
		// JSON errors here.
		if err := json.Unmarshal([]byte(sourceRef), &rel.Source); err != nil {
			return nil, fmt.Errorf("unmarshaling source ref: %w", err)
		}
		if err := json.Unmarshal([]byte(targetRef), &rel.Target); err != nil {
			return nil, fmt.Errorf("unmarshaling target ref: %w", err)
		}
		if err := json.Unmarshal([]byte(types), &rel.Types); err != nil {
			return nil, fmt.Errorf("unmarshaling types: %w", err)
		}

		relationships = append(relationships, rel)
	}
	return relationships, rows.Err()
}

// SaveSubmission saves or updates a member submission.
func (r *Repository) SaveSubmission(ctx context.Context, sub *entities.Submission) error {
	var embedding sql.NullString
	if len(sub.Embedding) > 0 {
		data, err := json.Marshal(sub.Embedding)
		if err != nil {
			return fmt.Errorf("marshaling embedding: %w", err)
		}
		embedding = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO submissions (id, kind, author_user_id, title, body, status, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			author_user_id = excluded.author_user_id,
			title = excluded.title,
			body = excluded.body,
			status = excluded.status,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID,
		string(sub.Kind),
		sub.AuthorUserID,
		sub.Title,
		sub.Body,
		string(sub.Status),
		embedding,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving submission: %w", err)
	}
	return nil
}

// FindSubmissionByID finds a submission by ID.
func (r *Repository) FindSubmissionByID(ctx context.Context, id string) (*entities.Submission, error) {
	query := submissionSelect + ` WHERE id = ?`
	subs, err := r.querySubmissions(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

// ListSubmissions lists submissions, newest first, with optional filters.
func (r *Repository) ListSubmissions(ctx context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus, limit, offset int) ([]*entities.Submission, error) {
	query, args := submissionFilter(submissionSelect, kind, status)
	query += `
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)
	return r.querySubmissions(ctx, query, args...)
}

// CountSubmissions counts submissions matching the filters.
func (r *Repository) CountSubmissions(ctx context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus) (int, error) {
	query, args := submissionFilter(`SELECT COUNT(*) FROM submissions`, kind, status)
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return count, nil
}

// DeleteSubmission deletes a submission by ID.
func (r *Repository) DeleteSubmission(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return nil
}

const submissionSelect = `
	SELECT id, kind, author_user_id, title, body, status, embedding, created_at, updated_at
	FROM submissions`

// submissionFilter appends WHERE clauses for the non-empty filters.
func submissionFilter(base string, kind entities.SubmissionKind, status entities.SubmissionStatus) (string, []any) {
	query := base
	var args []any
	clause := " WHERE"
	if kind != "" {
		query += clause + " kind = ?"
		args = append(args, string(kind))
		clause = " AND"
	}
	if status != "" {
		query += clause + " status = ?"
		args = append(args, string(status))
	}
	return query, args
}

// querySubmissions is a helper to execute submission queries.
func (r *Repository) querySubmissions(ctx context.Context, query string, args ...any) ([]*entities.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Submission, 0, 16)
	for rows.Next() {
		var sub entities.Submission
		var kind, status string
		var embedding sql.NullString
		if err := rows.Scan(
			&sub.ID,
			&kind,
			&sub.AuthorUserID,
			&sub.Title,
			&sub.Body,
			&status,
			&embedding,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}

		sub.Kind = entities.SubmissionKind(kind)
		sub.Status = entities.SubmissionStatus(status)
		if embedding.Valid && embedding.String != "" {
			if err := json.Unmarshal([]byte(embedding.String), &sub.Embedding); err != nil {
				return nil, fmt.Errorf("unmarshaling embedding: %w", err)
			}
		}

		result = append(result, &sub)
	}
	return result, rows.Err()
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, subjectID, userID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var subjectPtr sql.NullString
	if subjectID != "" {
		subjectPtr = sql.NullString{String: subjectID, Valid: true}
	}
	var userPtr sql.NullString
	if userID != "" {
		userPtr = sql.NullString{String: userID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, subject_id, user_id, details) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, subjectPtr, userPtr, detailsJSON)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a subject, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, subjectID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, subject_id, user_id, details, created_at
		FROM audit_log
		WHERE subject_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var subject, user, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&subject,
			&user,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.SubjectID = subject.String
		entry.UserID = user.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// groupCount runs a two-column (key, count) aggregation query.
func (r *Repository) groupCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying group counts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scanning group count: %w", err)
		}
		result[key] = count
	}
	return result, rows.Err()
}
