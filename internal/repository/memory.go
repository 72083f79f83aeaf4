package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/voyage/voyage/internal/model"
)

// Common errors for memory repository operations.
var (
	// ErrMemoryNotFound is returned when no memory matches both the id and
	// the owner. A record owned by someone else is indistinguishable from
	// an absent one.
	ErrMemoryNotFound = errors.New("memory not found")
)

// MemoryFilter defines filters for listing memories.
// OwnerID is mandatory; every query conjoins owner equality.
type MemoryFilter struct {
	OwnerID string
	Search  string
	Year    *int
	Month   *int // 0-based calendar month
}

// BuildMemoryQuery translates a MemoryFilter into a WHERE clause and its
// arguments. The clause always starts with the owner-equality conjunct.
func BuildMemoryQuery(filter MemoryFilter) (string, []any) {
	clauses := []string{"owner_id = $1"}
	args := []any{filter.OwnerID}
	argIndex := 2

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLikePattern(search) + "%"
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR place_name ILIKE $%d OR description ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, pattern)
		argIndex++
	}

	switch {
	case filter.Year != nil && filter.Month != nil:
		// Half-open range within the given year; December rolls into
		// January of the following year.
		start := time.Date(*filter.Year, time.Month(*filter.Month+1), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		clauses = append(clauses, fmt.Sprintf("from_date >= $%d AND from_date < $%d", argIndex, argIndex+1))
		args = append(args, start, end)
		argIndex += 2

	case filter.Year != nil:
		start := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		clauses = append(clauses, fmt.Sprintf("from_date >= $%d AND from_date < $%d", argIndex, argIndex+1))
		args = append(args, start, end)
		argIndex += 2

	case filter.Month != nil:
		// Month without a year matches the calendar month across all
		// years. EXTRACT months are 1-based.
		clauses = append(clauses, fmt.Sprintf("EXTRACT(MONTH FROM from_date) = $%d", argIndex))
		args = append(args, *filter.Month+1)
		argIndex++
	}

	return strings.Join(clauses, " AND "), args
}

// CreateMemory inserts a new memory into the database.
func (r *Repository) CreateMemory(ctx context.Context, memory *model.Memory) error {
	query := `
		INSERT INTO memories (id, title, description, place_name, location_link, from_date, to_date, photo, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		memory.ID,
		memory.Title,
		memory.Description,
		memory.PlaceName,
		memory.LocationLink,
		memory.FromDate,
		memory.ToDate,
		memory.Photo,
		memory.OwnerID,
		memory.CreatedAt,
		memory.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}

	return nil
}

// GetMemoryByID retrieves a memory by id, scoped to the owner.
func (r *Repository) GetMemoryByID(ctx context.Context, ownerID, id string) (*model.Memory, error) {
	query := `
		SELECT id, title, description, place_name, location_link, from_date, to_date, photo, owner_id, created_at, updated_at
		FROM memories
		WHERE id = $1 AND owner_id = $2
	`

	memory, err := scanMemory(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("failed to get memory by ID: %w", err)
	}

	return memory, nil
}

// ListMemories retrieves all memories matching the filter, sorted by start
// date descending with creation time descending as tie-break. The result is
// a finite snapshot slice, not a live cursor.
func (r *Repository) ListMemories(ctx context.Context, filter MemoryFilter) ([]*model.Memory, error) {
	where, args := BuildMemoryQuery(filter)

	query := `
		SELECT id, title, description, place_name, location_link, from_date, to_date, photo, owner_id, created_at, updated_at
		FROM memories
		WHERE ` + where + `
		ORDER BY from_date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	var memories []*model.Memory
	for rows.Next() {
		memory, err := scanMemoryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}

	return memories, nil
}

// UpdateMemory updates a memory's mutable fields, scoped to id AND owner
// jointly.
func (r *Repository) UpdateMemory(ctx context.Context, memory *model.Memory) error {
	query := `
		UPDATE memories
		SET title = $3, description = $4, place_name = $5, location_link = $6, from_date = $7, to_date = $8, photo = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		memory.ID,
		memory.OwnerID,
		memory.Title,
		memory.Description,
		memory.PlaceName,
		memory.LocationLink,
		memory.FromDate,
		memory.ToDate,
		memory.Photo,
		memory.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemoryNotFound
	}

	return nil
}

// DeleteMemory deletes a memory, scoped to id AND owner jointly.
func (r *Repository) DeleteMemory(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM memories WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemoryNotFound
	}

	return nil
}

// DeleteAllMemories deletes every memory owned by ownerID and returns the
// number of records removed.
func (r *Repository) DeleteAllMemories(ctx context.Context, ownerID string) (int64, error) {
	query := `DELETE FROM memories WHERE owner_id = $1`

	result, err := r.pool.Exec(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete memories: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanMemory scans a single row into a Memory model.
func scanMemory(row pgx.Row) (*model.Memory, error) {
	var memory model.Memory
	err := row.Scan(
		&memory.ID,
		&memory.Title,
		&memory.Description,
		&memory.PlaceName,
		&memory.LocationLink,
		&memory.FromDate,
		&memory.ToDate,
		&memory.Photo,
		&memory.OwnerID,
		&memory.CreatedAt,
		&memory.UpdatedAt,
	)
	return &memory, err
}

// scanMemoryFromRows scans a row from pgx.Rows into a Memory model.
func scanMemoryFromRows(rows pgx.Rows) (*model.Memory, error) {
	var memory model.Memory
	err := rows.Scan(
		&memory.ID,
		&memory.Title,
		&memory.Description,
		&memory.PlaceName,
		&memory.LocationLink,
		&memory.FromDate,
		&memory.ToDate,
		&memory.Photo,
		&memory.OwnerID,
		&memory.CreatedAt,
		&memory.UpdatedAt,
	)
	return &memory, err
}

// escapeLikePattern escapes LIKE wildcards in user-supplied search text so
// the match stays a literal substring match.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	// PostgreSQL error code 23505 is unique_violation
	return err != nil && (strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "unique"))
}
