// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/voyage/voyage/internal/metrics"
	"github.com/voyage/voyage/internal/model"
	"github.com/voyage/voyage/internal/repository"
)

// Service errors.
var (
	ErrMemoryNotFound = errors.New("memory not found")
)

// Validation limits.
const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
	maxPlaceNameLength   = 100
)

// MemoryService handles memory business logic.
type MemoryService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewMemoryService creates a new MemoryService.
func NewMemoryService(repo *repository.Repository, recorder metrics.Recorder) *MemoryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MemoryService{
		repo:    repo,
		metrics: recorder,
	}
}

// MemoryInput defines input for creating a memory. Dates arrive as
// strings so a malformed value surfaces as a field error rather than
// a decode failure.
type MemoryInput struct {
	Title        string
	Description  string
	PlaceName    string
	LocationLink string
	FromDate     string
	ToDate       string
	Photo        string
}

// normalized trims surrounding whitespace from every text field, so a
// whitespace-only value fails the required checks and stored values
// match what was validated.
func (in MemoryInput) normalized() MemoryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.PlaceName = strings.TrimSpace(in.PlaceName)
	in.LocationLink = strings.TrimSpace(in.LocationLink)
	in.FromDate = strings.TrimSpace(in.FromDate)
	in.ToDate = strings.TrimSpace(in.ToDate)
	return in
}

// CreateMemory validates the input and stores a new memory for the owner.
func (s *MemoryService) CreateMemory(ctx context.Context, ownerID string, input MemoryInput) (*model.Memory, error) {
	input = input.normalized()
	fromDate, toDate, verrs := validateMemoryInput(input)
	if verrs.HasErrors() {
		return nil, verrs
	}

	now := time.Now().UTC()
	memory := &model.Memory{
		ID:           generateID(),
		Title:        input.Title,
		Description:  input.Description,
		PlaceName:    input.PlaceName,
		LocationLink: input.LocationLink,
		FromDate:     fromDate,
		ToDate:       toDate,
		Photo:        input.Photo,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateMemory(ctx, memory); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	s.metrics.IncMemoryCreated()

	return memory, nil
}

// GetMemory retrieves a single memory owned by the given user.
// Another owner's memory resolves to ErrMemoryNotFound.
func (s *MemoryService) GetMemory(ctx context.Context, ownerID, id string) (*model.Memory, error) {
	memory, err := s.repo.GetMemoryByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, err
	}

	return memory, nil
}

// ListMemoriesInput defines input for listing memories.
type ListMemoriesInput struct {
	Search string
	Year   *int
	Month  *int // 0-based, January = 0
}

// ListMemoriesOutput carries both the flat sequence and the
// year-to-month grouped view of the same result set.
type ListMemoriesOutput struct {
	Memories []*model.Memory
	Grouped  GroupedMemories
}

// ListMemories retrieves the owner's memories, newest trip first,
// optionally narrowed by search text, year, and month.
func (s *MemoryService) ListMemories(ctx context.Context, ownerID string, input ListMemoriesInput) (*ListMemoriesOutput, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveListDuration(time.Since(start))
	}()

	filter := repository.MemoryFilter{
		OwnerID: ownerID,
		Search:  input.Search,
		Year:    input.Year,
		Month:   input.Month,
	}

	memories, err := s.repo.ListMemories(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListMemoriesOutput{
		Memories: memories,
		Grouped:  GroupMemories(memories),
	}, nil
}

// UpdateMemoryInput defines input for a partial update. Nil fields are
// left untouched; set fields are revalidated together with the loaded
// record so the date invariant holds across the merge.
type UpdateMemoryInput struct {
	Title        *string
	Description  *string
	PlaceName    *string
	LocationLink *string
	FromDate     *string
	ToDate       *string
	Photo        *string
}

// UpdateMemory applies a partial update to an owned memory.
func (s *MemoryService) UpdateMemory(ctx context.Context, ownerID, id string, input UpdateMemoryInput) (*model.Memory, error) {
	memory, err := s.repo.GetMemoryByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, err
	}

	// Merge set fields onto the loaded record, then validate the result
	merged := MemoryInput{
		Title:        memory.Title,
		Description:  memory.Description,
		PlaceName:    memory.PlaceName,
		LocationLink: memory.LocationLink,
		FromDate:     memory.FromDate.Format(dateInputFormat),
		ToDate:       memory.ToDate.Format(dateInputFormat),
		Photo:        memory.Photo,
	}
	if input.Title != nil {
		merged.Title = *input.Title
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}
	if input.PlaceName != nil {
		merged.PlaceName = *input.PlaceName
	}
	if input.LocationLink != nil {
		merged.LocationLink = *input.LocationLink
	}
	if input.FromDate != nil {
		merged.FromDate = *input.FromDate
	}
	if input.ToDate != nil {
		merged.ToDate = *input.ToDate
	}

	merged = merged.normalized()
	fromDate, toDate, verrs := validateMemoryInput(merged)
	if verrs.HasErrors() {
		return nil, verrs
	}

	memory.Title = merged.Title
	memory.Description = merged.Description
	memory.PlaceName = merged.PlaceName
	memory.LocationLink = merged.LocationLink
	memory.FromDate = fromDate
	memory.ToDate = toDate
	memory.Photo = merged.Photo
	memory.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateMemory(ctx, memory); err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, err
	}

	s.metrics.IncMemoryUpdated()

	return memory, nil
}

// DeleteMemory removes an owned memory.
func (s *MemoryService) DeleteMemory(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteMemory(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return ErrMemoryNotFound
		}
		return err
	}

	s.metrics.IncMemoryDeleted()

	return nil
}

// DeleteAllMemories removes every memory the owner has and returns the count.
// Deleting from an empty collection is not an error.
func (s *MemoryService) DeleteAllMemories(ctx context.Context, ownerID string) (int64, error) {
	count, err := s.repo.DeleteAllMemories(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.metrics.AddMemoriesDeleted(uint64(count))
	}

	return count, nil
}

// dateInputFormat is the calendar-date wire format.
const dateInputFormat = "2006-01-02"

// parseDate accepts a calendar date, with or without a time component.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateInputFormat, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// validateMemoryInput checks every field and collects all faults so the
// client sees them in one response.
func validateMemoryInput(input MemoryInput) (time.Time, time.Time, model.ValidationErrors) {
	var verrs model.ValidationErrors

	if input.Title == "" {
		verrs.Add("title", "Title is required")
	} else if len(input.Title) > maxTitleLength {
		verrs.Add("title", fmt.Sprintf("Title must be at most %d characters", maxTitleLength))
	}

	if len(input.Description) > maxDescriptionLength {
		verrs.Add("description", fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength))
	}

	if input.PlaceName == "" {
		verrs.Add("placeName", "Place name is required")
	} else if len(input.PlaceName) > maxPlaceNameLength {
		verrs.Add("placeName", fmt.Sprintf("Place name must be at most %d characters", maxPlaceNameLength))
	}

	if input.LocationLink != "" {
		if err := validateLocationLink(input.LocationLink); err != nil {
			verrs.Add("locationLink", "Location link must be a valid http(s) URL")
		}
	}

	if input.Photo == "" {
		verrs.Add("photo", "Photo is required")
	}

	var fromDate, toDate time.Time
	var err error

	if input.FromDate == "" {
		verrs.Add("fromDate", "Start date is required")
	} else if fromDate, err = parseDate(input.FromDate); err != nil {
		verrs.Add("fromDate", "Start date must be a valid date")
	}

	if input.ToDate == "" {
		verrs.Add("toDate", "End date is required")
	} else if toDate, err = parseDate(input.ToDate); err != nil {
		verrs.Add("toDate", "End date must be a valid date")
	}

	// Only compare when both dates parsed
	if !fromDate.IsZero() && !toDate.IsZero() && toDate.Before(fromDate) {
		verrs.Add("toDate", "End date cannot be before start date")
	}

	return fromDate, toDate, verrs
}

// validateLocationLink requires a well-formed absolute http(s) URL.
func validateLocationLink(link string) error {
	parsed, err := url.Parse(link)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("unsupported scheme")
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// generateID generates a ULID for new records.
func generateID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
