//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voyage/voyage/internal/testutil"
)

// ============================================================================
// Memory Repository Integration Tests
// ============================================================================

func TestIntegrationMemoryRepository_CreateAndGet(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	memory := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.June, 20))
	memory.Title = "Kyoto Trip"
	memory.PlaceName = "Kyoto"

	if err := repo.CreateMemory(ctx, memory); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}

	retrieved, err := repo.GetMemoryByID(ctx, ownerID, memory.ID)
	if err != nil {
		t.Fatalf("GetMemoryByID failed: %v", err)
	}

	if retrieved.Title != "Kyoto Trip" {
		t.Errorf("Title = %q, want Kyoto Trip", retrieved.Title)
	}
	if !retrieved.FromDate.Equal(memory.FromDate) {
		t.Errorf("FromDate = %v, want %v", retrieved.FromDate, memory.FromDate)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationMemoryRepository_OwnerIsolation(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Record owned by the other user.
	theirs := testutil.NewTestMemory(t, other.ID, utcDate(2024, time.May, 1))
	if err := repo.CreateMemory(ctx, theirs); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}

	// Reads, updates and deletes with our identity must never touch it,
	// even with their valid record id.
	if _, err := repo.GetMemoryByID(ctx, ownerID, theirs.ID); !errors.Is(err, ErrMemoryNotFound) {
		t.Errorf("GetMemoryByID across owners = %v, want ErrMemoryNotFound", err)
	}

	stolen := *theirs
	stolen.OwnerID = ownerID
	stolen.Title = "Hijacked"
	if err := repo.UpdateMemory(ctx, &stolen); !errors.Is(err, ErrMemoryNotFound) {
		t.Errorf("UpdateMemory across owners = %v, want ErrMemoryNotFound", err)
	}

	if err := repo.DeleteMemory(ctx, ownerID, theirs.ID); !errors.Is(err, ErrMemoryNotFound) {
		t.Errorf("DeleteMemory across owners = %v, want ErrMemoryNotFound", err)
	}

	// The record is untouched for its real owner.
	kept, err := repo.GetMemoryByID(ctx, other.ID, theirs.ID)
	if err != nil {
		t.Fatalf("GetMemoryByID for real owner failed: %v", err)
	}
	if kept.Title == "Hijacked" {
		t.Error("record was mutated across owners")
	}

	memories, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID})
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	for _, m := range memories {
		if m.OwnerID != ownerID {
			t.Errorf("ListMemories leaked record owned by %s", m.OwnerID)
		}
	}
}

func TestIntegrationMemoryRepository_ListSortedDescending(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	dates := []time.Time{
		utcDate(2023, time.February, 10),
		utcDate(2024, time.August, 1),
		utcDate(2024, time.March, 5),
	}
	for _, d := range dates {
		m := testutil.NewTestMemory(t, ownerID, d)
		if err := repo.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory failed: %v", err)
		}
	}

	memories, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID})
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}

	if len(memories) != 3 {
		t.Fatalf("len = %d, want 3", len(memories))
	}
	for i := 1; i < len(memories); i++ {
		if memories[i].FromDate.After(memories[i-1].FromDate) {
			t.Errorf("memories not sorted by from_date descending at index %d", i)
		}
	}
}

func TestIntegrationMemoryRepository_FilterByYearAndMonth(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	jan2024 := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.January, 15))
	jun2024 := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.June, 20))
	jun2023 := testutil.NewTestMemory(t, ownerID, utcDate(2023, time.June, 20))
	if err := repo.CreateMemory(ctx, jan2024); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}
	if err := repo.CreateMemory(ctx, jun2024); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}
	if err := repo.CreateMemory(ctx, jun2023); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}

	year := 2024
	byYear, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID, Year: &year})
	if err != nil {
		t.Fatalf("ListMemories by year failed: %v", err)
	}
	if len(byYear) != 2 {
		t.Fatalf("year filter returned %d memories, want 2", len(byYear))
	}
	for _, m := range byYear {
		if m.FromDate.Year() != 2024 {
			t.Errorf("year filter leaked memory from %d", m.FromDate.Year())
		}
	}

	month := 5 // June, 0-based
	byMonth, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID, Year: &year, Month: &month})
	if err != nil {
		t.Fatalf("ListMemories by year+month failed: %v", err)
	}
	if len(byMonth) != 1 || byMonth[0].ID != jun2024.ID {
		t.Errorf("year+month filter returned wrong set: %d memories", len(byMonth))
	}

	// Month without year matches the calendar month across all years.
	monthOnly, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID, Month: &month})
	if err != nil {
		t.Fatalf("ListMemories by month failed: %v", err)
	}
	if len(monthOnly) != 2 {
		t.Errorf("month-only filter returned %d memories, want 2 (both Junes)", len(monthOnly))
	}
}

func TestIntegrationMemoryRepository_Search(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	paris := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.April, 2))
	paris.Title = "Paris Trip"
	paris.PlaceName = "Paris"
	paris.Description = "Eiffel Tower visit"
	if err := repo.CreateMemory(ctx, paris); err != nil {
		t.Fatalf("CreateMemory failed: %v", err)
	}

	hit, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID, Search: "eiffel"})
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(hit) != 1 {
		t.Errorf("search %q returned %d memories, want 1", "eiffel", len(hit))
	}

	miss, err := repo.ListMemories(ctx, MemoryFilter{OwnerID: ownerID, Search: "london"})
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(miss) != 0 {
		t.Errorf("search %q returned %d memories, want 0", "london", len(miss))
	}
}

func TestIntegrationMemoryRepository_DeleteAll(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	for i := 0; i < 3; i++ {
		m := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.March, i+1))
		m.ID = testutil.UniqueID("mem")
		if err := repo.CreateMemory(ctx, m); err != nil {
			t.Fatalf("CreateMemory failed: %v", err)
		}
	}

	count, err := repo.DeleteAllMemories(ctx, ownerID)
	if err != nil {
		t.Fatalf("DeleteAllMemories failed: %v", err)
	}
	if count != 3 {
		t.Errorf("deleted count = %d, want 3", count)
	}

	// A second bulk delete is a no-op.
	count, err = repo.DeleteAllMemories(ctx, ownerID)
	if err != nil {
		t.Fatalf("DeleteAllMemories (second) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second delete count = %d, want 0", count)
	}
}

func TestIntegrationMemoryRepository_DateCheckConstraint(t *testing.T) {
	ctx, repo, ownerID := newMemoryTestEnv(t)

	m := testutil.NewTestMemory(t, ownerID, utcDate(2024, time.March, 10))
	m.ToDate = utcDate(2024, time.March, 5)

	// The schema-level CHECK backs up the application validator.
	if err := repo.CreateMemory(ctx, m); err == nil {
		t.Error("CreateMemory accepted to_date < from_date")
	}
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newMemoryTestEnv(t *testing.T) (context.Context, *Repository, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("owner"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}

	return ctx, repo, owner.ID
}
