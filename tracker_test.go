/*
 * Copyright 2025 the bookkeeper authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bookkeeper

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/bookkeeper-app/bookkeeper/models"
	"github.com/bookkeeper-app/bookkeeper/types"
)

func testTracker(t *testing.T) *Tracker {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	tracker, err := NewTracker(context.Background(), db)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tracker
}

func seedTestCategories(t *testing.T, tracker *Tracker) map[string]*models.Category {
	t.Helper()
	created, err := tracker.SeedCategories(context.Background(), []string{
		"food",
		"    meat",
		"        raw meat",
		"    sweets",
		"books",
	})
	if err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	byName := make(map[string]*models.Category, len(created))
	for _, c := range created {
		byName[c.Name] = c
	}
	return byName
}

func TestDeleteCategoryTree(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	byName := seedTestCategories(t, tracker)

	if err := tracker.DeleteCategoryTree(ctx, byName["food"].PK); err != nil {
		t.Fatalf("delete category tree: %v", err)
	}

	remaining, err := tracker.CategoryMap(ctx)
	if err != nil {
		t.Fatalf("category map: %v", err)
	}
	// food and its direct subcategories are gone; the grandchild stays.
	for _, gone := range []string{"food", "meat", "sweets"} {
		if _, ok := remaining[byName[gone].PK]; ok {
			t.Errorf("category %q should have been deleted", gone)
		}
	}
	for _, kept := range []string{"raw meat", "books"} {
		if _, ok := remaining[byName[kept].PK]; !ok {
			t.Errorf("category %q should have survived", kept)
		}
	}

	// Deleting an already removed category is not an error.
	if err := tracker.DeleteCategoryTree(ctx, byName["food"].PK); err != nil {
		t.Fatalf("second delete should be silent, got: %v", err)
	}
}

func TestRenameCategory(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	byName := seedTestCategories(t, tracker)

	if err := tracker.RenameCategory(ctx, byName["books"].PK, "literature"); err != nil {
		t.Fatalf("rename error: %v", err)
	}
	got, err := tracker.Categories().Get(ctx, byName["books"].PK)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Name != "literature" {
		t.Errorf("rename not visible, got %q", got.Name)
	}

	if err := tracker.RenameCategory(ctx, 9999, "nothing"); err == nil {
		t.Fatal("expected an error renaming an absent category")
	}
}

func TestExpensesByCategory(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	byName := seedTestCategories(t, tracker)

	if _, err := tracker.AddExpense(ctx, 500, byName["meat"].PK, "steak"); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := tracker.AddExpense(ctx, 300, byName["meat"].PK, ""); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := tracker.AddExpense(ctx, 1200, byName["books"].PK, "novel"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	meat, err := tracker.ExpensesByCategory(ctx, byName["meat"].PK)
	if err != nil {
		t.Fatalf("expenses by category: %v", err)
	}
	if len(meat) != 2 {
		t.Fatalf("expected 2 meat expenses, got %d", len(meat))
	}
	for _, e := range meat {
		if e.Category != byName["meat"].PK {
			t.Errorf("wrong category on %+v", e)
		}
	}
}

func TestCurrentBudgetPicksLatest(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()

	none, err := tracker.CurrentBudget(ctx)
	if err != nil {
		t.Fatalf("current budget: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no budget, got %+v", none)
	}

	old := models.NewBudget(100, 700, 3000)
	old.Date = types.NewDateTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if _, err := tracker.Budgets().Add(ctx, old); err != nil {
		t.Fatalf("add budget: %v", err)
	}
	newer := models.NewBudget(200, 1400, 6000)
	newer.Date = types.NewDateTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if _, err := tracker.Budgets().Add(ctx, newer); err != nil {
		t.Fatalf("add budget: %v", err)
	}

	current, err := tracker.CurrentBudget(ctx)
	if err != nil {
		t.Fatalf("current budget: %v", err)
	}
	if current == nil || current.DailyAmount != 200 {
		t.Fatalf("expected the June budget, got %+v", current)
	}
}

func TestSetBudget(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()

	if _, err := tracker.SetBudget(ctx, 1000, 7000, 30000); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	current, err := tracker.CurrentBudget(ctx)
	if err != nil {
		t.Fatalf("current budget: %v", err)
	}
	if current == nil || current.WeeklyAmount != 7000 {
		t.Fatalf("expected the stored budget, got %+v", current)
	}
}

func TestSpentTotals(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	byName := seedTestCategories(t, tracker)

	// Wednesday; the week opened on Monday June 9, the month on June 1.
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)

	addExpenseAt := func(amount int64, at time.Time) {
		t.Helper()
		e := models.NewExpense(amount, byName["food"].PK, "")
		e.ExpenseDate = types.NewDateTime(at)
		if _, err := tracker.Expenses().Add(ctx, e); err != nil {
			t.Fatalf("add expense: %v", err)
		}
	}

	addExpenseAt(100, now.Add(-2*time.Hour))                           // today
	addExpenseAt(200, time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC))     // Monday, this week
	addExpenseAt(400, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))     // this month, last week
	addExpenseAt(800, time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC))    // last month
	addExpenseAt(1600, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))   // midnight today, inclusive
	addExpenseAt(3200, time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)) // yesterday

	totals, err := tracker.SpentTotals(ctx, now)
	if err != nil {
		t.Fatalf("spent totals: %v", err)
	}
	if totals.Daily != 1700 {
		t.Errorf("daily: expected 1700, got %d", totals.Daily)
	}
	if totals.Weekly != 5100 {
		t.Errorf("weekly: expected 5100, got %d", totals.Weekly)
	}
	if totals.Monthly != 5500 {
		t.Errorf("monthly: expected 5500, got %d", totals.Monthly)
	}
}
