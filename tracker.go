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
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/bookkeeper-app/bookkeeper/database"
	"github.com/bookkeeper-app/bookkeeper/models"
	"github.com/bookkeeper-app/bookkeeper/repository"
	"github.com/bookkeeper-app/bookkeeper/utils"
)

// SpentTotals aggregates expenses for the periods a budget covers, in minor
// currency units.
type SpentTotals struct {
	Daily   int64
	Weekly  int64
	Monthly int64
}

// Tracker is the application facade: one repository per model shape over a
// shared connection. It is driven by one logical caller at a time; callers
// needing concurrency must serialize externally.
type Tracker struct {
	categories repository.Repository[models.Category]
	expenses   repository.Repository[models.Expense]
	budgets    repository.Repository[models.Budget]
	logger     *utils.Logger
}

// NewTracker wires a Tracker over an initialized Bun DB, creating the three
// model tables if absent.
func NewTracker(ctx context.Context, db *bun.DB) (*Tracker, error) {
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	categories, err := repository.NewRepository[models.Category](ctx, db)
	if err != nil {
		return nil, err
	}
	expenses, err := repository.NewRepository[models.Expense](ctx, db)
	if err != nil {
		return nil, err
	}
	budgets, err := repository.NewRepository[models.Budget](ctx, db)
	if err != nil {
		return nil, err
	}

	return &Tracker{
		categories: categories,
		expenses:   expenses,
		budgets:    budgets,
		logger:     utils.NewLogger("TRACKER"),
	}, nil
}

// Open initializes the global database from cfg and returns a Tracker over
// it. Close releases the connection.
func Open(ctx context.Context, cfg *database.Config) (*Tracker, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return NewTracker(ctx, db)
}

// Close releases the global database connection. The Tracker and its
// repositories must not be used afterwards.
func (t *Tracker) Close() error {
	return database.CloseDB()
}

// Categories exposes the category repository.
func (t *Tracker) Categories() repository.Repository[models.Category] { return t.categories }

// Expenses exposes the expense repository.
func (t *Tracker) Expenses() repository.Repository[models.Expense] { return t.expenses }

// Budgets exposes the budget repository.
func (t *Tracker) Budgets() repository.Repository[models.Budget] { return t.budgets }

// AddCategory creates a category; parent may be nil for a top-level one.
func (t *Tracker) AddCategory(ctx context.Context, name string, parent *int64) (*models.Category, error) {
	cat := models.NewCategory(name, parent)
	if _, err := t.categories.Add(ctx, cat); err != nil {
		return nil, err
	}
	t.logger.Infof("category added: %s", cat)
	return cat, nil
}

// RenameCategory changes the name of an existing category.
func (t *Tracker) RenameCategory(ctx context.Context, pk int64, name string) error {
	cat, err := t.categories.Get(ctx, pk)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category pk=%d", repository.ErrNotFound, pk)
	}
	cat.Name = name
	return t.categories.Update(ctx, cat)
}

// DeleteCategoryTree removes a category and its direct subcategories. A
// category that is already gone is not an error.
func (t *Tracker) DeleteCategoryTree(ctx context.Context, pk int64) error {
	if err := t.categories.Delete(ctx, pk); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	children, err := t.categories.GetAll(ctx, repository.Filter{"parent": pk})
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := t.categories.Delete(ctx, child.PK); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}

// CategoryMap returns all categories keyed by pk.
func (t *Tracker) CategoryMap(ctx context.Context) (map[int64]*models.Category, error) {
	cats, err := t.categories.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	byPK := make(map[int64]*models.Category, len(cats))
	for _, cat := range cats {
		byPK[cat.PK] = cat
	}
	return byPK, nil
}

// SeedCategories parses an indented outline and persists the resulting
// category tree.
func (t *Tracker) SeedCategories(ctx context.Context, lines []string) ([]*models.Category, error) {
	nodes, err := utils.ReadTree(lines)
	if err != nil {
		return nil, err
	}
	return models.CreateFromTree(ctx, nodes, t.categories)
}

// AddExpense records a spending operation dated now. The category reference
// is not validated; referential integrity is the caller's responsibility.
func (t *Tracker) AddExpense(ctx context.Context, amount int64, category int64, comment string) (*models.Expense, error) {
	exp := models.NewExpense(amount, category, comment)
	if _, err := t.expenses.Add(ctx, exp); err != nil {
		return nil, err
	}
	t.logger.Infof("expense added: %s", exp)
	return exp, nil
}

// ExpensesByCategory returns all expenses referencing the given category.
func (t *Tracker) ExpensesByCategory(ctx context.Context, category int64) ([]*models.Expense, error) {
	return t.expenses.GetAll(ctx, repository.Filter{"category": category})
}

// SetBudget records new spending limits dated now. Earlier budgets are kept;
// CurrentBudget picks the latest.
func (t *Tracker) SetBudget(ctx context.Context, daily, weekly, monthly int64) (*models.Budget, error) {
	budget := models.NewBudget(daily, weekly, monthly)
	if _, err := t.budgets.Add(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// CurrentBudget returns the budget with the latest date, or (nil, nil) when
// none has been set.
func (t *Tracker) CurrentBudget(ctx context.Context) (*models.Budget, error) {
	budgets, err := t.budgets.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	var latest *models.Budget
	for _, b := range budgets {
		if latest == nil || b.Date.After(latest.Date.Time) {
			latest = b
		}
	}
	return latest, nil
}

// SpentTotals sums expenses since the start of the day, the week (Monday),
// and the month containing now.
func (t *Tracker) SpentTotals(ctx context.Context, now time.Time) (SpentTotals, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	expenses, err := t.expenses.GetAll(ctx, nil)
	if err != nil {
		return SpentTotals{}, err
	}

	var totals SpentTotals
	for _, e := range expenses {
		d := e.ExpenseDate.Time
		if !d.Before(dayStart) {
			totals.Daily += e.Amount
		}
		if !d.Before(weekStart) {
			totals.Weekly += e.Amount
		}
		if !d.Before(monthStart) {
			totals.Monthly += e.Amount
		}
	}
	return totals, nil
}
