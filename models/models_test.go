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

package models

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/bookkeeper-app/bookkeeper/database"
	"github.com/bookkeeper-app/bookkeeper/repository"
	"github.com/bookkeeper-app/bookkeeper/utils"
)

func testDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRegisteredModelOrder(t *testing.T) {
	instances := database.RegisteredModelInstances()
	if len(instances) < 3 {
		t.Fatalf("expected at least 3 registered models, got %d", len(instances))
	}

	var order []string
	for _, inst := range instances {
		switch inst.(type) {
		case *Category:
			order = append(order, "category")
		case *Expense:
			order = append(order, "expense")
		case *Budget:
			order = append(order, "budget")
		}
	}
	want := []string{"category", "expense", "budget"}
	if len(order) != 3 {
		t.Fatalf("expected the 3 bookkeeper shapes, got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected creation order %v, got %v", want, order)
		}
	}
}

func TestNewExpenseDefaults(t *testing.T) {
	before := time.Now()
	e := NewExpense(1250, 3, "lunch")

	if e.PK != 0 {
		t.Errorf("new expense must be unpersisted, got pk=%d", e.PK)
	}
	if e.Amount != 1250 || e.Category != 3 || e.Comment != "lunch" {
		t.Errorf("unexpected attributes: %+v", e)
	}
	if e.ExpenseDate.Before(before) || e.AddedDate.Before(before) {
		t.Errorf("dates not defaulted to now: %s / %s", e.ExpenseDate, e.AddedDate)
	}
	if !e.ExpenseDate.Equal(e.AddedDate) {
		t.Errorf("expected both dates equal, got %s / %s", e.ExpenseDate, e.AddedDate)
	}
}

func TestNewBudgetDatedNow(t *testing.T) {
	before := time.Now()
	b := NewBudget(1000, 7000, 30000)

	if b.PK != 0 {
		t.Errorf("new budget must be unpersisted, got pk=%d", b.PK)
	}
	if b.Date.Before(before) {
		t.Errorf("date not defaulted to now: %s", b.Date)
	}
	if b.DailyAmount != 1000 || b.WeeklyAmount != 7000 || b.MonthlyAmount != 30000 {
		t.Errorf("unexpected amounts: %+v", b)
	}
}

func TestCategoryParentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewRepository[Category](ctx, testDB(t))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	food := NewCategory("food", nil)
	if _, err := repo.Add(ctx, food); err != nil {
		t.Fatalf("add error: %v", err)
	}

	meat := NewCategory("meat", &food.PK)
	pk, err := repo.Add(ctx, meat)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	got, err := repo.Get(ctx, pk)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Parent == nil || *got.Parent != food.PK {
		t.Fatalf("parent lost in round trip: %+v", got)
	}

	top, err := repo.Get(ctx, food.PK)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if top.Parent != nil {
		t.Errorf("top-level category must have nil parent, got %d", *top.Parent)
	}
}

func TestCreateFromTree(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewRepository[Category](ctx, testDB(t))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	nodes, err := utils.ReadTree([]string{
		"food",
		"    meat",
		"        raw meat",
		"    sweets",
		"books",
	})
	if err != nil {
		t.Fatalf("read tree error: %v", err)
	}

	created, err := CreateFromTree(ctx, nodes, repo)
	if err != nil {
		t.Fatalf("create from tree: %v", err)
	}
	if len(created) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(created))
	}

	byName := map[string]*Category{}
	for _, c := range created {
		if c.PK == 0 {
			t.Fatalf("category %q not persisted", c.Name)
		}
		byName[c.Name] = c
	}

	if byName["food"].Parent != nil || byName["books"].Parent != nil {
		t.Error("top-level categories must have nil parent")
	}
	if p := byName["meat"].Parent; p == nil || *p != byName["food"].PK {
		t.Error("meat must point at food")
	}
	if p := byName["raw meat"].Parent; p == nil || *p != byName["meat"].PK {
		t.Error("raw meat must point at meat")
	}
	if p := byName["sweets"].Parent; p == nil || *p != byName["food"].PK {
		t.Error("sweets must point at food")
	}
}

func TestCreateFromTreeUnknownParent(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewRepository[Category](ctx, testDB(t))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	nodes := []utils.TreeNode{{Name: "orphan", Parent: "missing"}}
	if _, err := CreateFromTree(ctx, nodes, repo); err == nil {
		t.Fatal("expected an error for an unknown parent name")
	}
}
