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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/bookkeeper-app/bookkeeper/database"
	"github.com/bookkeeper-app/bookkeeper/types"
)

// note is a shape with one attribute per supported storage kind.
type note struct {
	bun.BaseModel `bun:"table:note,alias:n"`

	PK      int64            `bun:"pk,pk,autoincrement"`
	Title   string           `bun:"title,notnull"`
	Ref     int64            `bun:"ref"`
	Details types.JsonObject `bun:"details,type:text"`
	Added   types.DateTime   `bun:"added,type:text,notnull"`
}

func (n *note) PrimaryKey() int64      { return n.PK }
func (n *note) SetPrimaryKey(pk int64) { n.PK = pk }

type bare struct {
	bun.BaseModel `bun:"table:bare"`

	ID int64 `bun:"id,pk,autoincrement"`
}

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

func noteRepo(t *testing.T) Repository[note] {
	t.Helper()
	repo, err := NewRepository[note](context.Background(), testDB(t))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo
}

func TestNewRepositoryRejectsNonModel(t *testing.T) {
	_, err := NewRepository[bare](context.Background(), testDB(t))
	if err == nil {
		t.Fatal("expected an error for a shape without pk accessors")
	}
}

func TestAddAssignsPrimaryKey(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	n := &note{Title: "first", Added: types.Now()}
	pk, err := repo.Add(ctx, n)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if pk == 0 {
		t.Fatal("expected a non-zero pk")
	}
	if n.PK != pk {
		t.Errorf("pk not written back: returned %d, entity holds %d", pk, n.PK)
	}
}

func TestAddAlreadyPersisted(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	n := &note{Title: "first", Added: types.Now()}
	if _, err := repo.Add(ctx, n); err != nil {
		t.Fatalf("add error: %v", err)
	}

	_, err := repo.Add(ctx, n)
	if !errors.Is(err, ErrAlreadyPersisted) {
		t.Fatalf("expected ErrAlreadyPersisted, got: %v", err)
	}
}

func TestGetRoundTrip(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	added := types.NewDateTime(time.Date(2025, 6, 1, 9, 30, 0, 123456789, time.UTC))
	orig := &note{
		Title:   "groceries",
		Ref:     7,
		Details: types.JsonObject{"store": "corner shop"},
		Added:   added,
	}
	pk, err := repo.Add(ctx, orig)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	got, err := repo.Get(ctx, pk)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the stored entity, got nil")
	}
	if got.Title != orig.Title || got.Ref != orig.Ref {
		t.Errorf("attributes changed: got %+v", got)
	}
	if got.Details["store"] != "corner shop" {
		t.Errorf("details changed: %v", got.Details)
	}
	if !got.Added.Equal(added) {
		t.Errorf("timestamp changed: %s != %s", got.Added, added)
	}
}

func TestGetAbsent(t *testing.T) {
	repo := noteRepo(t)

	got, err := repo.Get(context.Background(), 12345)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for an absent pk, got %+v", got)
	}
}

func TestGetAllFilter(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	rows := []*note{
		{Title: "a", Ref: 1, Added: types.Now()},
		{Title: "b", Ref: 1, Added: types.Now()},
		{Title: "b", Ref: 2, Added: types.Now()},
	}
	for _, n := range rows {
		if _, err := repo.Add(ctx, n); err != nil {
			t.Fatalf("add error: %v", err)
		}
	}

	all, err := repo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("get all error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}

	byRef, err := repo.GetAll(ctx, Filter{"ref": 1})
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if len(byRef) != 2 {
		t.Fatalf("expected 2 rows with ref=1, got %d", len(byRef))
	}

	// Conjunction of both attributes.
	both, err := repo.GetAll(ctx, Filter{"ref": 1, "title": "b"})
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if len(both) != 1 || both[0].Title != "b" || both[0].Ref != 1 {
		t.Fatalf("expected exactly the ref=1 title=b row, got %+v", both)
	}

	none, err := repo.GetAll(ctx, Filter{"ref": 99})
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rows, got %d", len(none))
	}
}

func TestGetAllUnknownColumn(t *testing.T) {
	repo := noteRepo(t)

	_, err := repo.GetAll(context.Background(), Filter{"no_such_attr": 1})
	if err == nil {
		t.Fatal("expected an error for an unknown filter column")
	}
	is, kind := database.IsSqlError(err)
	if !is || kind != database.NoColumnErr {
		t.Errorf("expected a NoColumnErr classification, got is=%v kind=%v (%v)", is, kind, err)
	}
}

func TestUpdate(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	n := &note{Title: "draft", Added: types.Now()}
	pk, err := repo.Add(ctx, n)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	n.Title = "final"
	n.Ref = 3
	if err := repo.Update(ctx, n); err != nil {
		t.Fatalf("update error: %v", err)
	}

	got, err := repo.Get(ctx, pk)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Title != "final" || got.Ref != 3 {
		t.Errorf("update not visible: %+v", got)
	}
}

func TestUpdateUnpersisted(t *testing.T) {
	repo := noteRepo(t)

	err := repo.Update(context.Background(), &note{Title: "nobody", Added: types.Now()})
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got: %v", err)
	}
}

func TestUpdateDeletedRowIsNoop(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	n := &note{Title: "ephemeral", Added: types.Now()}
	pk, err := repo.Add(ctx, n)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if err := repo.Delete(ctx, pk); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	n.Title = "ghost"
	if err := repo.Update(ctx, n); err != nil {
		t.Fatalf("updating a deleted row should be a silent no-op, got: %v", err)
	}
}

func TestDeleteAbsent(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	n := &note{Title: "once", Added: types.Now()}
	pk, err := repo.Add(ctx, n)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	if err := repo.Delete(ctx, pk); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	err = repo.Delete(ctx, pk)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
	err = repo.Delete(ctx, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an absent pk, got: %v", err)
	}
}

func TestCount(t *testing.T) {
	repo := noteRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}

	for i := 0; i < 4; i++ {
		if _, err := repo.Add(ctx, &note{Title: "n", Added: types.Now()}); err != nil {
			t.Fatalf("add error: %v", err)
		}
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4, got %d", count)
	}
}
