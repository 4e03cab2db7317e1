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
	"fmt"
	"sort"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db *bun.DB
}

// NewRepository returns a generic repository for one model shape backed by
// the provided Bun DB. The shape's table is created if it does not exist,
// derived from the struct's bun tags; an existing table is never altered.
func NewRepository[T any](ctx context.Context, db *bun.DB) (Repository[T], error) {
	var zero T
	if _, ok := any(&zero).(Model); !ok {
		return nil, fmt.Errorf("model %T does not implement repository.Model", zero)
	}
	if _, err := db.NewCreateTable().Model((*T)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create table for %T: %w", zero, err)
	}
	return &baseRepositoryImpl[T]{db: db}, nil
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) model(entity *T) Model {
	// Checked once in NewRepository.
	return any(entity).(Model)
}

func (r *baseRepositoryImpl[T]) Add(ctx context.Context, entity *T) (int64, error) {
	m := r.model(entity)
	if pk := m.PrimaryKey(); pk != 0 {
		return 0, fmt.Errorf("%w: trying to add %T with pk=%d", ErrAlreadyPersisted, entity, pk)
	}
	if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert %T: %w", entity, err)
	}
	// Bun scans the store-assigned id into the autoincrement pk field.
	return m.PrimaryKey(), nil
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, pk int64) (*T, error) {
	entity := new(T)
	err := r.db.NewSelect().Model(entity).Where("pk = ?", pk).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %T pk=%d: %w", entity, pk, err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context, filter Filter) ([]*T, error) {
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)

	// Clauses in sorted key order so generated SQL is deterministic.
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query = query.Where("? = ?", bun.Ident(k), filter[k])
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select %T: %w", (*T)(nil), err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	m := r.model(entity)
	if m.PrimaryKey() == 0 {
		return fmt.Errorf("%w: trying to update %T", ErrNotPersisted, entity)
	}
	// No existence check: updating a concurrently deleted row is a no-op.
	if _, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("update %T pk=%d: %w", entity, m.PrimaryKey(), err)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, pk int64) error {
	var entity T
	exists, err := r.db.NewSelect().Model(&entity).Where("pk = ?", pk).Exists(ctx)
	if err != nil {
		return fmt.Errorf("select %T pk=%d: %w", &entity, pk, err)
	}
	if !exists {
		return fmt.Errorf("%w: %T pk=%d", ErrNotFound, &entity, pk)
	}
	if _, err := r.db.NewDelete().Model(&entity).Where("pk = ?", pk).Exec(ctx); err != nil {
		return fmt.Errorf("delete %T pk=%d: %w", &entity, pk, err)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int, error) {
	var entity T
	count, err := r.db.NewSelect().Model(&entity).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %T: %w", &entity, err)
	}
	return count, nil
}
