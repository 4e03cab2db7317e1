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
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

var (
	// ErrAlreadyPersisted is returned by Add when the entity carries a
	// non-zero primary key.
	ErrAlreadyPersisted = errors.New("entity already has a primary key")

	// ErrNotPersisted is returned by Update when the entity has no primary
	// key yet.
	ErrNotPersisted = errors.New("entity has no primary key")

	// ErrNotFound is returned by Delete when no row matches the given
	// primary key.
	ErrNotFound = errors.New("entity not found")
)

// Model is the contract every persisted shape must satisfy: canonical access
// to the reserved pk attribute. A zero primary key means "not yet persisted";
// only the repository assigns non-zero values.
type Model interface {
	PrimaryKey() int64
	SetPrimaryKey(pk int64)
}

// Filter restricts GetAll to rows where every listed attribute equals the
// given value (AND semantics). Keys are column names; an unknown name makes
// the underlying query fail and that failure is propagated.
type Filter map[string]interface{}

// CrudRepository defines durable CRUD over instances of one model shape.
type CrudRepository[T any] interface {
	// Add inserts a new entity, writes the store-assigned id back into it,
	// and returns the id. The entity must not be persisted yet.
	Add(ctx context.Context, entity *T) (int64, error)

	// Get returns the entity with the given primary key, or (nil, nil) if
	// no row matches.
	Get(ctx context.Context, pk int64) (*T, error)

	// GetAll returns every row matching the filter, all rows when the
	// filter is nil. Order is storage order and must not be relied on.
	GetAll(ctx context.Context, filter Filter) ([]*T, error)

	// Update overwrites every non-pk column of the matching row. The entity
	// must be persisted; a concurrently deleted row makes this a no-op.
	Update(ctx context.Context, entity *T) error

	// Delete removes the row with the given primary key, failing with
	// ErrNotFound when it does not exist.
	Delete(ctx context.Context, pk int64) error
}

// Repository combines CRUD with counting and exposes Bun query builders for
// advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	Count(ctx context.Context) (int, error)
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
