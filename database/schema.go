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

package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
)

// SchemaManager creates tables for registered models. It never alters an
// existing table: a model declared after its table was created does not
// retrofit columns.
type SchemaManager struct {
	db     *bun.DB
	logger Logger
}

func NewSchemaManager(db *bun.DB, logger Logger) *SchemaManager {
	return &SchemaManager{db: db, logger: logger}
}

// EnsureTables runs CREATE TABLE IF NOT EXISTS for every registered model in
// priority order.
func (sm *SchemaManager) EnsureTables(ctx context.Context) error {
	for _, model := range GetRegisteredModels() {
		instance := model.Instance()
		if err := sm.EnsureTable(ctx, instance); err != nil {
			return fmt.Errorf("failed to create table for model %s: %w", modelName(instance), err)
		}
	}
	return nil
}

// EnsureTable creates the table for a single model instance if absent.
func (sm *SchemaManager) EnsureTable(ctx context.Context, instance interface{}) error {
	_, err := sm.db.NewCreateTable().
		Model(instance).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}
	if sm.logger != nil {
		sm.logger.Debug("Table ensured", "model", modelName(instance))
	}
	return nil
}

func modelName(instance interface{}) string {
	t := reflect.TypeOf(instance)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
