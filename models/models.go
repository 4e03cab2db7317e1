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

// Package models declares the persisted shapes of the bookkeeper: Category,
// Expense, and Budget. Shapes are plain attribute bags; schema is declared
// through bun struct tags and every shape reserves the pk column as its
// store-assigned identifier.
package models

import "github.com/bookkeeper-app/bookkeeper/database"

func init() {
	// Referenced tables first.
	database.RegisteredModel(database.NewModelAdapter((*Category)(nil), 1))
	database.RegisteredModel(database.NewModelAdapter((*Expense)(nil), 2))
	database.RegisteredModel(database.NewModelAdapter((*Budget)(nil), 3))
}
