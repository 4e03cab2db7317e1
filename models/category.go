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
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bookkeeper-app/bookkeeper/repository"
	"github.com/bookkeeper-app/bookkeeper/utils"
)

// Category is an expense category. Categories form a tree through Parent,
// which holds the pk of the parent category or nil for top-level ones. The
// reference is a plain integer; referential integrity is the caller's
// responsibility.
type Category struct {
	bun.BaseModel `bun:"table:category,alias:c"`

	PK     int64  `bun:"pk,pk,autoincrement" json:"pk"`
	Name   string `bun:"name,notnull" json:"name"`
	Parent *int64 `bun:"parent" json:"parent,omitempty"`
}

// NewCategory returns an unpersisted category; parent may be nil.
func NewCategory(name string, parent *int64) *Category {
	return &Category{Name: name, Parent: parent}
}

func (c *Category) PrimaryKey() int64 { return c.PK }

func (c *Category) SetPrimaryKey(pk int64) { c.PK = pk }

func (c *Category) String() string {
	if c.Parent == nil {
		return fmt.Sprintf("Category(pk=%d, name=%s)", c.PK, c.Name)
	}
	return fmt.Sprintf("Category(pk=%d, name=%s, parent=%d)", c.PK, c.Name, *c.Parent)
}

// CreateFromTree persists a category hierarchy parsed from an indented
// outline (see utils.ReadTree). Parents appear before their children in the
// node list, so every parent name already has a pk when a child references
// it. Returns the created categories in input order.
func CreateFromTree(ctx context.Context, nodes []utils.TreeNode, repo repository.Repository[Category]) ([]*Category, error) {
	created := make([]*Category, 0, len(nodes))
	pkByName := make(map[string]int64, len(nodes))

	for _, node := range nodes {
		var parent *int64
		if node.Parent != "" {
			pk, ok := pkByName[node.Parent]
			if !ok {
				return nil, fmt.Errorf("category %q references unknown parent %q", node.Name, node.Parent)
			}
			parent = &pk
		}

		cat := NewCategory(node.Name, parent)
		if _, err := repo.Add(ctx, cat); err != nil {
			return nil, fmt.Errorf("failed to add category %q: %w", node.Name, err)
		}
		pkByName[node.Name] = cat.PK
		created = append(created, cat)
	}
	return created, nil
}
