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
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bookkeeper-app/bookkeeper/types"
)

// Expense is one spending operation. Amount is in minor currency units
// (cents, kopecks); Category holds the pk of the expense's category.
type Expense struct {
	bun.BaseModel `bun:"table:expense,alias:e"`

	PK          int64          `bun:"pk,pk,autoincrement" json:"pk"`
	Amount      int64          `bun:"amount,notnull" json:"amount"`
	Category    int64          `bun:"category,notnull" json:"category"`
	ExpenseDate types.DateTime `bun:"expense_date,type:text,notnull" json:"expense_date"`
	AddedDate   types.DateTime `bun:"added_date,type:text,notnull" json:"added_date"`
	Comment     string         `bun:"comment" json:"comment"`
}

// NewExpense returns an unpersisted expense with both dates set to now.
func NewExpense(amount int64, category int64, comment string) *Expense {
	now := types.Now()
	return &Expense{
		Amount:      amount,
		Category:    category,
		ExpenseDate: now,
		AddedDate:   now,
		Comment:     comment,
	}
}

func (e *Expense) PrimaryKey() int64 { return e.PK }

func (e *Expense) SetPrimaryKey(pk int64) { e.PK = pk }

func (e *Expense) String() string {
	return fmt.Sprintf("Expense(pk=%d, amount=%d, category=%d, date=%s, comment=%s)",
		e.PK, e.Amount, e.Category, e.ExpenseDate.Format("2006-01-02"), e.Comment)
}
