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

// Budget holds spending limits in minor currency units, dated by when they
// were set. The budget in force is the row with the latest date.
type Budget struct {
	bun.BaseModel `bun:"table:budget,alias:b"`

	PK            int64          `bun:"pk,pk,autoincrement" json:"pk"`
	Date          types.DateTime `bun:"date,type:text,notnull" json:"date"`
	DailyAmount   int64          `bun:"daily_amount,notnull" json:"daily_amount"`
	WeeklyAmount  int64          `bun:"weekly_amount,notnull" json:"weekly_amount"`
	MonthlyAmount int64          `bun:"monthly_amount,notnull" json:"monthly_amount"`
}

// NewBudget returns an unpersisted budget dated now.
func NewBudget(daily, weekly, monthly int64) *Budget {
	return &Budget{
		Date:          types.Now(),
		DailyAmount:   daily,
		WeeklyAmount:  weekly,
		MonthlyAmount: monthly,
	}
}

func (b *Budget) PrimaryKey() int64 { return b.PK }

func (b *Budget) SetPrimaryKey(pk int64) { b.PK = pk }

func (b *Budget) String() string {
	return fmt.Sprintf("Budget(pk=%d, date=%s, daily=%d, weekly=%d, monthly=%d)",
		b.PK, b.Date.Format("2006-01-02"), b.DailyAmount, b.WeeklyAmount, b.MonthlyAmount)
}
