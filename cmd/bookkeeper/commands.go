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

package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	bookkeeper "github.com/bookkeeper-app/bookkeeper"
	"github.com/bookkeeper-app/bookkeeper/models"
)

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category tree",
	}
	cmd.AddCommand(newCategoriesListCommand())
	cmd.AddCommand(newCategoriesAddCommand())
	cmd.AddCommand(newCategoriesSeedCommand())
	cmd.AddCommand(newCategoriesRenameCommand())
	cmd.AddCommand(newCategoriesDeleteCommand())
	return cmd
}

func newCategoriesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			byPK, err := tracker.CategoryMap(ctx)
			if err != nil {
				return err
			}
			printCategoryTree(cmd, byPK)
			return nil
		},
	}
}

func newCategoriesAddCommand() *cobra.Command {
	var parentName string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			var parent *int64
			if parentName != "" {
				cat, err := findCategoryByName(cmd, tracker, parentName)
				if err != nil {
					return err
				}
				parent = &cat.PK
			}

			cat, err := tracker.AddCategory(ctx, args[0], parent)
			if err != nil {
				return err
			}
			cmd.Printf("added %s\n", cat)
			return nil
		},
	}

	cmd.Flags().StringVar(&parentName, "parent", "", "name of the parent category")
	return cmd
}

func newCategoriesSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Create categories from an indented outline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}

			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			created, err := tracker.SeedCategories(ctx, lines)
			if err != nil {
				return err
			}
			cmd.Printf("created %d categories\n", len(created))
			return nil
		},
	}
}

func newCategoriesRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename PK NAME",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pk, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pk %q: %w", args[0], err)
			}

			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			return tracker.RenameCategory(ctx, pk, args[1])
		},
	}
}

func newCategoriesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PK",
		Short: "Delete a category and its direct subcategories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pk, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pk %q: %w", args[0], err)
			}

			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			return tracker.DeleteCategoryTree(ctx, pk)
		},
	}
}

func newAddCommand() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add AMOUNT CATEGORY",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			cat, err := findCategoryByName(cmd, tracker, args[1])
			if err != nil {
				return err
			}

			exp, err := tracker.AddExpense(ctx, amount, cat.PK, comment)
			if err != nil {
				return err
			}
			cmd.Printf("recorded %s in %s\n", formatAmount(exp.Amount), cat.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "m", "", "free-form comment")
	return cmd
}

func newExpensesCommand() *cobra.Command {
	var categoryName string

	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			var expenses []*models.Expense
			if categoryName != "" {
				cat, err := findCategoryByName(cmd, tracker, categoryName)
				if err != nil {
					return err
				}
				expenses, err = tracker.ExpensesByCategory(ctx, cat.PK)
				if err != nil {
					return err
				}
			} else {
				expenses, err = tracker.Expenses().GetAll(ctx, nil)
				if err != nil {
					return err
				}
			}

			byPK, err := tracker.CategoryMap(ctx)
			if err != nil {
				return err
			}
			for _, e := range expenses {
				name := fmt.Sprintf("category %d", e.Category)
				if cat, ok := byPK[e.Category]; ok {
					name = cat.Name
				}
				cmd.Printf("%s  %10s  %-20s %s\n",
					e.ExpenseDate.Format("2006-01-02"), formatAmount(e.Amount), name, e.Comment)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryName, "category", "", "only expenses in this category")
	return cmd
}

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or set spending limits",
	}
	cmd.AddCommand(newBudgetShowCommand())
	cmd.AddCommand(newBudgetSetCommand())
	return cmd
}

func newBudgetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current budget and spending against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			budget, err := tracker.CurrentBudget(ctx)
			if err != nil {
				return err
			}
			if budget == nil {
				cmd.Println("no budget set")
				return nil
			}

			spent, err := tracker.SpentTotals(ctx, time.Now())
			if err != nil {
				return err
			}

			cmd.Printf("%-8s %12s %12s\n", "", "spent", "budget")
			cmd.Printf("%-8s %12s %12s\n", "day", formatAmount(spent.Daily), formatAmount(budget.DailyAmount))
			cmd.Printf("%-8s %12s %12s\n", "week", formatAmount(spent.Weekly), formatAmount(budget.WeeklyAmount))
			cmd.Printf("%-8s %12s %12s\n", "month", formatAmount(spent.Monthly), formatAmount(budget.MonthlyAmount))
			return nil
		},
	}
}

func newBudgetSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set DAILY WEEKLY MONTHLY",
		Short: "Set spending limits",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amounts := make([]int64, 3)
			for i, arg := range args {
				amount, err := parseAmount(arg)
				if err != nil {
					return err
				}
				amounts[i] = amount
			}

			tracker, err := openTracker(ctx)
			if err != nil {
				return err
			}
			defer closeTracker(tracker)

			budget, err := tracker.SetBudget(ctx, amounts[0], amounts[1], amounts[2])
			if err != nil {
				return err
			}
			cmd.Printf("budget set: %s\n", budget)
			return nil
		},
	}
}

func findCategoryByName(cmd *cobra.Command, tracker *bookkeeper.Tracker, name string) (*models.Category, error) {
	byPK, err := tracker.CategoryMap(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, cat := range byPK {
		if strings.EqualFold(cat.Name, name) {
			return cat, nil
		}
	}
	return nil, fmt.Errorf("no category named %q", name)
}

// printCategoryTree writes top-level categories and their children with two
// spaces of indentation per level.
func printCategoryTree(cmd *cobra.Command, byPK map[int64]*models.Category) {
	children := map[int64][]*models.Category{}
	var roots []*models.Category
	for _, cat := range byPK {
		if cat.Parent == nil {
			roots = append(roots, cat)
		} else {
			children[*cat.Parent] = append(children[*cat.Parent], cat)
		}
	}

	var walk func(cats []*models.Category, depth int)
	walk = func(cats []*models.Category, depth int) {
		sort.Slice(cats, func(i, j int) bool { return cats[i].PK < cats[j].PK })
		for _, cat := range cats {
			cmd.Printf("%s%s (%d)\n", strings.Repeat("  ", depth), cat.Name, cat.PK)
			walk(children[cat.PK], depth+1)
		}
	}
	walk(roots, 0)
}

// parseAmount converts a decimal money string ("12", "12.5", "12.50") into
// minor currency units.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	return minor.IntPart(), nil
}

func formatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
