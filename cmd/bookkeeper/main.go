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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bookkeeper "github.com/bookkeeper-app/bookkeeper"
	"github.com/bookkeeper-app/bookkeeper/database"
	"github.com/bookkeeper-app/bookkeeper/utils"
)

var (
	flagDB       string
	flagConfig   string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookkeeper",
		Short: "Personal expense tracker",
		Long:  "Track expenses against a category tree and periodic budgets, backed by a local sqlite store.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.ConfigureLogLevel(flagLogLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "sqlite database file (default ~/.bookkeeper/bookkeeper.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newCategoriesCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newExpensesCommand())
	rootCmd.AddCommand(newBudgetCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookkeeper.db"
	}
	return filepath.Join(home, ".bookkeeper", "bookkeeper.db")
}

// openTracker builds the configuration from flags and opens the store. The
// --config file takes precedence; --db overrides its database path.
func openTracker(ctx context.Context) (*bookkeeper.Tracker, error) {
	var cfg *database.Config
	if flagConfig != "" {
		loaded, err := database.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = database.DefaultConfig(defaultDBPath())
	}
	if flagDB != "" {
		cfg.ConnectionConfig.DBName = flagDB
	}
	return bookkeeper.Open(ctx, cfg)
}

func closeTracker(t *bookkeeper.Tracker) {
	if err := t.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
