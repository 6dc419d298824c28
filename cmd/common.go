/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/valpere/tmtune/internal/convert"
	"github.com/valpere/tmtune/internal/store"
)

var errHistoryDisabled = errors.New("history is disabled: set --db or history.db in the config file")

// openHistory opens the configured history database. It returns nil when
// history is disabled.
func openHistory() (*store.Store, error) {
	if cfg.History.DB == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.History.DB), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(cfg.History.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// requireHistory is openHistory for commands that cannot work without it.
func requireHistory() (*store.Store, error) {
	db, err := openHistory()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errHistoryDisabled
	}
	return db, nil
}

// runConversion executes job and prints a short summary. Extraction and
// writing problems have already been logged by the converter and do not
// fail the command.
func runConversion(cmd *cobra.Command, ext convert.Extractor, job convert.Job) error {
	var opts []convert.Option

	db, err := openHistory()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		opts = append(opts, convert.WithRecorder(db))
	}

	res, err := convert.New(logger, opts...).Run(context.Background(), ext, job)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	out := cmd.OutOrStdout()
	if res.Written == 0 {
		fmt.Fprintf(out, "No records written (%d pairs extracted)\n", res.Pairs)
		return nil
	}
	fmt.Fprintf(out, "Converted %s to %s: %d records written to %s\n",
		res.SourceLang, res.TargetLang, res.Written, res.OutputFile)
	if job.CheckLanguage {
		fmt.Fprintf(out, "Language mismatches: %d\n", res.Mismatches)
	}
	if res.RunID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", res.RunID)
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
