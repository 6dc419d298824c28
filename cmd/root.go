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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/tmtune/internal/config"
	"github.com/valpere/tmtune/internal/logging"
)

var version = "0.1.0"

var (
	configFile string

	cfg       config.Config
	logger    = slog.New(slog.DiscardHandler)
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tmtune",
	Short: "Convert translation memories into fine-tuning JSONL",
	Long: `A CLI application that turns bilingual translation data into a
JSON-Lines dataset for chat-style fine-tuning.

Supported inputs: TMX files, XLSX spreadsheets

Every value not given as a flag is asked for interactively.
Use "tmtune tmx --help" or "tmtune xlsx --help" for conversion options.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}

		l, closer, err := logging.New(cmd.ErrOrStderr(), logging.Options{
			Level:  loaded.Log.Level,
			Format: loaded.Log.Format,
			File:   loaded.Log.File,
		})
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		cfg, logger, logCloser = loaded, l, closer
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./tmtune.yaml, then $HOME/.tmtune.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("log-file", "", "Also write logs to this file, rotated by size")
	flags.String("db", "", "SQLite database recording conversion history (disabled when empty)")
}
