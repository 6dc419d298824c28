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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tmtune/internal/convert"
	"github.com/valpere/tmtune/internal/xlsx"
)

var errSameColumn = errors.New("the target column cannot be the same as the source column")

type xlsxOptions struct {
	input      string
	sourceName string
	sourceCol  string
	targetName string
	targetCol  string
	targetCode string
	output     string
	checkLang  bool
}

var xlsxOpts xlsxOptions

// validate rejects column choices made through flags that can never work.
func (o xlsxOptions) validate() error {
	src := strings.ToUpper(strings.TrimSpace(o.sourceCol))
	tgt := strings.ToUpper(strings.TrimSpace(o.targetCol))
	for _, col := range []string{src, tgt} {
		if col == "" {
			continue
		}
		if _, err := xlsx.ColumnIndex(col); err != nil {
			return err
		}
	}
	if src != "" && src == tgt {
		return errSameColumn
	}
	return nil
}

// collect completes o from p. The target name and column are asked again
// while the column equals the source column. ok is false when no input path
// was given.
func (o xlsxOptions) collect(p *prompter) (job convert.Job, ok bool, err error) {
	if err := p.fill(&o.input, "Enter the TM .xlsx file path: "); err != nil {
		if errors.Is(err, errInputClosed) {
			return job, false, nil
		}
		return job, false, err
	}
	if o.input = cleanPath(o.input); o.input == "" {
		return job, false, nil
	}

	if err := p.fill(&o.sourceName, "Enter the source language (e.g., English): "); err != nil {
		return job, false, err
	}
	if err := p.fill(&o.sourceCol, "Enter the source language column in the xlsx file (e.g., A, B, C, ...): "); err != nil {
		return job, false, err
	}
	o.sourceCol = strings.ToUpper(strings.TrimSpace(o.sourceCol))

	targetName := o.targetName
	for {
		if err := p.fill(&o.targetName, "Enter the target language (e.g., Arabic): "); err != nil {
			return job, false, err
		}
		if err := p.fill(&o.targetCol, "Enter the target language column in the xlsx file (e.g., A, B, C, ...): "); err != nil {
			return job, false, err
		}
		o.targetCol = strings.ToUpper(strings.TrimSpace(o.targetCol))
		if o.targetCol != o.sourceCol {
			break
		}
		fmt.Fprintln(p.out, "Error: The target column cannot be the same as the source column. Please enter a different column for the target language.")
		o.targetName, o.targetCol = targetName, ""
	}

	if err := p.fill(&o.output, "Enter the output JSONL file path: "); err != nil {
		return job, false, err
	}
	if o.output = cleanPath(o.output); o.output == "" {
		return job, false, errNoOutput
	}

	return convert.Job{
		InputFile:     o.input,
		OutputFile:    o.output,
		SourceLang:    o.sourceName,
		TargetLang:    o.targetName,
		TargetCode:    o.targetCode,
		SourceCol:     o.sourceCol,
		TargetCol:     o.targetCol,
		CheckLanguage: o.checkLang,
	}, true, nil
}

var xlsxCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Convert an XLSX spreadsheet to fine-tuning JSONL",
	Long: `Read a source and a target column from the first worksheet of a
spreadsheet and write one chat-style fine-tuning record per unique pair.

The first row is a header and is skipped. Columns are letters (A, B, ..., AA,
..., XFD) and are case-insensitive. A blank language name is detected from the
column's text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := xlsxOpts.validate(); err != nil {
			return err
		}

		job, ok, err := xlsxOpts.collect(newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil || !ok {
			return err
		}

		ext := xlsx.New(logger, job.SourceCol, job.TargetCol)
		return runConversion(cmd, ext, job)
	},
}

func init() {
	rootCmd.AddCommand(xlsxCmd)

	xlsxCmd.Flags().StringVarP(&xlsxOpts.input, "input", "i", "", "XLSX file to convert")
	xlsxCmd.Flags().StringVar(&xlsxOpts.sourceName, "source-name", "", "Source language name used in prompts (e.g. English)")
	xlsxCmd.Flags().StringVar(&xlsxOpts.sourceCol, "source-col", "", "Source column (e.g. A)")
	xlsxCmd.Flags().StringVar(&xlsxOpts.targetName, "target-name", "", "Target language name used in prompts (e.g. Arabic)")
	xlsxCmd.Flags().StringVar(&xlsxOpts.targetCol, "target-col", "", "Target column (e.g. B)")
	xlsxCmd.Flags().StringVar(&xlsxOpts.targetCode, "target-code", "", "Target language code, used by --check-lang and to name the language")
	xlsxCmd.Flags().StringVarP(&xlsxOpts.output, "output", "o", "", "Output JSONL file")
	xlsxCmd.Flags().BoolVar(&xlsxOpts.checkLang, "check-lang", false, "Report target segments not written in the target language (needs --target-code)")
}
