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

	"github.com/spf13/cobra"

	"github.com/valpere/tmtune/internal/convert"
	"github.com/valpere/tmtune/internal/tmx"
)

var errNoOutput = errors.New("output path is required")

type tmxOptions struct {
	input      string
	sourceName string
	sourceCode string
	targetName string
	targetCode string
	output     string
	checkLang  bool
}

var tmxOpts tmxOptions

// collect completes o from p. ok is false when no input path was given.
func (o tmxOptions) collect(p *prompter) (job convert.Job, ok bool, err error) {
	if err := p.fill(&o.input, "Enter the TMX file path: "); err != nil {
		if errors.Is(err, errInputClosed) {
			return job, false, nil
		}
		return job, false, err
	}
	if o.input = cleanPath(o.input); o.input == "" {
		return job, false, nil
	}

	steps := []struct {
		dst      *string
		question string
	}{
		{&o.sourceName, "Enter the source language (e.g., English): "},
		{&o.sourceCode, "Enter the source language code in the TMX file (e.g., en, en-us, en-uk, ...): "},
		{&o.targetName, "Enter the target language (e.g., Arabic): "},
		{&o.targetCode, "Enter the target language code in the TMX file (e.g., ar, ar-eg, fr-fr, ...): "},
		{&o.output, "Enter the output JSONL file path: "},
	}
	for _, s := range steps {
		if err := p.fill(s.dst, s.question); err != nil {
			return job, false, err
		}
	}
	if o.output = cleanPath(o.output); o.output == "" {
		return job, false, errNoOutput
	}

	return convert.Job{
		InputFile:     o.input,
		OutputFile:    o.output,
		SourceLang:    o.sourceName,
		TargetLang:    o.targetName,
		SourceCode:    o.sourceCode,
		TargetCode:    o.targetCode,
		CheckLanguage: o.checkLang,
	}, true, nil
}

var tmxCmd = &cobra.Command{
	Use:   "tmx",
	Short: "Convert a TMX file to fine-tuning JSONL",
	Long: `Extract the segments of two languages from a TMX file and write one
chat-style fine-tuning record per unique pair.

Language codes are matched exactly against the xml:lang attribute of each
<tuv>, e.g. "en-US" does not match "en-us". A blank language name is
resolved from its code.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, ok, err := tmxOpts.collect(newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil || !ok {
			return err
		}

		ext := tmx.New(logger, job.SourceCode, job.TargetCode)
		return runConversion(cmd, ext, job)
	},
}

func init() {
	rootCmd.AddCommand(tmxCmd)

	tmxCmd.Flags().StringVarP(&tmxOpts.input, "input", "i", "", "TMX file to convert")
	tmxCmd.Flags().StringVar(&tmxOpts.sourceName, "source-name", "", "Source language name used in prompts (e.g. English)")
	tmxCmd.Flags().StringVarP(&tmxOpts.sourceCode, "source", "s", "", "Source language code in the TMX file (e.g. en)")
	tmxCmd.Flags().StringVar(&tmxOpts.targetName, "target-name", "", "Target language name used in prompts (e.g. Arabic)")
	tmxCmd.Flags().StringVarP(&tmxOpts.targetCode, "target", "t", "", "Target language code in the TMX file (e.g. ar)")
	tmxCmd.Flags().StringVarP(&tmxOpts.output, "output", "o", "", "Output JSONL file")
	tmxCmd.Flags().BoolVar(&tmxOpts.checkLang, "check-lang", false, "Report target segments not written in the target language")
}
