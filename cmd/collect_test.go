package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/valpere/tmtune/internal/convert"
)

func TestTMXOptions_Collect(t *testing.T) {
	var out bytes.Buffer
	input := strings.Join([]string{
		`"memory.tmx"`,
		"English",
		"en",
		"Arabic",
		"ar",
		" out.jsonl ",
	}, "\n") + "\n"

	job, ok, err := tmxOptions{}.collect(newPrompter(strings.NewReader(input), &out))
	if err != nil || !ok {
		t.Fatalf("collect() = %v, %v", ok, err)
	}

	want := convert.Job{
		InputFile:  "memory.tmx",
		OutputFile: "out.jsonl",
		SourceLang: "English",
		TargetLang: "Arabic",
		SourceCode: "en",
		TargetCode: "ar",
	}
	if job != want {
		t.Errorf("collect() job = %+v, want %+v", job, want)
	}

	questions := []string{
		"Enter the TMX file path: ",
		"Enter the source language (e.g., English): ",
		"Enter the source language code in the TMX file",
		"Enter the target language (e.g., Arabic): ",
		"Enter the target language code in the TMX file",
		"Enter the output JSONL file path: ",
	}
	rest := out.String()
	for _, q := range questions {
		i := strings.Index(rest, q)
		if i < 0 {
			t.Fatalf("question %q missing or out of order in %q", q, out.String())
		}
		rest = rest[i+len(q):]
	}
}

func TestTMXOptions_Collect_FlagsSkipPrompts(t *testing.T) {
	var out bytes.Buffer
	opts := tmxOptions{input: "memory.tmx", sourceCode: "en", targetCode: "fr", output: "out.jsonl", checkLang: true}

	job, ok, err := opts.collect(newPrompter(strings.NewReader("English\nFrench\n"), &out))
	if err != nil || !ok {
		t.Fatalf("collect() = %v, %v", ok, err)
	}
	if job.SourceLang != "English" || job.TargetLang != "French" || !job.CheckLanguage {
		t.Errorf("unexpected job: %+v", job)
	}
	if strings.Contains(out.String(), "file path") || strings.Contains(out.String(), "code in the TMX") {
		t.Errorf("flag values should not be asked for, got %q", out.String())
	}
}

func TestTMXOptions_Collect_EmptyInput(t *testing.T) {
	for _, input := range []string{"\n", "  \"\"  \n", ""} {
		var out bytes.Buffer
		_, ok, err := tmxOptions{}.collect(newPrompter(strings.NewReader(input), &out))
		if err != nil || ok {
			t.Errorf("collect(%q) = %v, %v; want silent stop", input, ok, err)
		}
		if strings.Contains(out.String(), "source language") {
			t.Errorf("collect(%q) kept prompting: %q", input, out.String())
		}
	}
}

func TestTMXOptions_Collect_EmptyOutput(t *testing.T) {
	var out bytes.Buffer
	_, _, err := tmxOptions{}.collect(newPrompter(strings.NewReader("a.tmx\nEnglish\nen\nArabic\nar\n\n"), &out))
	if !errors.Is(err, errNoOutput) {
		t.Errorf("expected errNoOutput, got %v", err)
	}
}

func TestXLSXOptions_Collect_RepromptsSameColumn(t *testing.T) {
	var out bytes.Buffer
	input := strings.Join([]string{
		"tm.xlsx",
		"English",
		"a",
		"Arabic",
		"A",
		"French",
		"c",
		"out.jsonl",
	}, "\n") + "\n"

	job, ok, err := xlsxOptions{}.collect(newPrompter(strings.NewReader(input), &out))
	if err != nil || !ok {
		t.Fatalf("collect() = %v, %v", ok, err)
	}
	if job.SourceCol != "A" || job.TargetCol != "C" {
		t.Errorf("columns = %q/%q, want A/C", job.SourceCol, job.TargetCol)
	}
	if job.TargetLang != "French" {
		t.Errorf("TargetLang = %q, want the re-entered French", job.TargetLang)
	}

	msg := "Error: The target column cannot be the same as the source column. Please enter a different column for the target language."
	if strings.Count(out.String(), msg) != 1 {
		t.Errorf("expected one error line, got %q", out.String())
	}
	if n := strings.Count(out.String(), "Enter the target language (e.g., Arabic): "); n != 2 {
		t.Errorf("target language asked %d times, want 2", n)
	}
}

func TestXLSXOptions_Collect_InputClosedWhileReprompting(t *testing.T) {
	var out bytes.Buffer
	_, _, err := xlsxOptions{}.collect(newPrompter(strings.NewReader("tm.xlsx\nEnglish\nB\nArabic\nb\n"), &out))
	if !errors.Is(err, errInputClosed) {
		t.Errorf("expected errInputClosed, got %v", err)
	}
}

func TestXLSXOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    xlsxOptions
		wantErr bool
	}{
		{"nothing given", xlsxOptions{}, false},
		{"distinct", xlsxOptions{sourceCol: "A", targetCol: "B"}, false},
		{"only source", xlsxOptions{sourceCol: "AA"}, false},
		{"same column", xlsxOptions{sourceCol: "B", targetCol: "B"}, true},
		{"same column any case", xlsxOptions{sourceCol: "b", targetCol: " B "}, true},
		{"invalid column", xlsxOptions{sourceCol: "1"}, true},
		{"beyond XFD", xlsxOptions{targetCol: "XFE"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
