package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "data/memory.tmx", "data/memory.tmx"},
		{"whitespace", "  data/memory.tmx \t", "data/memory.tmx"},
		{"double quotes", `"C:\TM\memory.tmx"`, `C:\TM\memory.tmx`},
		{"single quotes", "'/tmp/my file.xlsx'", "/tmp/my file.xlsx"},
		{"quotes and spaces", `  " out.jsonl "  `, "out.jsonl"},
		{"mismatched quotes", `"memory.tmx'`, `"memory.tmx'`},
		{"lone quote", `"`, `"`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanPath(tt.in); got != tt.want {
				t.Errorf("cleanPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("first\r\nsecond\nlast"), &out)

	for _, want := range []string{"first", "second", "last"} {
		got, err := p.ask("? ")
		if err != nil {
			t.Fatalf("ask failed: %v", err)
		}
		if got != want {
			t.Errorf("ask() = %q, want %q", got, want)
		}
	}
	if _, err := p.ask("? "); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after input ends, got %v", err)
	}
	if out.String() != "? ? ? ? " {
		t.Errorf("questions written = %q", out.String())
	}
}

func TestPrompter_Fill(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  answer  \n"), &out)

	preset := "from flag"
	if err := p.fill(&preset, "skipped? "); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if preset != "from flag" || out.Len() != 0 {
		t.Errorf("preset value should not be asked for, got %q, out %q", preset, out.String())
	}

	var v string
	if err := p.fill(&v, "asked? "); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if v != "answer" {
		t.Errorf("fill() = %q, want answer", v)
	}

	var missing string
	if err := p.fill(&missing, "again? "); !errors.Is(err, errInputClosed) {
		t.Errorf("expected errInputClosed, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("مرحبا بالعالم", 8); got != "مرحبا..." {
		t.Errorf("truncate() = %q, want rune-safe cut", got)
	}
}
