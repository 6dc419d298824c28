package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/tmtune/internal"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord(internal.Pair{Source: "Hello", Target: "Bonjour"}, "English", "French")

	if len(rec.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(rec.Messages))
	}

	want := []Message{
		{Role: "system", Content: "You are a professional linguist who translates from English to French."},
		{Role: "user", Content: "Translate this segment into French:\nHello"},
		{Role: "assistant", Content: "Bonjour"},
	}
	for i, m := range rec.Messages {
		if m != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestEncode_Line(t *testing.T) {
	var buf bytes.Buffer
	n, err := Encode(&buf, []internal.Pair{{Source: "Hello", Target: "Bonjour"}}, "English", "French")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 line, got %d", n)
	}

	want := `{"messages":[{"role":"system","content":"You are a professional linguist who translates from English to French."},{"role":"user","content":"Translate this segment into French:\nHello"},{"role":"assistant","content":"Bonjour"}]}` + "\n"
	if buf.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestEncode_LiteralCharacters(t *testing.T) {
	var buf bytes.Buffer
	pairs := []internal.Pair{{Source: "<b>Tom & Jerry</b>", Target: "<b>توم وجيري</b>"}}
	if _, err := Encode(&buf, pairs, "English", "Arabic"); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := buf.String()
	for _, s := range []string{"<b>Tom & Jerry</b>", "توم وجيري"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q written literally, got %s", s, out)
		}
	}
	if strings.Contains(out, `\u`) {
		t.Errorf("unexpected escape sequence in %s", out)
	}
}

func TestEmitter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.jsonl")

	pairs := []internal.Pair{
		{Source: "Hello", Target: "مرحبا"},
		{Source: "Good morning", Target: "صباح الخير"},
		{Source: "Line\nbreak", Target: "\"quoted\""},
	}

	var logs bytes.Buffer
	e := NewEmitter(slog.New(slog.NewTextHandler(&logs, nil)))

	n, err := e.Write(path, pairs, "English", "Arabic")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(pairs) {
		t.Errorf("expected %d records, got %d", len(pairs), n)
	}
	if !strings.Contains(logs.String(), "JSONL file created successfully") {
		t.Errorf("expected success log, got:\n%s", logs.String())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if len(rec.Messages) != 3 {
			t.Fatalf("line %d: expected 3 messages, got %d", i, len(rec.Messages))
		}
		roles := []string{rec.Messages[0].Role, rec.Messages[1].Role, rec.Messages[2].Role}
		if roles[0] != RoleSystem || roles[1] != RoleUser || roles[2] != RoleAssistant {
			t.Errorf("line %d: unexpected roles %v", i, roles)
		}
		if rec.Messages[2].Content != pairs[i].Target {
			t.Errorf("line %d: assistant content = %q, want %q", i, rec.Messages[2].Content, pairs[i].Target)
		}
		if !strings.HasSuffix(rec.Messages[1].Content, "\n"+pairs[i].Source) {
			t.Errorf("line %d: user content %q does not end with source", i, rec.Messages[1].Content)
		}
		i++
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	if i != len(pairs) {
		t.Errorf("expected %d lines, got %d", len(pairs), i)
	}
}

func TestEmitter_WriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewEmitter(nil).Write(path, []internal.Pair{{Source: "a", Target: "b"}}, "X", "Y"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 1 || strings.Contains(string(data), "stale") {
		t.Errorf("file not truncated: %q", data)
	}
}

func TestEmitter_WriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	var logs bytes.Buffer
	e := NewEmitter(slog.New(slog.NewTextHandler(&logs, nil)))

	n, err := e.Write(path, nil, "English", "French")
	if !errors.Is(err, ErrNoPairs) {
		t.Errorf("expected ErrNoPairs, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 records, got %d", n)
	}
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("expected error log, got:\n%s", logs.String())
	}

	data, err := os.ReadFile(path)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		t.Errorf("expected no JSONL content, got %q", data)
	}
}
