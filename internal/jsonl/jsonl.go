// Package jsonl writes translation pairs as chat-style fine-tuning records,
// one JSON object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valpere/tmtune/internal"
)

// ErrNoPairs is returned when there is nothing to write.
var ErrNoPairs = errors.New("no data to write to JSONL")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is one fine-tuning example.
type Record struct {
	Messages []Message `json:"messages"`
}

// NewRecord builds the system/user/assistant record for a pair.
func NewRecord(p internal.Pair, sourceLang, targetLang string) Record {
	return Record{
		Messages: []Message{
			{Role: RoleSystem, Content: fmt.Sprintf("You are a professional linguist who translates from %s to %s.", sourceLang, targetLang)},
			{Role: RoleUser, Content: fmt.Sprintf("Translate this segment into %s:\n%s", targetLang, p.Source)},
			{Role: RoleAssistant, Content: p.Target},
		},
	}
}

// Emitter writes pairs to JSONL files.
type Emitter struct {
	logger *slog.Logger
}

func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{logger: logger}
}

// Encode writes one record per pair to w and returns the number of lines
// written. Non-ASCII and HTML characters are written as-is.
func Encode(w io.Writer, pairs []internal.Pair, sourceLang, targetLang string) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, p := range pairs {
		if err := enc.Encode(NewRecord(p, sourceLang, targetLang)); err != nil {
			return i, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return len(pairs), nil
}

// Write creates or truncates the file at path and fills it with one record
// per pair. With no pairs it logs an error, returns ErrNoPairs and leaves the
// filesystem untouched.
func (e *Emitter) Write(path string, pairs []internal.Pair, sourceLang, targetLang string) (int, error) {
	if len(pairs) == 0 {
		e.logger.Error("no data to write to JSONL, exiting", "path", path)
		return 0, ErrNoPairs
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n, err := Encode(w, pairs, sourceLang, targetLang)
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("failed to close output file: %w", err)
	}

	e.logger.Info("JSONL file created successfully", "path", path, "records", n)
	return n, nil
}
