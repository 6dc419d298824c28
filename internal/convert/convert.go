// Package convert runs one extraction-to-JSONL conversion: extract pairs,
// settle the language names used in the prompts, optionally check the target
// language, write the JSONL file and optionally record the run.
package convert

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/valpere/tmtune/internal"
	"github.com/valpere/tmtune/internal/detector"
	"github.com/valpere/tmtune/internal/jsonl"
	"github.com/valpere/tmtune/internal/store"
	"github.com/valpere/tmtune/internal/validator"
)

// Extractor produces the deduplicated pairs of one input file. Failures are
// reported through the extractor's logger and yield an empty result.
type Extractor interface {
	Format() string
	Extract(path string) []internal.Pair
}

// Recorder persists finished runs.
type Recorder interface {
	SaveRun(ctx context.Context, run store.Run, pairs []internal.Pair) (string, error)
}

// Job describes one conversion.
type Job struct {
	InputFile  string
	OutputFile string

	// Display names used in the prompts. Blank names are resolved from the
	// codes or from the text itself.
	SourceLang string
	TargetLang string

	// Language codes; set for TMX input, optional for XLSX.
	SourceCode string
	TargetCode string

	// Column names; XLSX only.
	SourceCol string
	TargetCol string

	// CheckLanguage reports target segments that are not written in TargetCode.
	CheckLanguage bool
}

// Result summarises a finished run.
type Result struct {
	RunID      string
	Pairs      int
	Written    int
	Mismatches int
	SourceLang string
	TargetLang string
	OutputFile string
}

type Converter struct {
	logger   *slog.Logger
	emitter  *jsonl.Emitter
	recorder Recorder
	det      *detector.Detector
}

type Option func(*Converter)

// WithRecorder stores every run in r.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// WithDetector shares a language detector; one is built lazily otherwise.
func WithDetector(d *detector.Detector) Option {
	return func(c *Converter) { c.det = d }
}

func New(logger *slog.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Converter{
		logger:  logger,
		emitter: jsonl.NewEmitter(logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes job with ext. Only recording failures are returned as errors;
// extraction problems and an empty result are logged and reflected in Result.
func (c *Converter) Run(ctx context.Context, ext Extractor, job Job) (Result, error) {
	c.logger.Info("starting conversion", "format", ext.Format(), "input", job.InputFile)

	pairs := ext.Extract(job.InputFile)
	res := Result{Pairs: len(pairs), OutputFile: job.OutputFile}

	res.SourceLang = c.languageName(job.SourceLang, job.SourceCode, job.SourceCol, pairs, sourceTexts)
	res.TargetLang = c.languageName(job.TargetLang, job.TargetCode, job.TargetCol, pairs, targetTexts)

	if job.CheckLanguage && len(pairs) > 0 {
		res.Mismatches = c.checkTargets(pairs, job.TargetCode)
	}

	n, writeErr := c.emitter.Write(job.OutputFile, pairs, res.SourceLang, res.TargetLang)
	switch {
	case writeErr == nil:
		res.Written = n
	case !errors.Is(writeErr, jsonl.ErrNoPairs):
		c.logger.Error("failed to write JSONL", "path", job.OutputFile, "error", writeErr)
	}

	if c.recorder == nil {
		return res, nil
	}

	run := store.Run{
		Format:     ext.Format(),
		InputFile:  job.InputFile,
		OutputFile: job.OutputFile,
		SourceLang: res.SourceLang,
		TargetLang: res.TargetLang,
		SourceKey:  firstNonEmpty(job.SourceCode, job.SourceCol),
		TargetKey:  firstNonEmpty(job.TargetCode, job.TargetCol),
		Status:     store.StatusWritten,
	}
	recorded := pairs
	switch {
	case errors.Is(writeErr, jsonl.ErrNoPairs):
		run.Status = store.StatusEmpty
	case writeErr != nil:
		run.Status = store.StatusFailed
		recorded = nil
	}
	id, err := c.recorder.SaveRun(ctx, run, recorded)
	if err != nil {
		return res, err
	}
	res.RunID = id
	c.logger.Info("run recorded", "run_id", id)
	return res, nil
}

func sourceTexts(pairs []internal.Pair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Source
	}
	return out
}

func targetTexts(pairs []internal.Pair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Target
	}
	return out
}

// languageName settles the display name: the given name, else the name of
// code, else the detected language of the texts, else code or column as-is.
func (c *Converter) languageName(name, code, col string, pairs []internal.Pair, texts func([]internal.Pair) []string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if code != "" {
		if n, ok := detector.NameForCode(code); ok {
			c.logger.Debug("language name taken from code", "code", code, "name", n)
			return n
		}
	}
	if len(pairs) > 0 {
		if n, ok := c.detector().DetectName(texts(pairs)); ok {
			c.logger.Info("language name detected from segments", "name", n)
			return n
		}
	}

	fallback := firstNonEmpty(code, col)
	c.logger.Warn("language name is blank and could not be resolved", "using", fallback)
	return fallback
}

func (c *Converter) checkTargets(pairs []internal.Pair, code string) int {
	if code == "" {
		c.logger.Warn("language check skipped: no target language code")
		return 0
	}

	mismatches := validator.New(c.detector()).CheckTargets(pairs, code)
	for _, m := range mismatches {
		c.logger.Warn("target segment language mismatch",
			"index", m.Index, "reason", m.Reason, "target", m.Pair.Target)
	}
	if len(mismatches) > 0 {
		c.logger.Warn("language check finished", "mismatches", len(mismatches), "pairs", len(pairs))
	}
	return len(mismatches)
}

func (c *Converter) detector() *detector.Detector {
	if c.det == nil {
		c.det = detector.New()
	}
	return c.det
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
