// Package detector identifies the language of segment text and names
// languages for display in fine-tuning prompts.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// maxSamples bounds how many segments are joined for DetectName.
const maxSamples = 20

// Detector wraps a lingua detector. Building one is expensive; reuse it.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code ("en", "ar", ...) of the
// language text is written in.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectName returns the English name ("French", "Arabic", ...) of the
// language most of the samples are written in. Only the first maxSamples
// non-blank samples are considered.
func (d *Detector) DetectName(samples []string) (string, bool) {
	var picked []string
	for _, s := range samples {
		if strings.TrimSpace(s) == "" {
			continue
		}
		picked = append(picked, s)
		if len(picked) == maxSamples {
			break
		}
	}

	lang, ok := d.Detect(strings.Join(picked, "\n"))
	if !ok {
		return "", false
	}
	return lang.String(), true
}
