// Package validator checks that target segments are written in the expected
// language before they become training examples.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/tmtune/internal"
	"github.com/valpere/tmtune/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks segment text against an expected language code.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator on top of det, or on a fresh detector when det is nil.
func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// IsValid returns true when text appears to be written in lang. Region
// subtags are ignored, so "en-GB" accepts any English text.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass without error. When the detected language differs
// from lang the returned error names both codes.
func (v *Validator) IsValid(text, lang string) (bool, error) {
	if lang == "" {
		return true, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("segment is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	want := detector.BaseCode(lang)
	if !strings.EqualFold(detected, want) {
		return false, fmt.Errorf("expected %s but detected %s", want, strings.ToLower(detected))
	}

	return true, nil
}

// Mismatch is a pair whose target text failed IsValid.
type Mismatch struct {
	Index  int
	Pair   internal.Pair
	Reason string
}

// CheckTargets validates the target side of every pair against lang.
func (v *Validator) CheckTargets(pairs []internal.Pair, lang string) []Mismatch {
	var out []Mismatch
	for i, p := range pairs {
		if ok, err := v.IsValid(p.Target, lang); !ok {
			out = append(out, Mismatch{Index: i, Pair: p, Reason: err.Error()})
		}
	}
	return out
}
