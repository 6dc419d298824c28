// Package tmx extracts source/target segment pairs from TMX translation
// memories.
//
// The document is read with a streaming decoder, so only the translation unit
// currently being read is held in memory. Every <tu> element is considered,
// whatever its depth, and each of its <tuv> children contributes the text of
// its first <seg>. Inline markup inside a segment (<ph>, <bpt>, <ept>, <it>,
// <hi>, ...) is dropped while the text it wraps is kept.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/valpere/tmtune/internal"
	"github.com/valpere/tmtune/internal/dedup"
)

// xmlNamespace is the namespace bound to the reserved "xml" prefix.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

const unknownID = "Unknown ID"

// Extractor reads TMX files for one source/target language code pair.
type Extractor struct {
	logger     *slog.Logger
	sourceLang string
	targetLang string
}

// New returns an Extractor for the given language codes. Codes are matched
// exactly against the xml:lang attribute of each <tuv>.
func New(logger *slog.Logger, sourceLang, targetLang string) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		logger:     logger,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

func (e *Extractor) Format() string { return "tmx" }

// Extract returns the deduplicated pairs found in the TMX file at path.
// Read and parse errors are logged and produce an empty result.
func (e *Extractor) Extract(path string) []internal.Pair {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Error("error parsing TMX file", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	pairs, err := e.Parse(f)
	if err != nil {
		e.logger.Error("error parsing TMX file", "path", path, "error", err)
		return nil
	}
	if len(pairs) == 0 {
		e.logger.Warn("no valid translation pairs found in the TMX file", "path", path)
	}
	return pairs
}

// Parse reads a TMX document from r and returns its deduplicated pairs.
// Units that lack one of the two language codes are skipped with a warning.
func (e *Extractor) Parse(r io.Reader) ([]internal.Pair, error) {
	// A byte order mark wins over the declared encoding: UTF-16 documents are
	// transcoded here and the UTF-8 mark is stripped.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	var pairs []internal.Pair
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read TMX: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "tu" {
			continue
		}

		u, err := readUnit(dec, start)
		if err != nil {
			return nil, err
		}

		src, hasSrc := u.segments[e.sourceLang]
		tgt, hasTgt := u.segments[e.targetLang]
		if !hasSrc || !hasTgt {
			e.logger.Warn("missing language pair in translation unit",
				"source", e.sourceLang, "target", e.targetLang, "tuid", u.id)
			continue
		}
		if src == "" || tgt == "" {
			continue
		}
		pairs = append(pairs, internal.Pair{Source: src, Target: tgt})
	}

	return dedup.Pairs(pairs), nil
}

// unit is a <tu> reduced to its language code → segment text mapping.
type unit struct {
	id       string
	segments map[string]string
}

func readUnit(dec *xml.Decoder, start xml.StartElement) (unit, error) {
	u := unit{id: unknownID, segments: make(map[string]string)}
	if id, ok := attr(start, xml.Name{Local: "tuid"}); ok {
		u.id = id
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return u, fmt.Errorf("failed to read translation unit %s: %w", u.id, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "tuv" {
				if err := dec.Skip(); err != nil {
					return u, fmt.Errorf("failed to read translation unit %s: %w", u.id, err)
				}
				continue
			}
			lang, text, ok, err := readVariant(dec, t)
			if err != nil {
				return u, fmt.Errorf("failed to read translation unit %s: %w", u.id, err)
			}
			if ok {
				u.segments[lang] = text
			}
		case xml.EndElement:
			return u, nil
		}
	}
}

// readVariant consumes a <tuv> element. ok is false when the variant has no
// language or no <seg>.
func readVariant(dec *xml.Decoder, start xml.StartElement) (lang, text string, ok bool, err error) {
	lang, hasLang := attr(start, xml.Name{Space: xmlNamespace, Local: "lang"})
	if !hasLang {
		// TMX 1.1 used an unqualified lang attribute.
		lang, hasLang = attr(start, xml.Name{Local: "lang"})
	}

	found := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", "", false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "seg" || found {
				if err := dec.Skip(); err != nil {
					return "", "", false, err
				}
				continue
			}
			text, err = segmentText(dec)
			if err != nil {
				return "", "", false, err
			}
			found = true
		case xml.EndElement:
			return lang, text, hasLang && found, nil
		}
	}
}

// segmentText concatenates all character data up to the end of the current
// element and trims the result.
func segmentText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func attr(start xml.StartElement, name xml.Name) (string, bool) {
	for _, a := range start.Attr {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		// Already transcoded from the byte order mark.
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
