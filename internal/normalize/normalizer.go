// Package normalize canonicalizes raw OCR lines before matching.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// numericToken captures the unified numeric form: optional sign, integer or
// decimal (dot or comma), optional percent suffix.
var numericToken = regexp.MustCompile(`[+-]?\d+(?:[.,]\d+)?\s*%?`)

// asciiFold decomposes accented characters and drops the combining marks, so
// "Résistance" folds to "Resistance". NFKD also folds fullwidth forms of
// '+', '%' and digits that OCR engines occasionally emit.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// decorationReplacer strips the glyphs the game uses as tooltip decoration
// and unifies punctuation variants the OCR engine confuses.
var decorationReplacer = strings.NewReplacer(
	"★", "", "☆", "", "✦", "", "✧", "",
	"●", "", "○", "", "◆", "", "◇", "", "♦", "",
	"•", "", "·", "", "▪", "", "■", "", "*", "",
	"–", "-", "—", "-", "‑", "-", // dash variants
	"［", "[", "］", "]",
)

// Line canonicalizes one OCR line. Deterministic and pure: same input, same
// output, no error path.
func Line(l model.OcrLine) model.NormalizedLine {
	text := Text(l.Text)

	tokens := numericToken.FindAllString(text, -1)

	var value *model.NumericToken
	extra := 0
	if len(tokens) > 0 {
		value = parseToken(tokens[0])
		extra = len(tokens) - 1
	}

	matchText := collapse(numericToken.ReplaceAllString(text, " "))

	return model.NormalizedLine{
		Source:        l,
		Text:          text,
		MatchText:     matchText,
		Value:         value,
		ExtraNumerics: extra,
	}
}

// Text applies the canonical text form only: ASCII fold, lowercase,
// decoration strip, whitespace collapse.
func Text(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		// Fold failures keep the raw text; downstream matching degrades
		// gracefully on non-ASCII input.
		folded = s
	}

	folded = decorationReplacer.Replace(folded)
	folded = strings.ToLower(folded)
	return collapse(folded)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseToken(tok string) *model.NumericToken {
	tok = strings.TrimSpace(tok)

	isPercent := strings.HasSuffix(tok, "%")
	tok = strings.TrimSuffix(tok, "%")
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "+")
	tok = strings.ReplaceAll(tok, ",", ".")

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}

	return &model.NumericToken{Value: v, IsPercentage: isPercent}
}
