package primitive

import (
	"fmt"
	"regexp"
)

// =============================================================================
// Boolean Vocabulary
// =============================================================================

var (
	// DefaultTruePattern matches the default true-like tokens.
	DefaultTruePattern = regexp.MustCompile(`true|TRUE|True`)
	// DefaultFalsePattern matches the default false-like tokens.
	DefaultFalsePattern = regexp.MustCompile(`false|FALSE|False`)
)

// BoolVocabulary is a pair of patterns recognizing true-like and false-like
// text. Patterns are unanchored: a value matches when any part of its text
// matches. A nil pattern falls back to the corresponding default.
type BoolVocabulary struct {
	True  *regexp.Regexp
	False *regexp.Regexp
}

// DefaultBoolVocabulary recognizes true/TRUE/True and false/FALSE/False.
var DefaultBoolVocabulary = BoolVocabulary{
	True:  DefaultTruePattern,
	False: DefaultFalsePattern,
}

// NewBoolVocabulary compiles a vocabulary from pattern text.
// An empty pattern selects the default for that polarity.
//
// Example:
//
//	vocab, err := NewBoolVocabulary(`true|1|on`, `false|0|off`)
func NewBoolVocabulary(truePattern, falsePattern string) (BoolVocabulary, error) {
	vocab := DefaultBoolVocabulary
	if truePattern != "" {
		re, err := regexp.Compile(truePattern)
		if err != nil {
			return BoolVocabulary{}, fmt.Errorf("invalid true pattern %q: %w", truePattern, err)
		}
		vocab.True = re
	}
	if falsePattern != "" {
		re, err := regexp.Compile(falsePattern)
		if err != nil {
			return BoolVocabulary{}, fmt.Errorf("invalid false pattern %q: %w", falsePattern, err)
		}
		vocab.False = re
	}
	return vocab, nil
}

// MustBoolVocabulary is like NewBoolVocabulary but panics on a bad pattern.
// Intended for package-level vocabularies built from literals.
func MustBoolVocabulary(truePattern, falsePattern string) BoolVocabulary {
	vocab, err := NewBoolVocabulary(truePattern, falsePattern)
	if err != nil {
		panic(err)
	}
	return vocab
}

// IsBoolean reports whether v is present and its text matches either pattern.
func (b BoolVocabulary) IsBoolean(v any) bool {
	if IsEmpty(v) {
		return false
	}
	text := Text(v)
	return b.truePattern().MatchString(text) || b.falsePattern().MatchString(text)
}

// ToBoolean coerces v to a boolean. ok is false when v is not boolean-like.
// When v is boolean-like, value reports whether the true pattern matches,
// so a value accepted only by the false pattern is false.
func (b BoolVocabulary) ToBoolean(v any) (value, ok bool) {
	if !b.IsBoolean(v) {
		return false, false
	}
	return b.truePattern().MatchString(Text(v)), true
}

func (b BoolVocabulary) truePattern() *regexp.Regexp {
	if b.True == nil {
		return DefaultTruePattern
	}
	return b.True
}

func (b BoolVocabulary) falsePattern() *regexp.Regexp {
	if b.False == nil {
		return DefaultFalsePattern
	}
	return b.False
}

// =============================================================================
// Package Functions
// =============================================================================

// IsBoolean reports whether v can be promoted to a boolean.
// nil patterns select the defaults, so callers may override either side only.
//
// Example:
//
//	IsBoolean("TRUE", nil, nil)                        // true
//	IsBoolean("1", regexp.MustCompile(`true|1`), nil)  // true
//	IsBoolean("notbool", nil, nil)                     // false
func IsBoolean(v any, truePattern, falsePattern *regexp.Regexp) bool {
	return BoolVocabulary{True: truePattern, False: falsePattern}.IsBoolean(v)
}

// ToBoolean promotes v to a boolean. ok is false (the absence sentinel) when
// IsBoolean does not hold for the same patterns.
//
// Example:
//
//	ToBoolean("1", regexp.MustCompile(`true|1|on`), nil) // true, true
//	ToBoolean("notbool", nil, nil)                       // false, false
func ToBoolean(v any, truePattern, falsePattern *regexp.Regexp) (value, ok bool) {
	return BoolVocabulary{True: truePattern, False: falsePattern}.ToBoolean(v)
}
