package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// Absence
// =============================================================================

// IsEmpty reports whether v is the absence sentinel (nil).
// Zero values such as 0, "" and false are not empty.
func IsEmpty(v any) bool {
	return v == nil
}

// IsBlank reports whether v is empty or renders to whitespace-only text.
// The empty string is blank; numbers and booleans never are.
func IsBlank(v any) bool {
	return IsEmpty(v) || strings.TrimFunc(Text(v), IsSpace) == ""
}

// IsScalar reports whether v is nil or a single text, number or boolean, as
// opposed to a decoded sequence or mapping.
func IsScalar(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// =============================================================================
// Whitespace
// =============================================================================

// SpaceClass is the body of a regexp character class matching exactly the
// runes IsSpace accepts. Use it instead of \s, which RE2 limits to ASCII.
//
// Example:
//
//	trimmed := regexp.MustCompile(`^[^` + primitive.SpaceClass + `].*$`)
const SpaceClass = `\t\n\v\f\r \x{85}\x{FEFF}\p{Z}`

// IsSpace reports whether r is whitespace: any Unicode space plus the byte
// order mark U+FEFF.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// =============================================================================
// Text Rendering
// =============================================================================

// Text renders v as text.
//
// Behavior:
//   - nil renders as ""
//   - strings are returned unchanged
//   - json.Number integer literals are returned unchanged; other literals
//     render like the float64 they denote ("1e3" is "1000")
//   - booleans render as "true" / "false"
//   - integers render in base 10
//   - floats render in their shortest decimal form (10.3, -10.3, 10)
//   - anything else is rendered with fmt.Sprint
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return numberText(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

var integerTextRegex = regexp.MustCompile(`^-?\d+$`)

func numberText(n json.Number) string {
	s := n.String()
	if integerTextRegex.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return s
	}
	return formatFloat(f, 64)
}

// =============================================================================
// Numeric Coercion
// =============================================================================

// ToNumber coerces v to a float64.
//
// Behavior:
//   - nil is NaN
//   - true is 1, false is 0
//   - numeric kinds convert directly
//   - text is trimmed; empty text is 0; decimal text parses ("10.3", "-5", "1e3")
//   - unsigned hex, binary and octal literals parse ("0x10", "0b11", "0o17")
//   - any other text ("10,3", "abc", "inf", "-0x10") is NaN
//
// Comparisons involving NaN are always false, so a non-numeric operand
// fails every bound check.
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return math.NaN()
	case bool:
		if val {
			return 1
		}
		return 0
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return parseNumber(Text(val))
	}
}

// numberTextRegex accepts signed decimal literals with an optional exponent
// and the Infinity keyword. strconv.ParseFloat alone would also accept
// "inf", "nan" and hex floats.
var numberTextRegex = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)$`)

// radixTextRegex accepts prefixed integer literals. A sign is not allowed.
var radixTextRegex = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[bB][01]+|[oO][0-7]+)$`)

func parseNumber(s string) float64 {
	s = strings.TrimFunc(s, IsSpace)
	if s == "" {
		return 0
	}
	if radixTextRegex.MatchString(s) {
		return parseRadix(s)
	}
	if !numberTextRegex.MatchString(s) {
		return math.NaN()
	}
	if strings.HasSuffix(s, "Infinity") {
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	// Out-of-range literals come back as ±Inf (or 0) with ErrRange.
	return f
}

func parseRadix(s string) float64 {
	base := 8
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'b', 'B':
		base = 2
	}
	i, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return math.NaN()
	}
	// Literals beyond float64 precision round to the nearest value.
	f, _ := new(big.Float).SetInt(i).Float64()
	return f
}
