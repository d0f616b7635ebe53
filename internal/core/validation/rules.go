package validation

import (
	"fmt"
	"regexp"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/primitive"
)

// =============================================================================
// Tags
// =============================================================================

// Tag identifies what a rule applies to: a declared parameter type or the
// required constraint.
type Tag string

// TagRequired applies to parameters whose Required flag is set.
const TagRequired Tag = "required"

// TypeTag returns the tag for a declared parameter type.
func TypeTag(pt domain.ParameterType) Tag {
	return Tag(pt)
}

// =============================================================================
// Rule
// =============================================================================

// CheckFunc reports whether value is valid under opts.
type CheckFunc func(value any, opts domain.Options) bool

// MessageFunc formats the error reported when a CheckFunc fails.
type MessageFunc func(value any, opts domain.Options) string

// Rule is a single validation rule. Rules are immutable once built.
type Rule struct {
	AppliesTo Tag
	Check     CheckFunc
	Message   MessageFunc
}

// NewRule builds a rule from its tag, predicate and message formatter.
func NewRule(tag Tag, check CheckFunc, message MessageFunc) Rule {
	return Rule{
		AppliesTo: tag,
		Check:     check,
		Message:   message,
	}
}

// Apply runs the rule. Returns the error message and true if the value
// fails, or "" and false if it passes.
// A rule without a Check passes everything; a failing rule without a
// Message reports MsgFormat.
func (r Rule) Apply(value any, opts domain.Options) (string, bool) {
	if r.Check == nil || r.Check(value, opts) {
		return "", false
	}
	if r.Message == nil {
		return MsgFormat, true
	}
	return r.Message(value, opts), true
}

// =============================================================================
// Messages
// =============================================================================

const (
	MsgRequired = "This field is required. Please, enter a value."
	MsgFormat   = "Please match the format requested."
)

func fixedMessage(msg string) MessageFunc {
	return func(any, domain.Options) string { return msg }
}

// =============================================================================
// Patterns
// =============================================================================

// Whitespace classes follow primitive.IsSpace so format rules and the
// required rule agree on what counts as blank.
const (
	nonSpace = `[^` + primitive.SpaceClass + `]`

	// listItem holds at least one character that is neither whitespace nor a
	// comma, and no comma, tab, carriage return or newline.
	listItem = `[^,\t\r\n]*[^,` + primitive.SpaceClass + `]+[^,\t\r\n]*`
)

var (
	// numberRegex: optional minus, digits with an optional single . or , separator.
	numberRegex = regexp.MustCompile(`^-?\d*[.,]?\d+$`)

	// textRegex: any single-line text, inner spaces allowed, no leading or
	// trailing whitespace.
	textRegex = regexp.MustCompile(`^` + nonSpace + `+(?: +` + nonSpace + `+)*$`)

	// listRegex: comma-separated items. No leading, trailing or repeated
	// commas and no tab, carriage return or newline anywhere.
	listRegex = regexp.MustCompile(`^(?:` + listItem + `)(?:,` + listItem + `)*$`)
)

// isUnset reports whether a value is exempt from format checks: absent or
// exactly the empty string. Whitespace-only text is not exempt.
func isUnset(value any) bool {
	return primitive.IsEmpty(value) || value == ""
}

func matches(re *regexp.Regexp) CheckFunc {
	return func(value any, _ domain.Options) bool {
		return isUnset(value) || re.MatchString(primitive.Text(value))
	}
}

// =============================================================================
// Default Rules
// =============================================================================

var requiredRule = NewRule(
	TagRequired,
	func(value any, _ domain.Options) bool {
		return !primitive.IsBlank(value)
	},
	fixedMessage(MsgRequired),
)

var numberRule = NewRule(
	TypeTag(domain.TypeNumber),
	matches(numberRegex),
	fixedMessage(MsgFormat),
)

var numberMinRule = NewRule(
	TypeTag(domain.TypeNumber),
	func(value any, opts domain.Options) bool {
		if isUnset(value) || primitive.IsEmpty(opts.MinValue) {
			return true
		}
		return primitive.ToNumber(value) >= primitive.ToNumber(opts.MinValue)
	},
	func(_ any, opts domain.Options) string {
		return fmt.Sprintf("Value should be greater than %s.", primitive.Text(opts.MinValue))
	},
)

var numberMaxRule = NewRule(
	TypeTag(domain.TypeNumber),
	func(value any, opts domain.Options) bool {
		if isUnset(value) || primitive.IsEmpty(opts.MaxValue) {
			return true
		}
		return primitive.ToNumber(value) <= primitive.ToNumber(opts.MaxValue)
	},
	func(_ any, opts domain.Options) string {
		return fmt.Sprintf("Value should be less than %s.", primitive.Text(opts.MaxValue))
	},
)

var stringRule = NewRule(
	TypeTag(domain.TypeString),
	matches(textRegex),
	fixedMessage(MsgFormat),
)

var listRule = NewRule(
	TypeTag(domain.TypeList),
	matches(listRegex),
	fixedMessage(MsgFormat),
)

var boolRule = NewRule(
	TypeTag(domain.TypeBool),
	func(value any, _ domain.Options) bool {
		return isUnset(value) || primitive.DefaultBoolVocabulary.IsBoolean(value)
	},
	fixedMessage(MsgFormat),
)

// defaultRules is the registry. Its order is the order errors are reported in.
var defaultRules = []Rule{
	requiredRule,
	numberRule,
	numberMinRule,
	numberMaxRule,
	stringRule,
	listRule,
	boolRule,
}

// DefaultRules returns a copy of the default registry. Appending to the
// result does not affect the default engine.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
