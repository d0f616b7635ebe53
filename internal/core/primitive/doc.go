// Package primitive provides pure coercion helpers for raw parameter values.
//
// Raw values arrive as the dynamic shapes produced by the JSON and YAML
// decoders: nil, string, bool, the Go numeric kinds and json.Number. nil is
// the absence sentinel; every other value, including 0, "" and false, is
// present.
//
// # Functions
//
//   - IsEmpty: Report whether a value is absent
//   - IsBlank: Report whether a value is absent or whitespace-only text
//   - IsBoolean / ToBoolean: Classify and coerce boolean-like values
//   - ToNumber: Coerce a value to float64 (NaN when not numeric)
//   - Text: Render a value as text
//
// # Usage
//
// Boolean vocabularies are caller-overridable:
//
//	onOff := primitive.MustBoolVocabulary(`true|1|on`, `false|0|off`)
//	v, ok := onOff.ToBoolean("on") // true, true
package primitive
