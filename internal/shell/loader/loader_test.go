package loader

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

const sampleYAML = `
parameters:
  - name: replicas
    type: number
    value: 3
    required: true
    options:
      minValue: 1
      maxValue: 10
  - name: hostname
    type: string
    value: "my app"
  - name: debug
    type: bool
    value: "TRUE"
    required: "false"
  - name: notes
    type: string
`

const sampleJSON = `{
  "parameters": [
    {"name": "ratio", "type": "number", "value": 10.3, "options": {"maxValue": 10}},
    {"name": "tags", "type": "list", "value": "a,b", "required": false}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(buf *bytes.Buffer) *Loader {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewLoader(primitive.DefaultBoolVocabulary, logger)
}

// =============================================================================
// FormatForPath Tests
// =============================================================================

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"params.yaml", FormatYAML, false},
		{"params.YML", FormatYAML, false},
		{"dir/params.json", FormatJSON, false},
		{"params.toml", "", true},
		{"params", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// Decode Tests
// =============================================================================

func TestDecode_YAML(t *testing.T) {
	params, err := Decode([]byte(sampleYAML), FormatYAML, primitive.DefaultBoolVocabulary)
	require.NoError(t, err)
	require.Len(t, params, 4)

	assert.Equal(t, domain.Parameter{
		Name:     "replicas",
		Type:     domain.TypeNumber,
		Value:    3,
		Required: true,
		Options:  domain.Options{MinValue: 1, MaxValue: 10},
	}, params[0])

	assert.Equal(t, "my app", params[1].Value)
	assert.False(t, params[1].Required)

	assert.Equal(t, "TRUE", params[2].Value)
	assert.False(t, params[2].Required)

	assert.Nil(t, params[3].Value)
}

func TestDecode_JSON(t *testing.T) {
	params, err := Decode([]byte(sampleJSON), FormatJSON, primitive.DefaultBoolVocabulary)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, json.Number("10.3"), params[0].Value)
	assert.Equal(t, json.Number("10"), params[0].Options.MaxValue)
	assert.Equal(t, domain.TypeList, params[1].Type)
}

func TestDecode_JSONLargeIntegerStaysExact(t *testing.T) {
	data := []byte(`{"parameters": [{"name": "id", "type": "number", "value": 1, "options": {"maxValue": 12345678901234567890}}]}`)

	params, err := Decode(data, FormatJSON, primitive.DefaultBoolVocabulary)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", primitive.Text(params[0].Options.MaxValue))
}

func TestDecode_NonScalarValues(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		label  string
	}{
		{"yaml sequence value", "parameters:\n  - name: tags\n    type: list\n    value: [a, \"\"]\n", FormatYAML, `"tags"`},
		{"yaml mapping value", "parameters:\n  - name: host\n    type: string\n    value: {k: v}\n", FormatYAML, `"host"`},
		{"yaml sequence bound", "parameters:\n  - type: number\n    value: 1\n    options:\n      minValue: [1]\n", FormatYAML, "#0"},
		{"json sequence value", `{"parameters": [{"name": "tags", "type": "list", "value": ["a", ""]}]}`, FormatJSON, `"tags"`},
		{"json mapping bound", `{"parameters": [{"name": "n", "type": "number", "options": {"maxValue": {"v": 1}}}]}`, FormatJSON, `"n"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format, primitive.DefaultBoolVocabulary)
			require.ErrorIs(t, err, domain.ErrParameterInvalidValue)
			assert.Contains(t, err.Error(), tt.label)
		})
	}
}

func TestDecode_RequiredVocabulary(t *testing.T) {
	data := []byte("parameters:\n  - name: a\n    type: string\n    required: \"on\"\n")

	_, err := Decode(data, FormatYAML, primitive.DefaultBoolVocabulary)
	assert.ErrorIs(t, err, ErrInvalidRequired)
	assert.Contains(t, err.Error(), `"a"`)

	onOff := primitive.MustBoolVocabulary(`^(true|on)$`, `^(false|off)$`)
	params, err := Decode(data, FormatYAML, onOff)
	require.NoError(t, err)
	assert.True(t, params[0].Required)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("parameters: [[["), FormatYAML, primitive.DefaultBoolVocabulary)
	assert.Error(t, err)

	_, err = Decode([]byte("{"), FormatJSON, primitive.DefaultBoolVocabulary)
	assert.Error(t, err)

	_, err = Decode([]byte("parameters: []"), FormatYAML, primitive.DefaultBoolVocabulary)
	assert.ErrorIs(t, err, ErrNoParameters)

	_, err = Decode([]byte("a = 1"), Format("toml"), primitive.DefaultBoolVocabulary)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// =============================================================================
// LoadFile Tests
// =============================================================================

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", sampleYAML)

	var buf bytes.Buffer
	f, err := newTestLoader(&buf).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, f.Path)
	assert.Len(t, f.Parameters, 4)
	assert.Contains(t, buf.String(), "loaded parameter file")
}

func TestLoadFile_WarnsOnDefinitionProblems(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", "parameters:\n  - name: a\n    type: text\n  - name: a\n    type: number\n")

	var buf bytes.Buffer
	f, err := newTestLoader(&buf).LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, f.Parameters, 2)
	assert.Contains(t, buf.String(), "parameter definition problem")
	assert.Contains(t, buf.String(), "invalid parameter type")
	assert.Contains(t, buf.String(), "duplicate parameter name")
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := newTestLoader(&buf)

	_, err := l.LoadFile(filepath.Join(dir, "missing.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	txt := writeFile(t, dir, "params.txt", "x")
	_, err = l.LoadFile(txt)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), txt)
}

// =============================================================================
// Expand / Load Tests
// =============================================================================

func TestExpand_Recursive(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", sampleYAML)
	b := writeFile(t, dir, "nested/deep/b.yaml", sampleYAML)
	writeFile(t, dir, "nested/c.json", sampleJSON)

	paths, err := Expand([]string{filepath.Join(dir, "**", "*.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)
}

func TestExpand_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", sampleYAML)

	paths, err := Expand([]string{a, filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, paths)
}

func TestExpand_NoMatches(t *testing.T) {
	dir := t.TempDir()

	_, err := Expand([]string{filepath.Join(dir, "*.yaml")})
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestExpand_InvalidPattern(t *testing.T) {
	_, err := Expand([]string{"[unclosed"})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", sampleJSON)
	writeFile(t, dir, "a.yaml", sampleYAML)

	var buf bytes.Buffer
	files, err := newTestLoader(&buf).Load([]string{filepath.Join(dir, "*")})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.yaml", filepath.Base(files[0].Path))
	assert.Equal(t, "b.json", filepath.Base(files[1].Path))
}
