package loader

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/primitive"
	"github.com/bmatcuk/doublestar/v4"
)

// =============================================================================
// Loader
// =============================================================================

// ParameterFile is a parameter set together with the file it was read from.
type ParameterFile struct {
	Path       string
	Parameters []domain.Parameter
}

// Loader reads parameter files from disk.
type Loader struct {
	vocab  primitive.BoolVocabulary
	logger *slog.Logger
}

// NewLoader creates a loader that resolves required flags with vocab.
func NewLoader(vocab primitive.BoolVocabulary, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		vocab:  vocab,
		logger: logger,
	}
}

// LoadFile reads and decodes one parameter file.
// Definition problems (duplicate names, unknown types) are logged as
// warnings and do not fail the load.
func (l *Loader) LoadFile(path string) (*ParameterFile, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	params, err := Decode(data, format, l.vocab)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	for _, defErr := range domain.CheckDefinitions(params) {
		l.logger.Warn("parameter definition problem", "path", path, "error", defErr)
	}

	l.logger.Debug("loaded parameter file", "path", path, "parameters", len(params))
	return &ParameterFile{Path: path, Parameters: params}, nil
}

// Load expands patterns and loads every matched file, in path order.
func (l *Loader) Load(patterns []string) ([]*ParameterFile, error) {
	paths, err := Expand(patterns)
	if err != nil {
		return nil, err
	}

	files := make([]*ParameterFile, 0, len(paths))
	for _, path := range paths {
		f, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// =============================================================================
// Pattern Expansion
// =============================================================================

// Expand resolves glob patterns (** matches across directories) into a
// sorted, de-duplicated list of regular files. Every pattern must match at
// least one file; a plain path counts as a pattern matching itself.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, NewLoadError(pattern, ErrInvalidPattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, NewLoadError(pattern, fmt.Errorf("glob: %w", err))
		}
		if len(matches) == 0 {
			return nil, NewLoadError(pattern, ErrNoMatches)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	slices.Sort(paths)
	return paths, nil
}
