// Package delivery hands a finished mashup to the user, either as a local file or as a zipped email attachment.
package delivery

import (
	"context"
	"path/filepath"

	"github.com/mashup-cli/mashup/assembler"
	"github.com/mashup-cli/mashup/filesystem"
)

// Saver moves the mashup to a local path.
type Saver struct {
	Path string
}

// Deliver moves the mashup file to the configured path and returns its absolute location.
func (s *Saver) Deliver(_ context.Context, m *assembler.Mashup, _ string) (string, error) {
	target, err := filepath.Abs(s.Path)
	if err != nil {
		return "", &IOError{Path: s.Path, Err: err}
	}

	if err := filesystem.Move(m.Path, target); err != nil {
		return "", &IOError{Path: target, Err: err}
	}

	return target, nil
}
