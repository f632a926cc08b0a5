package assembler

import (
	"errors"
	"fmt"
)

var ErrNoClips = errors.New("no audio clips survived trimming")

// AssemblyError reports a failed probe, trim or concatenation.
type AssemblyError struct {
	// Op is one of "probe", "trim" or "concat".
	Op string
	// Clip is the source file, empty for concat.
	Clip string
	Err  error
}

func (e *AssemblyError) Error() string {
	if e.Clip == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Clip, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
