package tagged

import (
	"errors"
	"fmt"
)

// ErrRender is matched by every RenderError.
var ErrRender = errors.New("render failed")

// RenderError reports a resource the document cannot be generated
// without, such as an embeddable font.
type RenderError struct {
	Resource string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Resource, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool { return target == ErrRender }
