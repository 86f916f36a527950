// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is present.
var ErrUnavailable = errors.New("clipboard unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf("copy tree to clipboard: %w", writeError)
	}
	return nil
}

// Recorder is an in-memory Copier.
type Recorder struct {
	Copied []string
}

// Copy appends text to the recorded copies.
func (recorder *Recorder) Copy(text string) error {
	recorder.Copied = append(recorder.Copied, text)
	return nil
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = (*Recorder)(nil)
)
