// Package clipboard copies rendered listings to the system clipboard.
package clipboard

import (
	"errors"

	systemclipboard "github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available on the host.
var ErrUnsupported = errors.New("system clipboard is not available")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if systemclipboard.Unsupported {
		return ErrUnsupported
	}
	return systemclipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
