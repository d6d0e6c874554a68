package platform

import (
	"fmt"
	"log/slog"
	"runtime"
)

// Options configures a platform provider.
type Options struct {
	Backend string       // Backend name, e.g. "x11" (empty = platform default)
	Logger  *slog.Logger // Receives provider diagnostics; nil discards them
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("findui has no accessibility provider for %s/%s; supported: linux (x11), or --fixture", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/x11/init.go for the X11 registration.
var NewProviderFunc func(opts Options) (Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider(opts Options) (Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
