//go:build linux

package x11

import (
	"fmt"

	"github.com/mj1618/findui/internal/platform"
)

func init() {
	platform.NewProviderFunc = func(opts platform.Options) (platform.Provider, error) {
		if opts.Backend != "" && opts.Backend != "x11" {
			return nil, fmt.Errorf("unknown backend %q (available: x11)", opts.Backend)
		}
		p, err := NewProvider(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
