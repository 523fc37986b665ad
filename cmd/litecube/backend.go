package main

import (
	"fmt"

	"github.com/litecube/litecube/internal/platform"
	"github.com/litecube/litecube/internal/platform/headless"
	"github.com/litecube/litecube/internal/window"
)

type disconnecter interface {
	Disconnect()
}

// openBackend returns the named backend and a function that releases it.
func openBackend(name string) (platform.Backend, func(), error) {
	if name == "headless" {
		b := headless.New()
		return b, func() { window.ReleaseBackend(b) }, nil
	}

	b, err := platform.NewNative()
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		window.ReleaseBackend(b)
		if d, ok := b.(disconnecter); ok {
			d.Disconnect()
		}
	}
	if name != "auto" && name != b.Name() {
		release()
		return nil, nil, fmt.Errorf("backend %q is not available here (native backend is %q)", name, b.Name())
	}
	return b, release, nil
}
