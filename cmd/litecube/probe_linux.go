//go:build linux

package main

import (
	"fmt"

	"github.com/litecube/litecube/internal/platform"
)

// probeMonitors lists the RandR monitors when running on X11.
func probeMonitors(backend platform.Backend, r *report) {
	xb, ok := backend.(*platform.X11Backend)
	if !ok {
		return
	}
	monitors, err := xb.Connection().GetMonitors()
	if err != nil {
		r.note("monitors: " + err.Error())
		return
	}
	r.gap()
	for _, m := range monitors {
		value := fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y)
		if m.Primary {
			value += " (primary)"
		}
		r.add("Monitor "+m.Name, value)
	}
}
