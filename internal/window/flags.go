package window

import (
	"fmt"
	"strings"

	"github.com/litecube/litecube/internal/platform"
)

// Flags control how a window looks and behaves when it is opened.
type Flags uint32

const (
	Fullscreen Flags = 1 << iota
	Resizable
	MinimizeButton
	MaximizeButton
	// Maximized opens the window maximized.
	Maximized
	// Minimized opens the window iconified.
	Minimized

	Default = Resizable | MinimizeButton | MaximizeButton
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Fullscreen, "fullscreen"},
	{Resizable, "resizable"},
	{MinimizeButton, "minimize-button"},
	{MaximizeButton, "maximize-button"},
	{Maximized, "maximized"},
	{Minimized, "minimized"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags combines flag names. "default" expands to Default.
func ParseFlags(names []string) (Flags, error) {
	var flags Flags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "default" {
			flags |= Default
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown window flag %q", raw)
		}
	}
	return flags, nil
}

// style translates flags into the semantic style a backend understands.
func (f Flags) style() platform.Style {
	return platform.Style{
		Resizable:      f.Has(Resizable),
		MinimizeButton: f.Has(MinimizeButton),
		MaximizeButton: f.Has(MaximizeButton),
	}
}

// showCommand is the visibility transition applied right after creation.
func (f Flags) showCommand() platform.ShowCommand {
	switch {
	case f.Has(Minimized):
		return platform.ShowMinimized
	case f.Has(Maximized):
		return platform.ShowMaximized
	default:
		return platform.ShowNormal
	}
}
