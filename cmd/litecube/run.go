package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/litecube/litecube/internal/config"
	"github.com/litecube/litecube/internal/platform"
	"github.com/litecube/litecube/internal/window"
)

func openWindow(backend platform.Backend, cfg *config.Config, logger *slog.Logger) (*window.Window, window.Flags, error) {
	flags, err := cfg.Flags()
	if err != nil {
		return nil, 0, err
	}

	w := window.New(backend, window.WithLogger(logger))
	if err := w.Open(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, flags); err != nil {
		return nil, 0, err
	}
	if p := cfg.Window.Position; p != nil && !flags.Has(window.Fullscreen) {
		w.SetPosition(p.X, p.Y)
	}
	return w, flags, nil
}

// runWindow opens the configured window and polls it until a close is
// requested or the window disappears. A signal on stop, or reaching frames
// when it is positive, requests the close the same way the user would.
func runWindow(backend platform.Backend, cfg *config.Config, frames int, stop <-chan os.Signal, logger *slog.Logger) error {
	w, flags, err := openWindow(backend, cfg, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	x, y := w.Position()
	width, height := w.Size()
	logger.Info("window opened",
		"backend", backend.Name(),
		"title", w.Title(),
		"x", x, "y", y,
		"width", width, "height", height,
		"flags", flags.String())

	var b *bouncer
	if cfg.Bounce.Enabled && !flags.Has(window.Fullscreen) {
		area, err := backend.WorkArea()
		if err != nil {
			logger.Warn("work area unavailable, bounce disabled", "error", err)
		} else {
			b = newBouncer(area, x, y, width, height, cfg.Bounce.Speed)
		}
	}

	frame := 0
	focused := w.IsFocused()
	for !w.IsCloseRequested() && w.IsOpen() {
		select {
		case sig := <-stop:
			logger.Info("signal received, closing window", "signal", sig.String())
			if err := w.RequestClose(); err != nil {
				return err
			}
		default:
		}

		w.PollEvents()
		frame++

		if now := w.IsFocused(); now != focused {
			focused = now
			logger.Debug("focus changed", "focused", focused, "frame", frame)
		}
		if frames > 0 && frame == frames {
			if err := w.RequestClose(); err != nil {
				return err
			}
		}
		if b != nil && w.IsOpen() {
			w.SetPosition(b.step())
		}
		if cfg.PollInterval > 0 {
			time.Sleep(cfg.PollInterval)
		}
	}

	if w.IsCloseRequested() {
		logger.Info("close requested", "frames", frame)
	} else {
		logger.Info("window destroyed", "frames", frame)
	}
	return nil
}

// probe opens the window once, records what the backend reports for it and
// closes it again.
func probe(backend platform.Backend, cfg *config.Config, logger *slog.Logger) (*report, error) {
	w, flags, err := openWindow(backend, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	w.PollEvents()

	x, y := w.Position()
	width, height := w.Size()
	r := &report{title: "litecube probe"}
	r.add("Backend", backend.Name())
	r.add("Title", w.Title())
	r.add("Flags", flags.String())
	r.gap()
	r.addf("Requested Client", "%dx%d", cfg.Window.Width, cfg.Window.Height)
	r.addf("Outer Size", "%dx%d", width, height)
	r.addf("Position", "%d,%d", x, y)
	r.add("Focused", fmt.Sprint(w.IsFocused()))

	if area, err := backend.WorkArea(); err == nil {
		r.addf("Work Area", "%dx%d+%d+%d", area.Width, area.Height, area.X, area.Y)
	} else {
		r.note("work area: " + err.Error())
	}
	probeMonitors(backend, r)
	return r, nil
}
