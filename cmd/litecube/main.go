package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/litecube/litecube/internal/config"
)

func init() {
	// Native windows belong to the thread that created them.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "probe":
		os.Exit(runProbe(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: litecube <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the window and poll until it is closed")
	fmt.Fprintln(w, "  probe               Open a window, report its geometry and close it")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'litecube <command> --help' for command-specific options.")
}

// runOptions are the command-line overrides shared by run and probe.
type runOptions struct {
	path       *string
	backend    *string
	fullscreen *bool
	width      *int
	height     *int
	title      *string
	logLevel   *string
}

func addRunFlags(fs *flag.FlagSet) *runOptions {
	return &runOptions{
		path:       fs.String("config", "", "Config file path (default: ~/.config/litecube/config.yaml)"),
		backend:    fs.String("backend", "", "Windowing backend: auto, x11, win32, headless"),
		fullscreen: fs.Bool("fullscreen", false, "Switch the display mode and open borderless"),
		width:      fs.Int("width", 0, "Client area width"),
		height:     fs.Int("height", 0, "Client area height"),
		title:      fs.String("title", "", "Window title"),
		logLevel:   fs.String("log-level", "", "Log level: debug, info, warn, error"),
	}
}

// load reads the config file and applies the flags the user set explicitly.
func (o *runOptions) load(fs *flag.FlagSet) (*config.Config, error) {
	res, err := loadConfigResult(*o.path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *o.backend
		case "fullscreen":
			cfg.Fullscreen = *o.fullscreen
		case "width":
			cfg.Window.Width = *o.width
		case "height":
			cfg.Window.Height = *o.height
		case "title":
			cfg.Window.Title = *o.title
		case "log-level":
			cfg.LogLevel = *o.logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: litecube run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the configured window and poll it until it is closed.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	opts := addRunFlags(fs)
	bounce := fs.Bool("bounce", false, "Move the window around the work area")
	frames := fs.Int("frames", 0, "Request close after N frames (0 = run until closed)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := opts.load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *bounce {
		cfg.Bounce.Enabled = true
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *frames < 0 {
		fmt.Fprintln(os.Stderr, "--frames must be >= 0")
		return 2
	}

	logger := newLogger(os.Stderr, cfg.SlogLevel())
	backend, closeBackend, err := openBackend(cfg.Backend)
	if err != nil {
		logger.Error("failed to open windowing backend", "backend", cfg.Backend, "error", err)
		return 1
	}
	defer closeBackend()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := runWindow(backend, cfg, *frames, sigCh, logger); err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

func runProbe(args []string) int {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: litecube probe [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window, print what the backend reports about it, then close it.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	opts := addRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := opts.load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := newLogger(os.Stderr, cfg.SlogLevel())
	backend, closeBackend, err := openBackend(cfg.Backend)
	if err != nil {
		logger.Error("failed to open windowing backend", "backend", cfg.Backend, "error", err)
		return 1
	}
	defer closeBackend()

	rep, err := probe(backend, cfg, logger)
	if err != nil {
		logger.Error("probe failed", "error", err)
		return 1
	}
	fmt.Println(rep.Render())
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  litecube config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  litecube config print [--path PATH] [--defaults] [--yaml]")
		fmt.Fprintln(os.Stderr, "  litecube config explain [--path PATH] <yaml.path>")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/litecube/config.yaml)")

	switch args[0] {
	case "validate":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		asYAML := fs.Bool("yaml", false, "Print raw YAML instead of a report")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res := &config.LoadResult{Config: config.DefaultConfig()}
		if !*printDefaults {
			var err error
			if res, err = loadConfigResult(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}

		if *asYAML {
			data, err := res.Config.Marshal()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Print(string(data))
			return 0
		}
		fmt.Println(configReport(res).Render())
		return 0

	case "explain":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value: %v\n", value)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	if src.Kind == config.SourceFile && src.File != "" {
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	}
	return "default"
}
