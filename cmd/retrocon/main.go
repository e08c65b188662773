// Command retrocon runs Lua console programs in a window, a terminal or
// headless.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ryanlewis/retrocon"
	"github.com/ryanlewis/retrocon/ebitensink"
	"github.com/ryanlewis/retrocon/internal/config"
	"github.com/ryanlewis/retrocon/internal/debug"
	"github.com/ryanlewis/retrocon/internal/script"
	"github.com/ryanlewis/retrocon/tcellsink"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// flags holds the command line. Console settings only override the config
// file when given explicitly.
type flags struct {
	configPath  string
	writeConfig bool
	display     string
	columns     int
	rows        int
	charset     string
	gamma       float64
	fontsDir    string
	fontFile    string
	scale       float64
	fullscreen  bool
	smooth      bool
	keys        string
	stdinKeys   bool
	loadScreen  string
	loadPalette string
	dump        bool
	pngPath     string
	saveScreen  string
	recordDir   string
	timeout     time.Duration
	debugMode   bool
	debugFile   string
	debugPretty bool
	debugPhases string
	showVersion bool
	showHelp    bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("retrocon", pflag.ContinueOnError)
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fs.BoolVar(&f.writeConfig, "write-config", false, "Print the effective config as YAML and exit")
	fs.StringVarP(&f.display, "display", "d", config.DisplayEbiten, "Display: ebiten, tcell or none")
	fs.IntVar(&f.columns, "cols", 80, "Console columns")
	fs.IntVar(&f.rows, "rows", 25, "Console rows")
	fs.StringVar(&f.charset, "charset", retrocon.DefaultCharset.String(), "Charset, e.g. 8x16")
	fs.Float64Var(&f.gamma, "gamma", 1, "Display gamma (0.01-3)")
	fs.StringVar(&f.fontsDir, "fonts", "", "Directory with chars_WxH.bin files")
	fs.StringVar(&f.fontFile, "font", "", "Font file to use instead of the charset")
	fs.Float64VarP(&f.scale, "scale", "s", 2, "Window scale")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "Start the window in fullscreen")
	fs.BoolVar(&f.smooth, "smooth", false, "Filter the scaled window smoothly")
	fs.StringVarP(&f.keys, "keys", "k", "", "Characters queued as key presses before the script starts")
	fs.BoolVar(&f.stdinKeys, "stdin", false, "Queue standard input as key presses")
	fs.StringVar(&f.loadScreen, "load", "", "Screen snapshot to show before the script starts")
	fs.StringVar(&f.loadPalette, "palette", "", "Raw palette file to load")
	fs.BoolVar(&f.dump, "dump", false, "Print the final screen as text")
	fs.StringVar(&f.pngPath, "png", "", "Write the final frame as PNG")
	fs.StringVar(&f.saveScreen, "save", "", "Write the final screen snapshot")
	fs.StringVar(&f.recordDir, "record", "", "Record every frame into this directory")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "Stop the script after this long (0 = no limit)")
	fs.BoolVar(&f.debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	fs.StringVar(&f.debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	fs.BoolVar(&f.debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")
	fs.StringVar(&f.debugPhases, "debug-phases", "", "Comma separated debug phases to write (default: all)")
	fs.BoolVarP(&f.showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&f.showHelp, "help", "h", false, "Show help message")
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if f.showHelp {
		printHelp(stdout, fs)
		return 0
	}
	if f.showVersion {
		fmt.Fprintf(stdout, "retrocon version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if f.writeConfig {
		if err := cfg.Write(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	name, src, err := readScript(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	session, closeDebug, err := openDebug(&f, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating debug file: %v\n", err)
		return 1
	}
	defer closeDebug()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	opts := append(cfg.Options(), retrocon.WithDebug(session))
	var tty *tcellsink.Terminal
	if cfg.Display == config.DisplayTcell {
		if !isTerminal(stdout) {
			fmt.Fprintln(stderr, "Error: the tcell display needs a terminal on standard output")
			return 1
		}
		tty, err = tcellsink.New(nil)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer tty.Close()
		opts = append(opts, retrocon.WithDisplay(tty))
	}

	con, err := retrocon.New(cfg.Columns, cfg.Rows, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := prepare(con, cfg, &f, stdin); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	eng := script.New(con)
	defer eng.Close()
	program := func(ctx context.Context) error {
		if f.recordDir != "" {
			if err := con.StartRecording(f.recordDir); err != nil {
				return err
			}
		}
		err := eng.Run(ctx, name, src)
		if con.Recording() {
			n, stopErr := con.StopRecording()
			if stopErr == nil {
				fmt.Fprintf(stderr, "Recorded %d frames to %s\n", n, f.recordDir)
			}
		}
		return err
	}

	switch cfg.Display {
	case config.DisplayEbiten:
		win, werr := ebitensink.New(con, ebitensink.Options{
			Title:      cfg.Title,
			Scale:      cfg.Scale,
			Fullscreen: cfg.Fullscreen,
			Smooth:     cfg.Smooth,
		})
		if werr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", werr)
			return 1
		}
		err = win.Run(ctx, program)
	case config.DisplayTcell:
		pctx, cancel := context.WithCancel(ctx)
		go tty.Pump(con, cancel)
		err = program(pctx)
		cancel()
		tty.Close()
	default:
		err = program(ctx)
	}

	io.WriteString(stdout, eng.Output())
	code := 0
	switch {
	case err == nil, errors.Is(err, context.DeadlineExceeded):
	case errors.Is(err, context.Canceled):
		code = 130
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code = 1
	}

	if err := finish(con, &f, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

// loadConfig reads the config file, then applies the flags that were set.
func loadConfig(fs *pflag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	if fs.Changed("display") {
		cfg.Display = f.display
	}
	if fs.Changed("cols") {
		cfg.Columns = f.columns
	}
	if fs.Changed("rows") {
		cfg.Rows = f.rows
	}
	if fs.Changed("charset") {
		cs, err := retrocon.ParseCharset(f.charset)
		if err != nil {
			return nil, err
		}
		cfg.Charset = cs
	}
	if fs.Changed("gamma") {
		cfg.Gamma = f.gamma
	}
	if fs.Changed("fonts") {
		cfg.FontsDir = f.fontsDir
	}
	if fs.Changed("scale") {
		cfg.Scale = f.scale
	}
	if fs.Changed("fullscreen") {
		cfg.Fullscreen = f.fullscreen
	}
	if fs.Changed("smooth") {
		cfg.Smooth = f.smooth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readScript returns the script named by args, or the built-in demo.
func readScript(args []string) (name, src string, err error) {
	switch len(args) {
	case 0:
		return "demo.lua", script.Demo, nil
	case 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read script: %w", err)
		}
		return args[0], string(data), nil
	default:
		return "", "", fmt.Errorf("expected at most one script, got %d", len(args))
	}
}

func openDebug(f *flags, stderr io.Writer) (*debug.Session, func(), error) {
	debug.InitFromEnv()
	if f.debugMode || f.debugFile != "" {
		debug.SetEnabled(true)
	}
	if !debug.Enabled() {
		return nil, func() {}, nil
	}

	output := stderr
	var file *os.File
	if f.debugFile != "" {
		var err error
		if file, err = os.Create(f.debugFile); err != nil {
			return nil, nil, err
		}
		output = file
	}

	var sink debug.Sink
	if f.debugPretty || debug.PrettyFromEnv() {
		sink = debug.NewPrettySink(output)
	} else {
		sink = debug.NewJSONSink(output)
	}
	filter := debug.FilterFromEnv()
	if f.debugPhases != "" {
		filter.Phases = debug.ParsePhases(f.debugPhases)
	}
	session := debug.NewFilteredSession(sink, filter)
	return session, func() {
		if session != nil {
			session.Close()
		}
		if file != nil {
			file.Close()
		}
	}, nil
}

// prepare applies everything that has to happen before the script runs.
func prepare(con *retrocon.Console, cfg *config.Config, f *flags, stdin io.Reader) error {
	if err := cfg.Apply(con); err != nil {
		return err
	}
	if f.loadPalette != "" {
		if err := con.LoadPaletteFile(f.loadPalette); err != nil {
			return err
		}
	}
	if f.fontFile != "" {
		data, err := os.ReadFile(f.fontFile)
		if err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
		font, err := retrocon.ParseFontCached(data)
		if err != nil {
			return err
		}
		if err := con.SetFont(font); err != nil {
			return err
		}
	}
	if f.loadScreen != "" {
		if err := con.LoadScreenFile(f.loadScreen, f.loadPalette != ""); err != nil {
			return err
		}
	}
	con.PushString(f.keys)
	if f.stdinKeys {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read keys: %w", err)
		}
		con.PushString(string(data))
	}
	return nil
}

// finish writes the outputs that describe the final screen.
func finish(con *retrocon.Console, f *flags, stdout io.Writer) error {
	if f.dump {
		io.WriteString(stdout, con.Text())
	}
	if f.saveScreen != "" {
		if err := con.SaveScreenFile(f.saveScreen); err != nil {
			return err
		}
	}
	if f.pngPath == "" {
		return nil
	}
	surface := con.Surface()
	if surface == nil {
		return fmt.Errorf("--png needs the ebiten or none display")
	}
	out, err := os.Create(f.pngPath)
	if err != nil {
		return fmt.Errorf("failed to create png: %w", err)
	}
	if err := surface.SavePNG(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "retrocon - codepage 850 text console")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  retrocon [flags] [script.lua]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a script the built-in demo runs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s=1         enable debug output\n", debug.EnvDebug)
	fmt.Fprintf(w, "  %s=1  human-readable debug output\n", debug.EnvPretty)
	fmt.Fprintf(w, "  %s=list  debug phases to write\n", debug.EnvPhases)
	fmt.Fprintf(w, "  %s=1    also write idle frames\n", debug.EnvIdle)
}
