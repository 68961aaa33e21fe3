package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/glwindow/internal/config"
	"github.com/1broseidon/glwindow/internal/ipc"
	"github.com/1broseidon/glwindow/internal/props"
	"golang.org/x/term"
)

func init() {
	// Native windowing and OpenGL calls must stay on the thread that made
	// the window; keep main on one OS thread.
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
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runSimple("reload", "Re-read the config and apply its window section.", args(), func(c *ipc.Client) error { return c.Reload() }))
	case "close":
		os.Exit(runSimple("close", "Close the window and stop the daemon.", args(), func(c *ipc.Client) error { return c.Close() }))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func args() []string { return os.Args[2:] }

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: glwindow <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the window and run the daemon (foreground)")
	fmt.Fprintln(w, "  set                 Change window properties")
	fmt.Fprintln(w, "  state               Show window state")
	fmt.Fprintln(w, "  modes               List display modes")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Re-apply the config window section")
	fmt.Fprintln(w, "  close               Close the window and stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'glwindow <command> --help' for command-specific options.")
}

// optBool is a bool flag that remembers whether it was given.
type optBool struct {
	set   bool
	value bool
}

func (b *optBool) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}

func (b *optBool) IsBoolFlag() bool { return true }

func (b *optBool) ptr() *bool {
	if !b.set {
		return nil
	}
	v := b.value
	return &v
}

// parseSize parses "WxH".
func parseSize(s string) (props.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return props.Size{}, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return props.Size{}, fmt.Errorf("invalid size width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return props.Size{}, fmt.Errorf("invalid size height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return props.Size{}, fmt.Errorf("size must be positive, got %dx%d", width, height)
	}
	return props.Size{Width: width, Height: height}, nil
}

// parsePoint parses "X,Y". "center" centers on both axes.
func parsePoint(s string) (props.Point, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "center") {
		return props.Point{X: -1, Y: -1}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return props.Point{}, fmt.Errorf("invalid origin %q (want X,Y or center)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return props.Point{}, fmt.Errorf("invalid origin x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return props.Point{}, fmt.Errorf("invalid origin y %q: %w", ys, err)
	}
	return props.Point{X: x, Y: y}, nil
}

type setFlags struct {
	size         string
	origin       string
	zOrder       string
	title        string
	titleSet     bool
	fullscreen   optBool
	minimized    optBool
	foreground   optBool
	undecorated  optBool
	fixedSize    optBool
	cursorHidden optBool
}

func newSetFlagSet() (*flag.FlagSet, *setFlags) {
	sf := &setFlags{}
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.StringVar(&sf.size, "size", "", "Content size, WIDTHxHEIGHT")
	fs.StringVar(&sf.origin, "origin", "", "Frame origin, X,Y (negative or 'center' centers)")
	fs.StringVar(&sf.zOrder, "z-order", "", "Stacking level: bottom, normal or top")
	fs.Func("title", "Window title", func(s string) error {
		sf.title, sf.titleSet = s, true
		return nil
	})
	fs.Var(&sf.fullscreen, "fullscreen", "Enter (true) or leave (false) fullscreen")
	fs.Var(&sf.minimized, "minimized", "Minimize or restore")
	fs.Var(&sf.foreground, "foreground", "Raise and focus the window")
	fs.Var(&sf.undecorated, "undecorated", "Remove the title bar and borders")
	fs.Var(&sf.fixedSize, "fixed-size", "Prevent user resizing")
	fs.Var(&sf.cursorHidden, "cursor-hidden", "Hide the cursor over the window")
	return fs, sf
}

// request builds the property request from the parsed flags.
func (sf *setFlags) request() (props.Request, error) {
	req := props.Request{
		Fullscreen:   sf.fullscreen.ptr(),
		Minimized:    sf.minimized.ptr(),
		Foreground:   sf.foreground.ptr(),
		Undecorated:  sf.undecorated.ptr(),
		FixedSize:    sf.fixedSize.ptr(),
		CursorHidden: sf.cursorHidden.ptr(),
		ZOrder:       sf.zOrder,
	}
	if sf.size != "" {
		size, err := parseSize(sf.size)
		if err != nil {
			return props.Request{}, err
		}
		req.Size = &size
	}
	if sf.origin != "" {
		origin, err := parsePoint(sf.origin)
		if err != nil {
			return props.Request{}, err
		}
		req.Origin = &origin
	}
	if sf.titleSet {
		title := sf.title
		req.Title = &title
	}
	p, err := req.Properties()
	if err != nil {
		return props.Request{}, err
	}
	if !p.IsAny() {
		return props.Request{}, fmt.Errorf("no properties given")
	}
	return req, nil
}

func runSet(args []string) int {
	fs, sf := newSetFlagSet()
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glwindow set [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Change window properties. Omitted properties are left unchanged.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "set takes no arguments")
		fs.Usage()
		return 2
	}

	req, err := sf.request()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := ipc.NewClient().SetProperties(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(res.Rejected) > 0 {
		fmt.Fprintf(os.Stderr, "not applied: %s\n", strings.Join(res.Rejected, ", "))
		return 1
	}
	return 0
}

func noArgs(name, summary string, args []string) (int, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: glwindow %s\n\n%s\n", name, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func runSimple(name, summary string, args []string, fn func(*ipc.Client) error) int {
	if code, ok := noArgs(name, summary, args); !ok {
		return code
	}
	if err := fn(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	if code, ok := noArgs("status", "Show daemon status via IPC.", args); !ok {
		return code
	}
	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("pid:            %d\n", status.PID)
	fmt.Printf("window_open:    %v\n", status.WindowOpen)
	fmt.Printf("frame_rate:     %d\n", status.FrameRate)
	fmt.Printf("frames:         %d\n", status.Frames)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runState(args []string) int {
	if code, ok := noArgs("state", "Show the window state via IPC.", args); !ok {
		return code
	}
	data, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeState(os.Stdout, data)
	return 0
}

func writeState(w io.Writer, data *ipc.StateData) {
	s := data.Window
	fmt.Fprintf(w, "open:          %v\n", s.Open)
	fmt.Fprintf(w, "origin:        %d,%d\n", s.Origin.X, s.Origin.Y)
	fmt.Fprintf(w, "size:          %dx%d\n", s.Size.Width, s.Size.Height)
	fmt.Fprintf(w, "fullscreen:    %v\n", s.Fullscreen)
	fmt.Fprintf(w, "minimized:     %v\n", s.Minimized)
	fmt.Fprintf(w, "foreground:    %v\n", s.Foreground)
	fmt.Fprintf(w, "undecorated:   %v\n", s.Undecorated)
	fmt.Fprintf(w, "fixed_size:    %v\n", s.FixedSize)
	fmt.Fprintf(w, "cursor_hidden: %v\n", s.CursorHidden)
	fmt.Fprintf(w, "z_order:       %s\n", s.ZOrder)
	fmt.Fprintf(w, "title:         %s\n", s.Title)
	if data.FullscreenMode != nil {
		fmt.Fprintf(w, "mode:          %s\n", data.FullscreenMode)
	}
	if data.WindowedMode != nil {
		fmt.Fprintf(w, "windowed_mode: %s\n", data.WindowedMode)
	}
}

func runModes(args []string) int {
	if code, ok := noArgs("modes", "List the display modes of the window's monitor.", args); !ok {
		return code
	}
	data, err := ipc.NewClient().ListModes()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeModes(os.Stdout, data, term.IsTerminal(int(os.Stdout.Fd())))
	return 0
}

// writeModes prints an aligned table for terminals and one mode per line
// otherwise.
func writeModes(w io.Writer, data *ipc.ModesData, table bool) {
	if !table {
		for _, m := range data.Modes {
			fmt.Fprintln(w, m.String())
		}
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tREFRESH\tDEPTH\tCURRENT")
	for _, m := range data.Modes {
		current := ""
		if m.Same(data.Current) {
			current = "*"
		}
		fmt.Fprintf(tw, "%d\t%dx%d\t%.2fHz\t%d\t%s\n", m.ID, m.Width, m.Height, float64(m.RefreshMilliHz)/1000, m.Depth, current)
	}
	tw.Flush()
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  glwindow config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  glwindow config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/glwindow/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/glwindow/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# file: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}
