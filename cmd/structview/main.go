package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bufstruct/layout"
	"github.com/wippyai/bufstruct/memory"
	"github.com/wippyai/bufstruct/witlayout"
)

// setFlags collects repeated -set path=value flags.
type setFlags []assignment

type assignment struct {
	path  string
	value string
}

func (s *setFlags) String() string {
	parts := make([]string, len(*s))
	for i, a := range *s {
		parts[i] = a.path + "=" + a.value
	}
	return strings.Join(parts, ",")
}

func (s *setFlags) Set(v string) error {
	a, err := parseAssignment(v)
	if err != nil {
		return err
	}
	*s = append(*s, a)
	return nil
}

func parseAssignment(v string) (assignment, error) {
	path, value, ok := strings.Cut(v, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return assignment{}, fmt.Errorf("expected path=value, got %q", v)
	}
	return assignment{path: path, value: value}, nil
}

// newLogger builds the -v development logger. The TUI owns the terminal in
// interactive mode, so its output goes to a file instead of stderr.
func newLogger(interactive bool, logFile string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if interactive {
		if logFile == "" {
			logFile = filepath.Join(os.TempDir(), "structview.log")
		}
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}
	return cfg.Build()
}

type options struct {
	witFile  string
	typeName string
	dataFile string
	sets     setFlags
	offset   uint
	count    int
	record   int
	aligned  bool
	list     bool
	verbose  bool
	logFile  string
}

func main() {
	var opts options
	flag.StringVar(&opts.witFile, "wit", "", "Path to a WIT resolve in JSON form (wasm-tools component wit --json)")
	flag.StringVar(&opts.typeName, "type", "", "Record type to lay out (name or interface.name)")
	flag.StringVar(&opts.dataFile, "data", "", "Binary file to bind the layout to (optional)")
	flag.UintVar(&opts.offset, "offset", 0, "Byte offset of the first record in the data file")
	flag.IntVar(&opts.count, "count", 1, "Number of consecutive records")
	flag.IntVar(&opts.record, "record", 0, "Record index that -set applies to")
	flag.BoolVar(&opts.aligned, "aligned", false, "Use canonical ABI field alignment")
	flag.BoolVar(&opts.list, "list", false, "List record types and exit")
	flag.Var(&opts.sets, "set", "Assign path=value and write the data file back (repeatable)")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.StringVar(&opts.logFile, "log", "", "Verbose log file in interactive mode (default $TMPDIR/structview.log)")
	interactive := flag.Bool("i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.witFile == "" || (opts.typeName == "" && !opts.list) {
		fmt.Fprintln(os.Stderr, "Usage: structview -wit <types.json> -type <name> [-aligned] [-data file [-offset n] [-count n]]")
		fmt.Fprintln(os.Stderr, "       structview -wit <types.json> -type <name> -data file -set path=value [-set ...]")
		fmt.Fprintln(os.Stderr, "       structview -wit <types.json> -type <name> -data file -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       structview -wit <types.json> -list")
		os.Exit(1)
	}

	if opts.verbose {
		log, err := newLogger(*interactive, opts.logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: verbose logging disabled: %v\n", err)
		} else {
			defer func() { _ = log.Sync() }()
			layout.SetLogger(log.Named("layout"))
			memory.SetLogger(log.Named("memory"))
			witlayout.SetLogger(log.Named("witlayout"))
		}
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	st := plainStyles()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		st = colorStyles()
	}
	if err := run(opts, st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, st styles) error {
	f, err := os.Open(opts.witFile)
	if err != nil {
		return fmt.Errorf("open wit: %w", err)
	}
	res, err := witlayout.DecodeJSON(f)
	f.Close()
	if err != nil {
		return err
	}

	if opts.list {
		for _, name := range witlayout.Records(res) {
			fmt.Println(name)
		}
		return nil
	}

	l, err := compile(res, opts)
	if err != nil {
		return err
	}
	if opts.dataFile == "" {
		fmt.Println(st.title.Render(opts.typeName))
		fmt.Println(l.String())
		return nil
	}

	data, err := os.ReadFile(opts.dataFile)
	if err != nil {
		return fmt.Errorf("read data: %w", err)
	}
	changed, err := process(os.Stdout, l, data, opts, st)
	if err != nil {
		return err
	}
	if changed {
		return writeBack(opts.dataFile, data)
	}
	return nil
}
