package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/xell-lang/xell/xell"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return replCommand(nil)
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return runCommand(append([]string{"-check"}, args[2:]...))
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only parse the script without executing")
	var opts engineFlags
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("xell run: script path required")
	}

	scriptPath := remaining[0]
	var (
		input         []byte
		absScriptPath string
		err           error
	)
	if scriptPath == "-" {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		absScriptPath, err = filepath.Abs(scriptPath)
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
		input, err = os.ReadFile(absScriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
	}

	program, err := xell.Parse(string(input), absScriptPath)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	cfg, err := opts.config(absScriptPath)
	if err != nil {
		return err
	}
	cfg.SourcePath = absScriptPath
	interp, err := xell.New(cfg)
	if err != nil {
		return err
	}
	defer interp.Close()

	argv := make([]xell.Value, len(remaining)-1)
	for i, raw := range remaining[1:] {
		argv[i] = xell.NewString(raw)
	}
	interp.Globals().Define("argv", xell.NewList(argv))

	if err := interp.Run(program); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use the line REPL even on a terminal")
	var opts engineFlags
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := opts.config("")
	if err != nil {
		return err
	}
	session, err := newREPLSession(cfg)
	if err != nil {
		return err
	}
	defer session.close()

	if !*plain && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return runREPL(session)
	}
	return runLineREPL(session, os.Stdin, os.Stdout)
}

// engineFlags are the interpreter settings shared by run and repl.
type engineFlags struct {
	modulePaths pathList
	configPath  string
	logLevel    string
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.Var(&f.modulePaths, "module-path", "add a module search directory (repeatable)")
	fs.StringVar(&f.configPath, "config", "", "YAML config file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// config merges the config file under the flags. Command-line module paths
// are searched before the file's.
func (f *engineFlags) config(scriptPath string) (xell.Config, error) {
	cfg := xell.Config{ModulePaths: append([]string(nil), f.modulePaths...)}
	level := f.logLevel
	if f.configPath != "" {
		fc, err := xell.LoadConfigFile(f.configPath)
		if err != nil {
			return xell.Config{}, err
		}
		fc.Apply(&cfg)
		if level == "" {
			level = fc.LogLevel
		}
	}

	dirs, err := computeModulePaths(scriptPath, cfg.ModulePaths)
	if err != nil {
		return xell.Config{}, err
	}
	cfg.ModulePaths = dirs

	logger, err := xell.NewLogger(os.Stderr, level)
	if err != nil {
		return xell.Config{}, err
	}
	cfg.Logger = &logger
	return cfg, nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run <script|-> [args...]   run a script (- reads stdin)")
	fmt.Fprintln(os.Stderr, "  check <script>             parse a script without running it")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths>  normalize whitespace in .xel files")
	fmt.Fprintln(os.Stderr, "  analyze <script>           report unreachable statements")
	fmt.Fprintln(os.Stderr, "  lsp                        serve the language server over stdio")
	fmt.Fprintln(os.Stderr, "  repl [-plain]              start an interactive session (default)")
	fmt.Fprintln(os.Stderr, "Flags for run and repl:")
	fmt.Fprintln(os.Stderr, "  -module-path <dir>")
	fmt.Fprintln(os.Stderr, "    add a directory to module search paths (repeatable)")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    read settings from a YAML file")
	fmt.Fprintln(os.Stderr, "  -log-level <level>")
	fmt.Fprintln(os.Stderr, "    log to stderr at this level (default \"warn\")")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

type pathList []string

func (l *pathList) String() string {
	return strings.Join(*l, string(os.PathListSeparator))
}

func (l *pathList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// computeModulePaths returns absolute, deduplicated search directories. The
// script's own directory comes first when there is a script.
func computeModulePaths(scriptPath string, extras []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	addPath := func(label, p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s %q: %w", label, p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("access %s %q: %w", label, abs, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s %q is not a directory", label, abs)
		}
		if _, ok := seen[abs]; ok {
			return nil
		}
		seen[abs] = struct{}{}
		dirs = append(dirs, abs)
		return nil
	}
	if scriptPath != "" {
		if err := addPath("script directory", filepath.Dir(scriptPath)); err != nil {
			return nil, err
		}
	}
	for _, extra := range extras {
		if err := addPath("module path", extra); err != nil {
			return nil, err
		}
	}
	return dirs, nil
}
