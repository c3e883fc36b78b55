package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/watzkuh/klox/pkg/driver"
)

const cliToolVersion = "klox 0.1.0-dev"

// envConfig names an explicit lox.yml, bypassing discovery.
const envConfig = "LOX_CONFIG"

const exitConfig = 78

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	printAST   bool
	format     bool
	configPath string
	color      string
	eval       string
	hasEval    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "hVafc:C:e:")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		printUsage(stderr)
		return driver.ExitUsage
	}
	var cli cliOptions
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			printUsage(stdout)
			return driver.ExitOK
		case 'V':
			fmt.Fprintln(stdout, cliToolVersion)
			return driver.ExitOK
		case 'a':
			cli.printAST = true
		case 'f':
			cli.format = true
		case 'c':
			cli.configPath = opt.Value
		case 'C':
			cli.color = opt.Value
		case 'e':
			cli.eval = opt.Value
			cli.hasEval = true
		}
	}

	positional := args[optind:]
	if len(positional) > 1 || (cli.hasEval && len(positional) > 0) {
		printUsage(stdout)
		return driver.ExitUsage
	}

	start := "."
	if len(positional) == 1 {
		start = filepath.Dir(positional[0])
	}
	cfg, err := loadConfig(cli.configPath, start)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitConfig
	}
	if cli.printAST {
		cfg.PrintAST = true
	}
	if cli.color != "" {
		mode, err := driver.ParseColorMode(cli.color)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			printUsage(stderr)
			return driver.ExitUsage
		}
		cfg.Color = mode
	}

	session := driver.NewSession(cfg, stdout, stderr)
	session.Sink().SetColor(colorEnabled(cfg.Color, stderr))

	switch {
	case cli.hasEval:
		return runSource(session, cli.eval, cli.format)
	case len(positional) == 1:
		return runFile(session, positional[0], cli.format, stderr)
	case cli.format:
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read stdin: %v\n", err)
			return driver.ExitNoInput
		}
		return runSource(session, string(data), true)
	}

	// No prompt for piped input.
	if !isTerminal(stdin) {
		cfg.Prompt = ""
	} else if colorEnabled(cfg.Color, stdout) {
		prompt := color.New(color.FgCyan, color.Bold)
		prompt.EnableColor()
		cfg.Prompt = prompt.Sprint(cfg.Prompt)
	}
	if err := session.RunPrompt(stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return driver.ExitNoInput
	}
	return driver.ExitOK
}

func runSource(session *driver.Session, source string, format bool) int {
	if format {
		session.Format(source)
	} else {
		session.Run(source)
	}
	return session.ExitCode()
}

func runFile(session *driver.Session, path string, format bool, stderr io.Writer) int {
	if format {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "read %s: %v\n", path, err)
			return driver.ExitNoInput
		}
		return runSource(session, string(data), true)
	}
	code, err := session.RunFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
	}
	return code
}

// loadConfig resolves lox.yml: an explicit path wins, then $LOX_CONFIG, then
// the nearest file above start.
func loadConfig(explicit, start string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(envConfig)); env != "" {
		return driver.LoadConfig(env)
	}
	return driver.DiscoverConfig(start)
}

type fileDescriptor interface {
	Fd() uintptr
}

func isTerminal(v any) bool {
	f, ok := v.(fileDescriptor)
	return ok && driver.IsTerminal(f.Fd())
}

func colorEnabled(mode driver.ColorMode, w io.Writer) bool {
	f, ok := w.(fileDescriptor)
	if !ok {
		return mode == driver.ColorAlways
	}
	return driver.ResolveColor(mode, f.Fd())
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: klox [options] [script]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -h            show this help")
	fmt.Fprintln(w, "  -V            print the version")
	fmt.Fprintln(w, "  -a            print the AST of each statement before running it")
	fmt.Fprintln(w, "  -f            format the source instead of running it")
	fmt.Fprintln(w, "  -c <file>     read settings from <file> instead of lox.yml")
	fmt.Fprintln(w, "  -C <mode>     color diagnostics: auto, always or never")
	fmt.Fprintln(w, "  -e <source>   run <source> instead of a script")
}
