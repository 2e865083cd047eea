// Package main is the entry point for the nbflat tool: it flattens Jupyter
// notebooks into model-readable text, reconstructs notebooks from flattened
// text, and diffs notebook structure.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zugzugs/nbflat/internal/altdoc"
	"github.com/zugzugs/nbflat/internal/celldiff"
	"github.com/zugzugs/nbflat/internal/config"
	"github.com/zugzugs/nbflat/internal/ipynb"
	"github.com/zugzugs/nbflat/internal/notebook"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	dialect    string
	configPath string
	language   string
	elision    string
	parse      bool
	summary    bool
	diffWith   string
	version    bool
	input      string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.dialect, "dialect", "", "flattening dialect: text or xml")
	flag.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	flag.StringVar(&opts.language, "language", "", "default language for parsed input")
	flag.StringVar(&opts.elision, "elision", "...", "elision marker for -summary")
	flag.BoolVar(&opts.parse, "parse", false, "treat input as flattened text and emit ipynb JSON")
	flag.BoolVar(&opts.summary, "summary", false, "emit the notebook's structural skeleton")
	flag.StringVar(&opts.diffWith, "diff", "", "diff the input notebook against this .ipynb file")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.Parse()
	opts.input = flag.Arg(0)
	return opts
}

func run() int {
	opts := parseFlags()
	if opts.version {
		fmt.Printf("nbflat %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg.Apply()
	if opts.dialect != "" {
		cfg.Dialect = opts.dialect
	}
	if opts.language != "" {
		cfg.DefaultLanguage = opts.language
	}

	dialect, err := dialectByName(cfg.Dialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	data, err := readInput(opts.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case opts.parse:
		err = runParse(dialect, cfg.DefaultLanguage, data)
	case opts.summary:
		err = runSummary(dialect, opts.input, opts.elision, data)
	case opts.diffWith != "":
		err = runDiff(opts.input, opts.diffWith, data)
	default:
		err = runFlatten(dialect, opts.input, data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func dialectByName(name string) (altdoc.Dialect, error) {
	switch name {
	case "text":
		return altdoc.NewTextDialect(), nil
	case "xml":
		return altdoc.NewXMLDialect(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q (want text or xml)", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func runFlatten(dialect altdoc.Dialect, uri string, data []byte) error {
	nb, err := ipynb.Read(uri, data)
	if err != nil {
		return err
	}
	fmt.Print(altdoc.Render(dialect, nb))
	return nil
}

func runSummary(dialect altdoc.Dialect, uri, elision string, data []byte) error {
	nb, err := ipynb.Read(uri, data)
	if err != nil {
		return err
	}
	fmt.Print(dialect.SummarizeStructure(nb, nil, elision))
	return nil
}

// runParse reconstructs a notebook from flattened text and prints it as
// ipynb JSON.
func runParse(dialect altdoc.Dialect, language string, data []byte) error {
	nb := &notebook.Data{Language: language}
	var current *notebook.DataCell
	var lines []string

	for event, err := range dialect.Parse(context.Background(), nb, lineSeq(data)) {
		if err != nil {
			return err
		}
		switch event.Type {
		case altdoc.EventCellStart:
			current = &notebook.DataCell{
				CellID:   event.ID,
				Lang:     event.Language,
				CellKind: event.Kind,
			}
			lines = lines[:0]
		case altdoc.EventCellLine:
			lines = append(lines, event.Line)
		case altdoc.EventCellEnd:
			current.Source = strings.Join(lines, "\n")
			nb.CellList = append(nb.CellList, current)
			current = nil
		}
	}

	out, err := ipynb.Write(nb)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runDiff(uri, otherPath string, data []byte) error {
	original, err := ipynb.Read(uri, data)
	if err != nil {
		return err
	}
	otherData, err := os.ReadFile(otherPath)
	if err != nil {
		return err
	}
	modified, err := ipynb.Read(otherPath, otherData)
	if err != nil {
		return err
	}
	for _, entry := range celldiff.Diff(original.Snapshots(), modified.Snapshots()) {
		fmt.Println(entry)
	}
	return nil
}

// lineSeq streams the input's lines without terminators.
func lineSeq(data []byte) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}
}
