// Command pml parses a source program, finds its single refinement
// ascription, compiles it to an MDP and a PCTL property (spec.md §2-§6),
// and either prints the generated PRISM text or hands it to the prism
// model checker and reports the verdict.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pfnet-research/pml/internal/checker"
	"github.com/pfnet-research/pml/internal/cli"
	"github.com/pfnet-research/pml/internal/env"
	"github.com/pfnet-research/pml/internal/mdp"
	"github.com/pfnet-research/pml/internal/parser"
	"github.com/pfnet-research/pml/internal/pctl"
	"github.com/pfnet-research/pml/internal/pmlerr"
	"github.com/pfnet-research/pml/internal/translate"
	"github.com/pfnet-research/pml/internal/typecheck"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "report the verdict (or version) as JSON")
		dumpMDP     = flag.Bool("dump-mdp", false, "print the compiled PRISM MDP instead of checking it")
		dumpPCTL    = flag.Bool("dump-pctl", false, "print the translated PCTL property instead of checking it")
		prismPath   = flag.String("prism", "prism", "path to the prism binary")
		minVersion  = flag.String("min-prism-version", ">=4.4.0", "minimum acceptable prism version constraint")
		timeout     = flag.Duration("timeout", 30*time.Second, "timeout for the prism subprocess")
		watch       = flag.Bool("watch", false, "re-run the pipeline whenever the input file changes")
		verbose     = flag.Bool("verbose", false, "enable informational logging")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("pml", *jsonOutput)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		cli.ExitWithError("expected exactly one input file, got %d", len(args))
	}
	path := args[0]

	logger := cli.NewLogger(*verbose, *debug)
	runner := &checker.Runner{PrismPath: *prismPath, MinVersion: *minVersion, Timeout: *timeout}

	run := func() error {
		return runOnce(path, runOptions{
			dumpMDP:  *dumpMDP,
			dumpPCTL: *dumpPCTL,
			json:     *jsonOutput,
			checker:  runner,
			logger:   logger,
		})
	}

	if !*watch {
		if err := run(); err != nil {
			cli.HandleError(err, logger)
		}
		return
	}

	watcher, err := cli.NewFileWatcher(path)
	if err != nil {
		cli.HandleError(fmt.Errorf("starting watcher: %w", err), logger)
	}
	defer watcher.Close()

	logger.Info("watching %s", path)
	if err := run(); err != nil {
		logger.Error("%v", err)
	}
	for {
		select {
		case <-watcher.Changed():
			logger.Info("%s changed, re-checking", path)
			if err := run(); err != nil {
				logger.Error("%v", err)
			}
		case err := <-watcher.Errors():
			logger.Error("watcher: %v", err)
		}
	}
}

type runOptions struct {
	dumpMDP  bool
	dumpPCTL bool
	json     bool
	checker  checker.Checker
	logger   *cli.Logger
}

// runOnce runs the full pipeline once: read, parse, locate the ascription,
// simple-type-check, translate, and either dump or check. Pipeline-stage
// failures are returned already rendered by explain (with a source excerpt
// and caret when they carry a position); checker failures are returned as
// the checker produced them.
func runOnce(path string, opts runOptions) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(source)

	expr, err := parser.Parse(text)
	if err != nil {
		return explain(err, text)
	}

	ascription, err := cli.FindAscription(expr)
	if err != nil {
		return explain(err, text)
	}

	if _, err := typecheck.Check(expr, env.Env[typecheck.SimpleType]{}); err != nil {
		return explain(err, text)
	}

	result, err := translate.NewMDPTranslator().TranslateToMDP(expr)
	if err != nil {
		return explain(err, text)
	}
	property := translate.TranslateToPCTL(ascription.Type, result)

	mdpText := mdp.Print(result.MDP)
	pctlText := pctl.Render(property)

	if opts.dumpMDP {
		fmt.Println(mdpText)
	}
	if opts.dumpPCTL {
		fmt.Println(pctlText)
	}
	if opts.dumpMDP || opts.dumpPCTL {
		return nil
	}

	verdict, err := opts.checker.Check(context.Background(), mdpText, pctlText)
	if err != nil {
		return err
	}

	if opts.json {
		data, err := json.MarshalIndent(map[string]interface{}{
			"satisfied": verdict.Satisfied,
			"raw":       verdict.Raw,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling verdict: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if verdict.Satisfied {
		fmt.Println("satisfied")
	} else {
		fmt.Println("not satisfied")
	}
	return nil
}

// explain renders a pmlerr.Error through FormatDetailed, which adds a source
// excerpt and caret when the error carries a position (the driver-level
// ascription-count errors carry none and render as their plain message).
// Any other error is returned unchanged.
func explain(err error, source string) error {
	if pe, ok := err.(*pmlerr.Error); ok {
		return fmt.Errorf("%s", pe.FormatDetailed(source))
	}
	return err
}
