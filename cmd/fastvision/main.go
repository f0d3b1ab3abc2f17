// Command fastvision extracts a layout- and tone-aware document tree from a
// PDF or DOCX file and prints it as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tsawler/fastvision/jsonutil"
	"github.com/tsawler/fastvision/pipeline"
	"github.com/tsawler/fastvision/tagger/openaitagger"
)

const progressBarWidth = 30

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fastvision", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		output    = fs.String("o", "", "write JSON output to this path instead of stdout")
		noVision  = fs.Bool("no-vision", false, "disable the semantic tagging backend and use heuristic classification only")
		pageRange = fs.String("pages", "", `pages to process, e.g. "1,3-5,10" (default: all pages)`)
		indent    = fs.Int("indent", 2, "JSON indent width; 0 for compact output")
		verbose   = fs.Bool("v", false, "log stage progress to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.pdf|input.docx>\n\nflags:\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	// Flags may also follow the input path.
	var positional []string
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return 2
		}
	}
	if len(positional) != 1 {
		fs.Usage()
		return 2
	}
	input := positional[0]

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	lower := strings.ToLower(input)
	if !strings.HasSuffix(lower, ".pdf") && !strings.HasSuffix(lower, ".docx") {
		fmt.Fprintf(os.Stderr, "ERROR unsupported file format %q (supported: .pdf, .docx)\n", input)
		return 2
	}

	opts := pipeline.Options{
		UseVision: !*noVision,
		PageRange: *pageRange,
		Progress:  progressBar(*verbose, logger),
	}

	if opts.UseVision {
		tg, err := buildTagger(logger)
		if err != nil {
			logger.Warn("tagging backend unavailable, falling back to heuristic classification", "error", err)
		} else {
			opts.Tagger = tg
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	doc, err := pipeline.Process(ctx, input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %s\n", err)
		var pe *pipeline.Error
		if errors.As(err, &pe) && pe.Kind == pipeline.KindUnsupportedInput {
			return 2
		}
		return 1
	}

	prefix, indentStr := "", ""
	if *indent > 0 {
		indentStr = strings.Repeat(" ", *indent)
	}
	data, err := jsonutil.MarshalIndent(doc, prefix, indentStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to encode document: %v\n", err)
		return 1
	}
	data = append(data, '\n')

	if *output == "" {
		os.Stdout.Write(data)
		return 0
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR failed to write %s: %v\n", *output, err)
		return 1
	}
	logger.Info("wrote document", "path", *output, "bytes", len(data))
	return 0
}

// buildTagger constructs the vision/text tagging backend from environment
// credentials. A missing key is returned as an error; run logs it as a
// warning and leaves Options.Tagger nil, which Process treats as "fall back
// to the heuristic classifier" (warn and continue, never fail the run).
func buildTagger(logger *slog.Logger) (*openaitagger.Tagger, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return openaitagger.New(ctx, openaitagger.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	})
}

// progressBar renders pipeline.Options.Progress as a fixed-width bar on
// stderr, redrawing in place with a carriage return and printing a trailing
// newline once the run reaches 100%.
func progressBar(verbose bool, logger *slog.Logger) pipeline.ProgressFunc {
	return func(pct float64, msg string) {
		if verbose {
			logger.Info(msg, "pct", fmt.Sprintf("%.0f%%", pct*100))
		}
		filled := int(pct*progressBarWidth + 0.5)
		if filled > progressBarWidth {
			filled = progressBarWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
		fmt.Fprintf(os.Stderr, "\r[%s] %3.0f%% %s", bar, pct*100, msg)
		if pct >= 1.0 {
			fmt.Fprintln(os.Stderr)
		}
	}
}
