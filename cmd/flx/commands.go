package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/debug"
	flxerrors "github.com/standardbeagle/flx/internal/errors"
	"github.com/standardbeagle/flx/pkg/flx"
	"github.com/standardbeagle/flx/pkg/pathutil"
)

// buildCorpus indexes lines. With factorFromOrder each line's factor is its
// position, so later lines win ties.
func buildCorpus(lines []string, cfg *config.Config, factorFromOrder bool) *flx.Corpus {
	if !factorFromOrder {
		return flx.NewCorpus(lines, flx.WithConfig(cfg))
	}
	indexed := make([]*flx.Line, len(lines))
	for i, text := range lines {
		indexed[i] = flx.NewLineWithFactor(text, float64(i), flx.WithConfig(cfg))
	}
	return flx.NewCorpusFromLines(indexed, flx.WithConfig(cfg))
}

func resolveLimit(c *cli.Context, cfg *config.Config) int {
	if limit := c.Int("limit"); limit > 0 {
		return limit
	}
	return cfg.Ranking.DefaultLimit
}

// printMatches writes one match per line, optionally prefixed by its score.
func printMatches(w io.Writer, matches []flx.Match, scores bool) {
	for _, m := range matches {
		if scores {
			fmt.Fprintf(w, "%s\t%s\n", formatScore(m.Score), m.Text)
		} else {
			fmt.Fprintln(w, m.Text)
		}
	}
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', 4, 64)
}

func queryCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: flx query <pattern>")
	}
	pattern := c.Args().First()
	globs := c.StringSlice("input")
	scores := c.Bool("scores")
	factorFromOrder := c.Bool("factor-from-order")

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	limit := resolveLimit(c, cfg)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runQuery := func() error {
		lines, err := readInputs(globs, c.App.Reader)
		if err != nil {
			return err
		}
		corpus := buildCorpus(lines, cfg, factorFromOrder)
		matches, err := corpus.QueryMatches(ctx, pattern, limit)
		if err != nil {
			return err
		}
		debug.LogQuery("%d of %d lines shown\n", len(matches), corpus.Len())
		printMatches(c.App.Writer, matches, scores)
		return nil
	}

	if !c.Bool("watch") {
		return runQuery()
	}
	if len(globs) == 0 {
		return errors.New("--watch requires at least one --input")
	}
	return watchQuery(ctx, c.App.Writer, globs, runQuery)
}

// watchQuery runs query now and again after every change to the inputs,
// until ctx is done.
func watchQuery(ctx context.Context, w io.Writer, globs []string, query func() error) error {
	iw, err := newInputWatcher(globs, defaultWatchDebounce)
	if err != nil {
		return err
	}
	if err := query(); err != nil {
		iw.watcher.Close()
		return err
	}
	return iw.run(ctx, func() error {
		fmt.Fprintln(w, "---")
		err := query()
		var inputErr *flxerrors.InputError
		if errors.As(err, &inputErr) && inputErr.Type == flxerrors.ErrorTypeInputNotFound {
			// every input was removed; wait for them to come back
			fmt.Fprintln(w, "(no input)")
			return nil
		}
		return err
	})
}

func filesCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: flx files <pattern>")
	}
	pattern := c.Args().First()

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return flxerrors.NewInputError("resolve", c.String("root"), err)
	}
	glob := filepath.Join(root, filepath.FromSlash(c.String("glob")))
	paths, err := doublestar.FilepathGlob(glob, doublestar.WithFilesOnly())
	if err != nil {
		return flxerrors.NewInputError("glob", glob, err)
	}
	debug.LogIndex("%d files under %s\n", len(paths), root)

	corpus := buildCorpus(pathutil.ToLines(paths, root), cfg, false)
	matches, err := corpus.QueryMatches(c.Context, pattern, resolveLimit(c, cfg))
	if err != nil {
		return err
	}
	printMatches(c.App.Writer, matches, c.Bool("scores"))
	return nil
}

func scoreCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: flx score <line> <pattern>")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	score, ok := flx.Score(c.Args().Get(0), c.Args().Get(1), flx.WithConfig(cfg))
	if !ok {
		return cli.Exit("no match", 1)
	}
	fmt.Fprintln(c.App.Writer, formatScore(score))
	return nil
}

func explainCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: flx explain <line> <pattern>")
	}
	text, pattern := c.Args().Get(0), c.Args().Get(1)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	line := flx.NewLineWithFactor(text, 0, flx.WithConfig(cfg))
	w := c.App.Writer

	fmt.Fprintf(w, "line:  %s\n", line.Text())
	heat := line.Heat()
	cells := make([]string, len(heat))
	for i, h := range heat {
		cells[i] = strconv.FormatFloat(h, 'g', -1, 64)
	}
	fmt.Fprintf(w, "heat:  %s\n", strings.Join(cells, " "))

	alignment, ok := line.Align(pattern)
	if !ok {
		fmt.Fprintln(w, "match: none")
		return cli.Exit("", 1)
	}
	fmt.Fprintf(w, "match: %s\n", bracketPositions(line.Text(), alignment.Positions))

	score, _ := flx.Score(text, pattern, flx.WithConfig(cfg))
	fmt.Fprintf(w, "score: %s\n", formatScore(score))
	return nil
}

// bracketPositions wraps the runes of text at the given ascending rune
// positions in brackets.
func bracketPositions(text string, positions []int) string {
	var b strings.Builder
	next := 0
	for i, r := range []rune(text) {
		if next < len(positions) && positions[next] == i {
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	content, err := config.EncodeTOML(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = c.App.Writer.Write(content)
	return err
}

func configValidateCommand(c *cli.Context) error {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "Configuration validation failed: %v\n", err)
		return err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(c.App.Writer, "Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Fprintf(c.App.Writer, "Configuration is valid\n")
	fmt.Fprintf(c.App.Writer, "Config source: %s\n", configPath)
	fmt.Fprintf(c.App.Writer, "Separators: %s, max line length: %d, cache: %d results\n",
		cfg.Scoring.SeparatorPolicy, cfg.Scoring.MaxLen, cfg.Ranking.CacheSize)
	return nil
}
