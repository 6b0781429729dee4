package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	flxerrors "github.com/standardbeagle/flx/internal/errors"
)

// maxLineBytes bounds a single input line; longer lines fail the read.
const maxLineBytes = 1 << 20

// expandInputs resolves --input globs to files, in glob order, each file once.
// A glob that matches nothing is an error.
func expandInputs(globs []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, glob := range globs {
		matches, err := doublestar.FilepathGlob(filepath.Clean(glob), doublestar.WithFilesOnly())
		if err != nil {
			return nil, flxerrors.NewInputError("glob", glob, err)
		}
		if len(matches) == 0 {
			return nil, flxerrors.NewInputError("glob", glob, os.ErrNotExist)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// readInputs returns the lines of every file matched by globs, or of stdin
// when there are no globs.
func readInputs(globs []string, stdin io.Reader) ([]string, error) {
	if len(globs) == 0 {
		lines, err := scanLines(stdin)
		if err != nil {
			return nil, flxerrors.NewInputError("read", "<stdin>", err)
		}
		return lines, nil
	}

	paths, err := expandInputs(globs)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, path := range paths {
		fileLines, err := readFile(path)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, flxerrors.NewInputError("open", path, err)
	}
	defer f.Close()

	lines, err := scanLines(f)
	if err != nil {
		return nil, flxerrors.NewInputError("read", path, err)
	}
	return lines, nil
}

// scanLines splits r into lines without their terminators, CRLF included.
func scanLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}
