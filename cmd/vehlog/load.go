package main

import (
	"context"
	"errors"
	"io"
	"slices"
	"runtime"
	"vehlog/internal/activity"
	"vehlog/internal/models"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const stdinName = "-"

var errStdinTwice = errors.New(`"-" (stdin) can be given only once`)

// loadRecords reads and parses every path concurrently and returns the
// records in argument order. "-" reads from in and may appear once.
func loadRecords(ctx context.Context, in io.Reader, paths []string, clean bool) ([]models.Record, error) {
	if len(paths) == 0 {
		paths = []string{stdinName}
	}
	if i := slices.Index(paths, stdinName); i >= 0 && slices.Contains(paths[i+1:], stdinName) {
		return nil, errStdinTwice
	}

	parsed := make([][]models.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := readSource(in, path)
			if err != nil {
				return err
			}
			records, err := activity.Parse(src.Content)
			if err != nil {
				return err
			}
			if clean {
				records = activity.CleanAll(records)
			}
			parsed[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Record
	for _, records := range parsed {
		all = append(all, records...)
	}
	if all == nil {
		all = make([]models.Record, 0)
	}
	return all, nil
}

func readSource(in io.Reader, path string) (*models.Source, error) {
	if path == stdinName {
		return activity.ReadSource(in, "stdin.txt")
	}
	return activity.LoadFile(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
