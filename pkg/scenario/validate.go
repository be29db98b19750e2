package scenario

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ha1tch/actionbar/pkg/debug"
)

// FileResult is the outcome of loading and replaying one file.
type FileResult struct {
	Path   string
	Result *Result // nil when Err is a load or setup error
	Err    error
}

// RunFile loads and replays one scenario file. Err is set for load errors
// and for failed checks.
func RunFile(path string) FileResult {
	s, err := Load(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	res, err := Replay(s)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Result: res, Err: res.Err()}
}

// ValidateAll replays every file concurrently, one bar per file. Results
// are in the order of paths. Per-file failures are reported in the results;
// the returned error is only set when ctx is cancelled.
func ValidateAll(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return err
			}
			results[i] = RunFile(path)
			debug.LogIf(results[i].Err != nil, "validate %s: %v", path, results[i].Err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
