// Package loader reads many workspace files in parallel and turns them into
// merge sources, keeping the order in which the files were given.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lherron/archmerge/internal/merge"
	"github.com/lherron/archmerge/internal/workspace"
	"go.uber.org/zap"
)

// Options configures LoadFiles
type Options struct {
	// Jobs is the number of files decoded at once; 0 means one per CPU
	Jobs   int
	Logger *zap.Logger
}

// LoadFiles decodes every path into a merge source. Sources are returned in
// the order of paths. After a failure only files given before the failing one
// are still loaded, so the error returned is that of the first failing path.
func LoadFiles(ctx context.Context, paths []string, opts Options) ([]merge.Source, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	sources := make([]merge.Source, len(paths))
	errs := make([]error, len(paths))

	workQueue := make(chan int, len(paths))
	for i := range paths {
		workQueue <- i
	}
	close(workQueue)

	var (
		// lowest index that failed; len(paths) while none has
		firstFailed atomic.Int64
		wg          sync.WaitGroup
	)
	firstFailed.Store(int64(len(paths)))
	fail := func(i int, err error) {
		errs[i] = err
		for {
			cur := firstFailed.Load()
			if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
				return
			}
		}
	}

	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range workQueue {
				if int64(i) > firstFailed.Load() {
					continue
				}
				if err := ctx.Err(); err != nil {
					fail(i, err)
					continue
				}

				src, err := LoadFile(paths[i])
				if err != nil {
					fail(i, err)
					continue
				}
				sources[i] = src
				logger.Debug("loaded workspace",
					zap.String("path", paths[i]),
					zap.String("name", src.Name),
					zap.Int("elements", len(src.Model.Elements())),
				)
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadFile decodes one workspace file. The source is named after the
// workspace, or after the file when the workspace has no name.
func LoadFile(path string) (merge.Source, error) {
	ws, err := workspace.LoadFile(path)
	if err != nil {
		return merge.Source{}, fmt.Errorf("%s: %w", path, err)
	}

	m, err := ws.ToModel()
	if err != nil {
		return merge.Source{}, fmt.Errorf("%s: %w", path, err)
	}

	name := ws.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return merge.Source{Name: name, Model: m}, nil
}
