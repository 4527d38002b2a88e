package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/propscan/pkg/aggregate"
	"github.com/gnana997/propscan/pkg/parser"
	"github.com/gnana997/propscan/pkg/props"
	"github.com/gnana997/propscan/pkg/util"
)

// batch holds the per-file results of one request in discovery order.
type batch struct {
	results      []*props.FileResult
	skipped      []SkippedFile
	skippedNodes int
	elapsed      time.Duration
}

// fold builds a fresh aggregator over the batch in discovery order.
func (b *batch) fold(filter aggregate.Filter) *aggregate.Aggregator {
	agg := aggregate.New(filter)
	for _, res := range b.results {
		agg.Add(res)
	}
	return agg
}

// componentNames returns the sorted distinct component names in the batch.
func (b *batch) componentNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, res := range b.results {
		for _, c := range res.Components {
			if !seen[c.ComponentName] {
				seen[c.ComponentName] = true
				names = append(names, c.ComponentName)
			}
		}
	}
	sort.Strings(names)
	return names
}

// resolveFiles validates the request root and lists the files to analyze,
// along with the entries discovery could not read.
func (e *Engine) resolveFiles(path string) ([]string, []SkippedFile, error) {
	if path == "" {
		return nil, nil, missingArgument("path")
	}
	if !filepath.IsAbs(path) {
		return nil, nil, NewInvalidPathError(path, "path must be absolute", nil)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, NewInvalidPathError(path, "cannot access path", err)
	}

	if !info.IsDir() {
		if _, ok := parser.DetectGrammar(path); !ok {
			return nil, nil, NewInvalidPathError(path, "unsupported file type", parser.ErrUnsupportedFile)
		}
		return []string{path}, nil, nil
	}

	files, unreadable, err := DiscoverFiles(path, e.cfg.Include, e.cfg.Exclude)
	if err != nil {
		return nil, nil, NewInvalidPathError(path, "discovery failed", err)
	}
	for _, s := range unreadable {
		e.logger.Warn("skipping unreadable entry", "file", s.File, "error", s.Error)
	}
	return files, unreadable, nil
}

type fileOutcome struct {
	result *props.FileResult
	err    error
}

// extractAll processes files with at most cfg.Workers in flight. Each worker
// writes only its own slot; results are assembled in discovery order after
// all workers finish. Cancellation is checked between files.
func (e *Engine) extractAll(ctx context.Context, files []string, opts props.Options) (*batch, error) {
	b := &batch{
		results: make([]*props.FileResult, 0, len(files)),
		skipped: []SkippedFile{},
	}
	if len(files) == 0 {
		return b, nil
	}

	fc := util.NewFileCache(e.cfg.FileCache)
	defer func() {
		if err := fc.Close(); err != nil {
			e.logger.Warn("failed to release file cache", "error", err)
		}
	}()

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.processFile(path, fc, opts)
			outcomes[i] = fileOutcome{result: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, out := range outcomes {
		if out.err != nil {
			e.logger.Warn("skipping file", "file", files[i], "error", out.err)
			b.skipped = append(b.skipped, skippedFrom(files[i], out.err))
			continue
		}
		b.results = append(b.results, out.result)
		b.skippedNodes += len(out.result.Skipped)
	}
	return b, nil
}

// processFile reads, parses and extracts one file, consulting the result
// cache first.
func (e *Engine) processFile(path string, fc util.FileCache, opts props.Options) (*props.FileResult, error) {
	source, err := fc.Read(path)
	if err != nil {
		return nil, NewFileReadError(path, err)
	}

	hash := ContentHash(source)
	fingerprint := opts.Fingerprint()
	if res, ok := e.cache.Get(path, hash, fingerprint); ok {
		return res, nil
	}

	tree, err := e.pm.ParseFile(path, source)
	if err != nil {
		return nil, NewParseError(path, err)
	}
	defer tree.Close()

	res := props.ExtractFile(tree.RootNode(), source, path, opts)
	if res.HasSyntaxErrors {
		e.logger.Debug("file has syntax errors, extracted what parsed", "file", path)
	}
	for _, node := range res.Skipped {
		e.logger.Debug("skipped node", "error", NewAnalyzerError(node))
	}

	e.cache.Put(path, hash, fingerprint, res)
	return res, nil
}
