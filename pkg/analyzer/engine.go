// Package analyzer runs prop analyses over directory trees: it validates
// requests, discovers files, extracts each file in a bounded worker pool and
// folds the results into a fresh aggregator per request.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnana997/propscan/pkg/aggregate"
	"github.com/gnana997/propscan/pkg/parser"
	"github.com/gnana997/propscan/pkg/props"
	"github.com/gnana997/propscan/pkg/util"
)

// Config controls an Engine.
type Config struct {
	// Include and Exclude are doublestar globs relative to the request root.
	Include []string
	Exclude []string

	// Workers bounds per-file parallelism. 0 uses util.GetOptimalPoolSize().
	Workers int

	// IncludeIntrinsic keeps lower-case host elements.
	IncludeIntrinsic bool

	// Identity is used by AnalyzeProps and FindPropUsage. The component
	// operations always use usage-site identity.
	Identity props.IdentityMode

	// CacheSize is the number of per-file results kept between requests.
	// Negative disables the cache; 0 uses DefaultCacheSize.
	CacheSize int

	// FileCache configures source reading for each request.
	FileCache util.FileCacheConfig

	Logger *slog.Logger
}

// DefaultConfig returns the default discovery patterns and sizing.
func DefaultConfig() Config {
	return Config{
		Include:   append([]string(nil), DefaultInclude...),
		Exclude:   append([]string(nil), DefaultExclude...),
		CacheSize: DefaultCacheSize,
		FileCache: util.DefaultFileCacheConfig(),
	}
}

// Engine answers prop analysis requests. Safe for concurrent use; every
// request owns its own aggregator.
type Engine struct {
	cfg    Config
	pm     *parser.ParserManager
	cache  *ResultCache
	logger *slog.Logger
}

// EngineStats reports parser and cache counters.
type EngineStats struct {
	Parser parser.ParserStats `json:"parser"`
	Cache  CacheStats         `json:"cache"`
}

// NewEngine creates an Engine. Call Close when done.
func NewEngine(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Include) == 0 {
		cfg.Include = append([]string(nil), DefaultInclude...)
	}
	if cfg.Exclude == nil {
		cfg.Exclude = append([]string(nil), DefaultExclude...)
	}
	if err := ValidatePatterns(cfg.Include, cfg.Exclude); err != nil {
		return nil, err
	}
	cfg.Workers = util.GetOptimalPoolSizeWithOverride(cfg.Workers)
	if cfg.FileCache.Logger == nil {
		cfg.FileCache.Logger = logger
	}

	var cache *ResultCache
	if cfg.CacheSize >= 0 {
		size := cfg.CacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		var err error
		if cache, err = NewResultCache(size, logger); err != nil {
			return nil, err
		}
	}

	return &Engine{
		cfg:    cfg,
		pm:     parser.NewParserManager(logger, parser.WithPoolSize(cfg.Workers)),
		cache:  cache,
		logger: logger,
	}, nil
}

// Close releases parser resources.
func (e *Engine) Close() error {
	e.cache.Purge()
	return e.pm.Close()
}

// Cache returns the result cache, or nil when caching is disabled.
func (e *Engine) Cache() *ResultCache {
	return e.cache
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Stats returns parser and cache counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{Parser: e.pm.Stats(), Cache: e.cache.Stats()}
}

// AnalyzeProps reports the props every component receives under req.Path,
// optionally filtered by component and prop name.
func (e *Engine) AnalyzeProps(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	opts := e.options(e.cfg.Identity, boolOr(req.IncludeTypes, true))
	return e.analyze(ctx, "analyze_props", req.Path, opts, aggregate.Filter{
		Component: req.ComponentName,
		Prop:      req.PropName,
	})
}

// FindPropUsage reports every usage of req.PropName.
func (e *Engine) FindPropUsage(ctx context.Context, req PropUsageRequest) (*AnalysisResult, error) {
	if req.PropName == "" {
		return nil, missingArgument("prop name")
	}
	opts := e.options(e.cfg.Identity, true)
	return e.analyze(ctx, "find_prop_usage", req.Path, opts, aggregate.Filter{
		Component: req.ComponentName,
		Prop:      req.PropName,
	})
}

// GetComponentProps groups every usage site of req.ComponentName by file.
func (e *Engine) GetComponentProps(ctx context.Context, req ComponentPropsRequest) (*ComponentPropsResult, error) {
	if req.ComponentName == "" {
		return nil, missingArgument("component name")
	}
	run, err := e.collect(ctx, req.Path, e.options(props.IdentityUsageSite, true))
	if err != nil {
		return nil, err
	}
	agg := run.fold(aggregate.Filter{Component: req.ComponentName})

	result := &ComponentPropsResult{
		ComponentName:  req.ComponentName,
		ByFile:         agg.ByFileMap(),
		TotalInstances: agg.Summary().TotalComponents,
		SkippedFiles:   run.skipped,
		SkippedNodes:   run.skippedNodes,
	}
	if result.TotalInstances == 0 {
		result.Suggestions = Suggest(req.ComponentName, run.componentNames())
	}

	e.logger.Info("get_component_props complete",
		"component", req.ComponentName,
		"instances", result.TotalInstances,
		"files", len(result.ByFile),
		"skipped_files", len(run.skipped),
		"skipped_nodes", run.skippedNodes,
		"ms", run.elapsed.Milliseconds())
	return result, nil
}

// FindComponentsWithoutProp lists instances of req.ComponentName that do not
// pass req.RequiredProp.
func (e *Engine) FindComponentsWithoutProp(ctx context.Context, req MissingPropRequest) (*MissingPropResult, error) {
	if req.ComponentName == "" {
		return nil, missingArgument("component name")
	}
	if req.RequiredProp == "" {
		return nil, missingArgument("required prop")
	}
	run, err := e.collect(ctx, req.Path, e.options(props.IdentityUsageSite, true))
	if err != nil {
		return nil, err
	}
	agg := run.fold(aggregate.Filter{Component: req.ComponentName})

	assume := boolOr(req.AssumeSpreadHasRequiredProp, true)
	instances, summary := aggregate.DetectMissing(agg.ByUsage(), req.ComponentName, req.RequiredProp, assume)

	result := &MissingPropResult{
		ComponentName: req.ComponentName,
		RequiredProp:  req.RequiredProp,
		Instances:     instances,
		Summary:       summary,
		SkippedFiles:  run.skipped,
		SkippedNodes:  run.skippedNodes,
	}
	if summary.TotalInstances == 0 {
		result.Suggestions = Suggest(req.ComponentName, run.componentNames())
	}

	e.logger.Info("find_components_without_prop complete",
		"component", req.ComponentName,
		"prop", req.RequiredProp,
		"instances", summary.TotalInstances,
		"missing", summary.MissingPropCount,
		"assume_spread", assume,
		"ms", run.elapsed.Milliseconds())
	return result, nil
}

func (e *Engine) analyze(ctx context.Context, op, path string, opts props.Options, filter aggregate.Filter) (*AnalysisResult, error) {
	run, err := e.collect(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	agg := run.fold(filter)

	result := &AnalysisResult{
		Summary:          agg.Summary(),
		Components:       agg.ByUsage(),
		PropUsagesByFile: agg.FlatByFile(),
		SkippedFiles:     run.skipped,
		SkippedNodes:     run.skippedNodes,
	}

	e.logger.Info(op+" complete",
		"files", result.Summary.TotalFiles,
		"components", result.Summary.TotalComponents,
		"props", result.Summary.TotalProps,
		"skipped_files", len(run.skipped),
		"skipped_nodes", run.skippedNodes,
		"ms", run.elapsed.Milliseconds())
	return result, nil
}

func (e *Engine) options(identity props.IdentityMode, resolveTypes bool) props.Options {
	return props.Options{
		Identity:            identity,
		IncludeIntrinsic:    e.cfg.IncludeIntrinsic,
		ResolveTypes:        resolveTypes,
		MaxExpressionLength: props.DefaultMaxExpressionLength,
	}
}

// collect validates path and extracts every file under it.
func (e *Engine) collect(ctx context.Context, path string, opts props.Options) (*batch, error) {
	start := time.Now()

	files, unreadable, err := e.resolveFiles(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("discovery complete", "root", path, "files", len(files), "unreadable", len(unreadable))

	r, err := e.extractAll(ctx, files, opts)
	if err != nil {
		return nil, fmt.Errorf("analysis of %s interrupted: %w", path, err)
	}
	r.skipped = append(r.skipped, unreadable...)
	r.elapsed = time.Since(start)
	return r, nil
}
