// Package aggregate folds per-file extraction results into whole-tree views
// and detects component instances that omit a required prop.
package aggregate

import (
	"github.com/gnana997/propscan/pkg/props"
)

// Summary holds counters computed while folding.
type Summary struct {
	TotalFiles      int `json:"total_files"`
	TotalComponents int `json:"total_components"`
	TotalProps      int `json:"total_props"`
}

// Filter restricts what an Aggregator keeps. Empty fields match everything.
type Filter struct {
	// Component keeps only instances with this exact name.
	Component string
	// Prop keeps only usages with this prop name; instances left with no
	// usages are dropped.
	Prop string
}

// FileComponents is the by-file view entry.
type FileComponents struct {
	File       string                    `json:"file"`
	Components []props.ComponentAnalysis `json:"components"`
}

// Aggregator accumulates the results of one analysis run. It is not safe for
// concurrent use; parallel producers fold into their own Aggregator and are
// combined with Merge.
type Aggregator struct {
	filter  Filter
	files   []FileComponents
	index   map[string]int
	summary Summary
}

// New returns an empty Aggregator applying filter at fold time.
func New(filter Filter) *Aggregator {
	return &Aggregator{
		filter: filter,
		index:  make(map[string]int),
	}
}

// Add folds one file's extraction result. Adding a file that was already
// added appends its instances to the existing entry without counting the
// file twice.
func (a *Aggregator) Add(res *props.FileResult) {
	if res == nil {
		return
	}

	kept := make([]props.ComponentAnalysis, 0, len(res.Components))
	for _, c := range res.Components {
		c, ok := a.filter.apply(c)
		if !ok {
			continue
		}
		kept = append(kept, c)
		a.summary.TotalComponents++
		a.summary.TotalProps += len(c.Props)
	}

	a.appendFile(res.File, kept)
}

func (a *Aggregator) appendFile(file string, components []props.ComponentAnalysis) {
	if idx, ok := a.index[file]; ok {
		a.files[idx].Components = append(a.files[idx].Components, components...)
		return
	}
	a.index[file] = len(a.files)
	a.files = append(a.files, FileComponents{File: file, Components: components})
	a.summary.TotalFiles++
}

// Merge appends everything other has folded. The receiver's files come
// first. other is not modified.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	for _, fc := range other.files {
		components := make([]props.ComponentAnalysis, len(fc.Components))
		copy(components, fc.Components)
		a.appendFile(fc.File, components)
	}
	a.summary.TotalComponents += other.summary.TotalComponents
	a.summary.TotalProps += other.summary.TotalProps
}

// Summary returns the fold counters.
func (a *Aggregator) Summary() Summary {
	return a.summary
}

// ByUsage returns one ComponentAnalysis per usage site, in fold order.
func (a *Aggregator) ByUsage() []props.ComponentAnalysis {
	out := make([]props.ComponentAnalysis, 0, a.summary.TotalComponents)
	for _, fc := range a.files {
		out = append(out, fc.Components...)
	}
	return out
}

// ByFile returns the instances grouped by file, in fold order. Files with no
// instances are omitted.
func (a *Aggregator) ByFile() []FileComponents {
	out := make([]FileComponents, 0, len(a.files))
	for _, fc := range a.files {
		if len(fc.Components) == 0 {
			continue
		}
		out = append(out, FileComponents{
			File:       fc.File,
			Components: append([]props.ComponentAnalysis(nil), fc.Components...),
		})
	}
	return out
}

// ByFileMap is ByFile keyed by path.
func (a *Aggregator) ByFileMap() map[string][]props.ComponentAnalysis {
	out := make(map[string][]props.ComponentAnalysis)
	for _, fc := range a.ByFile() {
		out[fc.File] = fc.Components
	}
	return out
}

// Flat returns every prop usage annotated with its file.
func (a *Aggregator) Flat() []props.PropUsage {
	out := make([]props.PropUsage, 0, a.summary.TotalProps)
	for _, fc := range a.files {
		for _, c := range fc.Components {
			for _, p := range c.Props {
				p.File = fc.File
				out = append(out, p)
			}
		}
	}
	return out
}

// FlatByFile groups Flat by file. Files without usages are omitted.
func (a *Aggregator) FlatByFile() map[string][]props.PropUsage {
	out := make(map[string][]props.PropUsage)
	for _, p := range a.Flat() {
		out[p.File] = append(out[p.File], p)
	}
	return out
}

// apply returns the filtered copy of c and whether it is kept.
func (f Filter) apply(c props.ComponentAnalysis) (props.ComponentAnalysis, bool) {
	if f.Component != "" && c.ComponentName != f.Component {
		return c, false
	}
	if f.Prop == "" {
		usages := make([]props.PropUsage, len(c.Props))
		copy(usages, c.Props)
		c.Props = usages
		return c, true
	}

	var kept []props.PropUsage
	for _, p := range c.Props {
		if p.PropName == f.Prop {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return c, false
	}
	c.Props = kept
	c.HasSpread = false
	for _, p := range kept {
		c.HasSpread = c.HasSpread || p.IsSpread
	}
	return c, true
}
