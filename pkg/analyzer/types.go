package analyzer

import (
	"github.com/gnana997/propscan/pkg/aggregate"
	"github.com/gnana997/propscan/pkg/props"
)

// AnalyzeRequest asks which props components receive.
type AnalyzeRequest struct {
	// Path is an absolute directory or file path.
	Path string
	// ComponentName and PropName filter the result when set.
	ComponentName string
	PropName      string
	// IncludeTypes enables props-type resolution. Nil means true.
	IncludeTypes *bool
}

// PropUsageRequest asks where a prop is used.
type PropUsageRequest struct {
	PropName      string
	Path          string
	ComponentName string
}

// ComponentPropsRequest asks for every usage site of a component.
type ComponentPropsRequest struct {
	ComponentName string
	Path          string
}

// MissingPropRequest asks which instances of a component omit a prop.
type MissingPropRequest struct {
	ComponentName string
	RequiredProp  string
	Path          string
	// AssumeSpreadHasRequiredProp treats spread-carrying instances as
	// satisfied. Nil means true.
	AssumeSpreadHasRequiredProp *bool
}

// AnalysisResult is returned by AnalyzeProps and FindPropUsage.
type AnalysisResult struct {
	Summary          aggregate.Summary            `json:"summary"`
	Components       []props.ComponentAnalysis    `json:"components"`
	PropUsagesByFile map[string][]props.PropUsage `json:"prop_usages_by_file"`
	SkippedFiles     []SkippedFile                `json:"skipped_files"`
	SkippedNodes     int                          `json:"skipped_nodes"`
}

// ComponentPropsResult is returned by GetComponentProps.
type ComponentPropsResult struct {
	ComponentName  string                               `json:"component_name"`
	ByFile         map[string][]props.ComponentAnalysis `json:"by_file"`
	TotalInstances int                                  `json:"total_instances"`
	Suggestions    []string                             `json:"suggestions,omitempty"`
	SkippedFiles   []SkippedFile                        `json:"skipped_files"`
	SkippedNodes   int                                  `json:"skipped_nodes"`
}

// MissingPropResult is returned by FindComponentsWithoutProp.
type MissingPropResult struct {
	ComponentName string                          `json:"component_name"`
	RequiredProp  string                          `json:"required_prop"`
	Instances     []aggregate.MissingPropInstance `json:"instances"`
	Summary       aggregate.MissingPropSummary    `json:"summary"`
	Suggestions   []string                        `json:"suggestions,omitempty"`
	SkippedFiles  []SkippedFile                   `json:"skipped_files"`
	SkippedNodes  int                             `json:"skipped_nodes"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Bool returns a pointer to b, for the optional request fields.
func Bool(b bool) *bool { return &b }
