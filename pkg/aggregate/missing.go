package aggregate

import (
	"sort"

	"github.com/gnana997/propscan/pkg/props"
)

// State is the classification of one instance against a required prop.
type State int

const (
	HasProp State = iota
	MissingProp
	AssumedSatisfiedBySpread
)

func (s State) String() string {
	switch s {
	case HasProp:
		return "HAS_PROP"
	case MissingProp:
		return "MISSING_PROP"
	case AssumedSatisfiedBySpread:
		return "ASSUMED_SATISFIED_BY_SPREAD"
	}
	return "UNKNOWN"
}

// Classify decides the state of one instance. A named usage of requiredProp
// always wins over a spread.
func Classify(c *props.ComponentAnalysis, requiredProp string, assumeSpread bool) State {
	spread := false
	for _, p := range c.Props {
		if p.IsSpread {
			spread = true
			continue
		}
		if p.PropName == requiredProp {
			return HasProp
		}
	}
	if spread && assumeSpread {
		return AssumedSatisfiedBySpread
	}
	return MissingProp
}

// MissingPropInstance is an instance lacking the required prop.
type MissingPropInstance struct {
	ComponentName string   `json:"component_name"`
	File          string   `json:"file"`
	Line          int      `json:"line"`
	Column        int      `json:"column"`
	ExistingProps []string `json:"existing_props"`
	HasSpread     bool     `json:"has_spread"`
}

// MissingPropSummary describes coverage of the required prop.
// WithProp + AssumedBySpread + MissingPropCount == TotalInstances.
type MissingPropSummary struct {
	TotalInstances        int     `json:"total_instances"`
	MissingPropCount      int     `json:"missing_prop_count"`
	MissingPropPercentage float64 `json:"missing_prop_percentage"`
	WithProp              int     `json:"with_prop"`
	AssumedBySpread       int     `json:"assumed_by_spread"`
}

// DetectMissing classifies every instance of component. TotalInstances
// counts all of them, not only the missing ones.
func DetectMissing(instances []props.ComponentAnalysis, component, requiredProp string, assumeSpread bool) ([]MissingPropInstance, MissingPropSummary) {
	missing := []MissingPropInstance{}
	var summary MissingPropSummary

	for i := range instances {
		c := &instances[i]
		if c.ComponentName != component {
			continue
		}
		summary.TotalInstances++

		switch Classify(c, requiredProp, assumeSpread) {
		case HasProp:
			summary.WithProp++
		case AssumedSatisfiedBySpread:
			summary.AssumedBySpread++
		case MissingProp:
			missing = append(missing, MissingPropInstance{
				ComponentName: c.ComponentName,
				File:          c.File,
				Line:          c.Line,
				Column:        c.Column,
				ExistingProps: existingProps(c),
				HasSpread:     c.HasSpread,
			})
		}
	}

	summary.MissingPropCount = len(missing)
	summary.MissingPropPercentage = Percentage(summary.MissingPropCount, summary.TotalInstances)
	return missing, summary
}

// Percentage returns 100*part/total, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

// existingProps returns the sorted set of named props on c.
func existingProps(c *props.ComponentAnalysis) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, name := range c.NamedProps() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
