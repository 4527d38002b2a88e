package mcp

import "github.com/mark3labs/mcp-go/mcp"

const pathDescription = "Absolute path of the directory (or single .js/.jsx/.ts/.tsx file) to analyze"

func analyzePropsTool() mcp.Tool {
	return mcp.NewTool("analyze_props",
		mcp.WithDescription("Extract every prop passed to every JSX component under a path. "+
			"Returns a summary, per-instance components and prop usages grouped by file."),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithString("component_name", mcp.Description("Only report instances of this component")),
		mcp.WithString("prop_name", mcp.Description("Only report this prop")),
		mcp.WithBoolean("include_types", mcp.Description("Resolve each component's props type name (default true)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func findPropUsageTool() mcp.Tool {
	return mcp.NewTool("find_prop_usage",
		mcp.WithDescription("Find every place a prop is passed, optionally limited to one component."),
		mcp.WithString("prop_name", mcp.Required(), mcp.Description("Prop to search for, e.g. \"variant\"")),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithString("component_name", mcp.Description("Only report usages on this component")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getComponentPropsTool() mcp.Tool {
	return mcp.NewTool("get_component_props",
		mcp.WithDescription("List every usage site of a component with the props passed there, grouped by file. "+
			"Suggests similar component names when nothing matches."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component name as written in JSX, e.g. \"Button\"")),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func findComponentsWithoutPropTool() mcp.Tool {
	return mcp.NewTool("find_components_without_prop",
		mcp.WithDescription("Find instances of a component that do not pass a required prop. "+
			"Instances with a spread attribute are assumed to satisfy it unless assume_spread_has_required_prop is false."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component name as written in JSX")),
		mcp.WithString("required_prop", mcp.Required(), mcp.Description("Prop every instance should pass")),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithBoolean("assume_spread_has_required_prop", mcp.Description("Treat spread attributes as supplying the prop (default true)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
