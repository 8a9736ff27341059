package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listSectionsTool defines the list_sections MCP tool.
var listSectionsTool = mcp.NewTool("list_sections",
	mcp.WithDescription("List every documentation section and its subsections, in document order, with their ids."),
)

// getSectionTool defines the get_section MCP tool.
var getSectionTool = mcp.NewTool("get_section",
	mcp.WithDescription("Get the content of a documentation section, or of one of its subsections."),
	mcp.WithString("section_id",
		mcp.Required(),
		mcp.Description("Section id as returned by list_sections"),
	),
	mcp.WithString("subsection_id",
		mcp.Description("Optional subsection id (the slug of its title)"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum("markdown", "html"),
	),
)

// searchDocsTool defines the search_docs MCP tool.
var searchDocsTool = mcp.NewTool("search_docs",
	mcp.WithDescription("Search section and subsection titles and content. Matching is a case-insensitive substring match."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Text to search for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)
