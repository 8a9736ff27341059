package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/search"
	"github.com/ziadkadry99/docview/internal/viewer"
)

// handleListSections returns the section outline of the current document.
func (s *Server) handleListSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.lib.Current()
	if len(snap.Doc.Sections) == 0 {
		return mcp.NewToolResultText("The document has no sections."), nil
	}

	var sb strings.Builder
	if snap.Fallback {
		sb.WriteString("Note: the configured source could not be loaded; showing the built-in sample.\n\n")
	}
	for _, sec := range snap.Doc.Sections {
		sb.WriteString(fmt.Sprintf("- %s (id: %s)\n", sec.Title, sec.ID))
		for _, sub := range sec.Subsections {
			sb.WriteString(fmt.Sprintf("  - %s (subsection_id: %s)\n", sub.Title, sub.ID()))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetSection returns one section or subsection as markdown or HTML.
func (s *Server) handleGetSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sectionID, err := request.RequireString("section_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section_id"), nil
	}
	subID := request.GetString("subsection_id", "")
	format := request.GetString("format", "markdown")

	doc := s.lib.Current().Doc
	sec, ok := doc.Section(sectionID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No section with id %q. Use list_sections to see the available ids.", sectionID)), nil
	}
	var sub *document.Subsection
	if subID != "" {
		if sub, ok = sec.Subsection(subID); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Section %q has no subsection %q.", sectionID, subID)), nil
		}
	}

	switch format {
	case "html":
		if sub != nil {
			return mcp.NewToolResultText(s.renderer.Render(sub.Content)), nil
		}
		return mcp.NewToolResultText(viewer.RenderSection(s.renderer, sec)), nil
	case "markdown":
		if sub != nil {
			return mcp.NewToolResultText(fmt.Sprintf("## %s\n\n%s\n", sub.Title, sub.Content)), nil
		}
		return mcp.NewToolResultText(formatSection(sec)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

// handleSearchDocs filters the search index with the query.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	res := search.Filter(s.lib.Current().Index, query)
	if res.Reset {
		return mcp.NewToolResultError("query is empty"), nil
	}
	if len(res.Matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No results found for %q.", query)), nil
	}

	matches := res.Matches
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return mcp.NewToolResultText(formatSearchResults(matches, len(res.Matches))), nil
}

// formatSection renders a whole section back to markdown.
func formatSection(sec *document.Section) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", sec.Title))
	if sec.Content != "" {
		sb.WriteString(sec.Content)
		sb.WriteString("\n")
	}
	for _, sub := range sec.Subsections {
		sb.WriteString(fmt.Sprintf("\n## %s\n\n%s\n", sub.Title, sub.Content))
	}
	return sb.String()
}

// formatSearchResults converts matches into a text listing for AI agent
// consumption.
func formatSearchResults(matches []search.Record, total int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s)", total))
	if len(matches) < total {
		sb.WriteString(fmt.Sprintf(", showing %d", len(matches)))
	}
	sb.WriteString(":\n")

	for i, r := range matches {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		sb.WriteString(fmt.Sprintf("Type: %s\n", r.Kind))
		sb.WriteString(fmt.Sprintf("section_id: %s\n", r.SectionID))
		if r.SubsectionID != "" {
			sb.WriteString(fmt.Sprintf("subsection_id: %s\n", r.SubsectionID))
		}
		sb.WriteString(fmt.Sprintf("Link: %s\n", viewer.FormatFragment(r.SectionID, r.SubsectionID)))
		if r.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(r.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
