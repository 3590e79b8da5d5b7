package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/textscope/domain"
)

// RegisterTools registers all TextScope MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	sortKeys := make([]string, len(domain.SortKeys))
	for i, k := range domain.SortKeys {
		sortKeys[i] = string(k)
	}

	// Tool 1: analyze_text - Submit text for analysis
	s.AddTool(mcp.NewTool("analyze_text",
		mcp.WithDescription("Analyze text for sentiment, readability, key phrases, entities, language, category and summary"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to analyze")),
		mcp.WithString("title",
			mcp.Description("Analysis title (default: Untitled Analysis)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary returns headline metrics, full returns the whole analysis (default: summary)")),
	), h.HandleAnalyzeText)

	// Tool 2: list_analyses - Analysis history
	s.AddTool(mcp.NewTool("list_analyses",
		mcp.WithDescription("List previous analyses, newest first"),
		mcp.WithNumber("skip",
			mcp.Description("Number of analyses to skip (default: 0)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum analyses to return, 1-100 (default: configured history limit)")),
	), h.HandleListAnalyses)

	// Tool 3: get_analysis - One analysis
	s.AddTool(mcp.NewTool("get_analysis",
		mcp.WithDescription("Fetch a previous analysis by id"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Analysis id from list_analyses")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full", "view"),
			mcp.Description("summary, full analysis, or the rendered dashboard sections (default: summary)")),
	), h.HandleGetAnalysis)

	// Tool 4: delete_analysis - Remove an analysis
	s.AddTool(mcp.NewTool("delete_analysis",
		mcp.WithDescription("Delete a previous analysis. Requires confirm=true"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Analysis id to delete")),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true to delete")),
	), h.HandleDeleteAnalysis)

	// Tool 5: key_phrases - Sorted, filtered key-phrase table
	s.AddTool(mcp.NewTool("key_phrases",
		mcp.WithDescription("Key phrases of an analysis, sorted and filtered, as JSON, CSV or numbered text"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Analysis id")),
		mcp.WithString("sort",
			mcp.Enum(sortKeys...),
			mcp.Description("Sort key (default: relevance)")),
		mcp.WithString("category",
			mcp.Description("Only include phrases in this category")),
		mcp.WithString("format",
			mcp.Enum("json", "csv", "text"),
			mcp.Description("json honors sort and category; csv and text export every phrase (default: json)")),
	), h.HandleKeyPhrases)
}
