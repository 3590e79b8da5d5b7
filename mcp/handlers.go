package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
)

const topPhraseCount = 5

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies

	// mu serializes tool calls; they share the displayed analysis and the
	// key-phrase table.
	mu sync.Mutex
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// HandleAnalyzeText handles the analyze_text tool
func (h *HandlerSet) HandleAnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required and must be a string"), nil
	}
	title, _ := args["title"].(string)

	h.mu.Lock()
	defer h.mu.Unlock()
	if res := h.ensureSession(ctx); res != nil {
		return res, nil
	}

	application := h.deps.App()
	if res := h.dispatch(ctx, app.Submit{Text: text, Title: title}); res != nil {
		return res, nil
	}
	result := application.View().CurrentAnalysis()

	if outputMode(args) == "full" {
		return jsonResult(result)
	}
	return jsonResult(summarize(result))
}

// HandleListAnalyses handles the list_analyses tool
func (h *HandlerSet) HandleListAnalyses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	opts := domain.ListOptions{}
	if v, ok := args["skip"].(float64); ok {
		opts.Skip = int(v)
	}
	if v, ok := args["limit"].(float64); ok {
		opts.Limit = int(v)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if res := h.ensureSession(ctx); res != nil {
		return res, nil
	}

	entries, err := h.deps.App().Analyses().ListPage(ctx, opts)
	if err != nil {
		return toolError(err), nil
	}
	if entries == nil {
		entries = []domain.AnalysisHistoryEntry{}
	}
	return jsonResult(map[string]interface{}{
		"analyses": entries,
		"count":    len(entries),
		"skip":     opts.Skip,
	})
}

// HandleGetAnalysis handles the get_analysis tool
func (h *HandlerSet) HandleGetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	id, res := analysisID(args)
	if res != nil {
		return res, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if res := h.ensureSession(ctx); res != nil {
		return res, nil
	}

	application := h.deps.App()
	if res := h.dispatch(ctx, app.OpenAnalysis{ID: id}); res != nil {
		return res, nil
	}
	result := application.View().CurrentAnalysis()

	switch outputMode(args) {
	case "full":
		return jsonResult(result)
	case "view":
		return jsonResult(application.RenderResult(result))
	default:
		return jsonResult(summarize(result))
	}
}

// HandleDeleteAnalysis handles the delete_analysis tool
func (h *HandlerSet) HandleDeleteAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	id, res := analysisID(args)
	if res != nil {
		return res, nil
	}
	if confirm, _ := args["confirm"].(bool); !confirm {
		return mcp.NewToolResultError(fmt.Sprintf("analysis %d was not deleted: set confirm=true to delete it", id)), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if res := h.ensureSession(ctx); res != nil {
		return res, nil
	}
	if res := h.dispatch(ctx, app.DeleteAnalysis{ID: id}); res != nil {
		return res, nil
	}
	return jsonResult(map[string]interface{}{"deleted": id})
}

// HandleKeyPhrases handles the key_phrases tool
func (h *HandlerSet) HandleKeyPhrases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	id, res := analysisID(args)
	if res != nil {
		return res, nil
	}
	sortArg, _ := args["sort"].(string)
	key, err := domain.ParseSortKey(sortArg)
	if err != nil {
		return toolError(err), nil
	}
	category, _ := args["category"].(string)
	format := "json"
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}
	if format != "json" && format != "csv" && format != "text" {
		return toolError(domain.NewUnsupportedFormatError(format)), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if res := h.ensureSession(ctx); res != nil {
		return res, nil
	}
	for _, ev := range []app.Event{app.OpenAnalysis{ID: id}, app.SortPhrases{Key: key}, app.FilterPhrases{Category: category}} {
		if res := h.dispatch(ctx, ev); res != nil {
			return res, nil
		}
	}

	table := h.deps.App().KeyPhrases()
	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := table.WriteCSV(&buf); err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(buf.String()), nil
	case "text":
		return mcp.NewToolResultText(table.Text()), nil
	}

	phrases := table.Visible()
	if phrases == nil {
		phrases = []domain.KeyPhrase{}
	}
	return jsonResult(map[string]interface{}{
		"sort":       table.SortKey(),
		"category":   table.Category(),
		"categories": table.Categories(),
		"stats":      table.Stats(),
		"phrases":    phrases,
	})
}

// ensureSession restores the stored login while nobody is signed in, so a
// later `textscope login` is picked up. It returns a tool error when there is
// still no session.
func (h *HandlerSet) ensureSession(ctx context.Context) *mcp.CallToolResult {
	application := h.deps.App()
	if application.Session().Snapshot().Authenticated() {
		return nil
	}
	if err := application.Start(ctx); err != nil {
		return toolError(err)
	}
	if !application.Session().Snapshot().Authenticated() {
		return mcp.NewToolResultError("not logged in: run `textscope login` first")
	}
	return nil
}

// dispatch sends ev and converts a failure into its user notice.
func (h *HandlerSet) dispatch(ctx context.Context, ev app.Event) *mcp.CallToolResult {
	application := h.deps.App()
	err := application.Dispatch(ctx, ev)
	notices := application.Notices()
	if err == nil {
		return nil
	}
	h.deps.logger.Debug("tool event failed", "error", err)
	for _, n := range notices {
		if n.Level == domain.NoticeError {
			return mcp.NewToolResultError(n.Message)
		}
	}
	return toolError(err)
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(domain.UserMessage(err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func outputMode(args map[string]interface{}) string {
	if om, ok := args["output_mode"].(string); ok && om != "" {
		return om
	}
	return "summary"
}

func analysisID(args map[string]interface{}) (int, *mcp.CallToolResult) {
	raw, ok := args["id"].(float64)
	if !ok {
		return 0, mcp.NewToolResultError("id parameter is required and must be a number")
	}
	id := int(raw)
	if float64(id) != raw || id <= 0 {
		return 0, mcp.NewToolResultError(fmt.Sprintf("invalid analysis id: %v", raw))
	}
	return id, nil
}

// summarize returns the headline metrics of result.
func summarize(result *domain.AnalysisResult) map[string]interface{} {
	top := result.KeyPhrases
	if len(top) > topPhraseCount {
		top = top[:topPhraseCount]
	}
	phrases := make([]string, len(top))
	for i, p := range top {
		phrases[i] = p.Phrase
	}

	return map[string]interface{}{
		"id":    result.ID,
		"title": result.Title,
		"sentiment": map[string]interface{}{
			"label":        result.Sentiment,
			"polarity":     result.Polarity,
			"subjectivity": result.Subjectivity,
			"tone":         result.Tone,
		},
		"readability": map[string]interface{}{
			"flesch_score":     result.FleschScore,
			"difficulty_level": result.DifficultyLevel,
			"word_count":       result.WordCount,
			"sentence_count":   result.SentenceCount,
		},
		"language":        result.LanguageCode,
		"category":        result.ContentCategory,
		"top_key_phrases": phrases,
		"summary":         result.Summary,
	}
}
