package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lorebook/internal/book"
	"lorebook/internal/place"
	"lorebook/internal/store"
	"lorebook/internal/trigger"
	"lorebook/internal/vars"
)

type TriggerLoreInput struct {
	Book      string   `json:"book" jsonschema:"book name to evaluate"`
	ChatID    string   `json:"chat_id" jsonschema:"chat session the variables belong to"`
	Fragments []string `json:"fragments" jsonschema:"text fragments forming the seed trigger text"`
}

type TriggerLoreOutput struct {
	Content       string   `json:"content"`
	TriggeredUIDs []string `json:"triggered_uids"`
}

type SpanInput struct {
	ID    string `json:"id" jsonschema:"host node identifier"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Break bool   `json:"break,omitempty" jsonschema:"true for line-break nodes owning no text"`
}

type TagMatchInput struct {
	Locator string `json:"locator" jsonschema:"approximate text locating the insertion point"`
	Tag     string `json:"tag" jsonschema:"payload to insert"`
}

type PlaceTagsInput struct {
	ChatID    string          `json:"chat_id"`
	Text      string          `json:"text" jsonschema:"flattened visible text of the target subtree"`
	Spans     []SpanInput     `json:"spans" jsonschema:"node spans covering the text"`
	Matches   []TagMatchInput `json:"matches"`
	Threshold float64         `json:"threshold,omitempty" jsonschema:"minimum line similarity, defaults to the configured value"`
}

type InsertionOutput struct {
	SpanID    string `json:"span_id"`
	Offset    int    `json:"offset"`
	Marker    string `json:"marker"`
	AfterSpan bool   `json:"after_span,omitempty"`
}

type PlaceTagsOutput struct {
	LocationKey string            `json:"location_key"`
	Insertions  []InsertionOutput `json:"insertions"`
	Skipped     []string          `json:"skipped,omitempty"`
}

type GetVariableInput struct {
	Scope  string `json:"scope" jsonschema:"chat or global"`
	ChatID string `json:"chat_id,omitempty"`
	Name   string `json:"name"`
}

type GetVariableOutput struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

type SetVariableInput struct {
	Scope  string `json:"scope" jsonschema:"chat or global"`
	ChatID string `json:"chat_id,omitempty"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

type SetVariableOutput struct{}

type SetEntryStateInput struct {
	Book  string `json:"book"`
	UID   string `json:"uid"`
	State string `json:"state" jsonschema:"enabled, disabled, or forced"`
}

type SetEntryStateOutput struct{}

type ListBooksInput struct{}

type BookSummaryOutput struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

type ListBooksOutput struct {
	Books []BookSummaryOutput `json:"books"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "trigger_lore",
		Description: "Evaluate a book's entries against text fragments and return the triggered content",
	}, s.handleTriggerLore)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "place_tags",
		Description: "Locate LLM-provided snippets in rendered text and plan tag insertions",
	}, s.handlePlaceTags)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_variable",
		Description: "Read a chat or global variable",
	}, s.handleGetVariable)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_variable",
		Description: "Write a chat or global variable",
	}, s.handleSetVariable)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_entry_state",
		Description: "Override an entry's activation: enabled, disabled, or forced",
	}, s.handleSetEntryState)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_books",
		Description: "List the configured books",
	}, s.handleListBooks)
}

func (s *Server) toolLogger(tool string) zerolog.Logger {
	return s.log.With().Str("tool", tool).Str("request_id", uuid.NewString()).Logger()
}

func (s *Server) handleTriggerLore(ctx context.Context, req *sdk.CallToolRequest, input TriggerLoreInput) (*sdk.CallToolResult, TriggerLoreOutput, error) {
	if input.Book == "" {
		return nil, TriggerLoreOutput{}, fmt.Errorf("book is required")
	}
	b, ok := s.books.Get(input.Book)
	if !ok {
		return nil, TriggerLoreOutput{}, fmt.Errorf("unknown book %q", input.Book)
	}

	log := s.toolLogger("trigger_lore")
	log.Debug().Str("book", input.Book).Int("fragments", len(input.Fragments)).Msg("evaluating")

	states, err := s.db.GetEntryStates(ctx, input.Book)
	if err != nil {
		return nil, TriggerLoreOutput{}, err
	}

	result := trigger.Evaluate(b.Entries, states, input.Fragments)

	scopes := vars.NewScopes(
		store.ChatScope(ctx, s.db, input.ChatID, log),
		store.GlobalScope(ctx, s.db, log),
	)
	content := vars.Expand(result.Content, scopes)

	uids := make([]string, 0, len(result.Triggered))
	for _, e := range result.Triggered {
		uids = append(uids, e.UID)
	}
	return nil, TriggerLoreOutput{Content: content, TriggeredUIDs: uids}, nil
}

func (s *Server) handlePlaceTags(ctx context.Context, req *sdk.CallToolRequest, input PlaceTagsInput) (*sdk.CallToolResult, PlaceTagsOutput, error) {
	if len(input.Matches) == 0 {
		return nil, PlaceTagsOutput{}, fmt.Errorf("matches are required")
	}

	log := s.toolLogger("place_tags")
	log.Debug().Int("matches", len(input.Matches)).Int("spans", len(input.Spans)).Msg("placing")

	doc := place.Document{Text: input.Text, Spans: make([]place.Span, 0, len(input.Spans))}
	for _, sp := range input.Spans {
		doc.Spans = append(doc.Spans, place.Span{ID: sp.ID, Start: sp.Start, End: sp.End, Break: sp.Break})
	}
	matches := make([]place.TagMatch, 0, len(input.Matches))
	for _, m := range input.Matches {
		matches = append(matches, place.TagMatch{Locator: m.Locator, Tag: m.Tag})
	}

	plan := s.placer.WithThreshold(input.Threshold).Plan(doc, matches)

	if err := s.db.SavePlacement(ctx, input.ChatID, plan.Key, plan.Anchors); err != nil {
		return nil, PlaceTagsOutput{}, err
	}

	out := PlaceTagsOutput{LocationKey: plan.Key, Skipped: plan.Skipped}
	for _, ins := range plan.Insertions {
		out.Insertions = append(out.Insertions, InsertionOutput{
			SpanID:    ins.SpanID,
			Offset:    ins.Offset,
			Marker:    ins.Marker,
			AfterSpan: ins.AfterSpan,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetVariable(ctx context.Context, req *sdk.CallToolRequest, input GetVariableInput) (*sdk.CallToolResult, GetVariableOutput, error) {
	scope, err := variableScope(input.Scope, input.ChatID)
	if err != nil {
		return nil, GetVariableOutput{}, err
	}
	if input.Name == "" {
		return nil, GetVariableOutput{}, fmt.Errorf("name is required")
	}

	value, found, err := s.db.GetVariable(ctx, scope, input.ChatID, input.Name)
	if err != nil {
		return nil, GetVariableOutput{}, err
	}
	return nil, GetVariableOutput{Value: value, Found: found}, nil
}

func (s *Server) handleSetVariable(ctx context.Context, req *sdk.CallToolRequest, input SetVariableInput) (*sdk.CallToolResult, SetVariableOutput, error) {
	scope, err := variableScope(input.Scope, input.ChatID)
	if err != nil {
		return nil, SetVariableOutput{}, err
	}
	if input.Name == "" {
		return nil, SetVariableOutput{}, fmt.Errorf("name is required")
	}

	if err := s.db.SetVariable(ctx, scope, input.ChatID, input.Name, input.Value); err != nil {
		return nil, SetVariableOutput{}, err
	}
	return nil, SetVariableOutput{}, nil
}

func (s *Server) handleSetEntryState(ctx context.Context, req *sdk.CallToolRequest, input SetEntryStateInput) (*sdk.CallToolResult, SetEntryStateOutput, error) {
	b, ok := s.books.Get(input.Book)
	if !ok {
		return nil, SetEntryStateOutput{}, fmt.Errorf("unknown book %q", input.Book)
	}
	if _, ok := b.Entry(input.UID); !ok {
		return nil, SetEntryStateOutput{}, fmt.Errorf("unknown entry %q in book %q", input.UID, input.Book)
	}
	state, err := book.ParseActivation(input.State)
	if err != nil {
		return nil, SetEntryStateOutput{}, err
	}

	if err := s.db.SetEntryState(ctx, input.Book, input.UID, state); err != nil {
		return nil, SetEntryStateOutput{}, err
	}
	return nil, SetEntryStateOutput{}, nil
}

func (s *Server) handleListBooks(ctx context.Context, req *sdk.CallToolRequest, input ListBooksInput) (*sdk.CallToolResult, ListBooksOutput, error) {
	out := ListBooksOutput{Books: make([]BookSummaryOutput, 0, s.books.Len())}
	for _, name := range s.books.Names() {
		b, _ := s.books.Get(name)
		out.Books = append(out.Books, BookSummaryOutput{Name: name, Entries: len(b.Entries)})
	}
	return nil, out, nil
}

func variableScope(scope, chatID string) (string, error) {
	switch scope {
	case store.ScopeChat:
		if chatID == "" {
			return "", fmt.Errorf("chat_id is required for chat scope")
		}
		return store.ScopeChat, nil
	case store.ScopeGlobal:
		return store.ScopeGlobal, nil
	}
	return "", fmt.Errorf("scope must be %q or %q", store.ScopeChat, store.ScopeGlobal)
}
