package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"lorebook/internal/book"
	"lorebook/internal/place"
)

type mockStore struct {
	variables   map[string]string
	entryStates map[string]book.Activation

	getVariableErr error
	setVariableErr error
	statesErr      error

	lastSetScope  string
	lastSetChatID string
	lastSetName   string
	lastSetValue  string

	lastStateBook string
	lastStateUID  string
	lastState     book.Activation

	lastPlacementChatID string
	lastPlacementKey    string
	lastAnchors         []place.Anchor
}

func varKey(scope, chatID, name string) string {
	return scope + "|" + chatID + "|" + name
}

func (m *mockStore) Close(ctx context.Context) error        { return nil }
func (m *mockStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *mockStore) GetVariable(ctx context.Context, scope, chatID, name string) (string, bool, error) {
	if m.getVariableErr != nil {
		return "", false, m.getVariableErr
	}
	value, ok := m.variables[varKey(scope, chatID, name)]
	return value, ok, nil
}

func (m *mockStore) SetVariable(ctx context.Context, scope, chatID, name, value string) error {
	if m.setVariableErr != nil {
		return m.setVariableErr
	}
	m.lastSetScope = scope
	m.lastSetChatID = chatID
	m.lastSetName = name
	m.lastSetValue = value
	if m.variables == nil {
		m.variables = make(map[string]string)
	}
	m.variables[varKey(scope, chatID, name)] = value
	return nil
}

func (m *mockStore) ListVariables(ctx context.Context, scope, chatID string) (map[string]string, error) {
	return nil, nil
}

func (m *mockStore) GetEntryStates(ctx context.Context, bookName string) (map[string]book.Activation, error) {
	if m.statesErr != nil {
		return nil, m.statesErr
	}
	return m.entryStates, nil
}

func (m *mockStore) SetEntryState(ctx context.Context, bookName, uid string, state book.Activation) error {
	m.lastStateBook = bookName
	m.lastStateUID = uid
	m.lastState = state
	return nil
}

func (m *mockStore) SavePlacement(ctx context.Context, chatID, key string, anchors []place.Anchor) error {
	m.lastPlacementChatID = chatID
	m.lastPlacementKey = key
	m.lastAnchors = anchors
	return nil
}

func (m *mockStore) GetPlacement(ctx context.Context, chatID, key string) ([]place.Anchor, error) {
	return nil, nil
}

func testBooks() *book.Set {
	return book.NewSet(&book.Book{
		Name: "atelier",
		Entries: []book.Entry{
			{UID: "lighting", Keys: []string{"lighting"}, Content: "Prefer warm tones."},
			{UID: "mood", Keys: []string{"mood"}, Content: "Mood is {{getvar::mood}}."},
		},
	})
}

func testServer(db *mockStore) *Server {
	placer := place.NewEngine(0, "", zerolog.Nop())
	return NewServer(testBooks(), db, placer, zerolog.Nop(), "test")
}

func TestTriggerLore(t *testing.T) {
	db := &mockStore{}
	server := testServer(db)

	_, output, err := server.handleTriggerLore(context.Background(), nil, TriggerLoreInput{
		Book:      "atelier",
		ChatID:    "chat-1",
		Fragments: []string{"soft lighting please"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Content != "Prefer warm tones." {
		t.Fatalf("unexpected content: %q", output.Content)
	}
	if len(output.TriggeredUIDs) != 1 || output.TriggeredUIDs[0] != "lighting" {
		t.Fatalf("unexpected uids: %v", output.TriggeredUIDs)
	}
}

func TestTriggerLore_ExpandsVariables(t *testing.T) {
	db := &mockStore{variables: map[string]string{
		varKey("chat", "chat-1", "mood"): "serene",
	}}
	server := testServer(db)

	_, output, err := server.handleTriggerLore(context.Background(), nil, TriggerLoreInput{
		Book:      "atelier",
		ChatID:    "chat-1",
		Fragments: []string{"set the mood"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Content != "Mood is serene." {
		t.Fatalf("unexpected content: %q", output.Content)
	}
}

func TestTriggerLore_RespectsOverrides(t *testing.T) {
	db := &mockStore{entryStates: map[string]book.Activation{
		"lighting": book.ActivationDisabled,
	}}
	server := testServer(db)

	_, output, err := server.handleTriggerLore(context.Background(), nil, TriggerLoreInput{
		Book:      "atelier",
		ChatID:    "chat-1",
		Fragments: []string{"soft lighting please"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.TriggeredUIDs) != 0 {
		t.Fatalf("expected no triggers, got %v", output.TriggeredUIDs)
	}
}

func TestTriggerLore_UnknownBook(t *testing.T) {
	server := testServer(&mockStore{})

	_, _, err := server.handleTriggerLore(context.Background(), nil, TriggerLoreInput{Book: "missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlaceTags(t *testing.T) {
	db := &mockStore{}
	server := testServer(db)

	text := "A quiet harbor at dawn.\nGulls wheel over the breakwater stones."
	_, output, err := server.handlePlaceTags(context.Background(), nil, PlaceTagsInput{
		ChatID: "chat-1",
		Text:   text,
		Spans:  []SpanInput{{ID: "p1", Start: 0, End: len(text)}},
		Matches: []TagMatchInput{
			{Locator: "Gulls wheel over the breakwater stones.", Tag: "gulls, harbor"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Insertions) != 1 {
		t.Fatalf("expected one insertion, got %+v", output.Insertions)
	}
	ins := output.Insertions[0]
	if ins.SpanID != "p1" || !strings.Contains(ins.Marker, "gulls, harbor") {
		t.Fatalf("unexpected insertion: %+v", ins)
	}
	if db.lastPlacementChatID != "chat-1" || db.lastPlacementKey != output.LocationKey {
		t.Fatalf("placement not saved: chat=%q key=%q", db.lastPlacementChatID, db.lastPlacementKey)
	}
	if len(db.lastAnchors) != 1 || db.lastAnchors[0].Tag != "gulls, harbor" {
		t.Fatalf("unexpected anchors: %+v", db.lastAnchors)
	}
}

func TestPlaceTags_NoMatches(t *testing.T) {
	server := testServer(&mockStore{})

	_, _, err := server.handlePlaceTags(context.Background(), nil, PlaceTagsInput{Text: "hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetVariable(t *testing.T) {
	db := &mockStore{variables: map[string]string{
		varKey("global", "", "theme"): "noir",
	}}
	server := testServer(db)

	_, output, err := server.handleGetVariable(context.Background(), nil, GetVariableInput{Scope: "global", Name: "theme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !output.Found || output.Value != "noir" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestGetVariable_Missing(t *testing.T) {
	server := testServer(&mockStore{})

	_, output, err := server.handleGetVariable(context.Background(), nil, GetVariableInput{Scope: "global", Name: "theme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Found {
		t.Fatalf("expected not found, got %+v", output)
	}
}

func TestSetVariable(t *testing.T) {
	db := &mockStore{}
	server := testServer(db)

	_, _, err := server.handleSetVariable(context.Background(), nil, SetVariableInput{
		Scope:  "chat",
		ChatID: "chat-1",
		Name:   "mood",
		Value:  "tense",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastSetScope != "chat" || db.lastSetChatID != "chat-1" || db.lastSetName != "mood" || db.lastSetValue != "tense" {
		t.Fatalf("unexpected set params: %+v", db)
	}
}

func TestVariableScopeValidation(t *testing.T) {
	server := testServer(&mockStore{})

	_, _, err := server.handleGetVariable(context.Background(), nil, GetVariableInput{Scope: "chat", Name: "mood"})
	if err == nil {
		t.Fatalf("expected error for chat scope without chat_id")
	}

	_, _, err = server.handleSetVariable(context.Background(), nil, SetVariableInput{Scope: "session", Name: "mood"})
	if err == nil {
		t.Fatalf("expected error for unknown scope")
	}

	_, _, err = server.handleGetVariable(context.Background(), nil, GetVariableInput{Scope: "global"})
	if err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestSetEntryState(t *testing.T) {
	db := &mockStore{}
	server := testServer(db)

	_, _, err := server.handleSetEntryState(context.Background(), nil, SetEntryStateInput{
		Book:  "atelier",
		UID:   "lighting",
		State: "forced",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastStateBook != "atelier" || db.lastStateUID != "lighting" || db.lastState != book.ActivationForced {
		t.Fatalf("unexpected state params: %q %q %v", db.lastStateBook, db.lastStateUID, db.lastState)
	}
}

func TestSetEntryState_Unknown(t *testing.T) {
	server := testServer(&mockStore{})

	_, _, err := server.handleSetEntryState(context.Background(), nil, SetEntryStateInput{Book: "missing", UID: "x", State: "enabled"})
	if err == nil {
		t.Fatalf("expected error for unknown book")
	}

	_, _, err = server.handleSetEntryState(context.Background(), nil, SetEntryStateInput{Book: "atelier", UID: "missing", State: "enabled"})
	if err == nil {
		t.Fatalf("expected error for unknown entry")
	}

	_, _, err = server.handleSetEntryState(context.Background(), nil, SetEntryStateInput{Book: "atelier", UID: "lighting", State: "sometimes"})
	if err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestListBooks(t *testing.T) {
	server := testServer(&mockStore{})

	_, output, err := server.handleListBooks(context.Background(), nil, ListBooksInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Books) != 1 || output.Books[0].Name != "atelier" || output.Books[0].Entries != 2 {
		t.Fatalf("unexpected books output: %+v", output.Books)
	}
}
