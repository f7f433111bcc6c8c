package place

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func testEngine() *Engine {
	return NewEngine(0.5, "", zerolog.Nop())
}

func testDoc(text string) Document {
	return Document{
		Text:  text,
		Spans: []Span{{ID: "n0", Start: 0, End: len(text)}},
	}
}

func TestLocationKey(t *testing.T) {
	t.Run("short text is its own key", func(t *testing.T) {
		if got := LocationKey("short"); got != "short" {
			t.Fatalf("unexpected key: %q", got)
		}
	})

	t.Run("long text uses middle runes", func(t *testing.T) {
		text := strings.Repeat("a", 30) + strings.Repeat("b", 30)
		key := LocationKey(text)
		if len(key) != locationKeyLen {
			t.Fatalf("expected %d chars, got %d", locationKeyLen, len(key))
		}
		if !strings.Contains(key, "ab") {
			t.Fatalf("expected key from the middle, got %q", key)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		text := "The quick brown fox jumps over the lazy dog."
		if LocationKey(text) != LocationKey(text) {
			t.Fatalf("key must be deterministic")
		}
	})
}

func TestSpanAt(t *testing.T) {
	doc := Document{
		Text: "hello\nworld",
		Spans: []Span{
			{ID: "a", Start: 0, End: 5},
			{ID: "br", Start: 5, End: 6, Break: true},
			{ID: "b", Start: 6, End: 11},
		},
	}

	t.Run("strict containment", func(t *testing.T) {
		span, ok := doc.SpanAt(2)
		if !ok || span.ID != "a" {
			t.Fatalf("expected span a, got %+v (%v)", span, ok)
		}
	})

	t.Run("end boundary falls back", func(t *testing.T) {
		span, ok := doc.SpanAt(11)
		if !ok || span.ID != "b" {
			t.Fatalf("expected span b, got %+v (%v)", span, ok)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		if _, ok := doc.SpanAt(99); ok {
			t.Fatalf("expected no span")
		}
	})
}

func TestPlan(t *testing.T) {
	text := "The morning was quiet.\n1girl, blue eyes, smiling\nRain tapped on the window."

	t.Run("basic insertion", func(t *testing.T) {
		doc := testDoc(text)
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "1girl blue eye smiling", Tag: "portrait"},
		})

		if len(plan.Insertions) != 1 {
			t.Fatalf("expected 1 insertion, got %d (skipped: %v)", len(plan.Insertions), plan.Skipped)
		}
		ins := plan.Insertions[0]
		if ins.Marker != "{{img::portrait}}" {
			t.Fatalf("unexpected marker: %q", ins.Marker)
		}
		wantOffset := len("The morning was quiet.\n1girl, blue eyes, smiling")
		if ins.Offset != wantOffset {
			t.Fatalf("expected offset %d, got %d", wantOffset, ins.Offset)
		}

		if len(plan.Anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(plan.Anchors))
		}
		anchor := plan.Anchors[0]
		if anchor.EndIndex != wantOffset {
			t.Fatalf("anchor must keep the pre-insertion offset")
		}
		if anchor.Regex != "1girl, blue eyes, smiling" {
			t.Fatalf("unexpected anchor text: %q", anchor.Regex)
		}
		if anchor.Tag != "portrait" {
			t.Fatalf("unexpected anchor tag: %q", anchor.Tag)
		}
	})

	t.Run("anchor truncated to tail", func(t *testing.T) {
		long := strings.Repeat("x", 60) + " ending of a very long line"
		doc := testDoc(long)
		plan := testEngine().Plan(doc, []TagMatch{{Locator: long, Tag: "t"}})
		if len(plan.Anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(plan.Anchors))
		}
		if got := len([]rune(plan.Anchors[0].Regex)); got != anchorTailLen {
			t.Fatalf("expected %d-rune tail, got %d", anchorTailLen, got)
		}
	})

	t.Run("insertions ordered back to front", func(t *testing.T) {
		doc := testDoc(text)
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "morning was quiet", Tag: "dawn"},
			{Locator: "tapped on the window", Tag: "rain"},
		})
		if len(plan.Insertions) != 2 {
			t.Fatalf("expected 2 insertions, got %d", len(plan.Insertions))
		}
		if plan.Insertions[0].Offset < plan.Insertions[1].Offset {
			t.Fatalf("insertions must be descending: %+v", plan.Insertions)
		}
	})

	t.Run("duplicate payloads collapse", func(t *testing.T) {
		doc := testDoc(text)
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "morning was quiet", Tag: "Dawn"},
			{Locator: "tapped on the window", Tag: "dawn"},
		})
		if len(plan.Insertions) != 1 {
			t.Fatalf("expected duplicates to collapse, got %d", len(plan.Insertions))
		}
		// First encountered wins.
		if plan.Insertions[0].Marker != "{{img::Dawn}}" {
			t.Fatalf("unexpected survivor: %q", plan.Insertions[0].Marker)
		}
	})

	t.Run("duplicate locators collapse", func(t *testing.T) {
		doc := testDoc(text)
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "morning was quiet", Tag: "one"},
			{Locator: "Morning was quiet ", Tag: "two"},
		})
		if len(plan.Insertions) != 1 {
			t.Fatalf("expected duplicates to collapse, got %d", len(plan.Insertions))
		}
	})

	t.Run("existing marker skipped", func(t *testing.T) {
		doc := testDoc(text + "\n{{img::rain}}")
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "tapped on the window", Tag: "rain"},
		})
		if len(plan.Insertions) != 0 {
			t.Fatalf("expected idempotence guard to skip, got %+v", plan.Insertions)
		}
		if len(plan.Skipped) == 0 {
			t.Fatalf("expected a skip reason")
		}
	})

	t.Run("no match is skipped not fatal", func(t *testing.T) {
		doc := testDoc(text)
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "annual shareholder meeting minutes", Tag: "nope"},
			{Locator: "tapped on the window", Tag: "rain"},
		})
		if len(plan.Insertions) != 1 {
			t.Fatalf("expected surviving match, got %d", len(plan.Insertions))
		}
		if len(plan.Skipped) != 1 {
			t.Fatalf("expected 1 skip, got %v", plan.Skipped)
		}
	})

	t.Run("empty text yields empty plan", func(t *testing.T) {
		plan := testEngine().Plan(Document{}, []TagMatch{{Locator: "x", Tag: "y"}})
		if len(plan.Insertions) != 0 || len(plan.Anchors) != 0 {
			t.Fatalf("expected empty plan, got %+v", plan)
		}
	})

	t.Run("offset outside spans is skipped", func(t *testing.T) {
		doc := Document{
			Text:  "only half covered by spans",
			Spans: []Span{{ID: "a", Start: 0, End: 4}},
		}
		plan := testEngine().Plan(doc, []TagMatch{
			{Locator: "only half covered by spans", Tag: "t"},
		})
		if len(plan.Insertions) != 0 {
			t.Fatalf("expected span mapping failure to skip, got %+v", plan.Insertions)
		}
	})

	t.Run("break span flags after-node insertion", func(t *testing.T) {
		doc := Document{
			Text: "ab\ncd",
			Spans: []Span{
				{ID: "a", Start: 0, End: 2},
				{ID: "br", Start: 2, End: 3, Break: true},
				{ID: "b", Start: 3, End: 5},
			},
		}
		plan := testEngine().Plan(doc, []TagMatch{{Locator: "ab", Tag: "t"}})
		if len(plan.Insertions) != 1 {
			t.Fatalf("expected 1 insertion, got %d (skipped %v)", len(plan.Insertions), plan.Skipped)
		}
		// Line "ab" ends at offset 2, owned by the break span.
		if !plan.Insertions[0].AfterSpan || plan.Insertions[0].SpanID != "br" {
			t.Fatalf("expected after-span insertion on the break node, got %+v", plan.Insertions[0])
		}
	})
}

func TestApply(t *testing.T) {
	text := "first line\nsecond line"
	doc := testDoc(text)
	plan := testEngine().Plan(doc, []TagMatch{
		{Locator: "first line", Tag: "one"},
		{Locator: "second line", Tag: "two"},
	})

	got := Apply(doc, plan)
	want := "first line{{img::one}}\nsecond line{{img::two}}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWithThreshold(t *testing.T) {
	base := testEngine()
	if base.WithThreshold(0) != base {
		t.Fatalf("non-positive threshold must return the same engine")
	}
	strict := base.WithThreshold(0.99)
	if strict == base {
		t.Fatalf("expected a copy")
	}

	doc := testDoc("1girl, blue eyes, smiling")
	if plan := strict.Plan(doc, []TagMatch{{Locator: "1girl blue eye smile", Tag: "t"}}); len(plan.Insertions) != 0 {
		t.Fatalf("expected strict threshold to reject, got %+v", plan.Insertions)
	}
}
