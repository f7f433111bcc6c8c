package vars

import "testing"

func TestExpand(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		got := Expand("{{setvar::mood::happy}}Scene is {{getvar::mood}}.", sc)
		if got != "Scene is happy." {
			t.Fatalf("unexpected output: %q", got)
		}
		if value, ok := sc.Chat.Get("mood"); !ok || value != "happy" {
			t.Fatalf("expected chat variable mood=happy, got %q (%v)", value, ok)
		}
	})

	t.Run("get before set sees old value", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		sc.Chat.Set("mood", "calm")
		got := Expand("Was {{getvar::mood}}. {{setvar::mood::tense}}Now {{getvar::mood}}.", sc)
		if got != "Was calm. Now tense." {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("unset get expands to empty", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		if got := Expand("[{{getvar::missing}}]", sc); got != "[]" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("scopes are independent", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		text := "{{setvar::k::chat}}{{setglobalvar::k::global}}{{settempvar::k::temp}}" +
			"{{getvar::k}}/{{getglobalvar::k}}/{{gettempvar::k}}"
		if got := Expand(text, sc); got != "chat/global/temp" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("value may contain further delimiters", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		Expand("{{setvar::style::bold::red::underline}}", sc)
		if value, _ := sc.Chat.Get("style"); value != "bold::red::underline" {
			t.Fatalf("unexpected value: %q", value)
		}
	})

	t.Run("value may contain newlines", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		Expand("{{setvar::poem::line one\nline two}}", sc)
		if value, _ := sc.Chat.Get("poem"); value != "line one\nline two" {
			t.Fatalf("unexpected value: %q", value)
		}
	})

	t.Run("unknown verb left untouched", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		text := "{{random::1::6}} and {{getvar::x}}"
		if got := Expand(text, sc); got != "{{random::1::6}} and " {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("unterminated placeholder left untouched", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		if got := Expand("broken {{getvar::x", sc); got != "broken {{getvar::x" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("plain braces pass through", func(t *testing.T) {
		sc := NewScopes(NewMapScope(), NewMapScope())
		if got := Expand("a {not a placeholder} b", sc); got != "a {not a placeholder} b" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("fresh temp scope per invocation", func(t *testing.T) {
		sc1 := NewScopes(NewMapScope(), NewMapScope())
		Expand("{{settempvar::x::1}}", sc1)

		sc2 := NewScopes(sc1.Chat, sc1.Global)
		if got := Expand("[{{gettempvar::x}}]", sc2); got != "[]" {
			t.Fatalf("temp scope leaked across invocations: %q", got)
		}
	})
}
