package generator

import "testing"

func TestTemplateForWithoutThemePassesLayoutThrough(t *testing.T) {
	selector := newThemeSelector(ThemingConfig{})
	if got := selector.TemplateFor("review"); got != "review" {
		t.Fatalf("expected layout passthrough, got %q", got)
	}
	if got := selector.TemplateFor("  "); got != "post" {
		t.Fatalf("expected default layout, got %q", got)
	}
}

func TestResolveTemplateInvokesResolver(t *testing.T) {
	var gotKey, gotFallback string
	resolve := func(key, fallback string) string {
		gotKey, gotFallback = key, fallback
		return "review.html"
	}

	if got := resolveTemplate(resolve, "review"); got != "review.html" {
		t.Fatalf("expected resolver answer, got %q", got)
	}
	if gotKey != "review" || gotFallback != "review" {
		t.Fatalf("expected layout as both key and fallback, got %q/%q", gotKey, gotFallback)
	}
}

func TestResolveTemplateFallsBackOnBlankAnswer(t *testing.T) {
	resolve := func(string, string) string { return "   " }
	if got := resolveTemplate(resolve, "post"); got != "post" {
		t.Fatalf("expected layout fallback, got %q", got)
	}
	if got := resolveTemplate(nil, "post"); got != "post" {
		t.Fatalf("expected layout with nil resolver, got %q", got)
	}
}
