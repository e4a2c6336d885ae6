package router

import (
	"strings"
	"testing"

	"github.com/vibecodehq/vibe/pkg/models"
)

func TestClassify_Overrides(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Handler
	}{
		{"what is routes to api", "what is the context manager doing", models.HandlerAPI},
		{"build a routes to cli", "build a login form", models.HandlerCLI},
		{"scaffold routes to scaffold", "scaffold a new service", models.HandlerScaffold},
		{"all files routes to batch", "update the copyright in all files", models.HandlerBatch},
		{"in parallel routes to batch", "process these in parallel", models.HandlerBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, confidence := Classify(tt.text)
			if handler != tt.want {
				t.Errorf("Classify(%q) handler = %q, want %q", tt.text, handler, tt.want)
			}
			if confidence != OverrideConfidence {
				t.Errorf("Classify(%q) confidence = %v, want %v", tt.text, confidence, OverrideConfidence)
			}
		})
	}
}

func TestClassify_OverrideBeatsCompetingKeywords(t *testing.T) {
	// "scaffold" is an override pattern, so it must win even when the text
	// is full of analysis keywords. The competing terms here are scoring
	// keywords only; an earlier override pattern in the text would take
	// precedence by declaration order instead.
	text := "analyze, review and scaffold the new service"

	handler, confidence := Classify(text)
	if handler != models.HandlerScaffold {
		t.Fatalf("handler = %q, want %q", handler, models.HandlerScaffold)
	}
	if confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", confidence)
	}
}

func TestClassify_KeywordScoring(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Handler
	}{
		{"analysis text routes to api", "assess and evaluate the architecture", models.HandlerAPI},
		{"coding text routes to cli", "refactor and debug the parser tests", models.HandlerCLI},
		{"bulk text routes to batch", "deduplicate and organize the downloads", models.HandlerBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, confidence := Classify(tt.text)
			if handler != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, handler, tt.want)
			}
			if confidence < 0.4 || confidence > 1 {
				t.Errorf("confidence = %v, want in [0.4, 1]", confidence)
			}
		})
	}
}

func TestClassify_EmptyInputFallsBack(t *testing.T) {
	for _, text := range []string{"", "   ", "zzzz qqqq"} {
		handler, confidence := Classify(text)
		if handler != models.HandlerAPI {
			t.Errorf("Classify(%q) handler = %q, want %q", text, handler, models.HandlerAPI)
		}
		if confidence != FallbackConfidence {
			t.Errorf("Classify(%q) confidence = %v, want %v", text, confidence, FallbackConfidence)
		}
	}
}

func TestClassify_LowConfidenceFallsBack(t *testing.T) {
	// One keyword per handler: no handler clears the 0.4 share floor,
	// so routing falls back to the api handler.
	text := "assess the code and migrate the template"

	handler, confidence := Classify(text)
	if handler != models.HandlerAPI {
		t.Errorf("handler = %q, want %q", handler, models.HandlerAPI)
	}
	if confidence != FallbackConfidence {
		t.Errorf("confidence = %v, want %v", confidence, FallbackConfidence)
	}
}

func TestClassify_WordBoundaryOutweighsSubstring(t *testing.T) {
	// "test" appears as a whole word (1.5) while "testing" phrases from
	// other handlers do not; a word-bounded cli keyword should dominate a
	// substring-only match.
	handler, _ := Classify("run the test suite now now now")
	if handler != models.HandlerCLI {
		t.Errorf("handler = %q, want %q", handler, models.HandlerCLI)
	}
}

func TestExplain(t *testing.T) {
	got := Explain("deduplicate and organize the downloads")

	if !strings.Contains(got, "batch handler") {
		t.Errorf("Explain output missing handler name: %q", got)
	}
	if !strings.Contains(got, "deduplicate") {
		t.Errorf("Explain output missing matched keyword: %q", got)
	}
}

func TestMatchedPhrases_Order(t *testing.T) {
	got := MatchedPhrases("organize and deduplicate in bulk", models.HandlerBatch)

	// Declaration order, not text order.
	want := []string{"bulk", "deduplicate", "organize"}
	if len(got) != len(want) {
		t.Fatalf("MatchedPhrases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MatchedPhrases[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
