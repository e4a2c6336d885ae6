// Package router routes free-text task descriptions to the handler best
// suited to execute them, with a normalized confidence score.
package router

import (
	"fmt"
	"strings"

	"github.com/vibecodehq/vibe/pkg/models"
)

// Scoring weights. A phrase found on a word boundary counts more than a
// bare substring hit.
const (
	wordMatchWeight      = 1.5
	substringMatchWeight = 1.0
)

// Confidence handling. Matches below the floor fall back to the API
// handler so the system never refuses to route a task.
const (
	// OverrideConfidence is returned when an override pattern matches.
	OverrideConfidence = 0.9
	// FallbackConfidence is returned with the default handler.
	FallbackConfidence = 0.5
	// confidenceFloor is the minimum score ratio to trust keyword routing.
	confidenceFloor = 0.4
)

// rule maps a handler to its trigger phrases. Rules are scored in
// models.Handlers order, which is also the tie-break.
type rule struct {
	handler models.Handler
	phrases []string
}

// override is a substring pattern checked before scoring. Declaration
// order encodes precedence: earlier, more specific patterns win.
type override struct {
	pattern string
	handler models.Handler
}

var rules = []rule{
	{models.HandlerAPI, []string{
		"analyze", "analysis", "architecture", "design", "plan", "planning",
		"strategy", "strategic", "review", "audit", "research", "explain",
		"describe", "document", "summarize", "compare", "evaluate",
		"recommend", "suggest", "think", "consider", "assess",
	}},
	{models.HandlerCLI, []string{
		"implement", "implementation", "code", "coding", "write", "writing",
		"create", "build", "building", "debug", "debugging", "fix", "fixing",
		"refactor", "refactoring", "test", "testing", "run", "execute",
		"install", "setup", "configure", "deploy", "commit", "push",
	}},
	{models.HandlerScaffold, []string{
		"scaffold", "scaffolding", "generate", "template",
	}},
	{models.HandlerBatch, []string{
		"batch", "bulk", "migrate", "migration", "mass", "multiple",
		"all files", "parallel", "pipeline", "sync", "archive", "zip",
		"deduplicate", "organize", "transform all", "rename all",
	}},
}

var overrides = []override{
	{"what is", models.HandlerAPI},
	{"how does", models.HandlerAPI},
	{"why", models.HandlerAPI},
	{"explain", models.HandlerAPI},
	{"create a", models.HandlerCLI},
	{"build a", models.HandlerCLI},
	{"write a", models.HandlerCLI},
	{"fix the", models.HandlerCLI},
	{"implement", models.HandlerCLI},
	{"add a", models.HandlerCLI},
	{"scaffold", models.HandlerScaffold},
	{"batch", models.HandlerBatch},
	{"all files", models.HandlerBatch},
	{"in parallel", models.HandlerBatch},
	{"bulk", models.HandlerBatch},
}

// Classify routes a task description to a handler.
//
// Override patterns are checked first in declaration order and short-circuit
// at OverrideConfidence. Otherwise every handler's trigger phrases are scored
// against the lowered input and confidence is the winning share of the total
// score. Anything under the floor (including no matches at all, e.g. empty
// input) falls back to HandlerAPI at FallbackConfidence.
func Classify(text string) (models.Handler, float64) {
	lowered := strings.ToLower(text)

	for _, o := range overrides {
		if strings.Contains(lowered, o.pattern) {
			return o.handler, OverrideConfidence
		}
	}

	scores := make(map[models.Handler]float64, len(rules))
	var total float64
	for _, r := range rules {
		for _, phrase := range r.phrases {
			if !strings.Contains(lowered, phrase) {
				continue
			}
			w := substringMatchWeight
			// Pad both sides so phrases at the edges still count as words.
			if strings.Contains(" "+lowered+" ", " "+phrase+" ") {
				w = wordMatchWeight
			}
			scores[r.handler] += w
			total += w
		}
	}

	if total == 0 {
		return models.HandlerAPI, FallbackConfidence
	}

	// models.Handlers order is the documented tie-break.
	best := models.HandlerAPI
	var bestScore float64
	for _, h := range models.Handlers {
		if scores[h] > bestScore {
			best = h
			bestScore = scores[h]
		}
	}

	confidence := bestScore / total
	if confidence < confidenceFloor {
		return models.HandlerAPI, FallbackConfidence
	}
	if confidence > 1 {
		confidence = 1
	}
	return best, confidence
}

// MatchedPhrases returns the trigger phrases of the given handler found in
// the text, in rule declaration order.
func MatchedPhrases(text string, handler models.Handler) []string {
	lowered := strings.ToLower(text)

	var matched []string
	for _, r := range rules {
		if r.handler != handler {
			continue
		}
		for _, phrase := range r.phrases {
			if strings.Contains(lowered, phrase) {
				matched = append(matched, phrase)
			}
		}
	}
	return matched
}

// Explain returns a human-readable explanation of how a task would be routed.
func Explain(text string) string {
	handler, confidence := Classify(text)

	matched := strings.Join(MatchedPhrases(text, handler), ", ")
	if matched == "" {
		matched = "none (default)"
	}

	return fmt.Sprintf("Task routed to %s handler\nConfidence: %.0f%%\nMatched keywords: %s\nHandler purpose: %s",
		handler, confidence*100, matched, handler.Description())
}
