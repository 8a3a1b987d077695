package textgen

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UI element types that can request generated coaching text.
const (
	ElementMatchSummary    = "match-summary"
	ElementImprovementArea = "improvement-area"
	ElementWinConditions   = "win-conditions"
)

// ErrUnknownElement marks a request for an element type the prompt
// builder does not know — surfaced as bad input, not provider failure.
var ErrUnknownElement = errors.New("unknown element type")

const coachSystemPrompt = `You are a Dota 2 performance coach. You are given structured data from a
statistics dashboard and must produce short coaching feedback.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Cite specific numbers when making a claim.
- Be concise and actionable — focus on what the player can actually change.
- Encouraging but honest tone; no generic advice that ignores the data.
- Plain prose, no markdown, no bullet lists.

Metrics glossary:
- GPM/XPM: gold/experience earned per minute. Core roles want high GPM.
- KDA: (kills + assists) / deaths. 3.0+ is solid.
- CS/min: last hits + denies per minute. Farming efficiency proxy.
- Kill participation: share of the team's kills you had a hand in.
- Gold utilization: % of earned gold actually spent on items.`

type elementPrompt struct {
	task     string
	maxWords int
}

var elementPrompts = map[string]elementPrompt{
	ElementMatchSummary: {
		task:     "Summarize this player's match performance and name the single biggest thing to repeat or fix next game.",
		maxWords: 120,
	},
	ElementImprovementArea: {
		task:     "Explain why this metric is behind the role standard and give one concrete drill or habit to close the gap.",
		maxWords: 80,
	},
	ElementWinConditions: {
		task:     "Synthesize what this player does differently in wins versus losses into one actionable pattern.",
		maxWords: 120,
	},
}

// BuildPrompt constructs the system and user prompts for one element
// request. The context payload is serialized verbatim so the provider
// only ever sees caller-approved numbers.
func BuildPrompt(elementType, elementID string, contextData map[string]interface{}) (system, user string, err error) {
	ep, ok := elementPrompts[elementType]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownElement, elementType)
	}

	data, err := json.Marshal(contextData)
	if err != nil {
		return "", "", fmt.Errorf("marshal context data: %w", err)
	}

	user = fmt.Sprintf("ELEMENT: %s (%s)\nDATA:\n%s\n\nTASK: %s Keep it under %d words.",
		elementType, elementID, data, ep.task, ep.maxWords)
	return coachSystemPrompt, user, nil
}
