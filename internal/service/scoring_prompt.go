package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

const analystSystemPrompt = "You are a VC analyst. Always respond with valid JSON."

func categoryPrompt(label, text, deckContext string) string {
	contextLine := ""
	if deckContext != "" {
		contextLine = "Context: " + deckContext
	}
	return fmt.Sprintf(`You are a VC analyst evaluating startup pitch decks.

Category: %s
%s

Analyze the following pitch deck content and provide:
1. A score from 1-10 (decimals allowed)
2. Brief evaluation notes (2-3 sentences)

Pitch deck content:
%s

Respond in JSON format:
{
    "score": <number between 1-10>,
    "notes": "<brief evaluation>"
}
`, label, contextLine, text)
}

func decisionPrompt(req model.DecisionRequest) string {
	var scores strings.Builder
	for _, c := range model.Categories {
		fmt.Fprintf(&scores, "- %s: %s/10\n", c.Title, strconv.FormatFloat(req.Scores[c.Key], 'f', -1, 64))
	}

	notes := notesJSON(req.Notes)

	thesis := ""
	if strings.TrimSpace(req.FundThesis) != "" {
		thesis = fmt.Sprintf("\nFund Thesis:\n%s\n", req.FundThesis)
	}

	return fmt.Sprintf(`Based on the following evaluation scores, determine if this startup is investible.

Scores:
%s
Evaluation Notes:
%s
%s
Provide a final decision in JSON format:
{
    "investible": "Yes" or "No",
    "summary": "<1-2 sentence summary>",
    "key_strengths": ["strength1", "strength2"],
    "key_concerns": ["concern1", "concern2"]
}
`, scores.String(), notes, thesis)
}

// notesJSON renders the notes as an indented JSON object keyed in category
// order, with any unknown keys sorted after them. HTML characters are kept
// literal so the model reads "R&D" rather than an escape sequence.
func notesJSON(notes map[string]string) string {
	if len(notes) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(notes))
	seen := make(map[string]bool, len(notes))
	for _, c := range model.Categories {
		if _, ok := notes[c.Key]; ok {
			keys = append(keys, c.Key)
			seen[c.Key] = true
		}
	}
	var extra []string
	for k := range notes {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var out strings.Builder
	out.WriteString("{\n")
	for i, k := range keys {
		fmt.Fprintf(&out, "  %s: %s", jsonString(k), jsonString(notes[k]))
		if i < len(keys)-1 {
			out.WriteByte(',')
		}
		out.WriteByte('\n')
	}
	out.WriteByte('}')
	return out.String()
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
