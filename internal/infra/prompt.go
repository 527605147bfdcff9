package infra

import (
	"fmt"
	"strings"

	"nomadpi-assistant/internal/application"
)

// StateSystemPrompt instructs the model to answer from a state snapshot.
const StateSystemPrompt = `You are the voice assistant of a camper van. You answer questions about the van's equipment.

You receive the user's question and the current state of one device as JSON.

IMPORTANT:
- Answer in one or two short sentences that sound natural when spoken aloud
- Use only the values present in the state; never invent readings
- Round numbers sensibly and include units when they are known
- Reply in the language of the question
- No markdown, no lists, no JSON`

// StateUserPrompt renders the question and the state for the model.
func StateUserPrompt(report application.StateReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n", report.OriginalPrompt))
	sb.WriteString(fmt.Sprintf("Source: %s\n", report.SourceID))
	sb.WriteString(fmt.Sprintf("State: %s\n", strings.TrimSpace(string(report.State))))
	return sb.String()
}

// CleanAnswer strips the wrapping some models put around short answers.
func CleanAnswer(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
