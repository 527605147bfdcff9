package infra_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/infra"
)

func TestStateUserPrompt(t *testing.T) {
	prompt := infra.StateUserPrompt(application.StateReport{
		SourceID:       "battery-1",
		OriginalPrompt: "how full is the house battery?",
		State:          json.RawMessage(`{"soc":81}`),
	})

	assert.Contains(t, prompt, "Question: how full is the house battery?")
	assert.Contains(t, prompt, "Source: battery-1")
	assert.Contains(t, prompt, `State: {"soc":81}`)
}

func TestCleanAnswer(t *testing.T) {
	assert.Equal(t, "It is on.", infra.CleanAnswer("```\nIt is on.\n```"))
	assert.Equal(t, "It is on.", infra.CleanAnswer("  It is on. "))
}
