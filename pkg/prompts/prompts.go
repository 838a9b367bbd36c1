// Package prompts renders the chat prompt sent to a provider: a contextual
// form carrying labeled excerpt sections, and a plain form used when
// retrieval is disabled or returned nothing.
package prompts

import (
	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/models"
)

const contextualTurnTemplate = `You are a helpful assistant. Below is context retrieved from the user's saved memory and uploaded documents. Use it to answer the question as completely as possible.

{{range .Sections}}--- {{.Label}} ---
{{range .Texts}}{{.}}

{{end}}{{end}}User's Question: {{.Question}}
Assistant's Answer:`

const plainTurnTemplate = `You are a helpful assistant. Answer as best you can.

User's Question: {{.Question}}
Assistant's Answer:`

type promptSection struct {
	Label string
	Texts []string
}

type turnPromptData struct {
	Sections []promptSection
	Question string
}

// BuildTurnPrompt renders the prompt for one chat turn. Context items are
// grouped under their labels in the order given; with no items the plain
// form is used, so the two cases are distinguishable downstream.
func BuildTurnPrompt(question string, items []models.ContextItem) (string, error) {
	if len(items) == 0 {
		return internal.ParsePrompt(plainTurnTemplate, turnPromptData{Question: question})
	}

	var sections []promptSection
	for _, item := range items {
		if n := len(sections); n > 0 && sections[n-1].Label == item.Label {
			sections[n-1].Texts = append(sections[n-1].Texts, item.Text)
			continue
		}
		sections = append(sections, promptSection{Label: item.Label, Texts: []string{item.Text}})
	}

	return internal.ParsePrompt(contextualTurnTemplate, turnPromptData{
		Sections: sections,
		Question: question,
	})
}
