package service

import (
	"fmt"
	"strings"

	"algowatch/internal/generation/models"
	id "algowatch/pkg/domain"
)

const toolName = "generate_advocacy_kit"

const systemPrompt = `You are an expert healthcare advocacy assistant. You help patients, caregivers, and advocates write professional, non-accusatory communications about algorithmic decision-making in healthcare.

RULES:
- Never name specific institutions, vendors, or individuals
- Never claim wrongdoing or discrimination
- Focus on requesting transparency and audit of algorithmic processes
- Be professional and constructive
- Use plain language accessible to non-experts

You must return a JSON object with exactly these fields:
- "letter": A professional audit request letter (500-800 words)
- "checklist": An array of objects with "section" (string) and "items" (string array), grouped action steps
- "explainer": A plain-language one-page explainer about algorithmic risk stratification (300-500 words)`

// kitSchema is the JSON schema of the forced function's arguments.
func kitSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"letter": map[string]any{
				"type":        "string",
				"description": "Professional audit request letter",
			},
			"checklist": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"section": map[string]any{"type": "string"},
						"items": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []string{"section", "items"},
				},
			},
			"explainer": map[string]any{
				"type":        "string",
				"description": "Plain-language explainer",
			},
		},
		"required":             []string{"letter", "checklist", "explainer"},
		"additionalProperties": false,
	}
}

// BuildPrompt assembles the completion contract for req.
func BuildPrompt(req models.Request) models.Prompt {
	tags := make([]string, len(req.Tags))
	for i, t := range req.Tags {
		tags[i] = id.Humanize(string(t))
	}

	user := fmt.Sprintf(`Generate an advocacy kit for:
- What happened: %s
- Audience: %s
- Tone: %s
- Role: %s
- Care setting: %s`,
		strings.Join(tags, ", "),
		id.Humanize(string(req.Audience)),
		req.Tone,
		req.Role,
		id.Humanize(string(req.CareSetting)),
	)

	return models.Prompt{
		System:          systemPrompt,
		User:            user,
		ToolName:        toolName,
		ToolDescription: "Generate a complete advocacy kit with letter, checklist, and explainer",
		Schema:          kitSchema(),
	}
}
