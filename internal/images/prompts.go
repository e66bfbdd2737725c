package images

import (
	"fmt"
	"strings"
)

// featurePrompt builds the header-image prompt: a fixed template around the
// title plus one style clause chosen by the first keyword match, in priority
// order (AI > marketing/digital > business/strategy > none).
func featurePrompt(title, content string) string {
	base := fmt.Sprintf("Create a professional, modern blog header image for an article titled %q. ", title)

	lower := strings.ToLower(content)
	var style string
	switch {
	case strings.Contains(lower, "ai") || strings.Contains(lower, "artificial intelligence"):
		style = "Include subtle AI and technology elements like neural networks, data flows, or futuristic interfaces. "
	case strings.Contains(lower, "marketing") || strings.Contains(lower, "digital"):
		style = "Include marketing and digital strategy elements like growth charts, target symbols, or communication networks. "
	case strings.Contains(lower, "business") || strings.Contains(lower, "strategy"):
		style = "Include business strategy elements like upward trends, collaboration, or success indicators. "
	}

	return base + style +
		"Style: clean, professional, modern gradient background, high contrast text areas, 16:9 aspect ratio suitable for blog headers. " +
		"Colors: use modern tech colors like deep blues, purples, or teals with white/light accents. " +
		"Avoid text in the image. Focus on visual metaphors and abstract elements."
}

// supportingPrompts builds up to count prompts from two theme scans, each with a
// generic fallback; a third prompt is appended only when count > 2.
func supportingPrompts(title, content string, count int) []string {
	lower := strings.ToLower(content)
	var prompts []string

	switch {
	case strings.Contains(lower, "ai") || strings.Contains(lower, "artificial intelligence"):
		prompts = append(prompts, "Create a sleek illustration of AI concepts: neural networks, machine learning algorithms, or data processing. Style: modern, professional, abstract, suitable for business content. Colors: tech blues and purples with clean backgrounds.")
	case strings.Contains(lower, "marketing"):
		prompts = append(prompts, "Create a modern marketing illustration: customer journey, growth metrics, or digital channels. Style: clean, professional, business-focused. Colors: modern gradients with clear visual hierarchy.")
	default:
		prompts = append(prompts, fmt.Sprintf("Create a supporting illustration that complements an article about %q. Style: modern, professional, abstract, suitable for business/tech blog content.", title))
	}

	switch {
	case strings.Contains(lower, "data") || strings.Contains(lower, "analytics"):
		prompts = append(prompts, "Create a data visualization illustration: charts, graphs, dashboards, or analytics concepts. Style: clean, modern, professional. Colors: use data visualization colors like blues, greens, and oranges.")
	case strings.Contains(lower, "strategy") || strings.Contains(lower, "growth"):
		prompts = append(prompts, "Create a business growth illustration: upward trends, strategy planning, or success metrics. Style: professional, modern, inspiring. Colors: success-oriented greens and blues.")
	default:
		prompts = append(prompts, "Create a modern technology illustration: digital transformation, innovation, or connectivity themes. Style: clean, professional, forward-looking. Colors: tech-inspired blues and purples.")
	}

	if count > 2 {
		prompts = append(prompts, "Create a professional business illustration: teamwork, collaboration, or achievement themes. Style: modern, clean, positive. Colors: warm but professional tones.")
	}

	if count < len(prompts) {
		prompts = prompts[:count]
	}
	return prompts
}
