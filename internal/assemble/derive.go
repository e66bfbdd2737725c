package assemble

import (
	"math"
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var (
	headingMarkers = regexp.MustCompile(`#{1,6}\s+`)
	boldSpans      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicSpans    = regexp.MustCompile(`\*(.*?)\*`)
	inlineLinks    = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	newlineRuns    = regexp.MustCompile(`\n+`)
)

// Description derives a meta description from the post body: the first
// sentence when it fits, otherwise the first 150 characters of the
// plain text with an ellipsis.
func Description(body string) string {
	plain := headingMarkers.ReplaceAllString(body, "")
	plain = boldSpans.ReplaceAllString(plain, "$1")
	plain = italicSpans.ReplaceAllString(plain, "$1")
	plain = inlineLinks.ReplaceAllString(plain, "")
	plain = strings.TrimSpace(newlineRuns.ReplaceAllString(plain, " "))

	first, _, _ := strings.Cut(plain, ".")
	if len(first) > 150 {
		return plain[:150] + "..."
	}
	return first + "."
}

// ReadingTime estimates reading time in minutes at 200 words per
// minute, never reporting less than one minute.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return int(math.Max(1, math.Ceil(float64(words)/wordsPerMinute)))
}

// categoryRule maps trigger phrases to a category. Rules are checked
// in order and the first match wins.
type categoryRule struct {
	category string
	triggers []string
}

var categoryRules = []categoryRule{
	{"AI & Technology", []string{"ai", "artificial intelligence", "machine learning"}},
	{"Digital Strategy", []string{"marketing", "digital strategy"}},
	{"Case Studies", []string{"case study", "client", "success"}},
	{"Tutorials", []string{"tutorial", "how to", "step by step"}},
	{"Creative Content", []string{"creative", "design", "content"}},
}

const fallbackCategory = "Industry Insights"

// Category infers the post category from its body text.
func Category(body string) string {
	lower := strings.ToLower(body)
	for _, rule := range categoryRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				return rule.category
			}
		}
	}
	return fallbackCategory
}

// topicRule maps trigger phrases to a tag slug. Unlike categories,
// every matching topic contributes a tag.
type topicRule struct {
	tag      string
	triggers []string
}

var topicRules = []topicRule{
	{"artificial-intelligence", []string{"ai", "artificial intelligence", "machine learning", "neural network"}},
	{"digital-marketing", []string{"marketing", "digital marketing", "seo", "social media"}},
	{"strategy", []string{"strategy", "planning", "business strategy"}},
	{"automation", []string{"automation", "automated", "workflow"}},
	{"analytics", []string{"analytics", "data", "metrics", "tracking"}},
	{"content-creation", []string{"content", "creative", "writing", "storytelling"}},
	{"technology", []string{"technology", "tech", "software", "tools"}},
	{"business-growth", []string{"growth", "scaling", "expansion", "revenue"}},
}

var fillerTags = []string{"business", "insights", "strategy", "marketing", "technology"}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Tags builds the tag list from the sheet keywords column plus topics
// detected in the body. The result always holds between three and six
// tags; when detection comes up short the list is padded from a fixed
// pool so output stays deterministic.
func Tags(body, keywords string) []string {
	tags := make([]string, 0, 8)
	seen := make(map[string]bool)
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, kw := range strings.Split(keywords, ",") {
		add(whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(kw)), "-"))
	}

	lower := strings.ToLower(body)
	for _, rule := range topicRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				add(rule.tag)
				break
			}
		}
	}

	for _, filler := range fillerTags {
		if len(tags) >= 3 {
			break
		}
		add(filler)
	}

	if len(tags) > 6 {
		tags = tags[:6]
	}
	return tags
}

var baselineKeywords = []string{"disruptors media", "ai marketing agency", "digital marketing"}

// Keywords builds the SEO keyword list: the sheet keywords first, then
// the site baseline, then content-conditional extras, capped at ten.
func Keywords(body, provided string) []string {
	keywords := make([]string, 0, 10)
	if provided != "" {
		for _, kw := range strings.Split(provided, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	keywords = append(keywords, baselineKeywords...)

	lower := strings.ToLower(body)
	if strings.Contains(lower, "ai") {
		keywords = append(keywords, "artificial intelligence marketing")
	}
	if strings.Contains(lower, "automation") {
		keywords = append(keywords, "marketing automation")
	}
	if strings.Contains(lower, "strategy") {
		keywords = append(keywords, "digital strategy")
	}

	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}
