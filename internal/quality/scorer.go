package quality

import (
	"fmt"
	"strings"
	"unicode"
)

func (s *implScorer) Score(text string, participants []string) Metrics {
	cfg := s.cfg
	lower := strings.ToLower(text)
	words := wordSet(lower)

	m := Metrics{Length: len(text)}
	m.TechnicalTerms = countTerms(lower, words, orDefault(cfg.TechnicalTerms, defaultTechnicalTerms))
	m.ActionItems = countActionItems(text)
	m.TechnicalScore = ratio(m.TechnicalTerms, 5)
	m.ActionScore = ratio(m.ActionItems, 3)
	m.BusinessScore = s.business(lower, words)
	m.ClarityScore = s.clarity(text, lower)
	m.Score = s.combine(m)
	m.Confidence = confidence(m.Score)
	m.Issues = s.issues(lower, text, m, participants)

	m.Label = Accepted
	if cfg.Enabled && !s.passes(m) {
		m.Label = BelowThreshold
	}
	return m
}

func (s *implScorer) passes(m Metrics) bool {
	return m.Length >= s.cfg.MinSummaryLength &&
		m.TechnicalTerms >= s.cfg.MinTechnicalTerms &&
		m.ActionItems >= s.cfg.MinActionItems &&
		m.Score >= s.cfg.MinScore
}

// combine is the weighted mean of the four sub-scores.
func (s *implScorer) combine(m Metrics) float64 {
	w := s.cfg.Weights
	sum := w.TechnicalContent + w.ActionItems + w.BusinessContext + w.Clarity
	if sum <= 0 {
		return clamp((m.TechnicalScore + m.ActionScore + m.BusinessScore + m.ClarityScore) / 4)
	}
	total := m.TechnicalScore*w.TechnicalContent +
		m.ActionScore*w.ActionItems +
		m.BusinessScore*w.BusinessContext +
		m.ClarityScore*w.Clarity
	return clamp(total / sum)
}

func (s *implScorer) business(lower string, words map[string]bool) float64 {
	found := countTerms(lower, words, orDefault(s.cfg.BusinessTerms, defaultBusinessTerms))
	score := ratio(found, 5) * 0.6
	for _, w := range strategicWords {
		if words[w] {
			score += 0.4
			break
		}
	}
	return clamp(score)
}

func (s *implScorer) clarity(text, lower string) float64 {
	var score float64
	var headers, lists bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "#"):
			headers = true
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), isNumbered(line):
			lists = true
		}
	}
	if headers {
		score += 0.3
	}
	if lists {
		score += 0.2
	}

	sections := orDefault(s.cfg.ExpectedSections, defaultSections)
	found := 0
	for _, sec := range sections {
		if strings.Contains(lower, strings.ToLower(sec)) {
			found++
		}
	}
	score += ratio(found, len(sections)) * 0.3

	if len(text) >= s.cfg.MinSummaryLength {
		score += 0.2
	}
	return clamp(score)
}

func (s *implScorer) issues(lower, text string, m Metrics, participants []string) []string {
	var issues []string
	if m.Length < s.cfg.MinSummaryLength {
		issues = append(issues, fmt.Sprintf("summary too short (%d chars, minimum %d)", m.Length, s.cfg.MinSummaryLength))
	}
	if m.TechnicalTerms < s.cfg.MinTechnicalTerms {
		issues = append(issues, fmt.Sprintf("insufficient technical content (%d terms, minimum %d)", m.TechnicalTerms, s.cfg.MinTechnicalTerms))
	}
	if m.ActionItems < s.cfg.MinActionItems {
		issues = append(issues, fmt.Sprintf("too few action items (%d, minimum %d)", m.ActionItems, s.cfg.MinActionItems))
	}
	if m.Score < s.cfg.MinScore {
		issues = append(issues, fmt.Sprintf("score %.2f below minimum %.2f", m.Score, s.cfg.MinScore))
	}

	var generic []string
	for _, p := range genericPhrases {
		if strings.Contains(lower, p) {
			generic = append(generic, p)
		}
	}
	if len(generic) > 0 {
		issues = append(issues, "contains generic phrases: "+strings.Join(generic, ", "))
	}

	named := false
	checked := false
	for _, p := range participants {
		if len(p) <= 3 {
			continue
		}
		checked = true
		if strings.Contains(text, p) {
			named = true
			break
		}
	}
	if checked && !named {
		issues = append(issues, "no participant is referenced by name")
	}
	return issues
}

var actionPatterns = []string{"- [ ]", "- [x]", "todo:", "action:", "follow-up:", "due:", "timeline:", "next step"}

// countActionItems counts lines that look like action items. Each line counts once.
func countActionItems(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(line)
		if matchesAny(l, actionPatterns) {
			n++
			continue
		}
		if strings.Contains(l, "@") && matchesAny(l, []string{"due", "timeline", "task", "action"}) {
			n++
		}
	}
	return n
}

// countTerms counts distinct terms present in the text. Single words must match
// a whole word; phrases match as substrings.
func countTerms(lower string, words map[string]bool, terms []string) int {
	n := 0
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.ContainsAny(t, " -") {
			if strings.Contains(lower, t) {
				n++
			}
			continue
		}
		if words[t] {
			n++
		}
	}
	return n
}

func wordSet(lower string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = true
	}
	return set
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNumbered(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

func confidence(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

func ratio(n, target int) float64 {
	if target <= 0 {
		return 1
	}
	return clamp(float64(n) / float64(target))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
