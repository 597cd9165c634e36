package transcript

import (
	"sort"
	"strings"
	"unicode"
)

// KindGeneral is reported when no profile scores high enough.
const KindGeneral = "general_sync"

const (
	keywordWeight  = 0.5
	phraseWeight   = 1.0
	titleBoost     = 0.5
	audienceBoost  = 0.3
	fullConfidence = 20.0
	minConfidence  = 0.15
)

// Profile describes how to recognise one kind of meeting.
type Profile struct {
	Label string
	// Keywords are counted as whole words, Phrases as substrings.
	Keywords   []string
	Phrases    []string
	TitleWords []string
	// MinParticipants and MaxParticipants bound the audience that boosts the
	// profile. Zero means no bound; both zero means no boost.
	MinParticipants int
	MaxParticipants int
}

// Detection is the outcome of content-based meeting kind detection.
type Detection struct {
	Kind       string
	Confidence float64
}

// DefaultProfiles returns the built-in meeting kinds.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"technical": {
			Label: "Technical Meeting",
			Keywords: []string{"architecture", "api", "system", "service", "database", "deployment",
				"code", "implementation", "technical", "integration", "infrastructure",
				"backend", "frontend", "microservice", "repository", "framework"},
			Phrases: []string{"system design", "code review", "technical decision", "api design",
				"architecture decision", "technical debt", "performance issue"},
			TitleWords: []string{"architecture", "technical", "design", "review"},
		},
		"strategy": {
			Label: "Strategy Meeting",
			Keywords: []string{"roadmap", "strategy", "planning", "objectives", "goals", "business",
				"priorities", "vision", "direction", "budget", "resources", "timeline",
				"milestone", "deliverable", "quarter", "okr", "allocate", "prioritize",
				"market", "opportunity", "initiative"},
			Phrases: []string{"business goals", "strategic direction", "product roadmap", "quarterly planning",
				"business case", "market opportunity", "resource allocation", "key objectives"},
			TitleWords: []string{"strategy", "planning", "roadmap"},
		},
		"alignment": {
			Label: "Alignment Meeting",
			Keywords: []string{"coordination", "dependencies", "blockers", "alignment", "handoff",
				"collaboration", "communication", "cross-team", "workflow", "coordinate"},
			Phrases: []string{"team coordination", "sync up", "dependency management", "team sync",
				"need alignment", "communication protocols", "handoff process"},
			MinParticipants: 9,
		},
		"one_on_one": {
			Label: "One-on-One",
			Keywords: []string{"career", "feedback", "development", "performance", "personal", "growth",
				"promotion", "coaching", "mentoring", "one-on-one", "individual", "pdp", "skills"},
			Phrases: []string{"career development", "performance review", "personal goals", "1:1",
				"career path", "professional development", "how are you feeling", "growth opportunity"},
			TitleWords:      []string{"1:1", "one-on-one", "career"},
			MinParticipants: 2,
			MaxParticipants: 2,
		},
		"standup": {
			Label: "Standup",
			Keywords: []string{"yesterday", "today", "blocked", "blocker", "progress", "standup",
				"daily", "scrum", "sprint", "completed", "stuck", "finished", "focusing"},
			Phrases: []string{"daily standup", "working on", "yesterday i", "today i will",
				"i worked on", "i completed", "i'm focusing on", "i finished", "help with"},
			TitleWords:      []string{"standup", "daily", "scrum"},
			MinParticipants: 3,
			MaxParticipants: 8,
		},
	}
}

// Detect scores text against every profile and returns the best kind, or
// KindGeneral when the best confidence is below 0.15.
func (p *Parser) Detect(text, title string, participants int) Detection {
	lower := strings.ToLower(text)
	words := wordCounts(lower)
	lowerTitle := strings.ToLower(title)

	best, bestScore := KindGeneral, 0.0
	for _, kind := range p.kinds() {
		prof := p.profiles[kind]

		score := 0.0
		for _, kw := range prof.Keywords {
			score += float64(words[strings.ToLower(kw)]) * keywordWeight
		}
		for _, ph := range prof.Phrases {
			score += float64(strings.Count(lower, strings.ToLower(ph))) * phraseWeight
		}

		boost := 0.0
		for _, w := range prof.TitleWords {
			if w != "" && strings.Contains(lowerTitle, strings.ToLower(w)) {
				boost += titleBoost
				break
			}
		}
		if prof.inAudience(participants) {
			boost += audienceBoost
		}

		if score *= 1 + boost; score > bestScore {
			best, bestScore = kind, score
		}
	}

	confidence := bestScore / fullConfidence
	if confidence > 1 {
		confidence = 1
	}
	if confidence < minConfidence {
		return Detection{Kind: KindGeneral, Confidence: confidence}
	}
	return Detection{Kind: best, Confidence: confidence}
}

func (p Profile) inAudience(n int) bool {
	if p.MinParticipants == 0 && p.MaxParticipants == 0 {
		return false
	}
	return n >= p.MinParticipants && (p.MaxParticipants == 0 || n <= p.MaxParticipants)
}

func wordCounts(lower string) map[string]int {
	counts := make(map[string]int)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	}) {
		counts[strings.Trim(w, "-'")]++
	}
	return counts
}

func sortedKinds(profiles map[string]Profile) []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
