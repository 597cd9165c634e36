package quality

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
)

var defaultTechnicalTerms = []string{
	"api", "service", "system", "architecture", "framework",
	"database", "server", "client", "endpoint", "integration",
	"deployment", "authentication", "authorization", "oauth",
	"microservices", "rest", "graphql", "json", "xml",
	"kubernetes", "docker", "aws", "azure", "gcp",
	"python", "java", "javascript", "typescript", "react",
	"node", "go", "implementation", "design pattern", "pipeline",
}

var defaultBusinessTerms = []string{
	"revenue", "customer", "product", "market", "business",
	"strategy", "growth", "impact", "value", "roi",
	"profit", "cost", "budget", "investment", "kpi",
}

var defaultSections = []string{"discussion", "technical", "action", "decision", "question"}

var strategicWords = []string{"strategy", "roadmap", "priority", "objective"}

var genericPhrases = []string{
	"the team discussed", "improving collaboration", "better communication",
	"working together", "moving forward",
}

type implScorer struct {
	cfg *config.QualityConfig
}

// New creates a Scorer. cfg is read on every call, so changes to thresholds
// and weights apply to the next Score.
func New(cfg *config.QualityConfig) Scorer {
	return &implScorer{cfg: cfg}
}
