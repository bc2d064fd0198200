package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"StartupCopilot/backend/go/internal/llm"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/circuitbreaker"
	"StartupCopilot/backend/go/pkg/logger"
)

// Advisor produces structured startup analyses from free-form ideas. Model
// calls go through a circuit breaker so a misbehaving upstream does not pile
// up latency on every request.
type Advisor struct {
	llm     llm.LLM
	breaker circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewAdvisor wires an Advisor on top of an LLM client.
func NewAdvisor(client llm.LLM, log *logger.Logger) *Advisor {
	return &Advisor{
		llm:     client,
		breaker: circuitbreaker.New(5, 2, 30*time.Second),
		log:     log,
	}
}

const ideaAnalysisPrompt = `You are an experienced startup advisor. Analyze the following business idea and respond with JSON only, no prose, matching this shape:
{
  "viabilityScore": <1-10>,
  "marketPotential": {"size": "...", "growth": "...", "competition": "..."},
  "strengths": ["..."],
  "challenges": ["..."],
  "recommendations": ["..."],
  "similarCompanies": ["..."],
  "revenueModels": ["..."],
  "summary": "..."
}

Business idea:
%s`

const competitorPrompt = `You are a market analyst. Research the competitive landscape for the following business idea and respond with JSON only, matching this shape:
{
  "competitors": [{"name": "...", "positioning": "...", "strengths": ["..."], "weaknesses": ["..."]}],
  "marketGaps": ["..."],
  "differentiators": ["..."],
  "summary": "..."
}

Business idea:
%s`

const swotPrompt = `You are a strategy consultant. Produce a SWOT analysis for the following business idea and respond with JSON only, matching this shape:
{
  "strengths": ["..."],
  "weaknesses": ["..."],
  "opportunities": ["..."],
  "threats": ["..."],
  "summary": "..."
}

Business idea:
%s`

// AnalyzeIdea scores a business idea. When the model answers with text that
// is not valid JSON the raw text is preserved inside a canned fallback
// instead of failing the request.
func (a *Advisor) AnalyzeIdea(ctx context.Context, idea string) (*models.IdeaAnalysis, error) {
	raw, err := a.generate(ctx, fmt.Sprintf(ideaAnalysisPrompt, idea))
	if err != nil {
		return nil, err
	}
	var analysis models.IdeaAnalysis
	if err := json.Unmarshal([]byte(extractJSON(raw)), &analysis); err != nil {
		a.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("idea analysis response was not valid JSON")
		return models.FallbackIdeaAnalysis(raw), nil
	}
	return &analysis, nil
}

// ResearchCompetitors maps the competitive landscape for an idea.
func (a *Advisor) ResearchCompetitors(ctx context.Context, idea string) (*models.CompetitorResearch, error) {
	raw, err := a.generate(ctx, fmt.Sprintf(competitorPrompt, idea))
	if err != nil {
		return nil, err
	}
	var research models.CompetitorResearch
	if err := json.Unmarshal([]byte(extractJSON(raw)), &research); err != nil {
		a.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("competitor research response was not valid JSON")
		return models.FallbackCompetitorResearch(raw), nil
	}
	return &research, nil
}

// GenerateSWOT produces a SWOT report for an idea.
func (a *Advisor) GenerateSWOT(ctx context.Context, idea string) (*models.SWOTAnalysis, error) {
	raw, err := a.generate(ctx, fmt.Sprintf(swotPrompt, idea))
	if err != nil {
		return nil, err
	}
	var swot models.SWOTAnalysis
	if err := json.Unmarshal([]byte(extractJSON(raw)), &swot); err != nil {
		a.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("swot response was not valid JSON")
		return models.FallbackSWOTAnalysis(raw), nil
	}
	return &swot, nil
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.llm.GenerateText(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// extractJSON strips markdown code fences and surrounding prose so the
// payload can be unmarshalled. Models frequently wrap JSON in ```json fences
// even when told not to.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return strings.TrimSpace(s)
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[start : end+1])
}
