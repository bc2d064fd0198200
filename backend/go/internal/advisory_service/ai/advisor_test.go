package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StartupCopilot/backend/go/pkg/logger"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Close() error { return nil }

func newTestAdvisor(client *fakeLLM) *Advisor {
	return NewAdvisor(client, logger.New("test", "", ""))
}

func TestAnalyzeIdeaParsesFencedJSON(t *testing.T) {
	client := &fakeLLM{response: "Here you go:\n```json\n{\"viabilityScore\": 9, \"summary\": \"solid\", \"strengths\": [\"timing\"]}\n```"}
	advisor := newTestAdvisor(client)

	analysis, err := advisor.AnalyzeIdea(context.Background(), "solar powered delivery drones")
	require.NoError(t, err)
	assert.Equal(t, 9, analysis.ViabilityScore)
	assert.Equal(t, "solid", analysis.Summary)
	assert.Equal(t, []string{"timing"}, analysis.Strengths)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "solar powered delivery drones")
}

func TestAnalyzeIdeaFallsBackOnGarbage(t *testing.T) {
	client := &fakeLLM{response: "I am sorry, I cannot produce JSON today."}
	advisor := newTestAdvisor(client)

	analysis, err := advisor.AnalyzeIdea(context.Background(), "an idea")
	require.NoError(t, err)
	assert.Equal(t, 7, analysis.ViabilityScore)
	assert.Equal(t, client.response, analysis.Summary)
}

func TestAnalyzeIdeaPropagatesModelError(t *testing.T) {
	client := &fakeLLM{err: errors.New("resource exhausted")}
	advisor := newTestAdvisor(client)

	_, err := advisor.AnalyzeIdea(context.Background(), "an idea")
	require.Error(t, err)
}

func TestResearchCompetitorsParsesPlainJSON(t *testing.T) {
	client := &fakeLLM{response: `{"competitors": [{"name": "Acme", "positioning": "incumbent"}], "marketGaps": ["SMB segment"], "summary": "crowded"}`}
	advisor := newTestAdvisor(client)

	research, err := advisor.ResearchCompetitors(context.Background(), "an idea")
	require.NoError(t, err)
	require.Len(t, research.Competitors, 1)
	assert.Equal(t, "Acme", research.Competitors[0].Name)
	assert.Equal(t, []string{"SMB segment"}, research.MarketGaps)
}

func TestGenerateSWOTFallsBackOnGarbage(t *testing.T) {
	client := &fakeLLM{response: "nope"}
	advisor := newTestAdvisor(client)

	swot, err := advisor.GenerateSWOT(context.Background(), "an idea")
	require.NoError(t, err)
	assert.NotEmpty(t, swot.Strengths)
	assert.Equal(t, "nope", swot.Summary)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", `Sure! {"a": 1} Hope that helps.`, `{"a": 1}`},
		{"array", `[1, 2]`, `[1, 2]`},
		{"no json at all", "hello", "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
