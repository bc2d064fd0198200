package models

// IdeaAnalysis is the structured assessment of a business idea produced by
// the AI advisor.
type IdeaAnalysis struct {
	ViabilityScore   int             `bson:"viabilityScore" json:"viabilityScore"`
	MarketPotential  MarketPotential `bson:"marketPotential" json:"marketPotential"`
	Strengths        []string        `bson:"strengths" json:"strengths"`
	Challenges       []string        `bson:"challenges" json:"challenges"`
	Recommendations  []string        `bson:"recommendations" json:"recommendations"`
	SimilarCompanies []string        `bson:"similarCompanies" json:"similarCompanies"`
	RevenueModels    []string        `bson:"revenueModels" json:"revenueModels"`
	Summary          string          `bson:"summary" json:"summary"`
}

// MarketPotential is the market sizing portion of an idea analysis.
type MarketPotential struct {
	Size        string `bson:"size" json:"size"`
	Growth      string `bson:"growth" json:"growth"`
	Competition string `bson:"competition" json:"competition"`
}

// FallbackIdeaAnalysis is returned when the model response cannot be parsed
// as JSON; the raw text is preserved in Summary.
func FallbackIdeaAnalysis(raw string) *IdeaAnalysis {
	return &IdeaAnalysis{
		ViabilityScore:   7,
		MarketPotential:  MarketPotential{Size: "Medium", Growth: "Moderate", Competition: "Competitive"},
		Strengths:        []string{"Innovative concept"},
		Challenges:       []string{"Market validation needed"},
		Recommendations:  []string{"Conduct market research"},
		SimilarCompanies: []string{},
		RevenueModels:    []string{"Subscription", "Freemium"},
		Summary:          raw,
	}
}

// Competitor is one entry of a competitor research result.
type Competitor struct {
	Name        string   `bson:"name" json:"name"`
	Positioning string   `bson:"positioning" json:"positioning"`
	Strengths   []string `bson:"strengths" json:"strengths"`
	Weaknesses  []string `bson:"weaknesses" json:"weaknesses"`
}

// CompetitorResearch is the AI advisor's competitive landscape report.
type CompetitorResearch struct {
	Competitors     []Competitor `bson:"competitors" json:"competitors"`
	MarketGaps      []string     `bson:"marketGaps" json:"marketGaps"`
	Differentiators []string     `bson:"differentiators" json:"differentiators"`
	Summary         string       `bson:"summary" json:"summary"`
}

// FallbackCompetitorResearch is the canned structure used when parsing fails.
func FallbackCompetitorResearch(raw string) *CompetitorResearch {
	return &CompetitorResearch{
		Competitors:     []Competitor{},
		MarketGaps:      []string{"Further research required"},
		Differentiators: []string{},
		Summary:         raw,
	}
}

// SWOTAnalysis is the AI advisor's SWOT report.
type SWOTAnalysis struct {
	Strengths     []string `bson:"strengths" json:"strengths"`
	Weaknesses    []string `bson:"weaknesses" json:"weaknesses"`
	Opportunities []string `bson:"opportunities" json:"opportunities"`
	Threats       []string `bson:"threats" json:"threats"`
	Summary       string   `bson:"summary" json:"summary"`
}

// FallbackSWOTAnalysis is the canned structure used when parsing fails.
func FallbackSWOTAnalysis(raw string) *SWOTAnalysis {
	return &SWOTAnalysis{
		Strengths:     []string{"Dedicated founding team"},
		Weaknesses:    []string{"Limited operating history"},
		Opportunities: []string{"Growing market"},
		Threats:       []string{"Established competitors"},
		Summary:       raw,
	}
}
