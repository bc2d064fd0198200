package models

// ProjectStatus 定义了项目的几种可能状态
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// ProjectType 定义了项目可以生成的文档种类
type ProjectType string

const (
	ProjectTypeBusinessPlan        ProjectType = "business-plan"
	ProjectTypeMarketAnalysis      ProjectType = "market-analysis"
	ProjectTypeFinancialProjection ProjectType = "financial-projection"
	ProjectTypeSWOTAnalysis        ProjectType = "swot-analysis"
	ProjectTypeRiskAssessment      ProjectType = "risk-assessment"
)

// Project 代表一个创业顾问项目，归属于唯一的 UserID
type Project struct {
	BaseDocument `bson:",inline"`

	UserID      string          `bson:"userId" json:"userId"`           // 项目所有者
	Name        string          `bson:"name" json:"name"`               // 项目名称
	Description string          `bson:"description" json:"description"` // 项目描述
	Status      ProjectStatus   `bson:"status" json:"status"`           // 当前状态, 新建时总是 draft
	Progress    int             `bson:"progress" json:"progress"`       // 完成百分比 [0,100]
	Type        ProjectType     `bson:"type" json:"type"`               // 生成文档的种类
	Tags        []string        `bson:"tags,omitempty" json:"tags"`     // 标签集合
	Content     *ProjectContent `bson:"content,omitempty" json:"content,omitempty"`
}

// ProjectContent is the versioned content attached to a project. Exactly one
// of the typed sections matching the project Type is expected to be set;
// Sections carries free-form generated text for document kinds without a
// structured result.
type ProjectContent struct {
	Version      int                 `bson:"version" json:"version"`
	Summary      string              `bson:"summary,omitempty" json:"summary,omitempty"`
	Sections     []ContentSection    `bson:"sections,omitempty" json:"sections,omitempty"`
	IdeaAnalysis *IdeaAnalysis       `bson:"ideaAnalysis,omitempty" json:"ideaAnalysis,omitempty"`
	Competitors  *CompetitorResearch `bson:"competitors,omitempty" json:"competitors,omitempty"`
	SWOT         *SWOTAnalysis       `bson:"swot,omitempty" json:"swot,omitempty"`
}

// ContentSection is one ordered block of generated document text.
type ContentSection struct {
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body" json:"body"`
	Order int    `bson:"order" json:"order"`
}

// ProjectStats is the per-user aggregate computed client-side from the full
// owned project set.
type ProjectStats struct {
	TotalProjects      int `json:"totalProjects"`
	CompletedProjects  int `json:"completedProjects"`
	InProgressProjects int `json:"inProgressProjects"`
	DraftProjects      int `json:"draftProjects"`
}
