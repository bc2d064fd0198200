package models

// StartupStage 定义了创业公司所处的阶段
type StartupStage string

const (
	StageIdea   StartupStage = "idea"
	StageMVP    StartupStage = "mvp"
	StageGrowth StartupStage = "growth"
	StageScale  StartupStage = "scale"
)

// StartupData 代表一家创业公司档案，通过 FounderID 关联创始人。
// 该引用不做完整性校验，读取方需要容忍悬空引用。
type StartupData struct {
	BaseDocument `bson:",inline"`

	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description" json:"description"`
	Industry    string       `bson:"industry" json:"industry"`
	Stage       StartupStage `bson:"stage" json:"stage"`
	FounderID   string       `bson:"founderId" json:"founderId"`
	TeamSize    int          `bson:"teamSize" json:"teamSize"`
	Funding     *Funding     `bson:"funding,omitempty" json:"funding,omitempty"`
	Metrics     *Metrics     `bson:"metrics,omitempty" json:"metrics,omitempty"`
}

// Funding 记录融资情况
type Funding struct {
	Amount    float64  `bson:"amount" json:"amount"`
	Round     string   `bson:"round" json:"round"`
	Investors []string `bson:"investors,omitempty" json:"investors,omitempty"`
}

// Metrics 记录经营指标
type Metrics struct {
	Revenue float64 `bson:"revenue,omitempty" json:"revenue,omitempty"`
	Users   int     `bson:"users,omitempty" json:"users,omitempty"`
	Growth  float64 `bson:"growth,omitempty" json:"growth,omitempty"`
}
