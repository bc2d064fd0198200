package models

import "time"

// ConsultationStatus 定义了咨询预约的几种状态
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationScheduled ConsultationStatus = "scheduled"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// ConsultationData 代表一次创业咨询，StartupID 和 ConsultantID
// 均为字符串外键，不做引用完整性校验。
type ConsultationData struct {
	BaseDocument `bson:",inline"`

	StartupID       string             `bson:"startupId" json:"startupId"`
	ConsultantID    string             `bson:"consultantId" json:"consultantId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Status          ConsultationStatus `bson:"status" json:"status"`
	ScheduledAt     *time.Time         `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	Duration        int                `bson:"duration,omitempty" json:"duration,omitempty"` // 时长（分钟）
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Recommendations []string           `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
}
