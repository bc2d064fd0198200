package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccountStatus 定义了账户的生命周期状态。
type AccountStatus string

const (
	AccountPending     AccountStatus = "pending"     // 账号待激活或验证
	AccountActive      AccountStatus = "active"      // 账号正常
	AccountSuspended   AccountStatus = "suspended"   // 账号被暂停
	AccountDeactivated AccountStatus = "deactivated" // 账号已停用
)

// Account 代表认证服务中的一个用户账户。认证成功后签发的 JWT
// 以 UID 作为主体，文档库中的所有权字段均引用这个 UID。
type Account struct {
	gorm.Model

	UID         string `gorm:"uniqueIndex;not null;size:64"` // 对外暴露的稳定身份标识
	Email       string `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"size:255"`
	Password    string `gorm:"size:255" json:"-"` // 存储哈希后的密码，json中忽略
	AvatarURL   string

	Provider   string `gorm:"not null"` // "email" 或 "google"
	ProviderID string `gorm:"index:idx_provider_id,unique;not null"`

	Status      AccountStatus `gorm:"type:varchar(20);default:'pending';not null"`
	LastLoginAt *time.Time
	Settings    datatypes.JSON
}

// TableName 自定义表名。
func (Account) TableName() string {
	return "accounts"
}
