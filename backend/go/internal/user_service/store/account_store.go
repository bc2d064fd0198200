package store

import (
	"StartupCopilot/backend/go/internal/models"
	"time"

	"gorm.io/gorm"
)

// Store 封装了所有与账户相关的数据库操作。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// AutoMigrate 同步账户表结构。
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(&models.Account{})
}

// CreateAccount 在数据库中创建一个新账户。
func (s *Store) CreateAccount(account *models.Account) error {
	return s.DB.Create(account).Error
}

// GetAccountByEmail 通过邮箱地址查找账户。
func (s *Store) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUID 通过对外暴露的 UID 查找账户。
func (s *Store) GetAccountByUID(uid string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("uid = ?", uid).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByProviderID 通过 OAuth 提供商和其提供的用户 ID 查找账户。
// 这是实现 OAuth 登录的关键。
func (s *Store) GetAccountByProviderID(provider, providerID string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("provider = ? AND provider_id = ?", provider, providerID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// TouchLastLogin 记录账户的最近一次登录时间。
func (s *Store) TouchLastLogin(uid string) error {
	now := time.Now().UTC()
	return s.DB.Model(&models.Account{}).Where("uid = ?", uid).Update("last_login_at", now).Error
}

// UpdateAccount 更新账户信息。
func (s *Store) UpdateAccount(account *models.Account) error {
	return s.DB.Save(account).Error
}
