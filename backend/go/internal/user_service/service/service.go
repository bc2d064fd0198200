package service

import (
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/internal/user_service/store"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthEvent 描述一次认证状态的变化，推送给所有订阅者。
type AuthEvent struct {
	UID      string
	Email    string
	SignedIn bool
}

// Service 封装了认证业务逻辑。
type Service struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration

	mu        sync.Mutex
	listeners map[int]func(AuthEvent)
	nextID    int
}

// NewService 创建一个新的 Service 实例。tokenTTL 为零时默认七天。
func NewService(s *store.Store, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &Service{
		store:     s,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		listeners: make(map[int]func(AuthEvent)),
	}
}

// Subscribe 注册一个认证状态监听器，返回取消订阅的函数。
// 新会话建立或结束时监听器会被同步调用。
func (s *Service) Subscribe(fn func(AuthEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) notify(event AuthEvent) {
	s.mu.Lock()
	fns := make([]func(AuthEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(event)
	}
}

// --- Registration & Login ---

// RegisterByEmail 处理新用户通过邮箱注册的逻辑，成功后直接建立会话。
func (s *Service) RegisterByEmail(email, password, displayName string) (*models.Account, string, error) {
	if _, err := s.store.GetAccountByEmail(email); err == nil {
		return nil, "", errors.New("该邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("密码哈希失败: %w", err)
	}

	account := &models.Account{
		UID:         uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		Password:    string(hashedPassword),
		Provider:    "email",
		ProviderID:  email,
		Status:      models.AccountActive,
	}
	if err := s.store.CreateAccount(account); err != nil {
		return nil, "", err
	}

	token, err := s.generateJWT(account.UID)
	if err != nil {
		return nil, "", err
	}
	s.notify(AuthEvent{UID: account.UID, Email: account.Email, SignedIn: true})
	return account, token, nil
}

// LoginByEmail 处理用户通过邮箱登录的逻辑。
func (s *Service) LoginByEmail(email, password string) (string, error) {
	account, err := s.store.GetAccountByEmail(email)
	if err != nil {
		return "", errors.New("用户不存在或密码错误")
	}
	if err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", errors.New("用户不存在或密码错误")
	}
	if account.Status != models.AccountActive {
		return "", errors.New("账户不可用")
	}

	if err := s.store.TouchLastLogin(account.UID); err != nil {
		return "", err
	}
	token, err := s.generateJWT(account.UID)
	if err != nil {
		return "", err
	}
	s.notify(AuthEvent{UID: account.UID, Email: account.Email, SignedIn: true})
	return token, nil
}

// HandleGoogleLogin 处理 Google OAuth 登录，首次登录时创建账户。
func (s *Service) HandleGoogleLogin(providerID, email, displayName, avatarURL string) (string, error) {
	account, err := s.store.GetAccountByProviderID("google", providerID)
	if err != nil {
		account = &models.Account{
			UID:         uuid.New().String(),
			Email:       email,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
			Provider:    "google",
			ProviderID:  providerID,
			Status:      models.AccountActive,
		}
		if err := s.store.CreateAccount(account); err != nil {
			return "", err
		}
	}

	if err := s.store.TouchLastLogin(account.UID); err != nil {
		return "", err
	}
	token, err := s.generateJWT(account.UID)
	if err != nil {
		return "", err
	}
	s.notify(AuthEvent{UID: account.UID, Email: account.Email, SignedIn: true})
	return token, nil
}

// Logout 不撤销已签发的 JWT（它们在 TTL 内自然过期），只广播状态变化。
func (s *Service) Logout(uid string) {
	s.notify(AuthEvent{UID: uid, SignedIn: false})
}

// GetAccount 返回指定 UID 的账户。
func (s *Service) GetAccount(uid string) (*models.Account, error) {
	return s.store.GetAccountByUID(uid)
}

// --- Helpers ---

// generateJWT 为指定 UID 生成一个新的 JWT。主体是字符串 UID，
// 咨询服务以此做所有权判断。
func (s *Service) generateJWT(uid string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": uid,
		"iss": "startupcopilot_user_service",
		"aud": "startupcopilot_clients",
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
