package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Bucket    string `yaml:"bucket"`    // 默认存储桶名称
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// MongoConfig 定义了 MongoDB 文档库的连接配置。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 服务器地址
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`    // Kafka Broker 地址列表
	AuditTopic string   `yaml:"auditTopic"` // 审计事件主题
}

// GoogleOAuthConfig 定义了 Google OAuth 的认证配置。
type GoogleOAuthConfig struct {
	ClientID     string `yaml:"clientID"`     // Google OAuth 客户端ID
	ClientSecret string `yaml:"clientSecret"` // Google OAuth 客户端Secret
	RedirectURL  string `yaml:"redirectURL"`  // 重定向URL
}

// AuthConfig 用于配置认证方法和相关设置。
type AuthConfig struct {
	JwtSecret string            `yaml:"jwtSecret"` // JWT 密钥
	TokenTTL  int               `yaml:"tokenTTL"`  // JWT 令牌的有效期（秒）
	Google    GoogleOAuthConfig `yaml:"google"`    // Google OAuth 配置
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Redis   RedisConfig `yaml:"redis"`   // Redis 数据库配置
	MySQL   MySQLConfig `yaml:"mysql"`   // MySQL 数据库配置
	MinIO   MinIOConfig `yaml:"minio"`   // MinIO 对象存储配置
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 文档库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// GeminiConfig 包含了 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey          string  `yaml:"apiKey"`          // Gemini API 密钥
	Model           string  `yaml:"model"`           // Gemini 模型名称
	Temperature     float32 `yaml:"temperature"`     // 采样温度
	TopK            int32   `yaml:"topK"`            // Top-K 采样
	TopP            float32 `yaml:"topP"`            // Top-P 采样
	MaxOutputTokens int32   `yaml:"maxOutputTokens"` // 输出 token 上限
}

// LLMConfig 包含了不同LLM提供商的配置。
type LLMConfig struct {
	Provider string       `yaml:"provider"` // LLM提供商 (目前仅支持 "gemini")
	Gemini   GeminiConfig `yaml:"gemini"`   // Gemini 模型配置
}

// RetryConfig 定义了连接管理器的重试策略。
type RetryConfig struct {
	MaxRetries                 int    `yaml:"maxRetries"`                 // 连接重试次数上限
	RetryDelay                 string `yaml:"retryDelay"`                 // 首次重试的基础延迟 (例如: "1s")
	MaxSessionRecoveryAttempts int    `yaml:"maxSessionRecoveryAttempts"` // 会话恢复次数上限
	SessionRecoveryDelay       string `yaml:"sessionRecoveryDelay"`       // 会话恢复中断开与重连之间的延迟
}

// AdvisoryConfig 定义了咨询服务自身的配置。
type AdvisoryConfig struct {
	ServerAddress    string      `yaml:"serverAddress"`    // HTTP 监听地址
	OperationTimeout string      `yaml:"operationTimeout"` // 单次文档库操作的超时 (例如: "10s")
	StatsCacheTTL    string      `yaml:"statsCacheTTL"`    // 项目统计的 Redis 缓存时长
	Retry            RetryConfig `yaml:"retry"`            // 连接重试策略
}

// UserServiceConfig 定义了认证服务自身的配置。
type UserServiceConfig struct {
	ServerAddress string `yaml:"serverAddress"` // HTTP 监听地址
}

// RateLimiterConfig 定义了限流器的配置（令牌桶算法）。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"`     // 每秒生成的令牌数
	Capacity int     `yaml:"capacity"` // 桶容量（突发上限）
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App         AppInfo           `yaml:"app"`         // 应用程序信息
	Auth        AuthConfig        `yaml:"auth"`        // 认证配置
	LLM         LLMConfig         `yaml:"llm"`         // LLM 配置部分
	Logger      LoggerConfig      `yaml:"logger"`      // 日志记录器配置
	Databases   DatabaseConfigs   `yaml:"databases"`   // 数据库配置
	Advisory    AdvisoryConfig    `yaml:"advisory"`    // 咨询服务配置
	UserService UserServiceConfig `yaml:"userService"` // 认证服务配置
	Middleware  MiddlewareConfig  `yaml:"middleware"`  // 中间件配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return &cfg, nil
}

// isPlaceholder 判断某个配置值是否为缺失或占位符。
// 占位符（例如 "placeholder_api_key"、"demo-project"）视同缺失，
// 避免拿着假凭证去请求真实后端。
func isPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || strings.Contains(v, "placeholder") || strings.HasPrefix(v, "demo-")
}

// MissingStoreKeys 返回文档库连接所必需、但缺失或仍为占位符的配置项名称。
// 返回空切片表示持久化已正确配置。
func (c *AppConfig) MissingStoreKeys() []string {
	required := map[string]string{
		"databases.mongodb.address":  c.Databases.MongoDB.Address,
		"databases.mongodb.database": c.Databases.MongoDB.Database,
	}
	var missing []string
	for key, value := range required {
		if isPlaceholder(value) {
			missing = append(missing, key)
		}
	}
	return missing
}

// StoreConfigured 报告文档库持久化是否可用。
// 配置不完整时应用降级为内存模式运行，而不是直接崩溃。
func (c *AppConfig) StoreConfigured() bool {
	return len(c.MissingStoreKeys()) == 0
}
