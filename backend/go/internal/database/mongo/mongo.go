package mongo

import (
	"StartupCopilot/backend/go/internal/config"
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client 封装了 MongoDB 连接，并向连接管理器暴露网络开关。
// 与其他数据库包不同，这里不使用包级单例：连接管理器需要在会话恢复时
// 断开并重建底层连接，显式构造的实例在启动时创建一次并注入到所有消费方。
type Client struct {
	mu     sync.Mutex
	cfg    *config.MongoConfig
	client *mongo.Client
}

// New 创建一个尚未连接的 Client 实例。
func New(cfg *config.MongoConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect 建立到 MongoDB 的连接并 Ping 验证。已连接时只做 Ping，
// 因此可以安全地重复调用。
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client.Ping(ctx, nil)
	}

	clientOptions := options.Client().ApplyURI(c.cfg.Address)
	if c.cfg.Username != "" && c.cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: c.cfg.Username,
			Password: c.cfg.Password,
		})
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cli, err := mongo.Connect(dialCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("无法连接到 MongoDB: %w", err)
	}
	if err = cli.Ping(dialCtx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return fmt.Errorf("无法 Ping MongoDB: %w", err)
	}

	c.client = cli
	return nil
}

// Disconnect 断开连接并丢弃底层客户端。未连接时直接返回 nil。
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}

// Database 返回指定名称的数据库句柄；离线时返回 nil。
func (c *Client) Database() *mongo.Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	return c.client.Database(c.cfg.Database)
}

// HealthCheck 检查 MongoDB 连接的健康状况。
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	cli := c.client
	c.mu.Unlock()

	if cli == nil {
		return fmt.Errorf("MongoDB 客户端未初始化")
	}
	return cli.Ping(ctx, nil)
}

// EnableNetwork 实现连接管理器的传输开关：重建或验证连接。
func (c *Client) EnableNetwork(ctx context.Context) error {
	return c.Connect(ctx)
}

// DisableNetwork 实现连接管理器的传输开关：断开连接。
func (c *Client) DisableNetwork(ctx context.Context) error {
	return c.Disconnect(ctx)
}
