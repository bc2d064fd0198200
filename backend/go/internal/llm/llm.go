package llm

import (
	"StartupCopilot/backend/go/internal/config"
	"context"
	"fmt"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
// 咨询服务只需要单轮文本生成，提示词由调用方组装。
type LLM interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

// NewClient 是一个工厂函数，根据提供的配置创建并返回一个实现了 LLM 接口的客户端。
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("no api key configured for gemini provider")
		}
		return NewGemini(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
