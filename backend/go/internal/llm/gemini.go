package llm

import (
	"StartupCopilot/backend/go/internal/config"
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// 未在配置文件中显式给出时使用的生成参数。
const (
	defaultModel           = "gemini-2.0-flash"
	defaultTemperature     = float32(0.7)
	defaultTopK            = int32(40)
	defaultTopP            = float32(0.95)
	defaultMaxOutputTokens = int32(2048)
)

// Gemini 是一个实现了 LLM 接口的结构体，用于与 Gemini API 交互。
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini 创建一个新的 Gemini 客户端，并按配置设置采样参数和安全阈值。
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	topK := cfg.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	topP := cfg.TopP
	if topP == 0 {
		topP = defaultTopP
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxOutputTokens
	}

	model.SetTemperature(temperature)
	model.SetTopK(topK)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(maxTokens)

	// 四个危害类别统一使用中等及以上拦截。
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	return &Gemini{client: client, model: model}, nil
}

// GenerateText 发送一条提示词并返回模型输出的全部文本部分。
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close 释放底层的 GenAI 客户端连接。
func (g *Gemini) Close() error {
	return g.client.Close()
}
