// file: services/ai_hint.go
package services

import (
	"context"
	"fmt"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// HintGenerator 外部文本生成服务的抽象，测试里可以直接替换
type HintGenerator interface {
	GenerateHint(ctx context.Context, challenge models.Challenge) (string, error)
}

// cannedHints 生成服务不可用时按题目分类兜底
var cannedHints = map[string]string{
	"web":       "Check the HTTP headers and page source carefully",
	"crypto":    "Look for patterns in the encrypted data",
	"forensics": "The file might contain hidden data",
	"pwn":       "Check for buffer overflow possibilities",
	"reversing": "Try decompiling the binary",
	"misc":      "Think outside the box",
}

const genericHint = "Try examining all aspects of the challenge carefully."

func CannedHint(category string) string {
	if hint, ok := cannedHints[category]; ok {
		return hint
	}
	return genericHint
}

// OpenAIHintGenerator 调 Chat Completions 生成不剧透的提示
type OpenAIHintGenerator struct {
	client *openai.Client
}

func NewOpenAIHintGenerator(apiKey string) *OpenAIHintGenerator {
	return &OpenAIHintGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (g *OpenAIHintGenerator) GenerateHint(ctx context.Context, challenge models.Challenge) (string, error) {
	desc := challenge.Description
	if len(desc) > 200 {
		desc = desc[:200] + "..."
	}
	details := fmt.Sprintf("Title: %s\nCategory: %s\nDescription: %s",
		challenge.Title, challenge.Category, desc)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("Provide a subtle hint (not the solution) for this CTF challenge. " +
				"The hint should help the user think in the right direction without giving away " +
				"the solution. Challenge details:\n" + details),
		}),
		Model:       openai.F(openai.ChatModelGPT3_5Turbo),
		Temperature: openai.F(0.6),
		MaxTokens:   openai.F(int64(100)),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return completion.Choices[0].Message.Content, nil
}
