package enrich

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Feeds that carry no category column fall back to "outros"; the
// categorizer re-classifies those offers from their title.
const fallbackCategory = "outros"

var categories = []string{
	"eletronicos", "informatica", "casa", "moda", "beleza",
	"esporte", "brinquedos", "livros", "automotivo", "outros",
}

type Categorizer struct {
	client *openai.Client
}

func NewCategorizer(apiKey string) *Categorizer {
	if apiKey == "" {
		return nil
	}
	return &Categorizer{client: openai.NewClient(apiKey)}
}

// Categorize returns a category for the title, or the fallback when the
// model answers something outside the known set or the call fails.
func (c *Categorizer) Categorize(ctx context.Context, title string) string {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Classifique o produto em uma destas categorias, respondendo apenas com a categoria: " +
					strings.Join(categories, ", "),
			},
			{Role: openai.ChatMessageRoleUser, Content: title},
		},
		MaxTokens: 8,
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallbackCategory
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	for _, cat := range categories {
		if answer == cat {
			return cat
		}
	}
	return fallbackCategory
}
