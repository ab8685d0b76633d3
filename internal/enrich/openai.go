package enrich

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avolkov/abyssal-tome/internal/model"
)

// OpenAIProvider suggests tags via the Chat Completions API.
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIProvider creates a provider from the LLM configuration.
func NewOpenAIProvider(cfg model.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// SuggestTags asks the model for gameplay-concept tags for one ruling.
func (p *OpenAIProvider) SuggestTags(ctx context.Context, ruling model.Ruling) ([]string, error) {
	llmModel := p.cfg.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     llmModel,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: tagSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildTagPrompt(ruling)},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return parseTagList(resp.Choices[0].Message.Content), nil
}

const tagSystemPrompt = `You tag card game ruling texts with short gameplay-concept tags
(e.g. "timing_window", "cancellation_effect", "errata_scope").
Reply with a comma-separated list of lowercase snake_case tags only.
Reply with "none" when no tag applies. Never invent card names.`

func buildTagPrompt(r model.Ruling) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ruling kind: %s\n", r.Kind)
	if r.Kind.IsQA() {
		fmt.Fprintf(&b, "Question: %s\nAnswer: %s\n", r.Question, r.Answer)
	} else {
		fmt.Fprintf(&b, "Text: %s\n", r.Text)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Existing tags: %s\n", strings.Join(r.Tags, ", "))
	}
	return b.String()
}

// parseTagList splits a comma- or newline-separated model reply into
// clean tags.
func parseTagList(reply string) []string {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "none") {
		return nil
	}

	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var tags []string
	for _, f := range fields {
		tag := strings.Trim(strings.TrimSpace(f), `"'.`)
		tag = strings.ToLower(tag)
		if tag != "" && tag != "none" {
			tags = append(tags, tag)
		}
	}
	return tags
}
