package generate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxPostLen is the platform's hard character limit
const maxPostLen = 280

const systemPrompt = `You are a professional social media manager who specializes in creating engaging posts that get high engagement. Your posts are informative, relevant, and include appropriate hashtags. Keep posts under 280 characters.`

// Style selects the tone of a document-based post
type Style string

const (
	StyleInformative    Style = "Informative"
	StyleEngaging       Style = "Engaging"
	StyleProfessional   Style = "Professional"
	StyleConversational Style = "Conversational"
)

var styleInstructions = map[Style]string{
	StyleInformative:    "Focus on facts and information. Be clear and educational. Include specific insights from the document.",
	StyleEngaging:       "Be attention-grabbing and use compelling language. Ask questions or use strong statements that encourage interaction.",
	StyleProfessional:   "Maintain a formal, business-appropriate tone. Focus on industry relevance and value propositions.",
	StyleConversational: "Use a friendly, casual tone as if speaking directly to a friend. Use more personal language and potentially first-person perspective.",
}

// Config holds the chat provider settings. BaseURL points at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// Generator composes short social posts from a topic and optional
// context blocks using an OpenAI-compatible chat API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	log         *zap.Logger
}

// NewGenerator creates a post generator
func NewGenerator(cfg Config, log *zap.Logger) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log,
	}
}

// Compose generates a post about a topic, optionally grounded in news
// and wiki context blocks.
func (g *Generator) Compose(ctx context.Context, topic, newsContext, wikiContext string) (string, error) {
	var prompt string
	switch {
	case newsContext != "" && wikiContext != "":
		prompt = fmt.Sprintf(`Create an engaging post about %s that combines recent news with interesting facts. The post should be informative yet conversational.

Here's some recent news on the topic:
%s

Here are some interesting facts:
%s

Make the post sound natural and include 1-3 relevant hashtags.
Keep it under 280 characters. Only return the post text.`, topic, newsContext, wikiContext)
	case newsContext != "":
		prompt = fmt.Sprintf(`Create an engaging post about %s based on recent news.

Here's some recent news on the topic:
%s

Make the post sound informative and timely. Include 1-2 relevant hashtags.
Keep it under 280 characters. Only return the post text.`, topic, newsContext)
	case wikiContext != "":
		prompt = fmt.Sprintf(`Create an engaging post about %s that shares an interesting fact.

Here are some facts about the topic:
%s

Make the post sound interesting and educational. Include 1-2 relevant hashtags.
Keep it under 280 characters. Only return the post text.`, topic, wikiContext)
	default:
		prompt = fmt.Sprintf(`Create an engaging post about %s.

Your post should be conversational, interesting, and include 1-2 relevant hashtags.
Keep it under 280 characters. Only return the post text.`, topic)
	}

	return g.chat(ctx, systemPrompt, prompt)
}

// ComposeFromDocument generates a post grounded in document context
// with a selectable style. Unknown styles fall back to Informative.
func (g *Generator) ComposeFromDocument(ctx context.Context, topic, docContext string, style Style) (string, error) {
	instruction, ok := styleInstructions[style]
	if !ok {
		style = StyleInformative
		instruction = styleInstructions[StyleInformative]
	}

	system := fmt.Sprintf("%s\n\nFor this post, use a %s style. %s", systemPrompt, style, instruction)
	prompt := fmt.Sprintf(`Create an engaging post about %q based on the following document content.

%s

The post should highlight key insights related to %q from the document excerpts.
Include 1-2 relevant hashtags.
Keep it under 280 characters. Only return the post text.`, topic, docContext, topic)

	return g.chat(ctx, system, prompt)
}

func (g *Generator) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	post := strings.TrimSpace(resp.Choices[0].Message.Content)
	if len(post) > maxPostLen {
		post = post[:maxPostLen-3] + "..."
	}
	return post, nil
}
