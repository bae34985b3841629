package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIRequestTimeout = 60 * time.Second

type OpenAIClient struct {
	Client *openai.Client
	Model  openai.ChatModel
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("[OpenAIClient] missing OPENAI_API_KEY")
	}
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", string(chatModel)),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{Client: client, Model: chatModel}, nil
}

// Complete sends one system + user exchange and returns the trimmed reply.
func (o *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(o.Model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", errors.New("[OpenAIClient] empty completion")
	}
	return CleanOpenAIResponse(completion.Choices[0].Message.Content), nil
}

// CleanOpenAIResponse strips code fences and curly quotes around a JSON reply.
func CleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`) // Left curly quote
	response = strings.ReplaceAll(response, "”", `"`) // Right curly quote

	return strings.TrimSpace(response)
}
