package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stresszero/quizbot-service/internal/models"
	"github.com/stresszero/quizbot-service/internal/services"
)

// Config holds the identifiers of the hosted assistant resources the
// client talks to.
type Config struct {
	APIKey string

	// QuizAssistantID is the generation assistant; it carries the JSON
	// output instructions, the client only supplies material and
	// parameters.
	QuizAssistantID string

	// VectorStoreID receives uploaded document material before a
	// file-based generation run.
	VectorStoreID string

	// TrackingThreadID is the persistent LearningMate conversation.
	TrackingThreadID string

	// PollInterval controls run-status polling; defaults to one second.
	PollInterval time.Duration
}

// Client implements services.GenerationClient and services.TrackingClient
// against the OpenAI Assistants API: one thread and run per generation
// attempt, plus user-role messages appended to the tracking thread.
type Client struct {
	api    *openai.Client
	config Config
	logger *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	return &Client{
		api:    openai.NewClient(config.APIKey),
		config: config,
		logger: logger,
	}
}

// GenerateQuiz runs one generation attempt and returns the raw text of
// the assistant's newest reply. Calls are synchronous from the session's
// point of view; the caller bounds them through ctx.
func (c *Client) GenerateQuiz(ctx context.Context, req *models.QuizRequest) (string, error) {
	if req.ModelName != "" {
		if _, err := c.api.ModifyAssistant(ctx, c.config.QuizAssistantID, openai.AssistantRequest{
			Model: req.ModelName,
		}); err != nil {
			return "", fmt.Errorf("failed to pin assistant model %s: %w", req.ModelName, err)
		}
	}

	if req.IsFile {
		// Best effort: the assistant can still generate from the
		// material reference when the vector store attach fails.
		if err := c.attachMaterial(ctx, req.ContextMaterial); err != nil {
			c.logger.Warn("Failed to attach material to vector store",
				"material", req.ContextMaterial, "error", err)
		}
	}

	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{
		Messages: []openai.ThreadMessage{
			{
				Role:    openai.ThreadMessageRoleUser,
				Content: services.Prompt(req),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create generation thread: %w", err)
	}

	run, err := c.api.CreateRun(ctx, thread.ID, openai.RunRequest{
		AssistantID: c.config.QuizAssistantID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start generation run: %w", err)
	}

	run, err = c.waitForRun(ctx, thread.ID, run)
	if err != nil {
		return "", err
	}

	limit := 1
	order := "desc"
	messages, err := c.api.ListMessage(ctx, thread.ID, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list generation messages: %w", err)
	}

	reply := firstTextContent(messages)
	if reply == "" {
		return "", services.ErrNoResponse
	}
	return reply, nil
}

// PostNotice appends a user-role message to the tracking thread.
func (c *Client) PostNotice(ctx context.Context, content string) error {
	_, err := c.api.CreateMessage(ctx, c.config.TrackingThreadID, openai.MessageRequest{
		Role:    "user",
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to post tracking notice: %w", err)
	}
	return nil
}

func (c *Client) attachMaterial(ctx context.Context, path string) error {
	file, err := c.api.CreateFile(ctx, openai.FileRequest{
		FilePath: path,
		Purpose:  "assistants",
	})
	if err != nil {
		return fmt.Errorf("file upload failed: %w", err)
	}

	_, err = c.api.CreateVectorStoreFile(ctx, c.config.VectorStoreID, openai.VectorStoreFileRequest{
		FileID: file.ID,
	})
	if err != nil {
		return fmt.Errorf("vector store attach failed: %w", err)
	}
	return nil
}

func (c *Client) waitForRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	for run.Status == openai.RunStatusQueued || run.Status == openai.RunStatusInProgress {
		select {
		case <-ctx.Done():
			return run, fmt.Errorf("generation run interrupted: %w", ctx.Err())
		case <-time.After(c.config.PollInterval):
		}

		var err error
		run, err = c.api.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("failed to poll generation run: %w", err)
		}
	}

	if run.Status != openai.RunStatusCompleted {
		return run, fmt.Errorf("generation run ended with status %s", run.Status)
	}
	return run, nil
}

func firstTextContent(list openai.MessagesList) string {
	if len(list.Messages) == 0 {
		return ""
	}
	for _, content := range list.Messages[0].Content {
		if content.Text != nil {
			return content.Text.Value
		}
	}
	return ""
}
