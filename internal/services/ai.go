package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/sashabaranov/go-openai"
)

// Drafter turns free text into task drafts.
type Drafter interface {
	DraftTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

// AIService extracts task drafts from free text with an OpenAI chat model.
type AIService struct {
	client *openai.Client
	model  string
	now    Clock
}

// TaskDraft is a proposed task. Drafts are never persisted by the service.
type TaskDraft struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
}

type rawDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
		now:    SystemClock,
	}
}

// NewAIServiceWithConfig points the client at a custom endpoint.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
		now:    SystemClock,
	}
}

const draftPrompt = `You extract actionable tasks from free text.

Today is %s.

Text:
%s

Respond with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "details",
    "due_date": "YYYY-MM-DD or null when no deadline is stated",
    "priority": "Critical | High | Medium | Low",
    "category": "a one or two word category"
  }
]

Rules:
- Return [] when there are no tasks
- Convert relative dates ("tomorrow", "next Friday") to calendar dates
- Use Medium when the urgency is unclear`

// DraftTasks asks the model for task drafts and normalizes its answer.
func (s *AIService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrDraftTextRequired
	}

	today := s.now()
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(draftPrompt, today.Format(utils.DateLayout), text),
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content, today)
}

// parseDrafts decodes the model output, dropping untitled drafts and due
// dates already in the past.
func parseDrafts(content string, today time.Time) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []rawDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(raw) > constants.MaxAIGeneratedTasks {
		raw = raw[:constants.MaxAIGeneratedTasks]
	}

	cutoff := utils.TruncateDate(today)
	drafts := make([]TaskDraft, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		draft := TaskDraft{
			Title:       title,
			Description: strings.TrimSpace(r.Description),
			Priority:    models.TaskPriority(r.Priority),
			Category:    strings.TrimSpace(r.Category),
		}
		if !draft.Priority.Valid() {
			draft.Priority = models.PriorityMedium
		}
		if draft.Category == "" {
			draft.Category = models.DefaultTaskCategory
		}
		if r.DueDate != "" && r.DueDate != "null" {
			if due, err := utils.ParseDate(r.DueDate); err == nil && !due.Before(cutoff) {
				draft.DueDate = &due
			}
		}
		drafts = append(drafts, draft)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return drafts, nil
}
