// Package openai implements the dispatch.Provider directly against the
// OpenAI chat completions API. It is used when no webhook endpoint is
// configured: the generation runs in-process and its result is applied
// through the same completion path a webhook callback would take.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/careerforge/pitch-api/internal/config"
	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
)

const systemPrompt = "You are an expert career coach. Write a compelling, " +
	"first-person elevator pitch for the candidate described by the user. " +
	"Weave the provided STAR examples into a flowing narrative. Keep it " +
	"under 200 words and return only the pitch text."

// completer produces the pitch text for a wizard input. The production
// implementation calls the chat completions API; tests substitute a fake.
type completer interface {
	Complete(ctx context.Context, input domain.PitchInput) (string, error)
}

// applier records a finished generation. Satisfied by
// *reconcile.Reconciler.
type applier interface {
	Apply(ctx context.Context, taskID uuid.UUID, payload string) (bool, error)
}

// Provider runs generations in-process. Submit returns as soon as the
// generation has been started; the result lands asynchronously through
// the applier, mirroring the webhook callback contract.
type Provider struct {
	completer completer
	applier   applier
	timeout   time.Duration
	logger    *slog.Logger
}

// NewProvider creates an in-process provider from the provider
// configuration. The API key is required; its absence is a
// configuration error surfaced at startup.
func NewProvider(cfg config.ProviderConfig, results applier, log *slog.Logger) (*Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is not set", dispatch.ErrInvalidConfig)
	}
	if results == nil {
		return nil, errors.New("applier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Provider{
		completer: &chatCompleter{
			model: cfg.OpenAIModel,
			opts:  []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)},
		},
		applier: results,
		timeout: cfg.Timeout(),
		logger:  log.With("component", "openai_provider"),
	}, nil
}

// Submit starts the generation in the background and returns. The
// caller's context only covers the hand-off; the generation itself runs
// under its own deadline so an accepted job survives the request that
// started it.
func (p *Provider) Submit(ctx context.Context, req dispatch.SubmitRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	go p.run(req)
	return nil
}

func (p *Provider) run(req dispatch.SubmitRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	result, err := p.completer.Complete(ctx, req.Input)
	if err != nil {
		p.logger.Error("generation failed",
			"task_id", req.TaskID.String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return
	}

	applied, err := p.applier.Apply(ctx, req.TaskID, result)
	if err != nil {
		p.logger.Error("failed to record generation result",
			"task_id", req.TaskID.String(),
			"error", err)
		return
	}

	p.logger.Info("generation finished",
		"task_id", req.TaskID.String(),
		"applied", applied,
		"duration_ms", time.Since(start).Milliseconds())
}

// chatCompleter calls the chat completions API.
type chatCompleter struct {
	model string
	opts  []option.RequestOption
}

func (c *chatCompleter) Complete(ctx context.Context, input domain.PitchInput) (string, error) {
	client := sdk.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(systemPrompt),
			sdk.UserMessage(BuildPrompt(input)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt renders the wizard input as the user message for the
// completion request.
func BuildPrompt(input domain.PitchInput) string {
	var b strings.Builder

	if input.Role != "" {
		fmt.Fprintf(&b, "Target role: %s\n", input.Role)
	}
	if input.Experience != "" {
		fmt.Fprintf(&b, "Background: %s\n", input.Experience)
	}
	if input.Guidance != "" {
		fmt.Fprintf(&b, "Additional guidance: %s\n", input.Guidance)
	}

	for i, ex := range input.Examples {
		fmt.Fprintf(&b, "\nExample %d (STAR):\n", i+1)
		if ex.Situation != "" {
			fmt.Fprintf(&b, "  Situation: %s\n", ex.Situation)
		}
		if ex.Task != "" {
			fmt.Fprintf(&b, "  Task: %s\n", ex.Task)
		}
		if ex.Action != "" {
			fmt.Fprintf(&b, "  Action: %s\n", ex.Action)
		}
		if ex.Result != "" {
			fmt.Fprintf(&b, "  Result: %s\n", ex.Result)
		}
	}

	return b.String()
}
