package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/core"
)

// aiResponse is the fixed JSON schema the prompt constrains the model to.
// Responses that don't conform are treated as action=unknown.
type aiResponse struct {
	Action     string         `json:"action"`
	Params     map[string]any `json:"params"`
	Confidence float64        `json:"confidence"`
	Priority   int            `json:"priority"`
}

// AIConfig configures the AI classifier.
type AIConfig struct {
	Model                string
	ConfidenceFloor      float64       // below this, treated as unknown
	DebounceWindow       time.Duration // default 250ms
	MaxRequestsPerMinute int           // 0 = unlimited
}

// AI is the AI-backed Classifier implementation. It builds a structured
// prompt enumerating enabled actions and the AppContext, constrains the
// model's response to the fixed JSON schema, and enforces a debounce
// window plus a requests-per-minute ceiling.
type AI struct {
	client  anthropic.Client
	cfg     AIConfig
	limiter *rate.Limiter

	mu          sync.Mutex
	lastRequest time.Time
}

// NewAI constructs an AI classifier bound to the given API key.
func NewAI(apiKey string, cfg AIConfig) *AI {
	if cfg.DebounceWindow == 0 {
		cfg.DebounceWindow = 250 * time.Millisecond
	}

	var limiter *rate.Limiter
	if cfg.MaxRequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.MaxRequestsPerMinute)/60.0), cfg.MaxRequestsPerMinute)
	}

	return &AI{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		cfg:     cfg,
		limiter: limiter,
	}
}

// Classify implements Classifier. A call arriving within the debounce
// window of the previous call returns (nil, nil) without contacting the
// model; the earlier call proceeds. Requests beyond the per-minute ceiling
// are shed the same way. An unknown action, a response that does not
// parse, or a confidence below the floor also yields (nil, nil).
func (a *AI) Classify(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
	if !a.admit() {
		return nil, nil
	}

	if a.limiter != nil && !a.limiter.Allow() {
		return nil, nil
	}

	prompt := buildPrompt(utterance, enabledActions, appCtx)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, core.New("classifier.ai.classify", core.KindClassify, err)
	}

	raw := extractText(msg)
	var resp aiResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, nil
	}

	if resp.Action == "" || resp.Action == "unknown" {
		return nil, nil
	}
	if resp.Confidence < a.cfg.ConfidenceFloor {
		return nil, nil
	}

	return &ClassifiedTask{
		Action:     resp.Action,
		Content:    utterance,
		Params:     resp.Params,
		Priority:   resp.Priority,
		Confidence: resp.Confidence,
	}, nil
}

// admit enforces the debounce window: returns false if another call has
// arrived since within cfg.DebounceWindow.
func (a *AI) admit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	if !a.lastRequest.IsZero() && now.Sub(a.lastRequest) < a.cfg.DebounceWindow {
		a.lastRequest = now
		return false
	}
	a.lastRequest = now
	return true
}

func extractText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// promptTemplate is the versioned system prompt. Data, not code: action
// list, context block, and conversation-history block are substituted
// positionally so the wire format can be externalized without touching
// call sites.
const promptTemplate = `v1
You classify a spoken utterance into exactly one named action.

Actions:
%s

Context:
%s

Respond with JSON only: {"action": string, "params": object, "confidence": number, "priority": number}.
If no action applies, respond {"action": "unknown", "params": {}, "confidence": 0, "priority": 1}.

Utterance: %s`

func buildPrompt(utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) string {
	var actionsBlock strings.Builder
	for _, a := range enabledActions {
		fmt.Fprintf(&actionsBlock, "- %s: %s (examples: %s)\n", a.Name, a.Description, strings.Join(a.Examples, "; "))
	}

	var ctxBlock strings.Builder
	if appCtx.ActiveDocument != "" {
		fmt.Fprintf(&ctxBlock, "active document: %s\n", appCtx.ActiveDocument)
	}
	if appCtx.SelectedText != "" {
		fmt.Fprintf(&ctxBlock, "selected text: %s\n", appCtx.SelectedText)
	}
	if appCtx.CurrentUser != "" {
		fmt.Fprintf(&ctxBlock, "user: %s\n", appCtx.CurrentUser)
	}
	if len(appCtx.ConversationHistory) > 0 {
		fmt.Fprintf(&ctxBlock, "history: %s\n", strings.Join(appCtx.ConversationHistory, " | "))
	}

	return fmt.Sprintf(promptTemplate, actionsBlock.String(), ctxBlock.String(), utterance)
}
