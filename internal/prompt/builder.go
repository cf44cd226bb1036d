// Package prompt assembles the system prompt for the chat surface from
// a customer's temporal credit analysis. Prompt text resolves through a
// cascade: managed template from Agenta, then a locally configured
// template, then a built-in default. Template failures fall through
// with a warning; they never fail a chat request.
package prompt

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/pkg/agenta"
)

// defaultSystemPrompt is the last-resort template. Placeholders use the
// {{name}} form the managed templates use.
const defaultSystemPrompt = `You are a credit analyst assistant for customer {{customer_id}}. Answer questions using only the credit report analysis below. If the analysis shows no data, say that no credit data is available for this customer. Do not invent figures.

{{report}}`

// Builder resolves and renders the system prompt. A nil manager
// disables the managed-template tier.
type Builder struct {
	manager     agenta.Client
	appSlug     string
	environment string
	localTmpl   string
}

// Option configures a Builder.
type Option func(*Builder)

// WithManager enables managed templates fetched from Agenta.
func WithManager(client agenta.Client, appSlug, environment string) Option {
	return func(b *Builder) {
		b.manager = client
		b.appSlug = appSlug
		b.environment = environment
	}
}

// WithLocalTemplate sets the configured local template used when no
// managed template is available.
func WithLocalTemplate(tmpl string) Option {
	return func(b *Builder) {
		b.localTmpl = tmpl
	}
}

// NewBuilder creates a prompt builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// SystemPrompt renders the system prompt for one request. report is the
// formatted analysis text for the customer.
func (b *Builder) SystemPrompt(ctx context.Context, customerID, report string) string {
	tmpl := b.resolveTemplate(ctx)

	out := strings.ReplaceAll(tmpl, "{{customer_id}}", customerID)
	out = strings.ReplaceAll(out, "{{report}}", report)
	return out
}

// resolveTemplate walks the cascade and returns the first usable
// template text.
func (b *Builder) resolveTemplate(ctx context.Context) string {
	if b.manager != nil {
		deployed, err := b.manager.FetchDeployment(ctx, b.appSlug, b.environment)
		if err != nil {
			zap.L().Warn("prompt: managed template fetch failed, falling back",
				zap.String("app", b.appSlug),
				zap.String("environment", b.environment),
				zap.Error(err),
			)
		} else {
			return deployed.SystemPrompt
		}
	}

	if strings.TrimSpace(b.localTmpl) != "" {
		return b.localTmpl
	}

	return defaultSystemPrompt
}
