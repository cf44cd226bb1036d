package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/credit-insights/pkg/agenta"
)

type mockManager struct {
	mock.Mock
}

func (m *mockManager) FetchDeployment(ctx context.Context, appSlug, environment string) (*agenta.PromptTemplate, error) {
	args := m.Called(ctx, appSlug, environment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agenta.PromptTemplate), args.Error(1)
}

func TestSystemPrompt_ManagedTemplate(t *testing.T) {
	ctx := context.Background()
	manager := &mockManager{}
	manager.On("FetchDeployment", ctx, "credit-chat", "production").
		Return(&agenta.PromptTemplate{SystemPrompt: "Managed for {{customer_id}}: {{report}}"}, nil)

	b := NewBuilder(WithManager(manager, "credit-chat", "production"))
	out := b.SystemPrompt(ctx, "cust-1", "REPORT BODY")

	assert.Equal(t, "Managed for cust-1: REPORT BODY", out)
	manager.AssertExpectations(t)
}

func TestSystemPrompt_FallsBackToLocalOnManagerError(t *testing.T) {
	ctx := context.Background()
	manager := &mockManager{}
	manager.On("FetchDeployment", ctx, "credit-chat", "production").
		Return(nil, assert.AnError)

	b := NewBuilder(
		WithManager(manager, "credit-chat", "production"),
		WithLocalTemplate("Local: {{report}}"),
	)
	out := b.SystemPrompt(ctx, "cust-1", "R")

	assert.Equal(t, "Local: R", out)
}

func TestSystemPrompt_BuiltInDefault(t *testing.T) {
	b := NewBuilder()
	out := b.SystemPrompt(context.Background(), "cust-9", "ANALYSIS")

	assert.Contains(t, out, "customer cust-9")
	assert.Contains(t, out, "ANALYSIS")
	assert.NotContains(t, out, "{{")
}

func TestSystemPrompt_BlankLocalTemplateIgnored(t *testing.T) {
	b := NewBuilder(WithLocalTemplate("   "))
	out := b.SystemPrompt(context.Background(), "c", "r")
	assert.Contains(t, out, "credit analyst assistant")
}
