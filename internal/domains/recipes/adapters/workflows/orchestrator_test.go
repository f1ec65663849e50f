package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	recipememory "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/memory"
	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

func TestInlineRecipeWorkflows_DelegatesToService(t *testing.T) {
	svc := recipeapp.NewService(recipememory.NewRepository())
	orchestrator := NewInlineRecipeWorkflows(svc)

	recipe, err := orchestrator.CreateRecipe(context.Background(), ports.CreateRecipeInput{Draft: domain.NewDraft("Noodles", []string{"noodles"})})
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipe.ID)

	_, err = orchestrator.CreateRecipe(context.Background(), ports.CreateRecipeInput{Draft: domain.NewDraft("", nil)})
	assert.ErrorIs(t, err, recipeapp.ErrInvalidInput)
}

func TestOrchestrators_NotConfigured(t *testing.T) {
	var inline *InlineRecipeWorkflows
	_, err := inline.CreateRecipe(context.Background(), ports.CreateRecipeInput{})
	require.Error(t, err)

	_, err = NewTemporalRecipeWorkflows(nil).CreateRecipe(context.Background(), ports.CreateRecipeInput{Draft: domain.NewDraft("x", nil)})
	require.Error(t, err)
}

func TestBuildRecipeCreationWorkflowID(t *testing.T) {
	keyed := buildRecipeCreationWorkflowID(ports.CreateRecipeInput{IdempotencyKey: " key-1 "}, "trace")
	assert.Equal(t, keyed, buildRecipeCreationWorkflowID(ports.CreateRecipeInput{IdempotencyKey: "key-1"}, "other"))
	assert.True(t, strings.HasPrefix(keyed, "recipe-creation-idem-"))
	assert.Len(t, strings.TrimPrefix(keyed, "recipe-creation-idem-"), 16)

	unkeyed := buildRecipeCreationWorkflowID(ports.CreateRecipeInput{}, "trace")
	assert.True(t, strings.HasPrefix(unkeyed, "recipe-creation-trace-"))
}

func TestWithWorkflowKey(t *testing.T) {
	draft := domain.NewDraft("Pasta", nil)

	keyless := withWorkflowKey(ports.CreateRecipeInput{Draft: draft}, "recipe-creation-trace-1")
	assert.Equal(t, "recipe-creation-trace-1", keyless.IdempotencyKey)
	assert.Equal(t, draft, keyless.Draft)

	blank := withWorkflowKey(ports.CreateRecipeInput{Draft: draft, IdempotencyKey: "  "}, "recipe-creation-trace-2")
	assert.Equal(t, "recipe-creation-trace-2", blank.IdempotencyKey)

	keyed := withWorkflowKey(ports.CreateRecipeInput{Draft: draft, IdempotencyKey: "k1"}, "recipe-creation-idem-abc")
	assert.Equal(t, "k1", keyed.IdempotencyKey)
}

func TestWorkflowTraceComponent(t *testing.T) {
	assert.Equal(t, "untraced", workflowTraceComponent(context.Background()))

	traceID := oteltrace.TraceID{0x01, 0x02}
	spanCtx := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{TraceID: traceID, SpanID: oteltrace.SpanID{0x03}})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), spanCtx)
	assert.Equal(t, traceID.String(), workflowTraceComponent(ctx))
}
