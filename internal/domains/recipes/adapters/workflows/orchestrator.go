package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	recipeactivities "github.com/carsmart/recipes-api/internal/platform/temporal/activities/recipes"
	recipeworkflows "github.com/carsmart/recipes-api/internal/platform/temporal/workflows/recipes"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalRecipeWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineRecipeWorkflows)(nil)
)

// TemporalRecipeWorkflows starts recipe workflows on a Temporal cluster.
type TemporalRecipeWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalRecipeWorkflows wires a Temporal client into the orchestrator.
func NewTemporalRecipeWorkflows(c client.Client) *TemporalRecipeWorkflows {
	return &TemporalRecipeWorkflows{client: c, taskQueue: recipeworkflows.RecipeCreationTaskQueue}
}

// CreateRecipe starts the Temporal workflow that persists a recipe and waits for its result.
func (o *TemporalRecipeWorkflows) CreateRecipe(ctx context.Context, input ports.CreateRecipeInput) (*domain.Recipe, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal recipe workflows not configured")
	}
	if err := input.Draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", recipeapp.ErrInvalidInput, err)
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildRecipeCreationWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		recipeworkflows.RecipeCreationWorkflowName,
		recipeworkflows.RecipeCreationWorkflowInput{Command: withWorkflowKey(input, workflowID), TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var recipe domain.Recipe
	if err := run.Get(ctx, &recipe); err != nil {
		return nil, recipeactivities.TranslateError(err)
	}
	return &recipe, nil
}

// InlineRecipeWorkflows executes the service directly without Temporal.
type InlineRecipeWorkflows struct {
	service ports.Service
}

// NewInlineRecipeWorkflows wraps the recipes service for synchronous execution.
func NewInlineRecipeWorkflows(service ports.Service) *InlineRecipeWorkflows {
	return &InlineRecipeWorkflows{service: service}
}

// CreateRecipe delegates to the application service.
func (o *InlineRecipeWorkflows) CreateRecipe(ctx context.Context, input ports.CreateRecipeInput) (*domain.Recipe, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline recipe workflows not configured")
	}
	return o.service.CreateRecipe(ctx, input)
}

func buildRecipeCreationWorkflowID(input ports.CreateRecipeInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("recipe-creation-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("recipe-creation-%s-%d", traceComponent, time.Now().UnixNano())
}

// withWorkflowKey keys keyless commands by their workflow id, so activity retries replay
// the recipe written by an attempt whose acknowledgement was lost.
func withWorkflowKey(input ports.CreateRecipeInput, workflowID string) ports.CreateRecipeInput {
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		input.IdempotencyKey = workflowID
	}
	return input
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable and deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return "untraced"
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
