package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	recipedomain "github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

const tracerName = "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/observability"

// Service decorates the recipe service with tracing, logging, and metrics.
type Service struct {
	inner   recipeports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core recipe service.
func New(inner recipeports.Service, opts ...Option) recipeports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListRecipes(ctx context.Context) ([]*recipedomain.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.ListRecipes")
	defer span.End()

	result, err := s.inner.ListRecipes(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list recipes")
	}
	span.SetAttributes(attribute.Int("recipe.count", len(result)))
	s.logDebug(ctx, "recipes listed", slog.Int("recipe.count", len(result)))
	return result, nil
}

func (s *Service) GetRecipe(ctx context.Context, id int64) (*recipedomain.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.GetRecipe", trace.WithAttributes(attribute.Int64("recipe.id", id)))
	defer span.End()

	result, err := s.inner.GetRecipe(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load recipe", slog.Int64("recipe.id", id))
	}
	s.logDebug(ctx, "recipe loaded", slog.Int64("recipe.id", result.ID))
	return result, nil
}

func (s *Service) CreateRecipe(ctx context.Context, input recipeports.CreateRecipeInput) (*recipedomain.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.CreateRecipe",
		trace.WithAttributes(
			attribute.Int("recipe.ingredients", len(input.Draft.Ingredients)),
			attribute.Bool("recipe.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "creating recipe", slog.Int("recipe.ingredients", len(input.Draft.Ingredients)))
	result, err := s.inner.CreateRecipe(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create recipe")
	}
	span.SetAttributes(attribute.Int64("recipe.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "recipe created", slog.Int64("recipe.id", result.ID))
	return result, nil
}

func (s *Service) UpdateRecipe(ctx context.Context, id int64, draft recipedomain.Draft) (*recipedomain.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeService.UpdateRecipe",
		trace.WithAttributes(attribute.Int64("recipe.id", id), attribute.Int("recipe.ingredients", len(draft.Ingredients))))
	defer span.End()

	s.logInfo(ctx, "updating recipe", slog.Int64("recipe.id", id))
	result, err := s.inner.UpdateRecipe(ctx, id, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update recipe", slog.Int64("recipe.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "recipe updated", slog.Int64("recipe.id", result.ID))
	return result, nil
}

func (s *Service) DeleteRecipe(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "RecipeService.DeleteRecipe", trace.WithAttributes(attribute.Int64("recipe.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting recipe", slog.Int64("recipe.id", id))
	if err := s.inner.DeleteRecipe(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete recipe", slog.Int64("recipe.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "recipe deleted", slog.Int64("recipe.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("recipes.service.created", metric.WithDescription("Number of recipes created"))
	updated, _ := m.Int64Counter("recipes.service.updated", metric.WithDescription("Number of recipes updated"))
	deleted, _ := m.Int64Counter("recipes.service.deleted", metric.WithDescription("Number of recipe delete calls"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.updated != nil {
		m.updated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

var _ recipeports.Service = (*Service)(nil)
