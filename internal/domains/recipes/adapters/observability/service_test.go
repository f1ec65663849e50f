package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	recipememory "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/memory"
	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness(t *testing.T) harness {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}

	svc := New(
		recipeapp.NewService(recipememory.NewRepository()),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_RecordsSpansAndCounters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateRecipe(ctx, ports.CreateRecipeInput{Draft: domain.NewDraft("Pasta", []string{"tomato"})})
	require.NoError(t, err)
	_, err = h.svc.UpdateRecipe(ctx, created.ID, domain.NewDraft("Pasta al pomodoro", []string{"tomato"}))
	require.NoError(t, err)
	_, err = h.svc.ListRecipes(ctx)
	require.NoError(t, err)
	require.NoError(t, h.svc.DeleteRecipe(ctx, created.ID))

	var names []string
	for _, span := range h.spans.Ended() {
		names = append(names, span.Name())
	}
	require.Equal(t, []string{
		"RecipeService.CreateRecipe",
		"RecipeService.UpdateRecipe",
		"RecipeService.ListRecipes",
		"RecipeService.DeleteRecipe",
	}, names)

	require.Equal(t, int64(1), h.counter(t, "recipes.service.created"))
	require.Equal(t, int64(1), h.counter(t, "recipes.service.updated"))
	require.Equal(t, int64(1), h.counter(t, "recipes.service.deleted"))
	require.Contains(t, h.logs.String(), "recipe created")
}

func TestService_ErrorsMarkSpanAndPassThrough(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GetRecipe(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = h.svc.CreateRecipe(context.Background(), ports.CreateRecipeInput{Draft: domain.NewDraft(" ", nil)})
	require.ErrorIs(t, err, recipeapp.ErrInvalidInput)

	ended := h.spans.Ended()
	require.Len(t, ended, 2)
	for _, span := range ended {
		require.Equal(t, codes.Error, span.Status().Code)
	}
	require.Equal(t, int64(0), h.counter(t, "recipes.service.created"))
	require.Contains(t, h.logs.String(), "failed to load recipe")
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(recipeapp.NewService(recipememory.NewRepository()), nil, WithTracer(nil))
	created, err := svc.CreateRecipe(context.Background(), ports.CreateRecipeInput{Draft: domain.NewDraft("Rice", nil)})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}
