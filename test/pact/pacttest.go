//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "recipes-api"
	ConsumerName = "recipe-portal"

	StateRecipesBaseline = "recipes baseline"
	StateRecipeExists    = "recipe with id 101 exists"
	StateRecipeMissing   = "no recipe with id 404"
)

const (
	ExistingRecipeID int64 = 101
	MissingRecipeID  int64 = 404
)

const (
	exampleDescription = "Pact Pasta"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the recipe portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDescription is the description used for seeded and requested recipes.
func ExampleDescription() string {
	return exampleDescription
}

// ExampleIngredients is the ingredient list used for seeded and requested recipes.
func ExampleIngredients() []string {
	return []string{"pasta", "tomato sauce"}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
