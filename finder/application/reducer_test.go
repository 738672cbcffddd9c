package application

import (
	"testing"

	"domain-finder/finder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pr(name, label string, out domain.ProbeOutcome) domain.ProbeResult {
	return domain.ProbeResult{Query: domain.DomainQuery{Name: name, Label: label}, Outcome: out}
}

func TestReduce_DropsFailures(t *testing.T) {
	results := []domain.ProbeResult{
		pr("a", "l1", domain.Registered()),
		pr("a", "l2", domain.Unregistered()),
		pr("b", "l1", domain.Failed("timeout")),
		pr("b", "l2", domain.Unregistered()),
	}

	red := Reduce(results, ReduceOptions{})

	require.Len(t, red.Results, 3)
	require.Len(t, red.Dropped, 1)
	assert.Equal(t, "b.l1", red.Dropped[0].Query.String())
	for _, r := range red.Results {
		assert.False(t, r.Name == "b" && r.Label == "l1", "failed pair must be absent")
	}
}

func TestReduce_OnlyUnregistered(t *testing.T) {
	results := []domain.ProbeResult{
		pr("a", "com", domain.Registered()),
		pr("a", "org", domain.Unregistered()),
		pr("b", "com", domain.Failed("x")),
	}

	red := Reduce(results, ReduceOptions{OnlyUnregistered: true})

	assert.Equal(t, []domain.DomainResult{{Name: "a", Label: "org", Registered: false}}, red.Results)
	assert.Len(t, red.Dropped, 1)
}

func TestReduce_PreservesOrderAndDuplicates(t *testing.T) {
	results := []domain.ProbeResult{
		pr("z", "com", domain.Unregistered()),
		pr("a", "com", domain.Registered()),
		pr("z", "com", domain.Unregistered()),
	}

	red := Reduce(results, ReduceOptions{})

	assert.Equal(t, []domain.DomainResult{
		{Name: "z", Label: "com"},
		{Name: "a", Label: "com", Registered: true},
		{Name: "z", Label: "com"},
	}, red.Results)
}

func TestDropFailures(t *testing.T) {
	kept, dropped := DropFailures([]domain.ProbeResult{
		pr("a", "com", domain.Failed("x")),
		pr("b", "com", domain.Registered()),
	})
	assert.Len(t, kept, 1)
	assert.Len(t, dropped, 1)

	kept, dropped = DropFailures(nil)
	assert.Empty(t, kept)
	assert.Empty(t, dropped)
}

func TestReduce_OnlyUnregisteredNeverReturnsRegistered(t *testing.T) {
	outcomes := []domain.ProbeOutcome{domain.Registered(), domain.Unregistered(), domain.Failed("x")}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		results := make([]domain.ProbeResult, n)
		failed := 0
		for i := range results {
			out := rapid.SampledFrom(outcomes).Draw(t, "outcome")
			if out.IsFailed() {
				failed++
			}
			results[i] = pr(rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "name"), "com", out)
		}

		red := Reduce(results, ReduceOptions{OnlyUnregistered: true})
		for _, r := range red.Results {
			if r.Registered {
				t.Fatalf("registered entry leaked: %+v", r)
			}
		}
		if len(red.Dropped) != failed {
			t.Fatalf("expected %d dropped, got %d", failed, len(red.Dropped))
		}
	})
}
