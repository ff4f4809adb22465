// Package simulate produces fake component start and test outcomes for
// exercising the status tracker without real components. The outcome
// source is an interface so tests can substitute deterministic fakes.
package simulate

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/hms-platform/hmstrack/status"
)

// OutcomeSource produces start and test outcomes for a component.
type OutcomeSource interface {
	// StartOutcome returns whether a simulated start succeeded and the
	// captured output.
	StartOutcome(component string) (success bool, output string)

	// TestOutcome returns whether a simulated test run passed and its
	// results.
	TestOutcome(component string) (success bool, results *status.TestResults)
}

// Rates configures the random source's success probabilities.
type Rates struct {
	// StartSuccess is the probability a simulated start succeeds.
	StartSuccess float64

	// TestSuccess is the probability a simulated test run passes.
	TestSuccess float64
}

// DefaultRates match the behavior the tracker was tuned against: starts
// succeed 90% of the time, test runs pass 80%.
func DefaultRates() Rates {
	return Rates{StartSuccess: 0.9, TestSuccess: 0.8}
}

// RandomSource generates randomized outcomes with plausible output text.
type RandomSource struct {
	rates Rates
	rng   *rand.Rand
}

// NewRandomSource creates a source with the given rates and seed.
func NewRandomSource(rates Rates, seed int64) *RandomSource {
	return &RandomSource{
		rates: rates,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// StartOutcome simulates a component start.
func (s *RandomSource) StartOutcome(component string) (bool, string) {
	if s.rng.Float64() < s.rates.StartSuccess {
		return true, fmt.Sprintf("%s started successfully on port %d", component, s.rng.Intn(6000)+3000)
	}

	failures := []string{
		fmt.Sprintf("ERROR: Could not connect to dependency %s", pick(s.rng, "database", "redis", "elasticsearch", "HMS-SYS")),
		fmt.Sprintf("ERROR: Port %d already in use", s.rng.Intn(6000)+3000),
		fmt.Sprintf("ERROR: Configuration file not found: %s/config/production.json", strings.ToLower(component)),
		fmt.Sprintf("ERROR: Missing environment variable: %s_API_KEY", strings.ReplaceAll(component, "-", "_")),
	}
	return false, failures[s.rng.Intn(len(failures))]
}

// TestOutcome simulates a test run.
func (s *RandomSource) TestOutcome(component string) (bool, *status.TestResults) {
	if s.rng.Float64() < s.rates.TestSuccess {
		return true, &status.TestResults{
			Passed:   s.rng.Intn(41) + 10,
			Skipped:  s.rng.Intn(6),
			Duration: s.rng.Float64()*9.5 + 0.5,
		}
	}

	total := s.rng.Intn(41) + 15
	failed := s.rng.Intn(min(total, 10)) + 1
	details := make([]string, 0, failed)
	for i := 0; i < failed; i++ {
		suite := pick(s.rng, "api", "core", "integration", "models")
		details = append(details, fmt.Sprintf("Test failure in %s/tests/test_%s.py", strings.ToLower(component), suite))
	}

	return false, &status.TestResults{
		Passed:         total - failed,
		Failed:         failed,
		Skipped:        s.rng.Intn(6),
		Duration:       s.rng.Float64()*9.5 + 0.5,
		FailureDetails: details,
	}
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
