package simulate

import (
	"strings"
	"testing"
)

func TestStartOutcomeDeterministicBySeed(t *testing.T) {
	a := NewRandomSource(DefaultRates(), 42)
	b := NewRandomSource(DefaultRates(), 42)

	for i := 0; i < 20; i++ {
		okA, outA := a.StartOutcome("HMS-API")
		okB, outB := b.StartOutcome("HMS-API")
		if okA != okB || outA != outB {
			t.Fatalf("same seed diverged at %d: (%v, %q) vs (%v, %q)", i, okA, outA, okB, outB)
		}
	}
}

func TestStartOutcomeExtremes(t *testing.T) {
	always := NewRandomSource(Rates{StartSuccess: 1, TestSuccess: 1}, 1)
	for i := 0; i < 50; i++ {
		ok, output := always.StartOutcome("HMS-API")
		if !ok {
			t.Fatal("StartSuccess=1 produced a failure")
		}
		if !strings.Contains(output, "HMS-API started successfully on port ") {
			t.Fatalf("output = %q", output)
		}
	}

	never := NewRandomSource(Rates{}, 1)
	for i := 0; i < 50; i++ {
		ok, output := never.StartOutcome("HMS-API")
		if ok {
			t.Fatal("StartSuccess=0 produced a success")
		}
		if !strings.HasPrefix(output, "ERROR: ") {
			t.Fatalf("output = %q", output)
		}
	}
}

func TestTestOutcomeShape(t *testing.T) {
	pass := NewRandomSource(Rates{TestSuccess: 1}, 7)
	for i := 0; i < 50; i++ {
		ok, results := pass.TestOutcome("HMS-API")
		if !ok {
			t.Fatal("TestSuccess=1 produced a failure")
		}
		if results.Failed != 0 {
			t.Fatalf("passing run has failures: %+v", results)
		}
		if results.Passed < 10 || results.Passed > 50 {
			t.Fatalf("Passed = %d out of range", results.Passed)
		}
	}

	fail := NewRandomSource(Rates{}, 7)
	for i := 0; i < 50; i++ {
		ok, results := fail.TestOutcome("HMS-API")
		if ok {
			t.Fatal("TestSuccess=0 produced a success")
		}
		if results.Failed < 1 || results.Failed > 10 {
			t.Fatalf("Failed = %d out of range", results.Failed)
		}
		if results.Passed < 0 {
			t.Fatalf("Passed = %d negative", results.Passed)
		}
		if len(results.FailureDetails) != results.Failed {
			t.Fatalf("FailureDetails = %d entries for %d failures", len(results.FailureDetails), results.Failed)
		}
		for _, detail := range results.FailureDetails {
			if !strings.HasPrefix(detail, "Test failure in hms-api/tests/test_") {
				t.Fatalf("detail = %q", detail)
			}
		}
	}
}
