package checkout

import (
	"context"
	"strings"
	"testing"
)

type fixedSettings struct {
	minimum int64
}

func (f fixedSettings) MinimumOrder(_ context.Context) (int64, error) {
	return f.minimum, nil
}

func TestEvaluateBelowMinimumBlocks(t *testing.T) {
	svc := &Service{Settings: fixedSettings{minimum: 5_000}}

	gate, err := svc.Evaluate(context.Background(), 3_000, "NZ")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if gate.Allowed {
		t.Fatal("cart below the minimum must be blocked")
	}
	if gate.Shortfall != 2_000 {
		t.Fatalf("expected shortfall 2000, got %d", gate.Shortfall)
	}
	if !strings.Contains(gate.Message, "New Zealand") {
		t.Fatalf("message should carry the country label: %q", gate.Message)
	}
	if !strings.Contains(gate.Message, "$50.00") || !strings.Contains(gate.Message, "$20.00") {
		t.Fatalf("message should show the minimum and the shortfall: %q", gate.Message)
	}
}

func TestEvaluateAtMinimumAllows(t *testing.T) {
	svc := &Service{Settings: fixedSettings{minimum: 5_000}}

	gate, err := svc.Evaluate(context.Background(), 5_000, "NZ")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !gate.Allowed {
		t.Fatal("a total exactly at the minimum must be allowed")
	}
	if gate.Shortfall != 0 || gate.Message != "" {
		t.Fatalf("allowed gate should carry no shortfall or message: %+v", gate)
	}
}

func TestEvaluateAustraliaLabel(t *testing.T) {
	svc := &Service{Settings: fixedSettings{minimum: 5_000}}

	gate, err := svc.Evaluate(context.Background(), 100, "AU")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(gate.Message, "Australia") {
		t.Fatalf("expected Australia label, got %q", gate.Message)
	}
}

func TestEvaluateUnknownCountryFallsBackToCode(t *testing.T) {
	svc := &Service{Settings: fixedSettings{minimum: 5_000}}

	gate, err := svc.Evaluate(context.Background(), 100, "GB")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(gate.Message, "GB") {
		t.Fatalf("unlabelled country should fall back to its code: %q", gate.Message)
	}
}
