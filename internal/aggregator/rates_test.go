package aggregator

import (
	"math"
	"testing"
)

func TestRateTableDefaults(t *testing.T) {
	t.Parallel()

	table := NewRateTable()
	if table.Rate("USD") != 1 {
		t.Fatal("USD must always be 1")
	}
	if table.Rate("XYZ") != 1 {
		t.Fatal("unknown codes must behave as USD")
	}
	if got := table.Convert(100, "USD", "USD"); got != 100 {
		t.Fatalf("identity conversion changed the amount: %f", got)
	}
}

func TestRateTableReplace(t *testing.T) {
	t.Parallel()

	table := NewRateTable()
	table.Replace(map[string]float64{"aud": 1.5, "EUR": 0.9, "BAD": -2})

	if table.Rate("AUD") != 1.5 {
		t.Fatalf("expected normalized code lookup, got %f", table.Rate("AUD"))
	}
	if table.Rate("BAD") != 1 {
		t.Fatal("non-positive rates must be dropped")
	}
	if table.Rate("USD") != 1 {
		t.Fatal("replace must keep USD pinned to 1")
	}
	// EUR, AUD, USD
	if table.Len() != 3 {
		t.Fatalf("unexpected table size: %d", table.Len())
	}

	// Wholesale replace: codes absent from the new set disappear.
	table.Replace(map[string]float64{"GBP": 0.8})
	if table.Rate("AUD") != 1 {
		t.Fatal("stale code should be gone after replace")
	}
}

func TestRateTableConvert(t *testing.T) {
	t.Parallel()

	table := NewRateTable()
	table.Replace(map[string]float64{"AUD": 1.5, "EUR": 0.9})

	if got := table.Convert(100, "USD", "AUD"); got != 150 {
		t.Fatalf("expected 150, got %f", got)
	}
	if got := table.Convert(150, "AUD", "USD"); got != 100 {
		t.Fatalf("expected 100, got %f", got)
	}
	got := table.Convert(100, "AUD", "EUR")
	if math.Abs(got-60) > 1e-9 {
		t.Fatalf("expected 60, got %f", got)
	}
}
