package currency

import "testing"

func TestDisplayAUDOverride(t *testing.T) {
	// 10 NZD at 0.93 → AU$9.30, rendered with the AU$ prefix, not "A$".
	got := Display(1_000, "AUD")
	if got != "AU$9.30" {
		t.Fatalf("expected AU$9.30, got %q", got)
	}
}

func TestDisplayBaseCurrency(t *testing.T) {
	got := Display(4_550, "NZD")
	if got != "$45.50" {
		t.Fatalf("expected $45.50, got %q", got)
	}
}

func TestDisplayGrouping(t *testing.T) {
	got := Display(123_456_700, "NZD")
	if got != "$1,234,567.00" {
		t.Fatalf("expected grouped output, got %q", got)
	}
}

func TestDisplayUnknownCurrency(t *testing.T) {
	if got := Display(1_000, "GBP"); got != Unknown {
		t.Fatalf("expected %q for unsupported currency, got %q", Unknown, got)
	}
	if got := Display(-5, "NZD"); got != Unknown {
		t.Fatalf("expected %q for negative amount, got %q", Unknown, got)
	}
}

func TestConvertRounds(t *testing.T) {
	// 999 cents NZD * 0.93 = 929.07 → 929
	got, ok := Convert(999, "aud")
	if !ok || got != 929 {
		t.Fatalf("expected 929, got %d (ok=%v)", got, ok)
	}
}
