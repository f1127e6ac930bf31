package awin

import "testing"

func TestFormatURL_ExpandsPlaceholders(t *testing.T) {
	got := FormatURL("https://api.example.com/{publisherId}/feed/{feedId}", map[string]string{
		"publisherId": "1001",
		"feedId":      "42",
	})
	want := "https://api.example.com/1001/feed/42"

	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFormatURL_LeavesUnresolvedVerbatim(t *testing.T) {
	got := FormatURL("https://api.example.com/{publisherId}/feed/{feedId}", map[string]string{
		"publisherId": "1001",
	})

	if got != "https://api.example.com/1001/feed/{feedId}" {
		t.Fatalf("expected unresolved placeholder kept, got %s", got)
	}
	if IsFullyResolved(got) {
		t.Fatalf("expected IsFullyResolved to be false for %s", got)
	}
}

func TestIsFullyResolved(t *testing.T) {
	if !IsFullyResolved("https://api.example.com/1001/feed/42") {
		t.Fatalf("expected fully resolved URL to pass")
	}
	if IsFullyResolved("https://api.example.com/{token}") {
		t.Fatalf("expected placeholder URL to fail")
	}
}
