package normalize

import (
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "case and spaces", raw: "Over 60", want: "over60"},
		{name: "newlines", raw: "Number\nOf X", want: "numberofx"},
		{name: "tabs and nbsp", raw: "Clients\t Seen", want: "clientsseen"},
		{name: "note markers", raw: "Clients*", want: "clients"},
		{name: "percentage", raw: "Percentage of Clients", want: "%ofclients"},
		{name: "no dot", raw: "No. of Clients", want: "numberofclients"},
		{name: "en dash", raw: "16 – 24", want: "16-24"},
		{name: "under 25", raw: "Under 25", want: "u25"},
		{name: "60 plus", raw: "60 Plus", want: "60+"},
		{name: "60 and over", raw: "60 & Over", want: "60+"},
		{name: "ampersand kept", raw: "Clients & Carers", want: "clients&carers"},
		{name: "star before no dot", raw: "N*o. Clients", want: "numberclients"},
		{name: "empty", raw: "", want: ""},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.raw); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	n := New()
	inputs := []string{
		"No. of Clients", "Percentage Under 25", "60 & over*", "Total\nClients", "£ Gain", "Over 60",
		"16 – 24", "Number Of X", "no.no.", "percentage%",
	}
	for _, raw := range inputs {
		once := n.Normalize(raw)
		if twice := n.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalize_CachesFirstResult(t *testing.T) {
	t.Parallel()

	n := New()
	first := n.Normalize("No. Of Clients")
	if n.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", n.Len())
	}

	n.mu.Lock()
	n.cache["No. Of Clients"] = "stale"
	n.mu.Unlock()

	if got := n.Normalize("No. Of Clients"); got != "stale" {
		t.Fatalf("expected cached value to be returned, got %q (first %q)", got, first)
	}
	if n.Len() != 1 {
		t.Fatalf("expected cache size to stay 1, got %d", n.Len())
	}
}

func TestNormalize_ConcurrentUse(t *testing.T) {
	t.Parallel()

	n := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := n.Normalize("Under 25 Percentage"); got != "u25%" {
					t.Errorf("unexpected value %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", n.Len())
	}
}
