package docs

import "testing"

func TestTopicsAndGet(t *testing.T) {
	t.Parallel()

	topics := Topics()
	want := map[string]bool{"config": true, "keys": true, "overview": true, "scripts": true}
	if len(topics) != len(want) {
		t.Fatalf("expected %d topics, got %v", len(want), topics)
	}
	for _, topic := range topics {
		if !want[topic] {
			t.Fatalf("unexpected topic %q", topic)
		}
		if md, ok := Get(topic); !ok || md == "" {
			t.Fatalf("Get(%q) failed", topic)
		}
	}
	if _, ok := Get(" KEYS "); !ok {
		t.Fatalf("expected topic lookup to be case-insensitive")
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected path-like topics to be rejected")
	}
	if got := Title("keys"); got != "Keys" {
		t.Fatalf("expected title Keys, got %q", got)
	}
}
