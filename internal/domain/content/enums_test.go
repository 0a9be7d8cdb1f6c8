package content

import "testing"

func TestParsePrivacy(t *testing.T) {
	cases := []struct {
		in   string
		want Privacy
		ok   bool
	}{
		{"", PrivacyPublic, true},
		{"public", PrivacyPublic, true},
		{" Private ", PrivacyPrivate, true},
		{"UNLISTED", PrivacyUnlisted, true},
		{"friends-only", "", false},
	}
	for _, tc := range cases {
		got, ok := ParsePrivacy(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParsePrivacy(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if got, ok := ParseStatus(""); !ok || got != StatusPublished {
		t.Fatalf("empty status should default to published, got %q ok=%v", got, ok)
	}
	if _, ok := ParseStatus("deleted"); ok {
		t.Fatalf("unknown status must be rejected")
	}
	if got, ok := ParseStatus("Draft"); !ok || got != StatusDraft {
		t.Fatalf("unexpected draft parse: %q ok=%v", got, ok)
	}
}
