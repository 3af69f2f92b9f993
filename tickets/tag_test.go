package tickets

import "testing"

func TestOwnerTagRoundTrip(t *testing.T) {
	tag := OwnerTag("123456789012345678")
	owner, ok := OwnerFromTag(tag)
	if !ok || owner != "123456789012345678" {
		t.Errorf("OwnerFromTag(%q) = %q, %v", tag, owner, ok)
	}
}

func TestOwnerFromTag(t *testing.T) {
	tests := []struct {
		topic string
		owner string
		ok    bool
	}{
		{"ticket_owner:42", "42", true},
		{"ticket_owner:42 boosting Bronze 1 -> Gold 1", "42", true},
		{"Support channel ticket_owner:42", "42", true},
		{"ticket_owner:", "", false},
		{"general discussion", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		owner, ok := OwnerFromTag(tt.topic)
		if owner != tt.owner || ok != tt.ok {
			t.Errorf("OwnerFromTag(%q) = %q, %v; want %q, %v", tt.topic, owner, ok, tt.owner, tt.ok)
		}
	}
}
