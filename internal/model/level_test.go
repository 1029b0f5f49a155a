package model

import "testing"

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want PermissionLevel
		ok   bool
	}{
		{"untrusted", Untrusted, true},
		{"trusted", Trusted, true},
		{"admin", Admin, true},
		{"Admin", Untrusted, false},
		{"root", Untrusted, false},
		{"", Untrusted, false},
	}
	for _, tt := range tests {
		got, ok := LevelFromString(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LevelFromString(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, level := range []PermissionLevel{Untrusted, Trusted, Admin} {
		got, ok := LevelFromString(level.String())
		if !ok || got != level {
			t.Errorf("round trip %v failed: got %v, %v", level, got, ok)
		}
	}
}

func TestPolicyFromString(t *testing.T) {
	if p, ok := PolicyFromString("trusted"); !ok || p != TrustedOnly {
		t.Errorf("PolicyFromString(trusted) = %v, %v", p, ok)
	}
	if p, ok := PolicyFromString("all"); !ok || p != TrustAll {
		t.Errorf("PolicyFromString(all) = %v, %v", p, ok)
	}
	if _, ok := PolicyFromString("everyone"); ok {
		t.Error("PolicyFromString accepted unknown policy")
	}
}

func TestContinuationRoundTrip(t *testing.T) {
	msg := ContinuationMessage{
		Targets:   []string{"a.node", "b.node"},
		Functions: []string{"f", "g"},
		Tags:      `{"purpose":"test"}`,
		Sender:    "alice",
	}
	data, err := msg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeContinuation(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sender != msg.Sender || got.Tags != msg.Tags || len(got.Targets) != 2 || got.Functions[1] != "g" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDecodeContinuationRejectsGarbage(t *testing.T) {
	if _, err := DecodeContinuation([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
