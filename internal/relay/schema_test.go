package relay

import (
	"errors"
	"testing"
)

func TestSetRequiredTagsReplacesSchema(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	if err := c.SetRequiredTags(sim.Env("alice"), []string{"purpose", "company", "purpose"}); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetRequiredTags(sim.Env("bob"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "company, purpose" {
		t.Fatalf("got %q", got)
	}

	if err := c.SetRequiredTags(sim.Env("alice"), nil); err != nil {
		t.Fatal(err)
	}
	got, err = c.GetRequiredTags(sim.Env("bob"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("cleared schema lists %q", got)
	}
}

func TestAddAndRemoveRequiredTags(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	if err := c.AddRequiredTags(sim.Env("alice"), []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveRequiredTags(sim.Env("alice"), []string{"a"}); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetRequiredTags(sim.Env("alice"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "b" {
		t.Fatalf("got %q, want \"b\"", got)
	}

	// Removing an absent tag is a no-op, not an error.
	if err := c.RemoveRequiredTags(sim.Env("alice"), []string{"zzz"}); err != nil {
		t.Fatal(err)
	}
}

func TestSchemaMutationIsAdminOnly(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	ops := []struct {
		name string
		call func() error
	}{
		{"set", func() error { return c.SetRequiredTags(sim.Env("bob"), []string{"x"}) }},
		{"add", func() error { return c.AddRequiredTags(sim.Env("bob"), []string{"x"}) }},
		{"remove", func() error { return c.RemoveRequiredTags(sim.Env("bob"), []string{"x"}) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			var permErr *PermissionError
			if err := op.call(); !errors.As(err, &permErr) {
				t.Fatalf("expected PermissionError, got %v", err)
			}
		})
	}

	got, err := c.GetRequiredTags(sim.Env("bob"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("schema modified by rejected ops: %q", got)
	}
}
