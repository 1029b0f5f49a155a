package relay

import (
	"errors"
	"testing"

	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

const contractID = "relay.node"

func newTestRelay(t *testing.T, balance uint64) (*Contract, *host.Simulator) {
	t.Helper()
	sim := host.NewSimulator(host.Config{
		ContractID: contractID,
		Balances:   map[string]uint64{contractID: balance},
	})
	c := New()
	c.Register(sim)
	if err := c.Init(sim.Env(contractID), []string{"alice"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	return c, sim
}

func levelOf(t *testing.T, c *Contract, sim *host.Simulator, account string) string {
	t.Helper()
	level, err := c.GetPermissionLevel(sim.Env(account), "")
	if err != nil {
		t.Fatalf("get level of %s: %v", account, err)
	}
	return level
}

func TestInitRunsExactlyOnce(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	err := c.Init(sim.Env(contractID), []string{"mallory"})
	var initErr *AlreadyInitializedError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected AlreadyInitializedError, got %v", err)
	}

	// The failed re-init must leave state unchanged.
	if got := levelOf(t, c, sim, "mallory"); got != "untrusted" {
		t.Fatalf("re-init mutated state: mallory is %s", got)
	}
	if got := levelOf(t, c, sim, "alice"); got != "admin" {
		t.Fatalf("re-init mutated state: alice is %s", got)
	}
}

func TestInitRegistersAdmins(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	if got := levelOf(t, c, sim, "alice"); got != "admin" {
		t.Fatalf("alice = %s, want admin", got)
	}
	// The contract's own identity is auto-registered Admin.
	if got := levelOf(t, c, sim, contractID); got != "admin" {
		t.Fatalf("%s = %s, want admin", contractID, got)
	}
	if got := levelOf(t, c, sim, "bob"); got != "untrusted" {
		t.Fatalf("bob = %s, want untrusted", got)
	}
}

func TestUnknownAccountIsUntrusted(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	got, err := c.GetPermissionLevel(sim.Env("anyone"), "never-granted")
	if err != nil {
		t.Fatal(err)
	}
	if got != "untrusted" {
		t.Fatalf("got %s, want untrusted", got)
	}
}

func TestGetPermissionLevelDefaultsToCaller(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	got, err := c.GetPermissionLevel(sim.Env("alice"), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "admin" {
		t.Fatalf("got %s, want admin", got)
	}
}

func TestGrantPermissionLevel(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	if err := c.GrantPermissionLevel(sim.Env("alice"), []string{"carol"}, "trusted"); err != nil {
		t.Fatalf("grant by admin: %v", err)
	}
	if got := levelOf(t, c, sim, "carol"); got != "trusted" {
		t.Fatalf("carol = %s, want trusted", got)
	}

	// Overwrite is allowed.
	if err := c.GrantPermissionLevel(sim.Env("alice"), []string{"carol"}, "untrusted"); err != nil {
		t.Fatalf("re-grant: %v", err)
	}
	if got := levelOf(t, c, sim, "carol"); got != "untrusted" {
		t.Fatalf("carol = %s, want untrusted", got)
	}
}

func TestGrantByNonAdminFails(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	// Trusted is not Admin — levels are exact-match, not ordered.
	if err := c.GrantPermissionLevel(sim.Env("alice"), []string{"dave"}, "trusted"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		caller string
	}{
		{"untrusted caller", "bob"},
		{"trusted caller", "dave"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.GrantPermissionLevel(sim.Env(tt.caller), []string{"eve"}, "admin")
			var permErr *PermissionError
			if !errors.As(err, &permErr) {
				t.Fatalf("expected PermissionError, got %v", err)
			}
			if got := levelOf(t, c, sim, "eve"); got != "untrusted" {
				t.Fatalf("whitelist modified by rejected grant: eve = %s", got)
			}
		})
	}
}

func TestGrantUnknownLevel(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	err := c.GrantPermissionLevel(sim.Env("alice"), []string{"carol"}, "superuser")
	var levelErr *UnknownLevelError
	if !errors.As(err, &levelErr) {
		t.Fatalf("expected UnknownLevelError, got %v", err)
	}
	if levelErr.Level != "superuser" {
		t.Fatalf("error names level %q", levelErr.Level)
	}
}

func TestSetTrustPolicy(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatalf("set policy by admin: %v", err)
	}
	policy, err := c.trustPolicy(sim.Env("alice").Storage())
	if err != nil {
		t.Fatal(err)
	}
	if policy != model.TrustAll {
		t.Fatalf("policy = %s, want all", policy)
	}
}

func TestSetTrustPolicyIsAdminGated(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	err := c.SetTrustPolicy(sim.Env("bob"), "all")
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestSetTrustPolicyUnknownValue(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	err := c.SetTrustPolicy(sim.Env("alice"), "nobody")
	var policyErr *UnknownPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected UnknownPolicyError, got %v", err)
	}
}

func TestRequireLevelIsExactMatch(t *testing.T) {
	c, sim := newTestRelay(t, 0)

	// Admin does not satisfy a Trusted requirement. This is the stated
	// semantics of the registry, not a bug to fix with an ordering.
	if err := c.requireLevel(sim.Env("alice"), model.Trusted); err == nil {
		t.Fatal("admin satisfied a trusted requirement")
	}
	if err := c.requireLevel(sim.Env("alice"), model.Admin); err != nil {
		t.Fatalf("admin failed an admin requirement: %v", err)
	}
}
