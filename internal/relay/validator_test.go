package relay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ppiankov/callrelay/internal/model"
)

func singleCall(target, function string, deposit uint64) model.CallBatch {
	return model.CallBatch{
		Topology: model.Single,
		Calls: []model.CallDescriptor{
			{Target: target, Function: function, Deposit: deposit},
		},
	}
}

func TestParseTagPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    map[string]string
		wantErr string
	}{
		{"flat object", `{"purpose":"test","company":"acme"}`, map[string]string{"purpose": "test", "company": "acme"}, ""},
		{"empty object", `{}`, map[string]string{}, ""},
		{"not json", `purpose=test`, nil, "malformed_payload"},
		{"array", `["purpose"]`, nil, "malformed_payload"},
		{"null value", `{"purpose":null}`, nil, "null_tag_value"},
		{"number value", `{"purpose":7}`, nil, "null_tag_value"},
		{"nested object", `{"purpose":{"a":"b"}}`, nil, "null_tag_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTagPayload(tt.payload)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if code := ErrorCode(err); code != tt.wantErr {
				t.Fatalf("got %s, want %s", code, tt.wantErr)
			}
		})
	}
}

func TestExtraTagSchedulesNothing(t *testing.T) {
	c, sim := newTestRelay(t, 100)
	if err := c.SetRequiredTags(sim.Env("alice"), []string{"purpose"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatal(err)
	}

	err := c.LogCall(sim.Env("alice"), `{"purpose":"x","color":"red"}`, singleCall("ledger.node", "record", 0))
	var extraErr *ExtraTagsError
	if !errors.As(err, &extraErr) {
		t.Fatalf("expected ExtraTagsError, got %v", err)
	}
	if !reflect.DeepEqual(extraErr.Tags, []string{"color"}) {
		t.Fatalf("error names %v", extraErr.Tags)
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("%d calls scheduled despite rejection", n)
	}
}

func TestMissingTagIsNamed(t *testing.T) {
	c, sim := newTestRelay(t, 100)
	if err := c.SetRequiredTags(sim.Env("alice"), []string{"purpose", "company"}); err != nil {
		t.Fatal(err)
	}

	err := c.LogCall(sim.Env("alice"), `{"purpose":"x"}`, singleCall("ledger.node", "record", 0))
	var missingErr *MissingTagsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingTagsError, got %v", err)
	}
	if !reflect.DeepEqual(missingErr.Tags, []string{"company"}) {
		t.Fatalf("error names %v", missingErr.Tags)
	}
}

func TestEmptySchemaAcceptsAnyTags(t *testing.T) {
	c, sim := newTestRelay(t, 100)
	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatal(err)
	}

	if err := c.LogCall(sim.Env("alice"), `{"anything":"goes"}`, singleCall("ledger.node", "record", 0)); err != nil {
		t.Fatalf("empty schema rejected tags: %v", err)
	}
}

func TestUntrustedTargetRejected(t *testing.T) {
	c, sim := newTestRelay(t, 100)

	err := c.LogCall(sim.Env("alice"), `{}`, singleCall("ledger.node", "record", 0))
	var trustErr *TrustError
	if !errors.As(err, &trustErr) {
		t.Fatalf("expected TrustError, got %v", err)
	}
	if trustErr.Target != "ledger.node" {
		t.Fatalf("error names %s", trustErr.Target)
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("%d calls scheduled despite rejection", n)
	}
}

func TestAdminTargetIsNotTrusted(t *testing.T) {
	// Exact-match semantics: an Admin-level target does not pass the
	// Trusted requirement.
	c, sim := newTestRelay(t, 100)
	if err := c.GrantPermissionLevel(sim.Env("alice"), []string{"ledger.node"}, "admin"); err != nil {
		t.Fatal(err)
	}

	err := c.LogCall(sim.Env("alice"), `{}`, singleCall("ledger.node", "record", 0))
	var trustErr *TrustError
	if !errors.As(err, &trustErr) {
		t.Fatalf("expected TrustError, got %v", err)
	}
}

func TestTrustAllPolicyAcceptsAnyTarget(t *testing.T) {
	c, sim := newTestRelay(t, 100)
	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatal(err)
	}

	if err := c.LogCall(sim.Env("alice"), `{}`, singleCall("anyone.at.all", "poke", 0)); err != nil {
		t.Fatalf("trust-all rejected target: %v", err)
	}
}

func TestDepositSumExceedingBalance(t *testing.T) {
	c, sim := newTestRelay(t, 10)
	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatal(err)
	}

	batch := model.CallBatch{
		Topology: model.Sequential,
		Calls: []model.CallDescriptor{
			{Target: "a.node", Function: "f", Deposit: 6},
			{Target: "b.node", Function: "g", Deposit: 6},
		},
	}
	err := c.LogCall(sim.Env("alice"), `{}`, batch)
	var fundsErr *InsufficientFundsError
	if !errors.As(err, &fundsErr) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if fundsErr.Required != 12 || fundsErr.Available != 10 {
		t.Fatalf("error reports %d/%d", fundsErr.Required, fundsErr.Available)
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("%d calls scheduled despite rejection", n)
	}
}

func TestBatchShapeChecks(t *testing.T) {
	c, sim := newTestRelay(t, 100)
	if err := c.SetTrustPolicy(sim.Env("alice"), "all"); err != nil {
		t.Fatal(err)
	}

	one := model.CallDescriptor{Target: "a.node", Function: "f"}
	two := model.CallDescriptor{Target: "b.node", Function: "g"}

	tests := []struct {
		name  string
		batch model.CallBatch
		code  string
	}{
		{"empty batch", model.CallBatch{Topology: model.Single}, "empty_batch"},
		{"single with two calls", model.CallBatch{Topology: model.Single, Calls: []model.CallDescriptor{one, two}}, "batch_shape"},
		{"parallel with one call", model.CallBatch{Topology: model.Parallel, Calls: []model.CallDescriptor{one}}, "batch_shape"},
		{"sequential with one call", model.CallBatch{Topology: model.Sequential, Calls: []model.CallDescriptor{one}}, "batch_shape"},
		{"unknown topology", model.CallBatch{Topology: "fanout", Calls: []model.CallDescriptor{one}}, "batch_shape"},
		{"parallel across targets", model.CallBatch{Topology: model.Parallel, Calls: []model.CallDescriptor{one, two}}, "heterogeneous_target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.LogCall(sim.Env("alice"), `{}`, tt.batch)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := ErrorCode(err); code != tt.code {
				t.Fatalf("got %s, want %s", code, tt.code)
			}
		})
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("%d calls scheduled despite rejections", n)
	}
}
