package relay

import (
	"fmt"

	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

// Init performs one-time contract setup: the deploying identity and
// every given account become Admin, and the trust policy starts as
// TrustedOnly. A second call fails and changes nothing.
func (c *Contract) Init(env host.Env, adminAccounts []string) error {
	st := env.Storage()

	_, initialized, err := st.Get(keyInit)
	if err != nil {
		return fmt.Errorf("relay: read init marker: %w", err)
	}
	if initialized {
		return &AlreadyInitializedError{}
	}

	if err := c.setLevel(st, env.ContractID(), model.Admin); err != nil {
		return err
	}
	for _, account := range adminAccounts {
		if err := c.setLevel(st, account, model.Admin); err != nil {
			return err
		}
	}
	if err := st.Set(keyTrustPolicy, []byte(model.TrustedOnly)); err != nil {
		return fmt.Errorf("relay: persist trust policy: %w", err)
	}
	if err := st.Set(keyInit, []byte("1")); err != nil {
		return fmt.Errorf("relay: persist init marker: %w", err)
	}

	env.Log(fmt.Sprintf("initialized with %d admin accounts", len(adminAccounts)+1))
	return nil
}

// GetPermissionLevel returns the stored level of account, defaulting
// to the caller when account is empty and to Untrusted when no entry
// exists. Pure read, open to anyone.
func (c *Contract) GetPermissionLevel(env host.Env, account string) (string, error) {
	if account == "" {
		account = env.Caller()
	}
	level, err := c.levelOf(env.Storage(), account)
	if err != nil {
		return "", err
	}
	return level.String(), nil
}

// GrantPermissionLevel overwrites the whitelist entries of the given
// accounts. The caller must hold exact level Admin.
func (c *Contract) GrantPermissionLevel(env host.Env, accounts []string, level string) error {
	if err := c.requireLevel(env, model.Admin); err != nil {
		return err
	}
	parsed, ok := model.LevelFromString(level)
	if !ok {
		return &UnknownLevelError{Level: level}
	}
	for _, account := range accounts {
		if err := c.setLevel(env.Storage(), account, parsed); err != nil {
			return err
		}
	}
	return nil
}

// SetTrustPolicy switches the global trust policy. Admin-gated like
// every other mutating operation.
func (c *Contract) SetTrustPolicy(env host.Env, policy string) error {
	if err := c.requireLevel(env, model.Admin); err != nil {
		return err
	}
	parsed, ok := model.PolicyFromString(policy)
	if !ok {
		return &UnknownPolicyError{Policy: policy}
	}
	if err := env.Storage().Set(keyTrustPolicy, []byte(parsed)); err != nil {
		return fmt.Errorf("relay: persist trust policy: %w", err)
	}
	env.Log(fmt.Sprintf("trust policy set to %s by %s", parsed, env.Caller()))
	return nil
}

// requireLevel fails unless the caller's stored level equals level
// exactly. Levels are not ordered: Admin does not satisfy Trusted.
func (c *Contract) requireLevel(env host.Env, level model.PermissionLevel) error {
	actual, err := c.levelOf(env.Storage(), env.Caller())
	if err != nil {
		return err
	}
	if actual != level {
		return &PermissionError{Account: env.Caller(), Required: level}
	}
	return nil
}

func (c *Contract) levelOf(st host.Storage, account string) (model.PermissionLevel, error) {
	raw, ok, err := st.Get(keyLevelPrefix + account)
	if err != nil {
		return model.Untrusted, fmt.Errorf("relay: read level of %s: %w", account, err)
	}
	if !ok {
		return model.Untrusted, nil
	}
	level, valid := model.LevelFromString(string(raw))
	if !valid {
		// A corrupt entry is treated as absent rather than trusted.
		return model.Untrusted, nil
	}
	return level, nil
}

func (c *Contract) setLevel(st host.Storage, account string, level model.PermissionLevel) error {
	if err := st.Set(keyLevelPrefix+account, []byte(level.String())); err != nil {
		return fmt.Errorf("relay: persist level of %s: %w", account, err)
	}
	return nil
}

func (c *Contract) trustPolicy(st host.Storage) (model.TrustPolicy, error) {
	raw, ok, err := st.Get(keyTrustPolicy)
	if err != nil {
		return "", fmt.Errorf("relay: read trust policy: %w", err)
	}
	if !ok {
		return model.TrustedOnly, nil
	}
	policy, valid := model.PolicyFromString(string(raw))
	if !valid {
		return model.TrustedOnly, nil
	}
	return policy, nil
}
