package relay

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/callrelay/internal/host"
	"github.com/ppiankov/callrelay/internal/model"
)

// SetRequiredTags replaces the entire tag schema. Duplicates collapse;
// order is irrelevant. Admin-only.
func (c *Contract) SetRequiredTags(env host.Env, names []string) error {
	if err := c.requireLevel(env, model.Admin); err != nil {
		return err
	}
	return c.writeSchema(env.Storage(), dedupe(names))
}

// AddRequiredTags unions names into the schema. Admin-only.
func (c *Contract) AddRequiredTags(env host.Env, names []string) error {
	if err := c.requireLevel(env, model.Admin); err != nil {
		return err
	}
	schema, err := c.schema(env.Storage())
	if err != nil {
		return err
	}
	for _, n := range names {
		schema[n] = struct{}{}
	}
	return c.writeSchema(env.Storage(), schema)
}

// RemoveRequiredTags subtracts names from the schema. Admin-only.
func (c *Contract) RemoveRequiredTags(env host.Env, names []string) error {
	if err := c.requireLevel(env, model.Admin); err != nil {
		return err
	}
	schema, err := c.schema(env.Storage())
	if err != nil {
		return err
	}
	for _, n := range names {
		delete(schema, n)
	}
	return c.writeSchema(env.Storage(), schema)
}

// GetRequiredTags renders the schema as a sorted, comma-separated
// listing. Pure read.
func (c *Contract) GetRequiredTags(env host.Env) (string, error) {
	schema, err := c.schema(env.Storage())
	if err != nil {
		return "", err
	}
	return strings.Join(sortedNames(schema), ", "), nil
}

// schema loads the required-tag set; an absent key is the empty schema.
func (c *Contract) schema(st host.Storage) (map[string]struct{}, error) {
	raw, ok, err := st.Get(keyTagSchema)
	if err != nil {
		return nil, fmt.Errorf("relay: read tag schema: %w", err)
	}
	schema := make(map[string]struct{})
	if !ok {
		return schema, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("relay: decode tag schema: %w", err)
	}
	for _, n := range names {
		schema[n] = struct{}{}
	}
	return schema, nil
}

func (c *Contract) writeSchema(st host.Storage, schema map[string]struct{}) error {
	raw, err := json.Marshal(sortedNames(schema))
	if err != nil {
		return fmt.Errorf("relay: encode tag schema: %w", err)
	}
	if err := st.Set(keyTagSchema, raw); err != nil {
		return fmt.Errorf("relay: persist tag schema: %w", err)
	}
	return nil
}

func dedupe(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
