package relay

import (
	"encoding/json"
	"sort"
)

// parseTagPayload turns the raw payload into a validated tag set. The
// wire format is a flat JSON object with string keys and string values;
// anything else fails closed. Nulls and non-string values surface the
// offending tag name, structural errors wrap the parse failure.
func parseTagPayload(raw string) (map[string]string, error) {
	var loose map[string]any
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}

	tags := make(map[string]string, len(loose))
	// Walk keys in sorted order so the reported tag is deterministic
	// when several values are invalid.
	names := make([]string, 0, len(loose))
	for name := range loose {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, ok := loose[name].(string)
		if !ok {
			return nil, &NullTagValueError{Tag: name}
		}
		tags[name] = value
	}
	return tags, nil
}

// diffAgainstSchema computes the symmetric difference between the
// submitted tag set and the required schema. Extra keys are reported
// before missing ones; both lists come back sorted.
func diffAgainstSchema(tags map[string]string, schema map[string]struct{}) error {
	var extra, missing []string
	for name := range tags {
		if _, ok := schema[name]; !ok {
			extra = append(extra, name)
		}
	}
	for name := range schema {
		if _, ok := tags[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return &ExtraTagsError{Tags: extra}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingTagsError{Tags: missing}
	}
	return nil
}
