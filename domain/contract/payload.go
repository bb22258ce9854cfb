package contract

import (
	"encoding/json"
	"fmt"

	"stratcheck/domain/core"
)

// ToPayload serializes a run result into a JSON-compatible mapping.
// Round-tripping a current-schema result through FromPayload is lossless.
func ToPayload(r *RunResult) (map[string]interface{}, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal run result: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode run result payload: %w", err)
	}
	return payload, nil
}

// FromPayload migrates an arbitrary payload to the current schema and
// decodes it. A payload whose major version cannot be migrated to the
// current major is rejected, so callers only ever see current-shape results.
func FromPayload(payload map[string]interface{}) (*RunResult, error) {
	migrated, err := Migrate(payload, CurrentSchemaVersion)
	if err != nil {
		return nil, err
	}

	version, _ := migrated["schema_version"].(string)
	if !IsSchemaCompatible(CurrentSchemaVersion, version) {
		return nil, fmt.Errorf("%w: expected major %s, got %q",
			core.ErrSchemaIncompatible, majorVersion(CurrentSchemaVersion), version)
	}

	raw, err := json.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("re-encode migrated payload: %w", err)
	}

	var result RunResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode migrated payload: %w", err)
	}
	if result.Metrics == nil {
		result.Metrics = map[string]float64{}
	}
	if result.Assumptions == nil {
		result.Assumptions = map[string]interface{}{}
	}
	if result.Artifacts == nil {
		result.Artifacts = map[string]string{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return &result, nil
}
