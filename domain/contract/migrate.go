package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stratcheck/domain/core"
)

// LegacyRunIDPlaceholder is the run identifier assigned to flat legacy
// payloads that never carried one.
const LegacyRunIDPlaceholder = "legacy-run"

// legacyMetricLabels maps the human-labelled keys found in flat pre-1.0
// payloads onto the canonical metric vocabulary.
var legacyMetricLabels = map[string]string{
	"Starting Value":        MetricStartingValue,
	"Ending Value":          MetricEndingValue,
	"ROI":                   MetricROI,
	"CAGR":                  MetricCAGR,
	"Sharpe":                MetricSharpe,
	"Sharpe Ratio":          MetricSharpe,
	"Max Drawdown":          MetricMaxDrawdown,
	"Mean Cash Utilization": MetricMeanCashUtilization,
}

// migration transforms a payload of one major version into the next shape.
// Each function is pure: the input payload is never mutated.
type migration func(payload map[string]interface{}, target string) (map[string]interface{}, error)

// migrations is keyed by the detected major version of the incoming payload
var migrations = map[string]migration{
	"0": migrateLegacyV0,
}

// IsSchemaCompatible reports whether a candidate schema version can be
// consumed by code expecting the given version. Only the major component
// matters; minor and patch differences are always compatible.
func IsSchemaCompatible(expected, candidate string) bool {
	if expected == "" || candidate == "" {
		return false
	}
	return majorVersion(expected) == majorVersion(candidate)
}

// Migrate transforms a payload into the target schema shape. Payloads
// already at the target major are normalized in place (version string only);
// older majors run through the migration chain. A major that cannot reach
// the target is a schema error, never a silent coercion.
func Migrate(payload map[string]interface{}, target string) (map[string]interface{}, error) {
	detected := detectVersion(payload)

	if majorVersion(detected) == majorVersion(target) {
		out := clonePayload(payload)
		out["schema_version"] = target
		return out, nil
	}

	migrate, ok := migrations[majorVersion(detected)]
	if !ok {
		return nil, fmt.Errorf("%w: no migration path from %q to %q",
			core.ErrSchemaIncompatible, detected, target)
	}

	migrated, err := migrate(payload, target)
	if err != nil {
		return nil, err
	}

	version, _ := migrated["schema_version"].(string)
	if majorVersion(version) != majorVersion(target) {
		return nil, fmt.Errorf("%w: migration from %q produced %q, wanted major %s",
			core.ErrSchemaIncompatible, detected, version, majorVersion(target))
	}
	return migrated, nil
}

// migrateLegacyV0 lifts a pre-1.0 payload into the current shape. Two legacy
// shapes exist: structured payloads that already carry metadata/metrics and
// only miss optional keys, and flat payloads with human-labelled metric keys
// and ad-hoc metadata aliases.
func migrateLegacyV0(payload map[string]interface{}, target string) (map[string]interface{}, error) {
	_, hasMetadata := payload["metadata"].(map[string]interface{})
	_, hasMetrics := payload["metrics"].(map[string]interface{})

	if hasMetadata && hasMetrics {
		out := clonePayload(payload)
		if _, ok := out["assumptions"]; !ok {
			out["assumptions"] = map[string]interface{}{}
		}
		if _, ok := out["artifacts"]; !ok {
			out["artifacts"] = map[string]interface{}{}
		}
		if _, ok := out["warnings"]; !ok {
			out["warnings"] = []interface{}{}
		}
		out["schema_version"] = target
		return out, nil
	}

	metrics := map[string]interface{}{}
	for label, key := range legacyMetricLabels {
		if v, ok := payload[label]; ok {
			f, ok := coerceFloat(v)
			if !ok {
				return nil, core.NewValidationError(label, fmt.Sprintf("legacy metric value %v is not numeric", v))
			}
			metrics[key] = f
		}
	}

	metadata := map[string]interface{}{
		"run_id":           stringAlias(payload, LegacyRunIDPlaceholder, "run_id", "id"),
		"engine_name":      stringAlias(payload, "unknown", "engine_name", "engine"),
		"engine_version":   stringAlias(payload, "unknown", "engine_version", "version"),
		"strategy_name":    stringAlias(payload, "unknown", "strategy_name", "strategy"),
		"created_at":       stringAlias(payload, time.Now().UTC().Format(time.RFC3339), "created_at", "timestamp"),
		"config_hash":      stringAlias(payload, "", "config_hash", "hash"),
		"data_snapshot_id": stringAlias(payload, "", "data_snapshot_id", "snapshot"),
		"random_seed":      nil,
	}
	if seed, ok := payload["random_seed"]; ok {
		metadata["random_seed"] = seed
	}

	return map[string]interface{}{
		"schema_version": target,
		"metadata":       metadata,
		"metrics":        metrics,
		"assumptions":    map[string]interface{}{},
		"artifacts":      map[string]interface{}{},
		"warnings":       []interface{}{},
	}, nil
}

// detectVersion pulls the schema version out of a payload; payloads that
// predate versioning count as major 0.
func detectVersion(payload map[string]interface{}) string {
	if v, ok := payload["schema_version"].(string); ok && v != "" {
		return v
	}
	return "0.0.0"
}

func majorVersion(version string) string {
	if i := strings.Index(version, "."); i >= 0 {
		return version[:i]
	}
	return version
}

func clonePayload(payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}

func stringAlias(payload map[string]interface{}, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

func coerceFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
