// Package config loads the SDK facade's construction-time Configuration
// (spec §6.5): the AI classifier's API key, the default routing queue,
// classifier tuning, and the error-handling policy for classify failures.
// Layered the way the teacher's own config.go was: a JSONC/HuJSON file on
// disk, environment variable templates, and a dotenv overlay, with
// sensible defaults applied after load.
package config

import "time"

// ClassifierMode selects which Classifier implementation the facade wires.
type ClassifierMode string

const (
	ClassifierAI     ClassifierMode = "ai"
	ClassifierCustom ClassifierMode = "custom"
	ClassifierHybrid ClassifierMode = "hybrid"
)

// ClassifyErrorPolicy controls how a classifier error is handled (spec §7,
// ClassifyError row): swallow into a nil classification, or propagate to
// the submit() caller.
type ClassifyErrorPolicy string

const (
	OnClassifyErrorIgnore ClassifyErrorPolicy = "ignore"
	OnClassifyErrorThrow  ClassifyErrorPolicy = "throw"
)

// ClassifierConfig tunes the AI classifier and selects the active mode.
// CustomClassify is not file-serializable; callers set it in code after
// Load returns, via sdk.Options.CustomClassify.
type ClassifierConfig struct {
	Mode                 ClassifierMode `json:"mode"`
	AIModel              string         `json:"ai_model,omitempty"`
	ConfidenceFloor      float64        `json:"confidence_floor,omitempty"`
	DebounceMs           int            `json:"debounce_ms,omitempty"`
	MaxRequestsPerMinute int            `json:"max_requests_per_minute,omitempty"`
}

// DebounceWindow returns DebounceMs as a time.Duration, defaulting to
// 250ms when unset, per the AI classifier's documented debounce window.
func (c ClassifierConfig) DebounceWindow() time.Duration {
	if c.DebounceMs <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ErrorsConfig configures the SDK's runtime error-handling policy.
type ErrorsConfig struct {
	OnClassifyError ClassifyErrorPolicy `json:"on_classify_error"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int    `json:"buffer_size"`
	LogLevel   string `json:"log_level"` // "debug" | "info" | "warn" | "error" (default: "info")
}

// UndoConfig controls the undo log's bounded MRU capacity.
type UndoConfig struct {
	Capacity int `json:"capacity"`
}

// DispatcherConfig controls the dispatcher's default retry backoff and the
// default attempt budget handed to newly submitted tasks.
type DispatcherConfig struct {
	BackoffBaseMs     int `json:"backoff_base_ms"`
	BackoffCapMs      int `json:"backoff_cap_ms"`
	DefaultMaxAttempts int `json:"default_max_attempts"`
}

// BackoffDuration returns BackoffBaseMs as a time.Duration, defaulting to
// 200ms when unset.
func (c DispatcherConfig) BackoffDuration() time.Duration {
	if c.BackoffBaseMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.BackoffBaseMs) * time.Millisecond
}

// BackoffCapDuration returns BackoffCapMs as a time.Duration, defaulting to
// 30s when unset.
func (c DispatcherConfig) BackoffCapDuration() time.Duration {
	if c.BackoffCapMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.BackoffCapMs) * time.Millisecond
}

// PersistenceDriver selects a reference Persistence Adapter (spec §6.4).
type PersistenceDriver string

const (
	PersistenceNone    PersistenceDriver = ""
	PersistenceKV      PersistenceDriver = "kv"      // synchronous key-value store (goleveldb)
	PersistenceIndexed PersistenceDriver = "indexed" // indexed object-store-per-collection (sqlite)
)

// PersistenceConfig configures the optional persistence adapter.
type PersistenceConfig struct {
	Driver PersistenceDriver `json:"driver"`
	Path   string            `json:"path,omitempty"`
}

// HTTPConfig configures the optional HTTP/WS facade.
type HTTPConfig struct {
	Enabled *bool  `json:"enabled"` // default: false
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// IsEnabled returns true if the HTTP facade is enabled (default: false).
func (c HTTPConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// Config is the SDK facade's root construction-time configuration (spec
// §6.5), expanded with the ambient stack every component needs: events,
// undo, dispatcher backoff, and an optional persistence adapter/HTTP
// facade.
type Config struct {
	APIKey       string            `json:"api_key,omitempty"` // required if Classifier.Mode == ai
	DefaultQueue string            `json:"default_queue,omitempty"`
	Classifier   ClassifierConfig  `json:"classifier"`
	Errors       ErrorsConfig      `json:"errors"`
	Events       EventsConfig      `json:"events"`
	Undo         UndoConfig        `json:"undo"`
	Dispatcher   DispatcherConfig  `json:"dispatcher"`
	Persistence  PersistenceConfig `json:"persistence"`
	HTTP         HTTPConfig        `json:"http"`
}
