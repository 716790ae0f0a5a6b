package domain

import "time"

// CacheEntry records the fingerprints of a task's last successful run. It is
// keyed by task identity (task name plus resolved project context) and is
// only ever written after a successful execution.
type CacheEntry struct {
	TaskKey            string            `json:"task_key,omitzero"`
	InputFingerprints  map[string]string `json:"input_fingerprints,omitempty"`
	OutputFingerprints map[string]string `json:"output_fingerprints,omitempty"`
	Timestamp          time.Time         `json:"timestamp,omitzero"`
}
