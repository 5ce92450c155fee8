// Package queue defines message payloads exchanged over the message broker.
package queue

// EntityChangedQueue is the durable queue entity-changed events are
// published to and consumed from.
const EntityChangedQueue = "entity.changed"

// Entity kinds carried in EntityChangedEvent. Views subscribe by kind and
// reload only the lists and dropdowns that depend on it: a franchise change
// also invalidates location and device views through their foreign keys, but
// that fan-out is the subscriber's decision, not the publisher's.
const (
	EntityFranchise  = "franchise"
	EntityLocation   = "location"
	EntityDeviceType = "device_type"
	EntityDevice     = "device"
	EntityComponent  = "component"
)

// Mutation actions carried in EntityChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent is published after every successful mutation. It carries
// enough information for downstream consumers to refresh views, log, or
// trigger analytics without querying the primary database.
type EntityChangedEvent struct {
	Entity    string `json:"entity"`
	Action    string `json:"action"`
	ID        uint64 `json:"id"`
	ChangedAt string `json:"changed_at"`
}
