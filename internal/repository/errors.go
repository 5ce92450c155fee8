// Package repository defines error types that are reused across multiple
// repositories. These values allow higher layers such as handlers to
// distinguish between different failure scenarios: a delete refused because
// dependent rows still reference the record is a normal, recoverable outcome
// and must not be reported the same way as a database failure.
package repository

import "errors"

// Dependency names the kind of dependent record that blocked a delete.
type Dependency string

const (
	DepChildFranchises Dependency = "child franchises"
	DepLocations       Dependency = "locations"
	DepDevices         Dependency = "devices"
	DepComponents      Dependency = "components"
)

// BlockedDeleteError is returned when a delete is refused because dependent
// rows exist. Exactly one dependency is reported: checks run in a fixed order
// per entity and the first non-zero count wins. Handlers should translate
// this into an HTTP 409 response naming the blocking relationship.
type BlockedDeleteError struct {
	Dependency Dependency
}

func (e *BlockedDeleteError) Error() string {
	return "delete blocked by existing " + string(e.Dependency)
}

// AsBlocked unwraps err into a BlockedDeleteError if it is one.
func AsBlocked(err error) (*BlockedDeleteError, bool) {
	var b *BlockedDeleteError
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}

// Not-found sentinels, one per entity.
var (
	ErrFranchiseNotFound  = errors.New("franchise not found")
	ErrLocationNotFound   = errors.New("location not found")
	ErrDeviceTypeNotFound = errors.New("device type not found")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrComponentNotFound  = errors.New("component not found")
)
