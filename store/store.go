package store

import (
	"github.com/pkg/errors"
)

var (
	// ErrDoesNotExist is returned if the requested model could not be found in the store.
	ErrDoesNotExist = errors.New("Model does not exist")
)

// Store represents the high-level API to access models.
type Store interface {
	Checks() CheckStore
	Close() error
}

// CheckStore allows recording and reading update checks.
type CheckStore interface {
	Create(c *Check) error
	Get(o CheckGetOptions) (*Check, error)
	List(o CheckListOptions) ([]*Check, error)
}

// CheckGetOptions selects a single check. With an ID the check is looked up
// directly, otherwise the newest check matching the other fields is returned.
type CheckGetOptions struct {
	ContainerName string
	ID            int
	ImageRef      string
}

// CheckListOptions filters checks. Results are ordered newest first.
type CheckListOptions struct {
	ContainerName   string
	ImageRef        string
	Limit           int
	Repository      string
	UpdateAvailable *bool
}
