package statuses

import "errors"

var (
	// ErrMonitorNotFound means the referenced monitor does not exist.
	ErrMonitorNotFound = errors.New("monitor not found")

	// ErrMonitorExists means a monitor with the requested name already exists.
	ErrMonitorExists = errors.New("monitor already exists")

	// ErrNoStatus means the monitor exists but has no recorded status.
	ErrNoStatus = errors.New("no state found for this monitor")

	// ErrNoTags means a tag filter was requested with no tag names.
	ErrNoTags = errors.New("at least one tag must be provided")
)
