// Package lifecycle defines shared constants for application lifecycle management.
package lifecycle

import "time"

// DefaultTimeout is the default timeout for startup and shutdown hooks.
const DefaultTimeout = 10 * time.Second
