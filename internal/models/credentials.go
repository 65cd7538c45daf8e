package models

import "time"

// InstanceCredentials is the stored connection override for the target
// instance. A single record; absent means the agent uses its static
// configuration.
type InstanceCredentials struct {
	Host      string
	Port      int
	User      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
