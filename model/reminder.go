package model

import "time"

// Reminder is a message scheduled for delivery to a user in a guild channel.
// ID is assigned by storage; whatever it holds before insertion is ignored.
type Reminder struct {
	ID      int64
	Who     uint64
	Server  uint64
	Channel uint64
	When    time.Time
	What    string
}
