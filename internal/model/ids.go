package model

import "github.com/google/uuid"

// NewID returns "<prefix>-<uuid>". The prefix keeps ids readable in payloads
// and logs; the UUID part makes collisions a non-concern for the process
// lifetime and beyond.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
