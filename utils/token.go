package utils

import (
	"github.com/google/uuid"
)

// NewShareToken returns the opaque public identifier handed out in event
// share links. It carries no meaning beyond lookup.
func NewShareToken() string {
	return uuid.NewString()
}
