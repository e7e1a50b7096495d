package utils

import (
	"github.com/google/uuid"
)

// UUID generates new nonce with Go's crypto package, and returns value
// as string.
func UUID() string {
	return uuid.New().String()
}
