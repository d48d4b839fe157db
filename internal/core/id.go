// AngelaMos | 2026
// id.go

package core

import (
	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

// ValidID reports whether s can be used as a row id. Handlers check path
// ids with it so a malformed id is a 404 instead of a store error.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
