package team

import (
	"fmt"
	"strings"
)

const (
	MaxNameLength        = 64
	MaxDescriptionLength = 1000
)

// Team is a club that plays games. Slug is derived from Name and is the
// public lookup key.
type Team struct {
	ID          int64
	Name        string
	Slug        string
	Description string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if len([]rune(t.Name)) > MaxNameLength {
		return fmt.Errorf("team name exceeds %d characters", MaxNameLength)
	}
	if t.Slug == "" {
		return fmt.Errorf("team slug is required")
	}

	return nil
}

// Skipped is one input a bulk operation did not persist.
type Skipped struct {
	Input  string
	Reason string
}

// BulkResult reports a best-effort bulk insert in input order.
type BulkResult struct {
	Inserted []Team
	Skipped  []Skipped
}

// IDsByName indexes teams by exact name.
func IDsByName(teams []Team) map[string]int64 {
	out := make(map[string]int64, len(teams))
	for _, t := range teams {
		out[t.Name] = t.ID
	}
	return out
}
