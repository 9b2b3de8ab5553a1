package storage

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityNormal    Priority = "NORMAL"
	PriorityImportant Priority = "IMPORTANT"
	PriorityCritical  Priority = "CRITICAL"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityNormal, PriorityImportant, PriorityCritical:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q: %w", s, ErrUnknownPriority)
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	OwnerID     string    `json:"ownerId"`
}
