// Package search filters the in-memory event collection by free text and
// priority.
package search

import (
	"fmt"
	"strings"

	"github.com/petrenko-v/dayplanner/internal/storage"
)

// PriorityFilter is either All or one specific priority.
type PriorityFilter string

const All PriorityFilter = "all"

// ParsePriorityFilter accepts "", "all" or a priority name (any case).
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	if s == "" || strings.EqualFold(s, string(All)) {
		return All, nil
	}
	p, err := storage.ParsePriority(strings.ToUpper(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse priority filter: %w", err)
	}
	return PriorityFilter(p), nil
}

// Filter returns the events matching query and priority, preserving the
// relative order of the input. An empty query matches everything; otherwise
// the query must appear in the title or the description, case-insensitive.
func Filter(events []storage.Event, query string, priority PriorityFilter) []storage.Event {
	matched := make([]storage.Event, 0, len(events))
	for _, event := range events {
		if !matchesQuery(event, query) {
			continue
		}
		if priority != All && event.Priority != storage.Priority(priority) {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

func matchesQuery(e storage.Event, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Title), q) {
		return true
	}
	return e.Description != "" && strings.Contains(strings.ToLower(e.Description), q)
}
