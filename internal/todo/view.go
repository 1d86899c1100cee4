package todo

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kim-mac/aiopad/internal/models"
)

// SortBy selects the key tasks are ordered by
type SortBy string

const (
	SortPriority     SortBy = "priority"
	SortDueDate      SortBy = "dueDate"
	SortCreationDate SortBy = "creationDate"
	SortName         SortBy = "name"
)

// SortOrder is asc or desc
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// CompletedFilter keeps all, completed or pending tasks
type CompletedFilter string

const (
	ShowAll       CompletedFilter = "all"
	ShowCompleted CompletedFilter = "completed"
	ShowPending   CompletedFilter = "pending"
)

// PriorityFilter is "all", "none" or a priority name
type PriorityFilter string

const (
	AnyPriority PriorityFilter = "all"
	NoPriority  PriorityFilter = "none"
)

// TypeFilter is "all" or a task type
type TypeFilter string

const AnyType TypeFilter = "all"

// ViewOptions controls Derive. The zero value sorts by priority, highest
// first, and keeps every task.
type ViewOptions struct {
	SortBy          SortBy
	SortOrder       SortOrder
	FilterCompleted CompletedFilter
	FilterPriority  PriorityFilter
	FilterType      TypeFilter
	SearchQuery     string
}

// DefaultViewOptions returns the options a fresh editor starts with
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		SortBy:          SortPriority,
		SortOrder:       Desc,
		FilterCompleted: ShowAll,
		FilterPriority:  AnyPriority,
		FilterType:      AnyType,
	}
}

// Derive filters then sorts a copy of list. Tasks with equal keys keep
// their relative order.
func Derive(list []models.Task, opts ViewOptions) []models.Task {
	out := make([]models.Task, 0, len(list))
	query := searchQuery(opts)
	for _, t := range list {
		if keep(t, opts, query) {
			out = append(out, t.Clone())
		}
	}

	desc := opts.SortOrder != Asc
	slices.SortStableFunc(out, func(a, b models.Task) int {
		c := compareTasks(a, b, opts.SortBy)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Count returns how many tasks of list pass the filters in opts
func Count(list []models.Task, opts ViewOptions) int {
	query := searchQuery(opts)
	n := 0
	for _, t := range list {
		if keep(t, opts, query) {
			n++
		}
	}
	return n
}

// searchQuery is the lowercased query, or empty when it is only blanks.
// Surrounding spaces of a non-blank query are part of the match.
func searchQuery(opts ViewOptions) string {
	if strings.TrimSpace(opts.SearchQuery) == "" {
		return ""
	}
	return strings.ToLower(opts.SearchQuery)
}

func keep(t models.Task, opts ViewOptions, query string) bool {
	switch opts.FilterCompleted {
	case ShowCompleted:
		if !t.Completed {
			return false
		}
	case ShowPending:
		if t.Completed {
			return false
		}
	}

	switch opts.FilterPriority {
	case "", AnyPriority:
	case NoPriority:
		if t.Priority != models.PriorityNone {
			return false
		}
	default:
		if string(t.Priority) != string(opts.FilterPriority) {
			return false
		}
	}

	if opts.FilterType != "" && opts.FilterType != AnyType && string(t.TaskType) != string(opts.FilterType) {
		return false
	}

	if query != "" {
		return strings.Contains(strings.ToLower(t.Text), query) ||
			strings.Contains(string(t.Priority), query) ||
			strings.Contains(string(t.TaskType), query)
	}
	return true
}

func compareTasks(a, b models.Task, by SortBy) int {
	switch by {
	case SortDueDate:
		return cmp.Compare(dueKey(a), dueKey(b))
	case SortCreationDate:
		return cmp.Compare(createdKey(a), createdKey(b))
	case SortName:
		return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
	default:
		return cmp.Compare(a.Priority.Weight(), b.Priority.Weight())
	}
}

// dueKey is the due date in epoch milliseconds; tasks without one sort as 0
func dueKey(t models.Task) int64 {
	if t.DueDate == nil {
		return 0
	}
	return t.DueDate.UnixMilli()
}

// createdKey prefers CreatedAt and falls back to ids that are millisecond
// timestamps, which older data used
func createdKey(t models.Task) int64 {
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt.UnixMilli()
	}
	if ms, err := strconv.ParseInt(t.ID, 10, 64); err == nil {
		return ms
	}
	return 0
}

// ParseSortBy parses a task sort key
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(s); v {
	case SortPriority, SortDueDate, SortCreationDate, SortName:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseSortOrder parses asc or desc
func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(s); v {
	case Asc, Desc:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// ParseCompletedFilter parses all, completed or pending
func ParseCompletedFilter(s string) (CompletedFilter, error) {
	switch v := CompletedFilter(s); v {
	case ShowAll, ShowCompleted, ShowPending:
		return v, nil
	}
	return "", fmt.Errorf("unknown completion filter %q", s)
}

// ParsePriorityFilter parses all, none, low, medium or high
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	switch v := PriorityFilter(s); v {
	case AnyPriority, NoPriority:
		return v, nil
	}
	if p := models.Priority(s); p != models.PriorityNone && p.Valid() {
		return PriorityFilter(s), nil
	}
	return "", fmt.Errorf("unknown priority filter %q", s)
}

// ParseTypeFilter parses all, one-time or daily
func ParseTypeFilter(s string) (TypeFilter, error) {
	if s == string(AnyType) || models.TaskType(s).Valid() {
		return TypeFilter(s), nil
	}
	return "", fmt.Errorf("unknown type filter %q", s)
}

// ParsePriority parses a priority name; "none" and "" clear it
func ParsePriority(s string) (models.Priority, error) {
	if s == "none" {
		return models.PriorityNone, nil
	}
	p := models.Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}
