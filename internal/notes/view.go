package notes

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kim-mac/aiopad/internal/models"
)

// Sort is the sidebar ordering
type Sort string

const (
	ModifiedDesc Sort = "modified-desc"
	ModifiedAsc  Sort = "modified-asc"
	CreatedDesc  Sort = "created-desc"
	CreatedAsc   Sort = "created-asc"
	TitleAsc     Sort = "title-asc"
	TitleDesc    Sort = "title-desc"
)

// Sorts lists every ordering in menu order
func Sorts() []Sort {
	return []Sort{ModifiedDesc, ModifiedAsc, CreatedDesc, CreatedAsc, TitleAsc, TitleDesc}
}

// ParseSort parses a sidebar ordering
func ParseSort(s string) (Sort, error) {
	if slices.Contains(Sorts(), Sort(s)) {
		return Sort(s), nil
	}
	return "", fmt.Errorf("unknown note sort %q", s)
}

// ViewOptions controls Derive. The zero value sorts by most recently modified.
type ViewOptions struct {
	Sort  Sort
	Query string
}

// Derive keeps the notes whose title contains Query, ignoring case, and
// orders them with every pinned note ahead of every unpinned one. Each
// group is sorted on its own and ties keep collection order.
func Derive(list []models.Note, opts ViewOptions) []models.Note {
	query := strings.ToLower(opts.Query)
	var pinned, unpinned []models.Note
	for _, n := range list {
		if query != "" && !strings.Contains(strings.ToLower(n.Title), query) {
			continue
		}
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}

	cmp := comparator(opts.Sort)
	slices.SortStableFunc(pinned, cmp)
	slices.SortStableFunc(unpinned, cmp)
	return append(pinned, unpinned...)
}

func comparator(by Sort) func(a, b models.Note) int {
	switch by {
	case ModifiedAsc:
		return func(a, b models.Note) int { return a.LastModified.Compare(b.LastModified) }
	case CreatedDesc:
		return func(a, b models.Note) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case CreatedAsc:
		return func(a, b models.Note) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case TitleAsc, TitleDesc:
		col := collate.New(language.English)
		if by == TitleDesc {
			return func(a, b models.Note) int { return col.CompareString(b.Title, a.Title) }
		}
		return func(a, b models.Note) int { return col.CompareString(a.Title, b.Title) }
	default:
		return func(a, b models.Note) int { return b.LastModified.Compare(a.LastModified) }
	}
}

// Sections splits a derived list for display
type Sections struct {
	Favorites []models.Note
	Active    []models.Note
	Archived  []models.Note
}

// Split partitions notes into favorites that are not archived, the
// remaining active notes, and archived notes, keeping order
func Split(list []models.Note) Sections {
	var s Sections
	for _, n := range list {
		switch {
		case n.IsArchived:
			s.Archived = append(s.Archived, n)
		case n.IsFavorite:
			s.Favorites = append(s.Favorites, n)
		default:
			s.Active = append(s.Active, n)
		}
	}
	return s
}
