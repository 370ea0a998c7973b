// Package feed implements the browse view's filtering and sorting as pure
// functions over a fetched prompt list.
package feed

import (
	"sort"

	"github.com/promptlover/promptlover-be/internal/categories"
	"github.com/promptlover/promptlover-be/internal/models"
)

// SortKey selects the feed ordering.
type SortKey string

const (
	SortLatest SortKey = "latest"
	SortLikes  SortKey = "likes"
	SortViews  SortKey = "views"
)

// Selection is the active category filter. An empty Sub with a non-empty
// Main matches the whole main category; both empty matches everything.
type Selection struct {
	Main string
	Sub  string
}

// Apply filters prompts by the selection, then sorts by the key. The input
// slice is not modified; ties keep their incoming relative order.
func Apply(prompts []models.Prompt, sel Selection, key SortKey) []models.Prompt {
	filtered := Filter(prompts, sel)
	Sort(filtered, key)
	return filtered
}

// Filter returns the prompts matching the selection.
func Filter(prompts []models.Prompt, sel Selection) []models.Prompt {
	out := make([]models.Prompt, 0, len(prompts))
	switch {
	case sel.Sub != "":
		for _, p := range prompts {
			if containsCategory(p.Category, sel.Sub) {
				out = append(out, p)
			}
		}
	case sel.Main != "":
		subs := categories.Subcategories(sel.Main)
		for _, p := range prompts {
			if intersects(p.Category, subs) {
				out = append(out, p)
			}
		}
	default:
		out = append(out, prompts...)
	}
	return out
}

// Sort orders prompts in place: latest by creation time descending, likes
// and views by their counters descending.
func Sort(prompts []models.Prompt, key SortKey) {
	sort.SliceStable(prompts, func(i, j int) bool {
		switch key {
		case SortLikes:
			return prompts[i].Likes > prompts[j].Likes
		case SortViews:
			return prompts[i].Views > prompts[j].Views
		default:
			return prompts[i].CreatedAt.After(prompts[j].CreatedAt)
		}
	})
}

func containsCategory(cats []string, want string) bool {
	for _, c := range cats {
		if c == want {
			return true
		}
	}
	return false
}

func intersects(cats, subs []string) bool {
	for _, c := range cats {
		if containsCategory(subs, c) {
			return true
		}
	}
	return false
}
