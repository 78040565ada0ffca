package domain

// AllMedia is the media category sentinel.
const AllMedia = "All"

// MediaItem is a gallery entry.
type MediaItem struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Image       ImageRef `json:"image" yaml:"-"`
	ImageURL    string   `json:"imageUrl,omitempty" yaml:"image"`
	Alt         string   `json:"alt" yaml:"alt"`
}

// MediaCategories returns the sentinel followed by the distinct categories of
// items in first-seen order.
func MediaCategories(items []MediaItem) []string {
	out := []string{AllMedia}
	seen := map[string]struct{}{}
	for _, it := range items {
		if _, ok := seen[it.Category]; ok || it.Category == "" {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// FilterMedia keeps items of category; the sentinel or an empty category
// keeps everything.
func FilterMedia(items []MediaItem, category string) []MediaItem {
	if category == "" || category == AllMedia {
		return items
	}
	out := make([]MediaItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
