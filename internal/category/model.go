package category

// Category is a category id with its display name and, when listed against
// a grid, the number of products toggling it would show.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
