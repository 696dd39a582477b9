package model

// Section is a user-defined grouping of tasks. Order defines section display
// order and is distinct from the per-section item order.
type Section struct {
	ID          SectionID `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Order       int       `json:"order"`
	IsCollapsed bool      `json:"isCollapsed,omitempty"`
}

// DefaultSection is the section every install starts with and the home of
// tasks that never got an explicit section.
func DefaultSection() Section {
	return Section{
		ID:    DefaultSectionID,
		Name:  "Tasks",
		Order: 0,
	}
}
