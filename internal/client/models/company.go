package models

// CompanySummary is one roster entry. The roster arrives as a JSON object
// keyed by company id, so ID is filled in by the client.
type CompanySummary struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Sector      string   `json:"sector,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DisplayTags returns the explicit tags, or the sector as a single tag.
func (c CompanySummary) DisplayTags() []string {
	if len(c.Tags) > 0 {
		return c.Tags
	}
	if c.Sector != "" {
		return []string{c.Sector}
	}
	return nil
}

// Letter is the avatar initial shown in the grid.
func (c CompanySummary) Letter() string {
	for _, r := range c.Name {
		return string(r)
	}
	return "?"
}
