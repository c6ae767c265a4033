package entity

// Link mirrors the `links` PostgreSQL table schema.
type Link struct {
	ID          string
	WorkspaceID string
	Domain      string
	Key         string
	URL         string
}

// Domain mirrors the `domains` PostgreSQL table schema. A domain's root link
// is tracked under the domain's own ID.
type Domain struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Slug        string `json:"slug"`
	Target      string `json:"target,omitempty"`
	Archived    bool   `json:"archived"`
}
