package entity

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanBusiness   Plan = "business"
	PlanEnterprise Plan = "enterprise"
)

// Workspace mirrors the `workspaces` PostgreSQL table schema.
type Workspace struct {
	ID         string
	Name       string
	Slug       string
	Plan       Plan
	Usage      int64 // clicks recorded in the current billing cycle
	UsageLimit int64
}

// ExceededClicks reports whether the workspace is over its click allowance.
func (w *Workspace) ExceededClicks() bool {
	return w.Usage > w.UsageLimit
}
