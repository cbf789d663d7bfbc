package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetBySlug(ctx context.Context, slug string) (Team, bool, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	Insert(ctx context.Context, name, description string) (Team, error)
	InsertMany(ctx context.Context, names []string) (BulkResult, error)
	// Update applies only the non-nil fields. It reports false when no field
	// was given or no row matched.
	Update(ctx context.Context, id int64, patch Patch) (Team, bool, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// Patch carries optional replacements for a partial update.
type Patch struct {
	Name        *string
	Slug        *string
	Description *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil
}
