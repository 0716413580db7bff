package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Club, error)
	UpsertClubs(ctx context.Context, items []Club) error
}
