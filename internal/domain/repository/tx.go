package repository

import "context"

// TxManager runs a function inside one database transaction. Repository
// calls made with the context it passes to fn join that transaction; a
// nested Do joins the outer transaction instead of opening a new one.
// Invoice creation and sync-push each run as exactly one Do.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
