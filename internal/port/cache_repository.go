package port

import "context"

// GateResult is the outcome of the advisory cache-side stock gate.
type GateResult int

const (
	// GateApplied means the cached stock covered the request and was decremented.
	GateApplied GateResult = iota
	// GateBypassed means no stock is mirrored for the item; the database decides.
	GateBypassed
	// GateBlocked means the cached stock is below the requested quantity.
	GateBlocked
)

// CacheRepository mirrors per-item stock for fast rejection of doomed orders.
// The mirror is advisory: it can fail a placement early but never authorizes
// one, the database keeps the authoritative count.
type CacheRepository interface {
	// DecrementStock atomically decreases mirrored stock.
	DecrementStock(ctx context.Context, menuItemID int64, quantity int) (GateResult, error)

	// IncrementStock restores mirrored stock after an applied gate whose
	// transaction did not commit.
	IncrementStock(ctx context.Context, menuItemID int64, quantity int) error

	// SetStock overwrites the mirror with an authoritative value.
	SetStock(ctx context.Context, menuItemID int64, stock int) error

	// SetIdempotency sets a duplicate-submit marker, false if it already exists.
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ClearIdempotency removes a marker so a failed attempt can be retried.
	ClearIdempotency(ctx context.Context, key string) error
}
