package payment

import "context"

// Gateway is the external value-movement collaborator. Collect pulls
// the booking payment or pool deposit in from the caller; Release pushes
// a withdrawn balance out. Both may run arbitrary external code, so the
// engine completes every internal mutation before calling Release and
// holds its operation guard across both.
type Gateway interface {
	Collect(ctx context.Context, account string, amount int64) error
	Release(ctx context.Context, account string, amount int64) error
}

// NoopGateway is the deployment mode where money moves out of band
// (card processor, bank rails) and the engine only keeps the books.
type NoopGateway struct{}

func (NoopGateway) Collect(ctx context.Context, account string, amount int64) error { return nil }
func (NoopGateway) Release(ctx context.Context, account string, amount int64) error { return nil }
