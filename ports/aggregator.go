package ports

import (
	"context"

	"marketlens/domain/dataset"
	"marketlens/domain/market"
)

// Aggregator turns a table into one AgentResult. Implementations are pure
// functions of the table and their own options.
type Aggregator interface {
	Name() market.AgentKind
	Aggregate(ctx context.Context, table *dataset.Table) (*market.AgentResult, error)
}
