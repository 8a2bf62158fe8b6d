package interfaces

import "context"

// HeadlineFetcher retrieves recent headlines for a company name or symbol,
// most recent first. A failed fetch yields an empty slice, never an error
// the scoring pipeline has to handle.
type HeadlineFetcher interface {
	Headlines(ctx context.Context, company string) []string
}
