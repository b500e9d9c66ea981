// Package source fetches graph records for the viewer: the initial result
// and the neighbourhood of a node being expanded.
package source

import (
	"context"
	"errors"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// ErrUnknownNode is returned when expanding a node the source does not
// know.
var ErrUnknownNode = errors.New("unknown node")

// Expansion is the neighbourhood of one node.
type Expansion struct {
	// Records holds the neighbour nodes and the relationships linking them
	// to the expanded node.
	Records graphmodel.Records
	// Total is the number of distinct neighbours, which may exceed the
	// nodes returned.
	Total int
}

// Source is a read-only graph backend.
type Source interface {
	// Initial returns the records to show first.
	Initial(ctx context.Context) (graphmodel.Records, error)
	// Expand returns up to limit neighbours of nodeID.
	Expand(ctx context.Context, nodeID string, limit int) (Expansion, error)
	// Between returns every relationship whose endpoints are both in ids.
	Between(ctx context.Context, ids []string) ([]graphmodel.RelationshipRecord, error)
	Close(ctx context.Context) error
}
