package stylesheet

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the stylesheet transformer Graft node.
const NodeID graft.ID = "adapter.stylesheet"

func init() {
	graft.Register(graft.Node[ports.StylesheetTransformer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StylesheetTransformer, error) {
			return NewTransformer(), nil
		},
	})
}
