package imageopt

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the image optimizer Graft node.
const NodeID graft.ID = "adapter.imageopt"

func init() {
	graft.Register(graft.Node[ports.ImageOptimizer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ImageOptimizer, error) {
			return NewOptimizer(), nil
		},
	})
}
