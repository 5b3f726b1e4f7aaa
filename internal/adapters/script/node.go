package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the script minifier Graft node.
const NodeID graft.ID = "adapter.script"

func init() {
	graft.Register(graft.Node[ports.ScriptMinifier]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ScriptMinifier, error) {
			return NewMinifier(), nil
		},
	})
}
