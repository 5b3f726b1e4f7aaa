package sass

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/logger"
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the stylesheet compiler Graft node.
const NodeID graft.ID = "adapter.sass"

func init() {
	graft.Register(graft.Node[ports.StylesheetCompiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.StylesheetCompiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCompiler(log), nil
		},
	})
}
