package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/fs"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/adapters/imageopt"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/adapters/sass"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/adapters/script"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/adapters/stylesheet" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/assetpipe/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline runner Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			fs.WriterNodeID,
			sass.NodeID,
			stylesheet.NodeID,
			script.NodeID,
			imageopt.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			resolver, err := graft.Dep[ports.SourceResolver](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}

			compiler, err := graft.Dep[ports.StylesheetCompiler](ctx)
			if err != nil {
				return nil, err
			}

			transformer, err := graft.Dep[ports.StylesheetTransformer](ctx)
			if err != nil {
				return nil, err
			}

			scripts, err := graft.Dep[ports.ScriptMinifier](ctx)
			if err != nil {
				return nil, err
			}

			images, err := graft.Dep[ports.ImageOptimizer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(resolver, writer, compiler, transformer, scripts, images, log), nil
		},
	})
}
