package mermaid

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flo/internal/adapters/logger"
	"go.trai.ch/flo/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline loader Graft node.
const NodeID graft.ID = "adapter.pipeline_loader"

func init() {
	graft.Register(graft.Node[ports.PipelineLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PipelineLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
