package project

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/flo/internal/adapters/config"
	"go.trai.ch/flo/internal/adapters/logger"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
)

// NodeID is the unique identifier for the project context Graft node.
const NodeID graft.ID = "adapter.project"

func init() {
	graft.Register(graft.Node[*domain.Project]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*domain.Project, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewDetector(cfg, log).Detect(cwd)
		},
	})
}
