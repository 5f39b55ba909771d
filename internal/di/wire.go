//go:build wireinject
// +build wireinject

package di

import (
	"OptEdge/pkg/config"

	"github.com/google/wire"
)

// InitializeRuntime wires up all dependencies. The returned cleanup releases
// infrastructure clients in reverse order of construction.
func InitializeRuntime(cfg *config.Config) (*Runtime, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
