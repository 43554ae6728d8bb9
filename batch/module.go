// Package batch compiles every shader source under a directory tree.
package batch

import (
	"github.com/reusee/dscope"

	"github.com/gogpu/glslcode/logs"
)

// Module provides Driver with its configuration and logger.
type Module struct {
	dscope.Module
	Logs logs.Module
}

// Driver returns a driver for the merged Config.
func (Module) Driver(
	config Config,
	logger logs.Logger,
) *Driver {
	return &Driver{
		Config: config,
		Logger: logger,
	}
}
