// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	download.Module,
)
