package main

import (
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
