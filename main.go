package main

import (
	"embed"
	"io/fs"
	"os"

	"github.com/riky97/volleyball-scoreboard/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	dist, err := fs.Sub(assets, "frontend/dist")
	if err == nil {
		err = app.Run(dist)
	}
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
}
