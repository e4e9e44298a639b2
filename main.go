package main

//go:generate swag init --parseDependency

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"github.com/satheeshds/phonebook/cli"
	_ "github.com/satheeshds/phonebook/docs"
)

//go:embed static/*
var staticFiles embed.FS

// @title           Phonebook API
// @version         1.0.0
// @description     API for storing names and phone numbers.
// @host            localhost:3001
// @BasePath        /

func main() {
	staticFS, _ := fs.Sub(staticFiles, "static")
	if err := cli.NewRootCommand(staticFS).Execute(); err != nil {
		slog.Error("phonebook failed", "error", err)
		os.Exit(1)
	}
}
