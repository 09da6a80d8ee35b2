package main

import (
	"os"

	"github.com/joho/godotenv"

	"ytchat/internal/cli"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
