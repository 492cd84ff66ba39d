package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mmynk/chopbill/internal/cli"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
