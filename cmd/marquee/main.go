package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/acs560/marquee/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
