package main

import (
	"github.com/joho/godotenv"

	"github.com/migueleog01/partselect/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
