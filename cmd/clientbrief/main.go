package main

import (
	"os"

	"github.com/clientbrief/clientbrief/internal/adapter/cli"
)

func main() {
	os.Exit(cli.Run())
}
