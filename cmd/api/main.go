package main

import (
	"os"

	"github.com/nzvirtual/api/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
