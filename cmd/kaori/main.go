package main

import (
	"fmt"
	"os"

	"github.com/haruka/kaori/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kaori: %v\n", err)
		os.Exit(1)
	}
}
