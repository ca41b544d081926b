package main

import (
	"log"

	"github.com/attarhouse/attarhouse-api/internal/presentation/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("attarhouse: %v", err)
	}
}
