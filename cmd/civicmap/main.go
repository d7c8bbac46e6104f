package main

import (
	"log"

	"github.com/otramalaga/civicmap/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ civicmap failed to start: %v", err)
	}
}
