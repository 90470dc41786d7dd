package main

import (
	"log"

	"github.com/MrSnakeDoc/mindnest/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ mindnest failed to start: %v", err)
	}
}
