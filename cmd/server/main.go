// Package main implements the entry point for the NexusBoard API server,
// which tracks tasks on a kanban board and enriches them in the
// background with AI-generated execution plans, acceptance criteria,
// solution drafts, and learning resources.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
