// Package main implements the entry point for the StudyFlow API server,
// which manages versioned study plans and generates daily schedules that
// adapt automatically when work is left incomplete.
package main

import (
	"context"
	"log"
)

// main is the entry point for the studyflow-api server. It initializes
// configuration, logging, the database connection, and the service
// graph, then serves HTTP until shutdown.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
