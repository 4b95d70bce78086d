// Command mockapi serves a local stand-in for the JSONPlaceholder /users API.
package main

import (
	"context"
	"log"

	"user-crud-console/cmd/mockapi/app"
	"user-crud-console/cmd/mockapi/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to start mock API: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("mock API exited with error: %v", err)
	}
}
