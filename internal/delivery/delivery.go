// Package delivery defines the outer surfaces that expose the application.
package delivery

import "context"

// Delivery is a long-running server started by the fx entrypoint.
type Delivery interface {
	// Serve blocks until the server stops. A graceful shutdown returns nil.
	Serve(ctx context.Context) error
}
