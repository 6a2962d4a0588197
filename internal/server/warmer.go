package server

import "context"

// directoryWarmer is the part of the developer directory the server drives at startup and for readiness.
type directoryWarmer interface {
	Warm(ctx context.Context) error
	Loaded() bool
}
