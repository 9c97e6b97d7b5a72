package services

import "context"

// Starter is implemented by long running components. Start returns once the
// component is running, and done is signalled after ctx is cancelled and the
// component has stopped.
type Starter interface {
	Start(ctx context.Context) (done chan struct{}, err error)
}
