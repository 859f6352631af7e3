package abstraction

import "context"

// Processor runs one job for an object. A nil error settles the job; an error
// asks the queue for another attempt.
type Processor interface {
	Process(ctx context.Context, objectID string) error
}
