package broker

// Message is one delivery of a process-object job.
type Message interface {
	// Body is the object id the job refers to.
	Body() string
	// Attempt is the zero based delivery attempt of this job.
	Attempt() int
	Ack() error
	// Nack hands the job back for a delayed retry, or dead-letters it once the
	// attempt budget is spent.
	Nack(reason error) error
}
