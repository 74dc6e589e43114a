//go:build adapters_sqs
// +build adapters_sqs

package sqssource

// Config controls the SQS source behavior.
type Config struct {
	// Required: fully qualified SQS queue URL
	QueueURL string

	// Optional: AWS region; falls back to default chain if empty
	Region string

	// ReceiveMessage long polling seconds (0..20).
	WaitTimeSeconds int

	// Number of messages to request per ReceiveMessage (1..10).
	MaxNumberOfMessages int
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		WaitTimeSeconds:     20,
		MaxNumberOfMessages: 10,
	}
}
