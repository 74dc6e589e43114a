//go:build adapters_sqs
// +build adapters_sqs

package sqssource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/source"
)

// Source implements source.Source over an SQS queue carrying JSON-encoded run
// events in message bodies. Messages are deleted after a successful decode;
// undecodable bodies are deleted and skipped so one bad message cannot wedge
// the stream.
type Source struct {
	client *sqs.Client
	cfg    Config
	mu     sync.Mutex
	buf    []*event.Event
	closed bool
}

// New constructs an SQS event source using the default AWS config chain.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("QueueURL is required")
	}
	base := DefaultConfig()
	if cfg.WaitTimeSeconds == 0 {
		cfg.WaitTimeSeconds = base.WaitTimeSeconds
	}
	if cfg.MaxNumberOfMessages == 0 {
		cfg.MaxNumberOfMessages = base.MaxNumberOfMessages
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewFromClient(sqs.NewFromConfig(awscfg), cfg), nil
}

// NewFromClient constructs the source from an existing SQS client.
func NewFromClient(client *sqs.Client, cfg Config) *Source {
	return &Source{client: client, cfg: cfg}
}

// Recv returns the next run event, long-polling SQS as needed. A message
// whose body is the literal EndOfStreamBody terminates the source with io.EOF.
func (s *Source) Recv(ctx context.Context) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, source.ErrSourceClosed
	}
	for {
		if len(s.buf) > 0 {
			ev := s.buf[0]
			if ev == nil {
				s.closed = true
				return nil, io.EOF
			}
			s.buf = s.buf[1:]
			return ev, nil
		}
		if err := s.fill(ctx); err != nil {
			return nil, err
		}
	}
}

// EndOfStreamBody marks the producer-side end of a run's event stream.
const EndOfStreamBody = `{"event":"__end__"}`

// fill long-polls once and decodes received messages into the buffer.
func (s *Source) fill(ctx context.Context) error {
	out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.cfg.QueueURL),
		MaxNumberOfMessages: int32(s.cfg.MaxNumberOfMessages),
		WaitTimeSeconds:     int32(s.cfg.WaitTimeSeconds),
	})
	if err != nil {
		return fmt.Errorf("receive message: %w", err)
	}
	for _, msg := range out.Messages {
		s.deleteMessage(ctx, msg)
		body := aws.ToString(msg.Body)
		if body == EndOfStreamBody {
			// nil entry signals EOF once earlier events drain
			s.buf = append(s.buf, nil)
			continue
		}
		var ev event.Event
		if err := json.Unmarshal([]byte(body), &ev); err != nil {
			continue
		}
		s.buf = append(s.buf, &ev)
	}
	return nil
}

func (s *Source) deleteMessage(ctx context.Context, msg sqstypes.Message) {
	_, _ = s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.cfg.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
}

// Close marks the source closed.
func (s *Source) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
