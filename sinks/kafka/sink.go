package kafka

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"sync"

	"github.com/birdayz/kchain/krecord"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrClosed is returned by Collect after Close.
var ErrClosed = errors.New("kafka sink closed")

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Sink produces every record it receives to a Kafka topic. Produces are
// asynchronous; Flush and Close wait for all outstanding produces and report
// the first failure.
type Sink struct {
	producer Producer
	topic    string

	mu       sync.Mutex
	inflight sync.WaitGroup
	firstErr error
	produced int64
	closed   bool
}

func NewSink(producer Producer, topic string) *Sink {
	return &Sink{
		producer: producer,
		topic:    topic,
	}
}

// Collect converts rec into a Kafka record and hands it to the producer. A
// produce failure of an earlier record is returned here as soon as it is
// known.
func (s *Sink) Collect(ctx context.Context, rec krecord.Record) error {
	s.mu.Lock()
	closed, err := s.closed, s.firstErr
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	kr, err := s.toKafka(rec)
	if err != nil {
		return err
	}

	s.inflight.Add(1)
	// Background context: the produce must outlive the record's processing.
	s.producer.Produce(context.Background(), kr, func(r *kgo.Record, err error) {
		defer s.inflight.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			if s.firstErr == nil {
				s.firstErr = fmt.Errorf("produce to %s: %w", s.topic, err)
			}
			return
		}
		s.produced++
	})
	return nil
}

// Flush waits for all pending produces.
func (s *Sink) Flush() error {
	s.inflight.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	s.mu.Unlock()
	return s.Flush()
}

// Produced returns the number of acknowledged records.
func (s *Sink) Produced() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.produced
}

func (s *Sink) toKafka(rec krecord.Record) (*kgo.Record, error) {
	switch r := rec.(type) {
	case *krecord.Encoded:
		kr := &kgo.Record{
			Topic:     s.topic,
			Key:       r.Key,
			Value:     r.Value,
			Timestamp: r.Timestamp,
		}
		for _, h := range r.Headers.All() {
			kr.Headers = append(kr.Headers, kgo.RecordHeader{Key: h.Key, Value: h.Value})
		}
		return kr, nil
	case encoding.BinaryMarshaler:
		value, err := r.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("serialize value: %w", err)
		}
		return &kgo.Record{Topic: s.topic, Value: value}, nil
	default:
		return nil, fmt.Errorf("record of type %T cannot be produced to kafka", rec)
	}
}

var _ Producer = (*kgo.Client)(nil)
