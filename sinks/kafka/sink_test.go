package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kchain/krecord"
	"github.com/twmb/franz-go/pkg/kgo"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fakeProducer acknowledges produces from a separate goroutine, like the
// real client does.
type fakeProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	failOn  string
	err     error
}

func (p *fakeProducer) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	p.mu.Lock()
	p.records = append(p.records, r)
	p.mu.Unlock()

	var err error
	if p.failOn != "" && string(r.Value) == p.failOn {
		err = p.err
	}
	go func() {
		time.Sleep(time.Millisecond)
		promise(r, err)
	}()
}

func (p *fakeProducer) produced() []*kgo.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*kgo.Record(nil), p.records...)
}

func TestSink(t *testing.T) {
	t.Run("records are converted", func(t *testing.T) {
		p := &fakeProducer{}
		s := NewSink(p, "out")
		ctx := context.Background()

		h := krecord.NewHeaders()
		h.SetString("trace", "abc")
		ts := time.Unix(100, 0)
		assert.NoError(t, s.Collect(ctx, krecord.Bytes("plain")))
		assert.NoError(t, s.Collect(ctx, &krecord.Encoded{Key: []byte("k"), Value: []byte("v"), Timestamp: ts, Headers: h}))
		assert.NoError(t, s.Collect(ctx, krecord.Message{Message: wrapperspb.String("pb")}))
		assert.NoError(t, s.Close())

		recs := p.produced()
		assert.Equal(t, 3, len(recs))
		assert.Equal(t, "plain", string(recs[0].Value))
		assert.Equal(t, "out", recs[0].Topic)
		assert.Equal(t, "k", string(recs[1].Key))
		assert.Equal(t, ts, recs[1].Timestamp)
		assert.Equal(t, []kgo.RecordHeader{{Key: "trace", Value: []byte("abc")}}, recs[1].Headers)
		assert.True(t, len(recs[2].Value) > 0)
		assert.Equal(t, int64(3), s.Produced())
	})

	t.Run("produce failure surfaces on close", func(t *testing.T) {
		brokerErr := errors.New("not leader")
		p := &fakeProducer{failOn: "b", err: brokerErr}
		s := NewSink(p, "out")

		assert.NoError(t, s.Collect(context.Background(), krecord.Bytes("a")))
		assert.NoError(t, s.Collect(context.Background(), krecord.Bytes("b")))
		err := s.Close()
		assert.IsError(t, err, brokerErr)
		assert.Equal(t, int64(1), s.Produced())

		assert.IsError(t, s.Collect(context.Background(), krecord.Bytes("c")), ErrClosed)
		assert.IsError(t, s.Close(), ErrClosed)
	})

	t.Run("earlier failure fails the next collect", func(t *testing.T) {
		brokerErr := errors.New("not leader")
		s := NewSink(&fakeProducer{failOn: "a", err: brokerErr}, "out")
		assert.NoError(t, s.Collect(context.Background(), krecord.Bytes("a")))
		assert.IsError(t, s.Flush(), brokerErr)
		assert.IsError(t, s.Collect(context.Background(), krecord.Bytes("b")), brokerErr)
	})

	t.Run("unsupported record", func(t *testing.T) {
		s := NewSink(&fakeProducer{}, "out")
		assert.Error(t, s.Collect(context.Background(), lengthOnly(3)))
		assert.NoError(t, s.Close())
	})
}

type lengthOnly int

func (l lengthOnly) BinaryLength() int { return int(l) }
