package sinks

import (
	"bytes"
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kchain/krecord"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	ctx := context.Background()

	assert.NoError(t, w.Collect(ctx, krecord.Bytes("one")))
	assert.NoError(t, w.Collect(ctx, &krecord.Encoded{Value: []byte("two")}))
	assert.Equal(t, "", buf.String())

	assert.NoError(t, w.Close())
	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestWriter_Unsupported(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	assert.Error(t, w.Collect(context.Background(), lengthOnly(1)))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.Collect(context.Background(), krecord.Bytes("a")))
	assert.False(t, m.Closed())
	assert.NoError(t, m.Close())
	assert.True(t, m.Closed())
	assert.Equal(t, []krecord.Record{krecord.Bytes("a")}, m.Records())
}

func TestFunc(t *testing.T) {
	var got []string
	f := Func(func(_ context.Context, rec krecord.Record) error {
		got = append(got, rec.(krecord.Bytes).String())
		return nil
	})
	assert.NoError(t, f.Collect(context.Background(), krecord.Bytes("x")))
	assert.NoError(t, f.Close())
	assert.NoError(t, Discard{}.Collect(context.Background(), krecord.Bytes("y")))
	assert.Equal(t, []string{"x"}, got)
}

type lengthOnly int

func (l lengthOnly) BinaryLength() int { return int(l) }
