package kproto

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type validatorFunc func(proto.Message) error

func (f validatorFunc) Validate(msg proto.Message) error { return f(msg) }

func passThrough(called *bool) ktransform.Handler {
	return func(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
		*called = true
		return nil
	}
}

func TestValidateInterceptor_ValidMessage(t *testing.T) {
	interceptor := ValidateInterceptor()

	var called bool
	err := interceptor(context.Background(), krecord.Message{Message: wrapperspb.String("hello")}, nil, passThrough(&called))
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestValidateInterceptor_Rejected(t *testing.T) {
	invalid := errors.New("value must not be empty")
	interceptor := ValidateInterceptorWithValidator(validatorFunc(func(msg proto.Message) error {
		if msg.(*wrapperspb.StringValue).GetValue() == "" {
			return invalid
		}
		return nil
	}))

	var called bool
	err := interceptor(context.Background(), krecord.Message{Message: wrapperspb.String("")}, nil, passThrough(&called))
	assert.False(t, called)
	assert.IsError(t, err, invalid)
	assert.EqualError(t, err, "validation failed for google.protobuf.StringValue: value must not be empty")
}

func TestValidateInterceptor_NonProtoRecords(t *testing.T) {
	interceptor := ValidateInterceptorWithValidator(validatorFunc(func(proto.Message) error {
		return errors.New("must not be called")
	}))

	var called bool
	assert.NoError(t, interceptor(context.Background(), krecord.Bytes("raw"), nil, passThrough(&called)))
	assert.True(t, called)
}

func TestValidateInterceptor_HandlerError(t *testing.T) {
	interceptor := ValidateInterceptor()

	expectedErr := errors.New("handler error")
	err := interceptor(context.Background(), krecord.Message{Message: wrapperspb.String("hello")}, nil,
		func(context.Context, krecord.Record, ktransform.Collector) error { return expectedErr })
	assert.IsError(t, err, expectedErr)
}
