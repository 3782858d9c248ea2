// Package kproto validates protobuf records flowing through a chain.
package kproto

import (
	"context"
	"fmt"

	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
	"github.com/bufbuild/protovalidate-go"
	"google.golang.org/protobuf/proto"
)

// Validator checks a message against its constraints. *protovalidate.Validator
// implements it.
type Validator interface {
	Validate(msg proto.Message) error
}

// ValidationError wraps a protovalidate error with the type of the rejected
// message.
type ValidationError struct {
	MessageType string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.MessageType, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateInterceptor creates an interceptor that validates krecord.Message
// records with protovalidate before the transformation sees them. Other
// records pass through unchecked.
//
// Example:
//
//	reg.Use(kproto.ValidateInterceptor())
func ValidateInterceptor() ktransform.Interceptor {
	validator, err := protovalidate.New()
	if err != nil {
		panic(fmt.Sprintf("failed to create protovalidate validator: %v", err))
	}
	return ValidateInterceptorWithValidator(validator)
}

// ValidateInterceptorWithValidator creates an interceptor using a pre-configured
// validator. Use this when you need custom validator options.
//
// Example:
//
//	validator, _ := protovalidate.New(protovalidate.WithFailFast(true))
//	reg.Use(kproto.ValidateInterceptorWithValidator(validator))
func ValidateInterceptorWithValidator(validator Validator) ktransform.Interceptor {
	return func(ctx context.Context, rec krecord.Record, out ktransform.Collector, next ktransform.Handler) error {
		if m, ok := rec.(krecord.Message); ok && m.Message != nil {
			if err := validator.Validate(m.Message); err != nil {
				return &ValidationError{
					MessageType: string(m.ProtoReflect().Descriptor().FullName()),
					Err:         err,
				}
			}
		}
		return next(ctx, rec, out)
	}
}

var _ Validator = (*protovalidate.Validator)(nil)
