package order

import (
	"context"
	"fmt"
)

// Channel delivers one order message to the business.
type Channel interface {
	Send(ctx context.Context, message string) error
}

// Opener dispatches a chat link, e.g. by returning it to a browser or
// launching it on the host.
type Opener func(ctx context.Context, link string) error

// LinkChannel sends by building a chat link to Phone and handing it to Open.
type LinkChannel struct {
	Phone string
	Open  Opener
}

func (c LinkChannel) Send(ctx context.Context, message string) error {
	if Digits(c.Phone) == "" {
		return ErrNoRecipient
	}
	if c.Open == nil {
		return ErrNoOpener
	}
	if err := c.Open(ctx, ChatLink(c.Phone, message)); err != nil {
		return fmt.Errorf("open chat link: %w", err)
	}
	return nil
}

// ChannelFunc adapts a func to Channel.
type ChannelFunc func(ctx context.Context, message string) error

func (f ChannelFunc) Send(ctx context.Context, message string) error {
	return f(ctx, message)
}
