package order

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"

	"go.uber.org/zap"
)

// Receipt describes a message handed to the channel.
type Receipt struct {
	Reference string  `json:"reference"`
	Message   string  `json:"message"`
	Lines     int     `json:"lines"`
	Items     int     `json:"items"`
	Total     float64 `json:"total"`
	// Unpriced counts lines sent without a price.
	Unpriced int       `json:"unpriced"`
	SentAt   time.Time `json:"sent_at"`
}

type Service interface {
	// Preview renders the summary without sending it.
	Preview(lines []cart.Line, totals cart.Totals) string
	// Checkout formats the cart and sends it. An empty cart is refused.
	Checkout(ctx context.Context, lines []cart.Line, totals cart.Totals) (*Receipt, error)
}

type Options struct {
	BusinessName string
	Currency     string
	Templates    Templates
}

type service struct {
	channel   Channel
	formatter Formatter
	business  string
	currency  string
	now       func() time.Time
	reference func(time.Time) string
}

func NewService(channel Channel, opts Options) Service {
	if opts.Templates == (Templates{}) {
		opts.Templates = DefaultTemplates
	}
	return &service{
		channel:   channel,
		formatter: Formatter{Templates: opts.Templates},
		business:  opts.BusinessName,
		currency:  opts.Currency,
		now:       time.Now,
		reference: NewReference,
	}
}

func (s *service) Preview(lines []cart.Line, totals cart.Totals) string {
	return s.formatter.Format(lines, totals, s.business, s.currency)
}

func (s *service) Checkout(ctx context.Context, lines []cart.Line, totals cart.Totals) (*Receipt, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	if len(lines) == 0 {
		log.Warn("checkout refused", zap.Error(cart.ErrCartEmpty))
		return nil, cart.ErrCartEmpty
	}

	msg := s.Preview(lines, totals)
	if err := s.channel.Send(ctx, msg); err != nil {
		log.Error("failed to send order", zap.Error(err))
		return nil, fmt.Errorf("send order: %w", err)
	}

	sentAt := s.now()
	ref := s.reference(sentAt)
	log.Info("order sent",
		zap.String("reference", ref),
		zap.Int("lines", totals.Lines),
		zap.Int("items", totals.Items),
		zap.Float64("total", totals.Price),
		zap.Int("unpriced", totals.Unpriced),
	)

	return &Receipt{
		Reference: ref,
		Message:   msg,
		Lines:     totals.Lines,
		Items:     totals.Items,
		Total:     totals.Price,
		Unpriced:  totals.Unpriced,
		SentAt:    sentAt,
	}, nil
}
