package order

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"glazeworks/core/quote"
)

// DefaultConcurrency bounds how many items are priced at once
const DefaultConcurrency = 8

// Priced is a fully priced order
type Priced struct {
	Lines  []quote.LineItem `json:"lines"`
	Totals quote.Totals     `json:"totals"`

	// Rates is the fingerprint of the rate table used
	Rates string `json:"rates"`
}

// Pricer prices parsed order items
type Pricer struct {
	composer    *quote.Composer
	concurrency int
}

// NewPricer creates a pricer. concurrency below one uses DefaultConcurrency.
func NewPricer(composer *quote.Composer, concurrency int) *Pricer {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Pricer{composer: composer, concurrency: concurrency}
}

// Price prices every item and totals the order. Lines keep file order. The first
// invalid item cancels the rest.
func (p *Pricer) Price(ctx context.Context, items []Item) (*Priced, error) {
	lines := make([]quote.LineItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch, err := item.Batch()
			if err != nil {
				return err
			}
			line, err := p.composer.NewLineItem(item.Name, batch, item.Private, item.Quantity)
			if err != nil {
				return fmt.Errorf("item %q: %w", item.Name, err)
			}
			lines[i] = line
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Priced{
		Lines:  lines,
		Totals: p.composer.TotalsFor(lines),
		Rates:  p.composer.Catalog().Fingerprint(),
	}, nil
}
