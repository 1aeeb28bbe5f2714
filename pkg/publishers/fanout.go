package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers each event to every configured sink in order.
type Fanout struct {
	sinks []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.sinks = append(f.sinks, p)
		}
	}
	return f
}

// Publish reports how many sinks accepted evt. A sink failure never stops
// delivery to the remaining sinks; all failures come back joined.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}
	accepted := 0
	var errs []error
	for _, p := range f.sinks {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label(p), err))
			continue
		}
		accepted++
	}
	return accepted, errors.Join(errs...)
}

// Size is the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks holding connections, such as Pub/Sub clients.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", label(p), err))
			}
		}
	}
	return errors.Join(errs...)
}

func label(p Publisher) string {
	return fmt.Sprintf("%s publisher[%s]", p.Type(), p.ID())
}
