// Package events carries movie change notifications to WebSocket clients and
// the message broker once a write has committed.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

type Type string

const (
	MovieCreated Type = "movie.created"
	MovieUpdated Type = "movie.updated"
	MovieDeleted Type = "movie.deleted"
)

type MovieEvent struct {
	Type    Type      `json:"type"`
	MovieID uint      `json:"movie_id"`
	Name    string    `json:"name,omitempty"`
	Date    string    `json:"date,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev MovieEvent) error
}

// Fanout delivers every event to all of its publishers and joins their errors.
type Fanout struct {
	publishers []Publisher
	log        logrus.FieldLogger
}

func NewFanout(log logrus.FieldLogger, publishers ...Publisher) *Fanout {
	f := &Fanout{log: log}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, ev MovieEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
