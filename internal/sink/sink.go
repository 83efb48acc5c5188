// Package sink decouples OAuth-callback latency from persistence latency.
//
// Callback handlers hand completed credentials to the sink over a channel
// and return immediately; a single consumer goroutine drains the channel
// and writes to the store sequentially, so persistence order matches
// enqueue order. There is deliberately no cross-request ordering
// guarantee between a login completing and a later data request seeing
// the token: a caller retrying immediately after OAuth may observe a
// transient 401.
package sink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/folio/internal/plugin"
	"github.com/sakif/folio/internal/repository"
)

// DefaultBuffer is sized so a burst of logins never blocks a callback
// handler in practice. An overflowing sink drops the payload (at-most-once
// persistence; the user simply logs in again).
const DefaultBuffer = 256

var errSinkFull = errors.New("sink: buffer full, payload dropped")

// Sink is the multi-producer, single-consumer mailbox for auth tokens.
type Sink struct {
	ch     chan plugin.AuthTokenPayload
	store  repository.UserSourceRepository
	logger *slog.Logger
}

func New(store repository.UserSourceRepository, logger *slog.Logger, buffer int) *Sink {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Sink{
		ch:     make(chan plugin.AuthTokenPayload, buffer),
		store:  store,
		logger: logger,
	}
}

// Save enqueues a payload without blocking. It satisfies
// plugin.SaveAuthToken, so auth plugins depend on this method value
// rather than on the sink itself.
func (s *Sink) Save(p plugin.AuthTokenPayload) error {
	select {
	case s.ch <- p:
		return nil
	default:
		s.logger.Error("auth token dropped",
			slog.String("source", p.Source.String()),
			slog.String("username", p.Username),
		)
		return errSinkFull
	}
}

// Run drains the channel until ctx is cancelled, then finishes whatever
// is still queued before returning. Call it from exactly one goroutine.
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case p := <-s.ch:
			s.persist(p)
		case <-ctx.Done():
			// Drain what was enqueued before shutdown.
			for {
				select {
				case p := <-s.ch:
					s.persist(p)
				default:
					return
				}
			}
		}
	}
}

func (s *Sink) persist(p plugin.AuthTokenPayload) {
	// The request that produced this payload is long gone, so persistence
	// runs under its own context, not the request's.
	if err := s.store.SaveUserSource(context.Background(), p.Source, p.Username, p.Token); err != nil {
		s.logger.Error("failed to persist auth token",
			slog.String("source", p.Source.String()),
			slog.String("username", p.Username),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("auth token persisted",
		slog.String("source", p.Source.String()),
		slog.String("username", p.Username),
	)
}
