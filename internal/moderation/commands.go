package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tangled.org/vigil.social/vigil/internal/metrics"
	"tangled.org/vigil.social/vigil/internal/tracing"
)

// CommandKind identifies a downstream side-effect command.
type CommandKind string

const (
	CommandRemoveContent CommandKind = "remove_content"
	CommandSuspendUser   CommandKind = "suspend_user"
)

// Command is an instruction issued to an external collaborator as a
// consequence of a moderation decision. Delivery is at-least-once; the
// idempotency key (the originating report id, or the audit id for a
// direct ban) lets collaborators deduplicate replays.
type Command struct {
	Kind           CommandKind `json:"kind"`
	IdempotencyKey string      `json:"idempotency_key"`
	ContentID      string      `json:"content_id,omitempty"`
	ContentType    ContentType `json:"content_type,omitempty"`
	UserID         string      `json:"user_id,omitempty"`
	Reason         string      `json:"reason,omitempty"`
}

// ContentRemover is the content collaborator's command surface.
type ContentRemover interface {
	RemoveContent(ctx context.Context, contentID string, contentType ContentType, idempotencyKey string) error
}

// UserSuspender is the user collaborator's command surface.
type UserSuspender interface {
	SuspendUser(ctx context.Context, userID, reason, idempotencyKey string) error
}

// CommandSink accepts commands for asynchronous delivery. The engine
// writes to a sink so the report transition's durability is decoupled
// from downstream delivery.
type CommandSink interface {
	Enqueue(cmd Command)
}

// Dispatcher delivers commands to collaborators with bounded retries.
// A command that exhausts its retries is logged with its idempotency
// key so the calling layer can replay it safely.
type Dispatcher struct {
	content ContentRemover
	users   UserSuspender

	queue       chan Command
	maxAttempts int
	baseDelay   time.Duration
	perAttempt  time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering to the given collaborators.
func NewDispatcher(content ContentRemover, users UserSuspender) *Dispatcher {
	return &Dispatcher{
		content:     content,
		users:       users,
		queue:       make(chan Command, 1024),
		maxAttempts: 5,
		baseDelay:   500 * time.Millisecond,
		perAttempt:  10 * time.Second,
	}
}

// Start launches the delivery worker. It runs until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case cmd := <-d.queue:
				d.deliver(ctx, cmd)
			}
		}
	}()
	log.Info().Msg("command dispatcher started")
}

// Wait blocks until the delivery worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a command to the delivery worker. It never blocks the
// caller: if the queue is saturated the command is logged for
// out-of-band replay instead.
func (d *Dispatcher) Enqueue(cmd Command) {
	select {
	case d.queue <- cmd:
		metrics.CommandsEnqueued.WithLabelValues(string(cmd.Kind)).Inc()
	default:
		metrics.CommandsDropped.WithLabelValues(string(cmd.Kind)).Inc()
		log.Error().
			Str("kind", string(cmd.Kind)).
			Str("idempotency_key", cmd.IdempotencyKey).
			Msg("command queue saturated, command needs manual replay")
	}
}

// deliver executes one command against its collaborator, retrying with
// exponential backoff. The report's terminal state is already durable
// at this point, so failures here are never surfaced to the moderator.
func (d *Dispatcher) deliver(ctx context.Context, cmd Command) {
	ctx, span := tracing.CommandSpan(ctx, string(cmd.Kind), cmd.IdempotencyKey)
	defer span.End()

	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		err = d.execute(ctx, cmd)
		if err == nil {
			metrics.CommandsDelivered.WithLabelValues(string(cmd.Kind)).Inc()
			if attempt > 1 {
				log.Info().
					Str("kind", string(cmd.Kind)).
					Str("idempotency_key", cmd.IdempotencyKey).
					Int("attempt", attempt).
					Msg("command delivered after retry")
			}
			return
		}

		metrics.CommandRetries.WithLabelValues(string(cmd.Kind)).Inc()
		log.Warn().Err(err).
			Str("kind", string(cmd.Kind)).
			Str("idempotency_key", cmd.IdempotencyKey).
			Int("attempt", attempt).
			Msg("command delivery failed")

		if attempt == d.maxAttempts {
			break
		}

		delay := d.baseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			tracing.EndWithError(span, ctx.Err())
			return
		case <-time.After(delay):
		}
	}

	tracing.EndWithError(span, err)
	metrics.CommandsFailed.WithLabelValues(string(cmd.Kind)).Inc()
	log.Error().Err(err).
		Str("kind", string(cmd.Kind)).
		Str("idempotency_key", cmd.IdempotencyKey).
		Msg("command delivery exhausted retries, needs manual replay")
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) error {
	ctx, cancel := context.WithTimeout(ctx, d.perAttempt)
	defer cancel()

	switch cmd.Kind {
	case CommandRemoveContent:
		return d.content.RemoveContent(ctx, cmd.ContentID, cmd.ContentType, cmd.IdempotencyKey)
	case CommandSuspendUser:
		return d.users.SuspendUser(ctx, cmd.UserID, cmd.Reason, cmd.IdempotencyKey)
	default:
		log.Error().Str("kind", string(cmd.Kind)).Msg("unknown command kind dropped")
		return nil
	}
}
