package outreach

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SessionState is the lifecycle position of a relay session.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StateAuthenticated
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// Session is one connection to a relay, reused for every message of a run.
// The relay is released exactly once, by Close or by a failed Authenticate.
type Session struct {
	relay  Relay
	state  SessionState
	closed bool
	log    zerolog.Logger
	tracer trace.Tracer
	mu     sync.Mutex
}

// Connect opens a transport channel to relay.
func Connect(ctx context.Context, relay Relay, log zerolog.Logger) (*Session, error) {
	tracer := otel.Tracer("github.com/lattiq/outreach")
	ctx, span := tracer.Start(ctx, "outreach.Session.Connect",
		trace.WithAttributes(attribute.String("outreach.relay", relay.Name())))
	defer span.End()

	log = log.With().Str("relay", relay.Name()).Logger()
	log.Debug().Msg("Connecting to relay...")

	if err := relay.Connect(ctx); err != nil {
		connErr := &ConnectionError{Relay: relay.Name(), Cause: err}
		span.RecordError(connErr)
		span.SetStatus(codes.Error, "connect failed")
		return nil, connErr
	}

	log.Debug().Msg("Connected")

	return &Session{
		relay:  relay,
		state:  StateConnected,
		log:    log,
		tracer: tracer,
	}, nil
}

// Authenticate secures the channel and logs in. On failure the session is
// closed and the returned *AuthError describes the rejection.
func (s *Session) Authenticate(ctx context.Context, username, secret string) error {
	ctx, span := s.tracer.Start(ctx, "outreach.Session.Authenticate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state == StateAuthenticated {
		return nil
	}

	s.log.Debug().Str("username", username).Msg("Logging in...")

	if err := s.relay.Authenticate(ctx, username, secret); err != nil {
		authErr := &AuthError{Relay: s.relay.Name(), Username: username, Cause: err}
		span.RecordError(authErr)
		span.SetStatus(codes.Error, "login failed")

		if closeErr := s.release(); closeErr != nil {
			s.log.Warn().Err(closeErr).Msg("Failed to close relay after login failure")
		}
		return authErr
	}

	s.state = StateAuthenticated
	s.log.Debug().Msg("Logged in")

	return nil
}

// Send transmits one message. Failures come back as *SendError and leave
// the session usable for the next message.
func (s *Session) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	ctx, span := s.tracer.Start(ctx, "outreach.Session.Send",
		trace.WithAttributes(attribute.String("outreach.to", msg.To.Email)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch {
	case s.closed:
		err = &SendError{Recipient: msg.To.Email, Cause: ErrSessionClosed}
	case s.state != StateAuthenticated:
		err = &SendError{Recipient: msg.To.Email, Cause: ErrNotAuthenticated}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session not ready")
		return nil, err
	}

	result, sendErr := s.relay.Send(ctx, msg)
	if sendErr != nil {
		err = &SendError{Recipient: msg.To.Email, Cause: sendErr}
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("outreach.message_id", result.MessageID))
	span.SetStatus(codes.Ok, "email sent")

	return result, nil
}

// Close releases the relay. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.log.Debug().Msg("Disconnecting from relay")
	return s.release()
}

// State reports the session's lifecycle position.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) release() error {
	s.closed = true
	s.state = StateDisconnected
	return s.relay.Close()
}

// Open connects to relay and logs in with the given credentials.
func Open(ctx context.Context, relay Relay, username, secret string, log zerolog.Logger) (*Session, error) {
	session, err := Connect(ctx, relay, log)
	if err != nil {
		return nil, err
	}

	if err := session.Authenticate(ctx, username, secret); err != nil {
		return nil, err
	}

	return session, nil
}
