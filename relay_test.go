package outreach

import (
	"context"
	"sync"
	"time"
)

// fakeRelay records every call made by a session.
type fakeRelay struct {
	mu sync.Mutex

	connectErr error
	authErr    error
	sendErr    func(to string) error

	connects int
	auths    int
	closes   int
	username string
	secret   string
	sent     []Message
}

func (f *fakeRelay) Name() string { return "fake" }

func (f *fakeRelay) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	return f.connectErr
}

func (f *fakeRelay) Authenticate(ctx context.Context, username, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auths++
	f.username, f.secret = username, secret
	return f.authErr
}

func (f *fakeRelay) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		if err := f.sendErr(msg.To.Email); err != nil {
			return nil, err
		}
	}
	f.sent = append(f.sent, *msg)
	return &SendResult{MessageID: "id-" + msg.To.Email, Relay: "fake", Timestamp: time.Now()}, nil
}

func (f *fakeRelay) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeRelay) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To.Email)
	}
	return out
}
