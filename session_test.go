package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Failure(t *testing.T) {
	relay := &fakeRelay{connectErr: errors.New("dial tcp: refused")}

	session, err := Connect(context.Background(), relay, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, session)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "fake", connErr.Relay)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 0, relay.closes)
}

func TestSession_AuthenticateFailureClosesOnce(t *testing.T) {
	relay := &fakeRelay{authErr: errors.New("535 bad credentials")}

	session, err := Connect(context.Background(), relay, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, StateConnected, session.State())

	err = session.Authenticate(context.Background(), "a@x.org", "pw")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "a@x.org", authErr.Username)
	assert.Equal(t, StateDisconnected, session.State())
	assert.Equal(t, 1, relay.closes)

	require.NoError(t, session.Close())
	assert.Equal(t, 1, relay.closes)
}

func TestSession_SendBeforeAuthenticate(t *testing.T) {
	relay := &fakeRelay{}
	session, err := Connect(context.Background(), relay, zerolog.Nop())
	require.NoError(t, err)

	_, err = session.Send(context.Background(), &Message{To: Address{Email: "b@x.org"}})

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, relay.sent)
}

func TestSession_SendFailureKeepsSession(t *testing.T) {
	relay := &fakeRelay{sendErr: func(to string) error {
		if to == "bad@x.org" {
			return errors.New("550 mailbox unavailable")
		}
		return nil
	}}

	session, err := Open(context.Background(), relay, "a@x.org", "pw", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, session.State())
	assert.Equal(t, "a@x.org", relay.username)
	assert.Equal(t, "pw", relay.secret)

	_, err = session.Send(context.Background(), &Message{To: Address{Email: "bad@x.org"}})
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "bad@x.org", sendErr.Recipient)
	assert.False(t, IsFatal(err))

	result, err := session.Send(context.Background(), &Message{To: Address{Email: "good@x.org"}})
	require.NoError(t, err)
	assert.Equal(t, "id-good@x.org", result.MessageID)
	assert.Equal(t, StateAuthenticated, session.State())
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	relay := &fakeRelay{}
	session, err := Open(context.Background(), relay, "a@x.org", "pw", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
	assert.Equal(t, 1, relay.closes)

	_, err = session.Send(context.Background(), &Message{To: Address{Email: "b@x.org"}})
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, session.Authenticate(context.Background(), "a@x.org", "pw"), ErrSessionClosed)
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
