package smtp

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"time"
)

// deadlineClient refreshes the connection deadline at the start of every
// exchange, since net/smtp has no timeouts of its own.
type deadlineClient struct {
	*smtp.Client
	conn    net.Conn
	timeout time.Duration
}

func (c *deadlineClient) touch() {
	_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
}

func (c *deadlineClient) StartTLS(config *tls.Config) error {
	c.touch()
	return c.Client.StartTLS(config)
}

func (c *deadlineClient) Auth(a smtp.Auth) error {
	c.touch()
	return c.Client.Auth(a)
}

func (c *deadlineClient) Mail(from string) error {
	c.touch()
	return c.Client.Mail(from)
}

func (c *deadlineClient) Rcpt(to string) error {
	c.touch()
	return c.Client.Rcpt(to)
}

func (c *deadlineClient) Data() (io.WriteCloser, error) {
	c.touch()
	return c.Client.Data()
}

func (c *deadlineClient) Reset() error {
	c.touch()
	return c.Client.Reset()
}

func (c *deadlineClient) Quit() error {
	c.touch()
	return c.Client.Quit()
}

func dial(ctx context.Context, addr, host string, timeout time.Duration) (Client, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Bound the wait for the greeting.
	_ = conn.SetDeadline(time.Now().Add(timeout))
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &deadlineClient{Client: c, conn: conn, timeout: timeout}, nil
}
