package domain

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
)

const (
	whoisPort         = "43"
	maxWhoisReplySize = 1 << 20
)

// serverAddress appends the WHOIS port when server has none.
func serverAddress(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, whoisPort)
}

// TCPQuerier speaks the WHOIS protocol directly: one connection, one query
// line, read until the server closes.
type TCPQuerier struct {
	Dialer *net.Dialer
}

func (q *TCPQuerier) Query(ctx context.Context, server, domain string) (string, error) {
	dialer := q.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	conn, err := dialer.DialContext(ctx, "tcp", serverAddress(server))
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := io.WriteString(conn, domain+"\r\n"); err != nil {
		return "", fmt.Errorf("write failed: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(conn, maxWhoisReplySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("read failed: %w", ctxErr)
		}
		return "", fmt.Errorf("read failed: %w", err)
	}
	return string(body), nil
}

// LibraryQuerier delegates to github.com/likexian/whois. Referral following is
// off unless FollowReferral is set, so one attempt touches one server.
type LibraryQuerier struct {
	Timeout        time.Duration
	FollowReferral bool
}

func (q *LibraryQuerier) Query(ctx context.Context, server, domain string) (string, error) {
	timeout := q.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = DefaultWhoisTimeout
	}

	client := whois.NewClient().
		SetTimeout(timeout).
		SetDisableReferral(!q.FollowReferral)

	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := client.Whois(domain, strings.TrimSuffix(serverAddress(server), ":"+whoisPort))
		ch <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return truncateReply(res.data), nil
	}
}

// truncateReply applies the TCP reader's size limit to a reply that was read
// in full, cutting at the last line break inside the limit.
func truncateReply(data string) string {
	if len(data) <= maxWhoisReplySize {
		return data
	}
	data = data[:maxWhoisReplySize]
	if i := strings.LastIndexByte(data, '\n'); i >= 0 {
		return data[:i+1]
	}
	return data
}
