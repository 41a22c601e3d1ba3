package domain

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// startWhoisServer answers every connection with reply after reading the
// query line, and reports the queries it saw.
func startWhoisServer(t *testing.T, reply string) (addr string, queries <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	seen := make(chan string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, _ := bufio.NewReader(c).ReadString('\n')
				seen <- line
				_, _ = c.Write([]byte(reply))
			}(conn)
		}
	}()
	return ln.Addr().String(), seen
}

func TestTCPQuerier(t *testing.T) {
	addr, queries := startWhoisServer(t, "% comment\nDomain Name: EXAMPLE.COM\n")

	q := &TCPQuerier{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	body, err := q.Query(ctx, addr, "example.com")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if !strings.Contains(body, "Domain Name: EXAMPLE.COM") {
		t.Fatalf("body = %q", body)
	}
	if got := <-queries; got != "example.com\r\n" {
		t.Fatalf("query line = %q", got)
	}
}

func TestTCPQuerierUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = (&TCPQuerier{}).Query(context.Background(), addr, "example.com")
	if err == nil {
		t.Fatal("expected dial error")
	}
}

func TestResolverOverTCP(t *testing.T) {
	deadAddr := func() string {
		ln, _ := net.Listen("tcp", "127.0.0.1:0")
		defer ln.Close()
		return ln.Addr().String()
	}()
	emptyAddr, _ := startWhoisServer(t, "%% no entries found\n\n")
	goodAddr, _ := startWhoisServer(t, "Domain Name: EXAMPLE.COM\nRegistrar: Example\n")

	r, err := NewResolver([]string{deadAddr, emptyAddr, goodAddr}, WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Lookup(context.Background(), Domain("example.com"))
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if res.Server != goodAddr || len(res.Lines) != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestResolverOverTCPExhausted(t *testing.T) {
	emptyAddr, _ := startWhoisServer(t, "")
	r, _ := NewResolver([]string{emptyAddr}, WithTimeout(time.Second))

	_, err := r.Lookup(context.Background(), Domain("example.com"))
	if !errors.Is(err, ErrAllServersExhausted) || !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v", err)
	}
}

func TestServerAddress(t *testing.T) {
	if got := serverAddress("whois.iana.org"); got != "whois.iana.org:43" {
		t.Fatalf("got %s", got)
	}
	if got := serverAddress("127.0.0.1:4343"); got != "127.0.0.1:4343" {
		t.Fatalf("got %s", got)
	}
}

func TestLibraryQuerier(t *testing.T) {
	addr, queries := startWhoisServer(t, "% comment\nDomain Name: EXAMPLE.COM\nRegistrar WHOIS Server: 127.0.0.1:1\n")

	q := &LibraryQuerier{Timeout: 2 * time.Second}
	body, err := q.Query(context.Background(), addr, "example.com")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if !strings.Contains(body, "Domain Name: EXAMPLE.COM") {
		t.Fatalf("body = %q", body)
	}
	if got := <-queries; got != "example.com\r\n" {
		t.Fatalf("query line = %q", got)
	}
	select {
	case extra := <-queries:
		t.Fatalf("referral followed with referrals disabled: %q", extra)
	default:
	}
}

func TestLibraryQuerierHonoursContextDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		var held []net.Conn
		defer func() {
			for _, c := range held {
				c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, conn)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = (&LibraryQuerier{Timeout: 10 * time.Second}).Query(ctx, ln.Addr().String(), "example.com")
	if err == nil {
		t.Fatal("expected an error from a silent server")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("query took %v, deadline not applied", elapsed)
	}
}

func TestLibraryQuerierCapsReplySize(t *testing.T) {
	reply := strings.Repeat("Remarks: padding\n", maxWhoisReplySize/16+64)
	addr, _ := startWhoisServer(t, reply)

	body, err := (&LibraryQuerier{Timeout: 5 * time.Second}).Query(context.Background(), addr, "example.com")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(body) > maxWhoisReplySize || !strings.HasSuffix(body, "\n") {
		t.Fatalf("reply of %d bytes not cut at a line break within the limit", len(body))
	}
}

func TestTruncateReply(t *testing.T) {
	if got := truncateReply("short\n"); got != "short\n" {
		t.Fatalf("got %q", got)
	}
	long := strings.Repeat("a", maxWhoisReplySize-2) + "\nbbbb"
	if got := truncateReply(long); len(got) != maxWhoisReplySize-1 {
		t.Fatalf("len = %d", len(got))
	}
}
