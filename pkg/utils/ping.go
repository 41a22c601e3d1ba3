package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ping/ping"
	"github.com/sirupsen/logrus"
)

const (
	PingBackendAuto = "auto"
	PingBackendICMP = "icmp"
	PingBackendTCP  = "tcp"
)

var ErrUnknownPingBackend = errors.New("unknown ping backend")

// PingStats summarizes a run of echo requests or TCP connect probes.
// Backend tells which of the two produced it; Port is only set for TCP.
type PingStats struct {
	Host        string          `json:"host"`
	Backend     string          `json:"backend"`
	Port        int             `json:"port,omitempty"`
	Sent        int             `json:"sent"`
	Received    int             `json:"received"`
	PacketLoss  float64         `json:"packet_loss"`
	MinRTT      time.Duration   `json:"min_rtt"`
	AvgRTT      time.Duration   `json:"avg_rtt"`
	MaxRTT      time.Duration   `json:"max_rtt"`
	RTTs        []time.Duration `json:"rtts,omitempty"`
	LastFailure string          `json:"last_failure,omitempty"`
}

// PingOptions tunes Ping. Zero values pick the defaults.
type PingOptions struct {
	Backend  string
	Count    int
	Port     int
	Timeout  time.Duration
	Interval time.Duration
}

func (o PingOptions) withDefaults() PingOptions {
	o.Backend = strings.ToLower(strings.TrimSpace(o.Backend))
	if o.Backend == "" {
		o.Backend = PingBackendAuto
	}
	if o.Count <= 0 {
		o.Count = 4
	}
	if o.Port <= 0 {
		o.Port = 443
	}
	if o.Timeout <= 0 {
		o.Timeout = 3 * time.Second
	}
	if o.Interval <= 0 {
		o.Interval = 200 * time.Millisecond
	}
	return o
}

// ValidPingBackend reports whether name selects a ping backend.
func ValidPingBackend(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PingBackendAuto, PingBackendICMP, PingBackendTCP:
		return true
	}
	return false
}

// icmpPing is swapped out in tests, where ICMP sockets may be unavailable.
var icmpPing = ICMPPing

// Ping measures reachability of host. The auto backend sends unprivileged
// ICMP echo requests and falls back to TCP connect probes when the ICMP
// socket cannot be opened.
func Ping(ctx context.Context, host string, opts PingOptions) (*PingStats, error) {
	opts = opts.withDefaults()
	switch opts.Backend {
	case PingBackendTCP:
		return TCPPing(ctx, host, opts), nil
	case PingBackendICMP:
		return icmpPing(ctx, host, opts)
	case PingBackendAuto:
		stats, err := icmpPing(ctx, host, opts)
		if err == nil {
			return stats, nil
		}
		logrus.WithField("host", host).Debugf("icmp ping unavailable, using tcp connect: %v", err)
		return TCPPing(ctx, host, opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPingBackend, opts.Backend)
}

// ICMPPing sends opts.Count echo requests over an unprivileged datagram
// socket. An error means the pinger could not run at all; lost replies only
// show up in the statistics.
func ICMPPing(ctx context.Context, host string, opts PingOptions) (*PingStats, error) {
	opts = opts.withDefaults()
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return nil, fmt.Errorf("init pinger: %w", err)
	}
	pinger.SetPrivileged(false)
	pinger.Count = opts.Count
	pinger.Interval = opts.Interval
	pinger.Timeout = time.Duration(opts.Count)*opts.Interval + opts.Timeout

	stop := context.AfterFunc(ctx, pinger.Stop)
	defer stop()

	if err := pinger.Run(); err != nil {
		return nil, fmt.Errorf("icmp ping %s: %w", host, err)
	}

	st := pinger.Statistics()
	stats := &PingStats{
		Host:       host,
		Backend:    PingBackendICMP,
		Sent:       st.PacketsSent,
		Received:   st.PacketsRecv,
		PacketLoss: st.PacketLoss,
		MinRTT:     st.MinRtt,
		AvgRTT:     st.AvgRtt,
		MaxRTT:     st.MaxRtt,
		RTTs:       st.Rtts,
	}
	if stats.Received == 0 && stats.Sent > 0 {
		stats.LastFailure = "no echo replies"
	}
	return stats, nil
}

// TCPPing measures reachability by timing TCP handshakes to host:port.
func TCPPing(ctx context.Context, host string, opts PingOptions) *PingStats {
	opts = opts.withDefaults()
	stats := &PingStats{Host: host, Backend: PingBackendTCP, Port: opts.Port}
	addr := net.JoinHostPort(host, strconv.Itoa(opts.Port))
	dialer := &net.Dialer{Timeout: opts.Timeout}

	var total time.Duration
	for i := 0; i < opts.Count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return stats.finish(total)
			case <-time.After(opts.Interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		stats.Sent++
		start := time.Now()
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		rtt := time.Since(start)
		if err != nil {
			stats.LastFailure = err.Error()
			continue
		}
		conn.Close()

		stats.Received++
		stats.RTTs = append(stats.RTTs, rtt)
		total += rtt
		if stats.MinRTT == 0 || rtt < stats.MinRTT {
			stats.MinRTT = rtt
		}
		if rtt > stats.MaxRTT {
			stats.MaxRTT = rtt
		}
	}
	return stats.finish(total)
}

func (s *PingStats) finish(total time.Duration) *PingStats {
	if s.Sent > 0 {
		s.PacketLoss = float64(s.Sent-s.Received) / float64(s.Sent) * 100
	}
	if s.Received > 0 {
		s.AvgRTT = total / time.Duration(s.Received)
	}
	return s
}
