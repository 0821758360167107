package dnsbench

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strconv"
	"time"

	"github.com/nsspam/nsspam/pkg/dnswire"
)

// Transport sends a single A query for the domain and waits for the response.
// It returns time elapsed between sending the query and receiving the response, or *QueryError.
// When requireAnswer is set, responses without answer records are reported as FailureNoAnswer.
type Transport interface {
	Query(ctx context.Context, domain string, requireAnswer bool) (time.Duration, error)
}

// UDPTransport sends each query from its own freshly opened UDP socket.
type UDPTransport struct {
	// Nameserver is IPv4 address with optional port, DefaultPort is used when port is missing.
	Nameserver string
	Timeout    time.Duration
}

var _ Transport = (*UDPTransport)(nil)

// Query sends one query to the nameserver. The context does not interrupt the query, it always
// completes or times out. Datagrams arriving from other addresses than the nameserver are ignored.
func (t *UDPTransport) Query(_ context.Context, domain string, requireAnswer bool) (time.Duration, error) {
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return 0, &QueryError{Kind: FailureSocketCreate, Err: err}
	}
	defer conn.Close()

	addr, err := nameserverAddr(t.Nameserver)
	if err != nil {
		return 0, &QueryError{Kind: FailureInvalidAddress, Err: err}
	}

	packet := dnswire.NewQuery(domain).Pack()

	start := time.Now()
	if _, err := conn.WriteToUDPAddrPort(packet, addr); err != nil {
		return 0, &QueryError{Kind: FailureSend, Err: err}
	}

	if err := conn.SetReadDeadline(start.Add(t.Timeout)); err != nil {
		return 0, &QueryError{Kind: FailureReceive, Err: err}
	}

	buf := make([]byte, dnswire.MaxUDPSize)
	var n int
	for {
		var from netip.AddrPort
		n, from, err = conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return 0, &QueryError{Kind: FailureTimeout, Err: err}
			}
			return 0, &QueryError{Kind: FailureReceive, Err: err}
		}
		if from.Addr().Unmap() == addr.Addr() && from.Port() == addr.Port() {
			break
		}
	}
	if n <= 0 {
		return 0, &QueryError{Kind: FailureReceive, Err: errEmptyResponse}
	}
	elapsed := time.Since(start)

	// the sample is dropped even though it was measured, negative answer is not a valid probe
	if requireAnswer && !dnswire.HasAnswer(buf[:n]) {
		return 0, &QueryError{Kind: FailureNoAnswer}
	}
	return elapsed, nil
}

func nameserverAddr(nameserver string) (netip.AddrPort, error) {
	host := nameserver
	port := uint16(DefaultPort)
	if h, p, err := net.SplitHostPort(nameserver); err == nil {
		parsed, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return netip.AddrPort{}, fmt.Errorf("invalid port '%s'", p)
		}
		host = h
		port = uint16(parsed)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return netip.AddrPort{}, fmt.Errorf("'%s' is not an IPv4 address", host)
	}
	return netip.AddrPortFrom(addr, port), nil
}
