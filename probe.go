package hivejdbc

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ReachabilityKind tells a failed name lookup from a refused connection.
type ReachabilityKind int

const (
	NotReachable ReachabilityKind = iota + 1
	NotListening
)

// ReachabilityError is returned by CheckServer.
type ReachabilityError struct {
	Kind ReachabilityKind
	Host string
	Port int
	Err  error
}

func (e *ReachabilityError) Error() string {
	if e.Kind == NotReachable {
		return fmt.Sprintf("Hive server at %q is not reachable - %v", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), e.Err)
	}
	return fmt.Sprintf("No Hive server is listening at %q - %v", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), e.Err)
}

func (e *ReachabilityError) Unwrap() error {
	return e.Err
}

var resolver = net.DefaultResolver

// CheckServer resolves host unless it is a literal address, then opens and
// closes a TCP connection to it. ctx bounds both steps.
func CheckServer(ctx context.Context, host string, port int) error {
	host = strings.TrimSpace(host)
	address := host
	if net.ParseIP(host) == nil {
		addrs, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return &ReachabilityError{Kind: NotReachable, Host: host, Port: port, Err: err}
		}
		address = addrs[0]
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return &ReachabilityError{Kind: NotListening, Host: host, Port: port, Err: err}
	}
	logger.WithContext(ctx).Debugf("%s:%d is listening", host, port)
	return conn.Close()
}
