package hive2

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const zooKeeperSessionTimeout = 10 * time.Second

// discoverServers lists the HiveServer2 instances registered under namespace.
// Each instance is a znode named serverUri=host:port;version=...;sequence=...
func discoverServers(ctx context.Context, quorum []string, namespace string) ([]string, error) {
	if namespace == "" {
		namespace = "hiveserver2"
	}
	path := "/" + strings.Trim(namespace, "/")

	type result struct {
		children []string
		err      error
	}
	done := make(chan result, 1)
	conn, _, err := zk.Connect(quorum, zooKeeperSessionTimeout, zk.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("connecting to zookeeper %v: %w", quorum, err)
	}
	defer conn.Close()
	go func() {
		children, _, err := conn.Children(path)
		done <- result{children, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, fmt.Errorf("listing %s on zookeeper %v: %w", path, quorum, r.err)
	}
	servers := serverURIs(r.children)
	if len(servers) == 0 {
		return nil, fmt.Errorf("no HiveServer2 instance registered under %s", path)
	}
	rand.Shuffle(len(servers), func(i, j int) { servers[i], servers[j] = servers[j], servers[i] })
	logger.WithContext(ctx).Debugf("discovered HiveServer2 instances %v", servers)
	return servers, nil
}

func serverURIs(znodes []string) []string {
	var out []string
	for _, name := range znodes {
		for _, part := range strings.Split(name, ";") {
			if kv := strings.SplitN(part, "=", 2); len(kv) == 2 && kv[0] == "serverUri" && kv[1] != "" {
				out = append(out, kv[1])
			}
		}
	}
	return out
}
