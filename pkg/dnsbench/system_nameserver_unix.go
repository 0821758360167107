//go:build unix

package dnsbench

import (
	"bufio"
	"io"
	"net/netip"
	"os"
	"strings"
)

const defaultNameServer = "127.0.0.1"

// DefaultNameServer fetches the first IPv4 system name server address based on the /etc/resolv.conf
// If it fails, it returns 127.0.0.1 as default.
func DefaultNameServer() string {
	file, err := os.Open("/etc/resolv.conf")
	if err != nil {
		return defaultNameServer
	}
	defer func() {
		_ = file.Close()
	}()
	return parseResolvConf(file)
}

func parseResolvConf(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 0 && (line[0] == ';' || line[0] == '#') {
			// comment line, skip
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		// only IPv4 name servers can be benchmarked
		if addr, err := netip.ParseAddr(fields[1]); err == nil && addr.Is4() {
			return addr.String()
		}
	}

	return defaultNameServer
}
