//go:build windows

package dnsbench

import (
	"net/netip"
	"os/exec"
	"regexp"
)

const defaultNameServer = "127.0.0.1"

var nslookupAddressRegexp = regexp.MustCompile(`Address:\s+([^\s]+)`)

// DefaultNameServer fetches the first IPv4 system name server address based on the nslookup call.
func DefaultNameServer() string {
	out, err := exec.Command("nslookup").Output()
	if err != nil {
		return defaultNameServer
	}

	for _, m := range nslookupAddressRegexp.FindAllStringSubmatch(string(out), -1) {
		if addr, err := netip.ParseAddr(m[1]); err == nil && addr.Is4() {
			return addr.String()
		}
	}
	return defaultNameServer
}
