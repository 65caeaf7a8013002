package ppg

import (
	"fmt"
	"hash/fnv"
	"net"
)

// AllocatePort deterministically derives a candidate port for workID within
// [PortRangeLow, PortRangeHigh) so repeated inits of the same Work tend to
// land on the same port, then verifies it is actually free, scanning
// forward on collision (spec.md §4.1: "pick an unused local port in a
// reserved high range... persist it, and never change it silently").
func AllocatePort(workID string) (int, error) {
	span := PortRangeHigh - PortRangeLow
	h := fnv.New32a()
	_, _ = h.Write([]byte(workID))
	start := PortRangeLow + int(h.Sum32())%span

	for i := 0; i < span; i++ {
		candidate := PortRangeLow + (start-PortRangeLow+i)%span
		if portFree(candidate) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("ppg: no free port in range [%d, %d)", PortRangeLow, PortRangeHigh)
}

func portFree(port int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", Host, port))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// PortInUse reports whether something is already listening on host:port,
// used to detect the "recorded port is in use at start" case (spec.md §4.1).
func PortInUse(host string, port int) bool {
	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
