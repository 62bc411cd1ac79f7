package display

import (
	"fmt"
	"net"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/wjvanmeurs/tempcontrol/internal/errors"
)

const bytesPerMB = 1 << 20

// Wired first, wireless as fallback.
var preferredInterfaces = []string{"eth0", "wlan0"}

// Stats is one snapshot of the system vitals shown on the display.
type Stats struct {
	CPUPercent  float64
	RAMFreeMB   uint64
	RAMTotalMB  uint64
	DiskFreeMB  uint64
	DiskTotalMB uint64
	Interface   string
	IP          string
}

func collectStats() (Stats, error) {
	errFactory := errors.New()
	var s Stats

	// Interval 0 compares against the previous call instead of
	// blocking the poll cadence.
	pct, err := cpu.Percent(0, false)
	if err != nil {
		return s, errFactory.Wrap(ErrStatsFailed, err)
	}
	if len(pct) > 0 {
		s.CPUPercent = pct[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, errFactory.Wrap(ErrStatsFailed, err)
	}
	s.RAMFreeMB = vm.Available / bytesPerMB
	s.RAMTotalMB = vm.Total / bytesPerMB

	du, err := disk.Usage("/")
	if err != nil {
		return s, errFactory.Wrap(ErrStatsFailed, err)
	}
	s.DiskFreeMB = du.Free / bytesPerMB
	s.DiskTotalMB = du.Total / bytesPerMB

	s.Interface, s.IP = firstPreferredIPv4()

	return s, nil
}

// firstPreferredIPv4 returns the first IPv4 address of eth0, falling
// back to wlan0. Both may be absent; the IP label is then left empty.
func firstPreferredIPv4() (name, addr string) {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return "", ""
	}

	for _, want := range preferredInterfaces {
		for _, iface := range ifaces {
			if iface.Name != want {
				continue
			}
			for _, ifaceAddr := range iface.Addrs {
				ip := parseIPv4(ifaceAddr.Addr)
				if ip != "" {
					return iface.Name, ip
				}
			}
		}
	}

	return "", ""
}

// parseIPv4 extracts the IPv4 address from a CIDR-style string such as
// "192.168.1.17/24". Returns "" for IPv6 or unparsable input.
func parseIPv4(cidr string) string {
	host := cidr
	if i := strings.IndexByte(cidr, '/'); i >= 0 {
		host = cidr[:i]
	}

	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return ""
	}

	return ip.To4().String()
}

func formatCPULabel(pct float64) string {
	return fmt.Sprintf("CPU:%.0f%%", pct)
}

func formatTempLabel(celsius float64) string {
	return fmt.Sprintf("Temp:%.1fC", celsius)
}

func formatRAMLabel(freeMB, totalMB uint64) string {
	return fmt.Sprintf("RAM:%d/%dMB", freeMB, totalMB)
}

func formatDiskLabel(freeMB, totalMB uint64) string {
	return fmt.Sprintf("Disk:%d/%dMB", freeMB, totalMB)
}

func formatIPLabel(iface, ip string) string {
	if iface == "" || ip == "" {
		return "IP:unavailable"
	}

	return fmt.Sprintf("%s:%s", iface, ip)
}
