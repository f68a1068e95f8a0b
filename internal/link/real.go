//go:build linux

package link

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RealLink drives a WiFi station interface through NetworkManager's nmcli
// and observes link state via sysfs. Association runs in a background
// goroutine because nmcli blocks for the duration of the attempt; the
// Manager only ever looks at Connected, so the command's outcome is
// deliberately ignored beyond a debug log.
type RealLink struct {
	iface string
	log   zerolog.Logger
}

// NewRealLink creates a link driver for the given interface (e.g. "wlan0").
func NewRealLink(iface string, log zerolog.Logger) *RealLink {
	return &RealLink{iface: iface, log: log}
}

// Associate starts an nmcli connect attempt. Returns immediately.
func (l *RealLink) Associate(ssid, secret string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		cmd := exec.CommandContext(ctx, "nmcli", "device", "wifi", "connect", ssid,
			"password", secret, "ifname", l.iface)
		if out, err := cmd.CombinedOutput(); err != nil {
			l.log.Debug().Err(err).Str("output", strings.TrimSpace(string(out))).
				Msg("nmcli connect failed")
		}
	}()
}

// Connected reports whether the interface operstate is "up".
func (l *RealLink) Connected() bool {
	b, err := os.ReadFile(filepath.Join("/sys/class/net", l.iface, "operstate"))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(b)) == "up"
}

// Disconnect tears the interface down via nmcli.
func (l *RealLink) Disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "nmcli", "device", "disconnect", l.iface)
	if out, err := cmd.CombinedOutput(); err != nil {
		l.log.Debug().Err(err).Str("output", strings.TrimSpace(string(out))).
			Msg("nmcli disconnect failed")
	}
}

// LocalAddr returns the first IPv4 address of the interface, or "".
func (l *RealLink) LocalAddr() string {
	ifi, err := net.InterfaceByName(l.iface)
	if err != nil {
		return ""
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok {
			if ip4 := ipn.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return ""
}
