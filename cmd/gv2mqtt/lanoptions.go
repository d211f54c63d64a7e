package main

import (
	"fmt"
	"net"

	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
)

// buildLANOptions translates the process configuration's LAN section into
// the discovery client's Options, parsing each configured scan address.
func buildLANOptions(cfg config.LANConfig) (lan.Options, error) {
	opts := lan.Options{
		DisableMulticast: cfg.NoMulticast,
		GlobalBroadcast:  cfg.BroadcastGlobal,
	}

	for _, s := range cfg.ScanAddresses {
		ip := net.ParseIP(s)
		if ip == nil {
			return lan.Options{}, fmt.Errorf("invalid LAN scan address %q", s)
		}
		opts.AdditionalAddresses = append(opts.AdditionalAddresses, ip)
	}

	if cfg.BroadcastAll {
		for _, addr := range broadcastAddressesOfLocalInterfaces() {
			opts.AdditionalAddresses = append(opts.AdditionalAddresses, addr)
		}
	}

	return opts, nil
}

// broadcastAddressesOfLocalInterfaces enumerates every configured,
// non-loopback IPv4 interface and computes its broadcast address, for
// --broadcast-all style discovery against LANs without multicast support.
func broadcastAddressesOfLocalInterfaces() []net.IP {
	var out []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return out
	}

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			bcast := make(net.IP, 4)
			for i := range ip4 {
				bcast[i] = ip4[i] | ^ipNet.Mask[i]
			}
			out = append(out, bcast)
		}
	}

	return out
}
