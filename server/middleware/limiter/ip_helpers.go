// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Prefix lengths used to group clients into networks.
const (
	ipv4Prefix    = 24
	ipv6Prefix    = 56
	ipv4BitLength = 32
	ipv6BitLength = 128
)

// getClientIP extracts the client's IP address from an HTTP request.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the
// connection comes from a private or loopback address.
func getClientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = ip
	}

	fromTrustedSource := false
	if ip := net.ParseIP(remoteIP); ip != nil {
		fromTrustedSource = ip.IsPrivate() || ip.IsLoopback()
	}

	if fromTrustedSource {
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}

		// The last X-Forwarded-For entry was added by the nearest proxy.
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			parts := strings.Split(xff, ",")

			return strings.TrimSpace(parts[len(parts)-1])
		}
	}

	return remoteIP
}

// networkOf returns the network a client address is limited as. Addresses
// that fail to parse are limited individually.
func networkOf(rawIP string) string {
	ip := net.ParseIP(rawIP)
	if ip == nil {
		log.Debug().
			Str("ip", rawIP).
			Msg("Could not parse client IP")

		return rawIP
	}

	var mask net.IPMask
	if ip.To4() != nil {
		mask = net.CIDRMask(ipv4Prefix, ipv4BitLength)
	} else {
		mask = net.CIDRMask(ipv6Prefix, ipv6BitLength)
	}

	network := net.IPNet{IP: ip.Mask(mask), Mask: mask}

	return network.String()
}
