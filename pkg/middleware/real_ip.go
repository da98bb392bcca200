package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

// RealIP resolves the client address once per request and stores it in the
// context. X-Forwarded-For and X-Real-IP are honoured only when the socket
// peer is a trusted proxy; anyone else gets their socket address.
func RealIP(trusted []string, logger *zap.Logger) func(http.Handler) http.Handler {
	proxies := parseTrustedProxies(trusted, logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, proxies)
			next.ServeHTTP(w, r.WithContext(utils.SetClientIP(r.Context(), ip)))
		})
	}
}

// parseTrustedProxies accepts bare addresses and CIDR prefixes.
func parseTrustedProxies(entries []string, logger *zap.Logger) []netip.Prefix {
	var out []netip.Prefix
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				logger.Warn("Ignoring invalid trusted proxy", zap.String("entry", entry), zap.Error(err))
				continue
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logger.Warn("Ignoring invalid trusted proxy", zap.String("entry", entry), zap.Error(err))
			continue
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out
}

func isTrusted(ip string, proxies []netip.Prefix) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// resolveClientIP walks X-Forwarded-For from the right, skipping trusted
// hops, so a client cannot choose its own address by prepending entries.
func resolveClientIP(r *http.Request, proxies []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if len(proxies) == 0 || !isTrusted(peer, proxies) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !isTrusted(hop, proxies) || i == 0 {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}
	return peer
}
