// Package awsip resolves an address to its AWS region using the published
// ip-ranges.json document.
package awsip

import (
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
)

// Unknown is returned when no published prefix contains the address.
const Unknown = "Unknown"

type ranges struct {
	Prefixes []struct {
		Prefix string `json:"ip_prefix"`
		Region string `json:"region"`
	} `json:"prefixes"`
	IPv6Prefixes []struct {
		Prefix string `json:"ipv6_prefix"`
		Region string `json:"region"`
	} `json:"ipv6_prefixes"`
}

type entry struct {
	prefix string
	region string
}

// Lookup decodes an ip-ranges document from r and returns the region of
// the first prefix that contains ip.
func Lookup(r io.Reader, ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("parse ip %q: %w", ip, err)
	}
	addr = addr.Unmap()

	var doc ranges
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode ip ranges: %w", err)
	}

	entries := make([]entry, 0, len(doc.Prefixes)+len(doc.IPv6Prefixes))
	for _, p := range doc.Prefixes {
		entries = append(entries, entry{prefix: p.Prefix, region: p.Region})
	}
	for _, p := range doc.IPv6Prefixes {
		entries = append(entries, entry{prefix: p.Prefix, region: p.Region})
	}

	for _, e := range entries {
		prefix, err := netip.ParsePrefix(e.prefix)
		if err != nil {
			return "", fmt.Errorf("parse prefix %q: %w", e.prefix, err)
		}
		if prefix.Contains(addr) {
			return e.region, nil
		}
	}
	return Unknown, nil
}
