package adapter

import "strings"

// knownHosts maps board domains to the extractor that understands them. A
// host matches when it equals the domain or ends with "." + domain.
var knownHosts = []struct {
	domain string
	source string
}{
	{domain: "wanted.co.kr", source: SourceWanted},
	{domain: "jobkorea.co.kr", source: SourceJobKorea},
	{domain: "inthiswork.com", source: SourceInthiswork},
	{domain: "zighang.com", source: SourceZighang},
}

// SourceForHost returns the extractor id for a lower-cased host, or "" when
// the host is not a known board.
func SourceForHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, k := range knownHosts {
		if host == k.domain || strings.HasSuffix(host, "."+k.domain) {
			return k.source
		}
	}
	return ""
}
