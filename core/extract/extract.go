package extract

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// ErrNoDomains indicates the input text yielded zero valid domains.
// It is a distinct condition so callers can report "no valid domains"
// instead of a generic parse failure.
var ErrNoDomains = errors.New("no valid domains found in content")

var (
	// hostnameRe is the canonical hostname grammar: dot-separated LDH
	// labels of 1-63 chars and a trailing TLD of at least two letters.
	hostnameRe = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

	// ipv4Re rejects dotted-quad literals that would otherwise pass the
	// hostname grammar check after a sloppy source line.
	ipv4Re = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

	hostsRe    = regexp.MustCompile(`^(?:0\.0\.0\.0|127\.0\.0\.1)\s+(.*)`)
	dnsmasqRe  = regexp.MustCompile(`^local=/(.+?)/`)
	wildcardRe = regexp.MustCompile(`^\*\.(.+)$`)
	rpzRe      = regexp.MustCompile(`^(?:\*\.)?([a-zA-Z0-9.-]+)\s+CNAME\s+\.$`)
)

// adblockDelims terminate the domain part of an adblock `||domain^...` line.
const adblockDelims = "^|/$ \t,"

// Domains parses raw block-list text in any of the supported dialects
// (hosts file, dnsmasq, wildcard, RPZ, adblock, bare domain) and returns
// the canonical, deduplicated, sorted domain set.
//
// Comment and allow-list lines are ignored. Every candidate is
// lower-cased, stripped of trailing dots, punycoded if it carries
// non-ASCII labels, and validated against the hostname grammar; IPv4
// literals are rejected. If nothing valid remains, ErrNoDomains is
// returned.
func Domains(text string) ([]string, error) {
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if excluded(line) {
			continue
		}

		// Hosts-file style may carry several domains per line plus a
		// trailing comment.
		if m := hostsRe.FindStringSubmatch(line); m != nil {
			rest, _, _ := strings.Cut(m[1], "#")
			for _, field := range strings.Fields(rest) {
				add(seen, field)
			}
			continue
		}
		if m := dnsmasqRe.FindStringSubmatch(line); m != nil {
			add(seen, m[1])
			continue
		}
		if m := wildcardRe.FindStringSubmatch(line); m != nil {
			add(seen, m[1])
			continue
		}
		if m := rpzRe.FindStringSubmatch(line); m != nil {
			add(seen, m[1])
			continue
		}
		if rest, ok := strings.CutPrefix(line, "||"); ok {
			if i := strings.IndexAny(rest, adblockDelims); i >= 0 {
				rest = rest[:i]
			}
			add(seen, rest)
			continue
		}

		// Bare-domain line; add validates, so anything else is dropped.
		add(seen, line)
	}

	if len(seen) == 0 {
		return nil, ErrNoDomains
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// excluded reports whether a line must not even be considered as a
// domain candidate: blank lines, comments ('#', '!', '[', '/', ';'),
// anything mentioning localhost, and allow-list entries ('@@').
func excluded(line string) bool {
	if line == "" {
		return true
	}
	switch line[0] {
	case '#', '!', '[', '/', ';':
		return true
	}
	if strings.Contains(line, "localhost") {
		return true
	}
	return strings.HasPrefix(line, "@@")
}

// add canonicalizes a candidate and inserts it into the set if valid.
func add(seen map[string]struct{}, raw string) {
	d, ok := Canonical(raw)
	if ok {
		seen[d] = struct{}{}
	}
}

// Canonical lower-cases a candidate, strips surrounding whitespace and
// trailing dots, converts IDN labels to their ASCII (punycode) form,
// and validates the result. The second return value reports validity.
func Canonical(raw string) (string, bool) {
	d := strings.Trim(strings.ToLower(strings.TrimSpace(raw)), ".")
	if d == "" {
		return "", false
	}
	// Internationalized names are stored in their punycoded form, the
	// same canonical shape the resolver sees.
	if ascii, err := idna.Lookup.ToASCII(d); err == nil {
		d = ascii
	}
	if ipv4Re.MatchString(d) {
		return "", false
	}
	if !hostnameRe.MatchString(d) {
		return "", false
	}
	return d, true
}
