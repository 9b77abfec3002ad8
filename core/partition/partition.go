package partition

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxDomainsPerList is the largest number of entries the gateway
	// accepts in a single list.
	MaxDomainsPerList = 1000

	// MaxListsPerAccount is the account-wide cap on list objects.
	MaxListsPerAccount = 300

	// TotalDomainLimit is the largest block list a single rule can
	// cover given the per-list and per-account caps.
	TotalDomainLimit = MaxDomainsPerList * MaxListsPerAccount
)

// Split divides domains into consecutive chunks of at most max entries.
// Input order is preserved across chunk boundaries. An empty input
// yields no chunks.
func Split(domains []string, max int) [][]string {
	if max <= 0 || len(domains) == 0 {
		return nil
	}
	chunks := make([][]string, 0, Count(len(domains), max))
	for start := 0; start < len(domains); start += max {
		end := start + max
		if end > len(domains) {
			end = len(domains)
		}
		chunks = append(chunks, domains[start:end])
	}
	return chunks
}

// Count returns the number of chunks Split would produce for n entries.
func Count(n, max int) int {
	if n <= 0 || max <= 0 {
		return 0
	}
	return (n + max - 1) / max
}

// WouldExceedAccountCap reports whether creating added more lists on an
// account that already holds current would push it past cap.
func WouldExceedAccountCap(current, added, cap int) bool {
	return current+added > cap
}

// ListName builds the name for the index-th list (1-based) of a set of
// total lists sharing prefix. Indexes are zero padded to the width of
// total so names sort lexicographically in creation order.
func ListName(prefix string, index, total int) string {
	width := len(fmt.Sprintf("%d", total))
	return fmt.Sprintf("%s%0*d", prefix, width, index)
}

var (
	separatorRe = regexp.MustCompile(`[\s\-.]+`)
	invalidRe   = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SanitizeName reduces raw to a short identifier safe for list and rule
// names: separator runs become single underscores, every other character
// outside [A-Za-z0-9_] is dropped, leading and trailing underscores are
// trimmed and the result is capped at 50 characters. An empty result
// falls back to "default_name".
func SanitizeName(raw string) string {
	s := separatorRe.ReplaceAllString(raw, "_")
	s = invalidRe.ReplaceAllString(s, "")
	s = strings.Trim(s, "_")
	if len(s) > 50 {
		s = s[:50]
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return "default_name"
	}
	return s
}

// NameFromSource derives a sanitized base name from a block list
// source. For URLs the host is used, for local paths the last path
// element without its extension.
func NameFromSource(source string) string {
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		return SanitizeName(u.Host)
	}
	base := source
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return SanitizeName(base)
}

// DeriveNames builds the default list prefix and rule name for a
// source. Lists are named "<base>_list_<NN>" and the rule "<base>_rule".
func DeriveNames(source string) (listPrefix, ruleName string) {
	base := NameFromSource(source)
	return base + "_list_", base + "_rule"
}
