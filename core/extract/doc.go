// Package extract parses raw block-list text into a canonical domain set.
//
// It recognizes the common block-list dialects in the wild:
//
//   - hosts file entries ("0.0.0.0 ads.example.com tracker.example.net # note")
//   - dnsmasq entries ("local=/ads.example.com/")
//   - wildcard entries ("*.ads.example.com")
//   - RPZ entries ("ads.example.com CNAME .")
//   - adblock filters ("||ads.example.com^")
//   - bare domain lines
//
// Comment lines, allow-list entries ("@@...") and anything mentioning
// localhost are skipped entirely. The output is deduplicated and sorted
// so downstream partitioning is deterministic.
package extract
