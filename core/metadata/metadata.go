package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxDescriptionLength is the gateway's cap on rule descriptions.
	MaxDescriptionLength = 500

	markerStart = "[CF_ADBLOCK_MGR_V1:"
	markerEnd   = "]"

	keyURL    = "URL="
	keyPrefix = "PREFIX="
	keyHash   = "HASH="
)

// ErrMetadataTooLong reports that a description could not carry its
// metadata marker without exceeding the gateway's length cap. The
// returned description is still usable, just without the marker.
var ErrMetadataTooLong = errors.New("metadata: description too long to carry marker")

// Metadata is the provenance record a managed rule carries inside its
// description so later runs can find and refresh the configuration.
type Metadata struct {
	// SourceURL is the block list location the rule was built from.
	SourceURL string
	// ListPrefix names the lists belonging to this rule.
	ListPrefix string
	// Fingerprint identifies the source content the rule was built
	// from. Empty when the source was a local file.
	Fingerprint string
}

// Fingerprint derives the content fingerprint stored in rule metadata.
// Empty content yields an empty fingerprint.
func Fingerprint(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	return strconv.Itoa(len(content))
}

// Encode appends a metadata marker to base. Any marker already present
// in base is stripped first, so re-encoding is idempotent. The marker
// is only emitted when both SourceURL and ListPrefix are set. When the
// combined text would exceed MaxDescriptionLength the base is returned
// alone together with ErrMetadataTooLong.
func Encode(base string, md Metadata) (string, error) {
	base, _, _ = Decode(base)
	if md.SourceURL == "" || md.ListPrefix == "" {
		return base, nil
	}

	parts := []string{keyURL + md.SourceURL, keyPrefix + md.ListPrefix}
	if md.Fingerprint != "" {
		parts = append(parts, keyHash+md.Fingerprint)
	}
	marker := markerStart + strings.Join(parts, ":") + markerEnd

	out := marker
	if base != "" {
		out = base + " " + marker
	}
	if len(out) > MaxDescriptionLength {
		return base, fmt.Errorf("%w: %d > %d", ErrMetadataTooLong, len(out), MaxDescriptionLength)
	}
	return out, nil
}

// Decode extracts the metadata marker from a rule description. It
// returns the description with the marker removed, the parsed
// metadata, and whether a marker was present at all. URL values may
// themselves contain colons, so a URL field keeps consuming fields
// until the next recognized key. When HASH appears more than once the
// last value wins.
func Decode(description string) (base string, md Metadata, present bool) {
	start := strings.Index(description, markerStart)
	if start < 0 {
		return description, Metadata{}, false
	}
	end := strings.Index(description[start:], markerEnd)
	if end < 0 {
		return description, Metadata{}, false
	}
	end += start

	body := description[start+len(markerStart) : end]
	// Drop the single space Encode inserts before the marker so a
	// decode of an encoded description recovers the original base.
	base = strings.TrimSuffix(description[:start], " ") + description[end+len(markerEnd):]

	fields := strings.Split(body, ":")
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch {
		case strings.HasPrefix(f, keyURL):
			val := strings.TrimPrefix(f, keyURL)
			// A URL may contain colons. Keep joining fields until one
			// starts with a known key.
			for i+1 < len(fields) && !knownKey(fields[i+1]) {
				i++
				val += ":" + fields[i]
			}
			md.SourceURL = val
		case strings.HasPrefix(f, keyPrefix):
			md.ListPrefix = strings.TrimPrefix(f, keyPrefix)
		case strings.HasPrefix(f, keyHash):
			md.Fingerprint = strings.TrimPrefix(f, keyHash)
		}
	}
	return base, md, true
}

func knownKey(field string) bool {
	return strings.HasPrefix(field, keyURL) ||
		strings.HasPrefix(field, keyPrefix) ||
		strings.HasPrefix(field, keyHash)
}
