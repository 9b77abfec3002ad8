package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomains_Dialects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "hosts style single domain",
			input:    "0.0.0.0 ads.example.com",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "hosts style multiple domains with comment",
			input:    "127.0.0.1 ads.example.com tracker.example.net # vendor list",
			expected: []string{"ads.example.com", "tracker.example.net"},
		},
		{
			name:     "dnsmasq style",
			input:    "local=/ads.example.com/",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "wildcard style",
			input:    "*.ads.example.com",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "rpz style",
			input:    "ads.example.com CNAME .",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "rpz style with wildcard",
			input:    "*.ads.example.com CNAME .",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "adblock style with caret",
			input:    "||ads.example.com^",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "adblock style with options",
			input:    "||ads.example.com^$third-party",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "bare domain",
			input:    "ads.example.com",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "uppercase is lowered",
			input:    "ADS.Example.COM",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "trailing dot stripped",
			input:    "ads.example.com.",
			expected: []string{"ads.example.com"},
		},
		{
			name:     "idn converted to punycode",
			input:    "bücher.example.com",
			expected: []string{"xn--bcher-kva.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Domains(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDomains_Exclusions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "hash comment", input: "# ads.example.com"},
		{name: "bang comment", input: "! ads.example.com"},
		{name: "section header", input: "[Adblock Plus 2.0]"},
		{name: "path rule", input: "/banner/ads.example.com"},
		{name: "semicolon comment", input: "; ads.example.com"},
		{name: "localhost line", input: "127.0.0.1 localhost"},
		{name: "allowlist marker", input: "@@||good.example.com^"},
		{name: "bare ipv4 literal", input: "0.0.0.0"},
		{name: "hosts line with ipv4 target", input: "0.0.0.0 10.0.0.1"},
		{name: "single label", input: "intranet"},
		{name: "numeric tld", input: "ads.example.123"},
		{name: "empty input", input: "\n\n  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Domains(tt.input)
			assert.ErrorIs(t, err, ErrNoDomains)
			assert.Nil(t, got)
		})
	}
}

// Duplicates collapse and output is sorted.
func TestDomains_DedupeAndSort(t *testing.T) {
	input := "0.0.0.0 ads.example.com\n0.0.0.0 ads.example.com\n# comment\n127.0.0.1 tracker.example.net"

	got, err := Domains(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"ads.example.com", "tracker.example.net"}, got)
}

func TestDomains_Idempotent(t *testing.T) {
	input := "||ads.example.com^\n*.tracker.example.net\n0.0.0.0 cdn.ads.example.org\nlocal=/pixel.example.io/"

	first, err := Domains(input)
	require.NoError(t, err)

	// Re-extracting from the rendered output must be a fixed point.
	second, err := Domains(strings.Join(first, "\n"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDomains_OnlyValidHostnames(t *testing.T) {
	input := "0.0.0.0 ads.example.com 192.168.1.1 bad_host.example.com\n||tracker.example.net^\nnot a domain line"

	got, err := Domains(input)
	require.NoError(t, err)
	for _, d := range got {
		assert.Regexp(t, `^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`, d)
		assert.NotRegexp(t, `^\d{1,3}(\.\d{1,3}){3}$`, d)
	}
	assert.Equal(t, []string{"ads.example.com", "tracker.example.net"}, got)
}

func TestCanonical(t *testing.T) {
	d, ok := Canonical(" Ads.Example.COM. ")
	require.True(t, ok)
	assert.Equal(t, "ads.example.com", d)

	_, ok = Canonical("10.0.0.1")
	assert.False(t, ok)

	_, ok = Canonical("")
	assert.False(t, ok)
}
