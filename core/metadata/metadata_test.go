package metadata

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	md := Metadata{
		SourceURL:   "https://hosts.example.org/ads.txt",
		ListPrefix:  "ads_list_",
		Fingerprint: "48213",
	}

	encoded, err := Encode("Managed by gateway-manager", md)
	require.NoError(t, err)
	assert.Contains(t, encoded, "[CF_ADBLOCK_MGR_V1:")
	assert.Contains(t, encoded, "URL=https://hosts.example.org/ads.txt")

	base, got, present := Decode(encoded)
	assert.True(t, present)
	assert.Equal(t, "Managed by gateway-manager", base)
	assert.Equal(t, md, got)
}

func TestEncode_Idempotent(t *testing.T) {
	md := Metadata{SourceURL: "https://a.example.com/x", ListPrefix: "x_list_"}

	once, err := Encode("base", md)
	require.NoError(t, err)
	twice, err := Encode(once, md)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, "[CF_ADBLOCK_MGR_V1:"))
}

func TestEncode_IncompleteMetadataOmitsMarker(t *testing.T) {
	out, err := Encode("base", Metadata{SourceURL: "https://a.example.com/x"})
	require.NoError(t, err)
	assert.Equal(t, "base", out)

	out, err = Encode("base", Metadata{ListPrefix: "x_list_"})
	require.NoError(t, err)
	assert.Equal(t, "base", out)
}

func TestEncode_NoFingerprint(t *testing.T) {
	out, err := Encode("", Metadata{SourceURL: "file:///tmp/x", ListPrefix: "x_list_"})
	require.NoError(t, err)
	assert.NotContains(t, out, "HASH=")

	_, md, present := Decode(out)
	assert.True(t, present)
	assert.Empty(t, md.Fingerprint)
}

func TestEncode_TooLong(t *testing.T) {
	base := strings.Repeat("x", 480)
	md := Metadata{SourceURL: "https://hosts.example.org/ads.txt", ListPrefix: "ads_list_"}

	out, err := Encode(base, md)
	assert.ErrorIs(t, err, ErrMetadataTooLong)
	assert.Equal(t, base, out)
	assert.LessOrEqual(t, len(out), MaxDescriptionLength)
}

func TestDecode_URLWithColons(t *testing.T) {
	desc := "note [CF_ADBLOCK_MGR_V1:URL=https://h.example.org:8443/a:b.txt:PREFIX=p_list_:HASH=9]"

	base, md, present := Decode(desc)
	assert.True(t, present)
	assert.Equal(t, "note", base)
	assert.Equal(t, "https://h.example.org:8443/a:b.txt", md.SourceURL)
	assert.Equal(t, "p_list_", md.ListPrefix)
	assert.Equal(t, "9", md.Fingerprint)
}

func TestDecode_LastHashWins(t *testing.T) {
	desc := "[CF_ADBLOCK_MGR_V1:URL=https://a.example.com/x:PREFIX=p_:HASH=1:HASH=2]"

	_, md, present := Decode(desc)
	assert.True(t, present)
	assert.Equal(t, "2", md.Fingerprint)
}

func TestDecode_EmptyMarker(t *testing.T) {
	base, md, present := Decode("hello [CF_ADBLOCK_MGR_V1:]")
	assert.True(t, present)
	assert.Equal(t, "hello", base)
	assert.Equal(t, Metadata{}, md)
}

func TestDecode_NoMarker(t *testing.T) {
	base, md, present := Decode("plain description")
	assert.False(t, present)
	assert.Equal(t, "plain description", base)
	assert.Equal(t, Metadata{}, md)
}

func TestDecode_UnterminatedMarker(t *testing.T) {
	desc := "x [CF_ADBLOCK_MGR_V1:URL=https://a.example.com"
	base, _, present := Decode(desc)
	assert.False(t, present)
	assert.Equal(t, desc, base)
}

// Property-based test: whenever the marker fits, decoding an encoded
// description recovers the base and metadata exactly.
func TestEncodeDecode_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	identifier := gen.RegexMatch(`[a-z][a-z0-9_]{0,30}`)

	properties.Property("decode inverts encode", prop.ForAll(
		func(base, host, prefix, fingerprint string) bool {
			md := Metadata{
				SourceURL:   "https://" + host + ".example.org/list.txt",
				ListPrefix:  prefix,
				Fingerprint: fingerprint,
			}
			encoded, err := Encode(base, md)
			if err != nil {
				// Marker did not fit; the base must survive alone.
				return encoded == base
			}
			gotBase, got, present := Decode(encoded)
			return present && gotBase == base && got == md
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{0,60}`).SuchThat(func(s string) bool {
			return !strings.HasSuffix(s, " ")
		}),
		identifier,
		identifier,
		gen.RegexMatch(`[0-9]{1,9}`),
	))

	properties.TestingRun(t)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", Fingerprint(nil))
	assert.Equal(t, "", Fingerprint([]byte{}))
	assert.Equal(t, "5", Fingerprint([]byte("abcde")))
	assert.Equal(t, "11", Fingerprint([]byte("hello world")))
}
