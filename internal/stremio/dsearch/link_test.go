package stremio_dsearch

import (
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenOf(t *testing.T, link string) string {
	t.Helper()
	_, rest, ok := strings.Cut(link, "/_/resolve/")
	require.True(t, ok, link)
	token, _, _ := strings.Cut(rest, "/")
	return token
}

func TestLinkSigner_Reference(t *testing.T) {
	signer := testSigner()
	item := &ExpandedItem{Candidate: Candidate{Source: store.StoreNameTorBox, Id: "42"}}
	file := &VideoFile{Id: "7", Name: "Show S01E01.mkv", AccessToken: AccessToken{ItemId: "42", FileId: "7"}}

	link, err := signer.Reference(item, file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:7000/stremio/dsearch/ud/_/resolve/"), link)
	assert.True(t, strings.HasSuffix(link, "/"+url.PathEscape("Show S01E01.mkv")), link)

	again, err := signer.Reference(item, file)
	require.NoError(t, err)
	assert.Equal(t, link, again)

	claims, err := signer.Verify(tokenOf(t, link))
	require.NoError(t, err)
	assert.Equal(t, store.StoreCodeTorBox, claims.StoreCode)
	assert.Equal(t, AccessToken{ItemId: "42", FileId: "7"}, claims.AccessToken())
	assert.True(t, claims.AccessToken().IsDeferred())
}

func TestLinkSigner_Verify(t *testing.T) {
	signer := testSigner()

	valid, err := signer.Sign(&PlaybackClaims{StoreCode: store.StoreCodeRealDebrid, Link: "https://real-debrid.com/d/ABC"})
	require.NoError(t, err)

	otherSecret := &LinkSigner{Secret: []byte("other"), BaseURL: signer.BaseURL}
	forged, err := otherSecret.Sign(&PlaybackClaims{StoreCode: store.StoreCodeRealDebrid, Link: "https://real-debrid.com/d/ABC"})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &PlaybackClaims{StoreCode: store.StoreCodeRealDebrid, Link: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	unknownStore, err := signer.Sign(&PlaybackClaims{StoreCode: "xx", Link: "x"})
	require.NoError(t, err)

	empty, err := signer.Sign(&PlaybackClaims{StoreCode: store.StoreCodeRealDebrid})
	require.NoError(t, err)

	claims, err := signer.Verify(valid)
	require.NoError(t, err)
	assert.Equal(t, "https://real-debrid.com/d/ABC", claims.Link)
	assert.False(t, claims.AccessToken().IsDeferred())

	for name, token := range map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  forged,
		"alg none":      unsigned,
		"unknown store": unknownStore,
		"no access":     empty,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Verify(token)
			assert.ErrorIs(t, err, errInvalidPlaybackToken)
		})
	}
}
