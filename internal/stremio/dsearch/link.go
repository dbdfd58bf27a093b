package stremio_dsearch

import (
	"errors"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nguyenvanvutlv/resolver/store"
)

type PlaybackClaims struct {
	jwt.RegisteredClaims
	StoreCode store.StoreCode `json:"sc"`
	ItemId    string          `json:"iid,omitempty"`
	FileId    string          `json:"fid,omitempty"`
	Link      string          `json:"lnk,omitempty"`
}

func (c *PlaybackClaims) AccessToken() AccessToken {
	return AccessToken{Link: c.Link, ItemId: c.ItemId, FileId: c.FileId}
}

// Referencer turns a file into the url a player opens. The backend link is
// unlocked only when that url is requested.
type Referencer interface {
	Reference(item *ExpandedItem, file *VideoFile) (string, error)
}

type LinkSigner struct {
	Secret   []byte
	BaseURL  *url.URL
	UserData string
}

// Reference is deterministic for a given file, the token carries no
// timestamps.
func (s *LinkSigner) Reference(item *ExpandedItem, file *VideoFile) (string, error) {
	token, err := s.Sign(&PlaybackClaims{
		StoreCode: item.Source.Code(),
		ItemId:    file.AccessToken.ItemId,
		FileId:    file.AccessToken.FileId,
		Link:      file.AccessToken.Link,
	})
	if err != nil {
		return "", err
	}

	path := "/stremio/dsearch/" + url.PathEscape(s.UserData) + "/_/resolve/" + token
	if file.Name != "" {
		path += "/" + url.PathEscape(file.Name)
	}
	return strings.TrimSuffix(s.BaseURL.String(), "/") + path, nil
}

func (s *LinkSigner) Sign(claims *PlaybackClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

var errInvalidPlaybackToken = errors.New("invalid playback token")

func (s *LinkSigner) Verify(token string) (*PlaybackClaims, error) {
	claims := &PlaybackClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(errInvalidPlaybackToken, err)
	}
	if !parsed.Valid || !claims.StoreCode.IsValid() {
		return nil, errInvalidPlaybackToken
	}
	if claims.Link == "" && claims.ItemId == "" {
		return nil, errInvalidPlaybackToken
	}
	return claims, nil
}
