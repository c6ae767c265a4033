package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

const (
	// RootKey is the key of a domain's root link.
	RootKey = "_root"

	localhostOrigin = "http://home.localhost:8888"
)

// HashKey creates a SHA256 hash of a string.
// This is useful for creating consistent, safe keys for Redis.
func HashKey(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// LinkOptions describes a short link to render.
type LinkOptions struct {
	Domain       string
	Key          string
	Pretty       bool
	Localhost    bool
	SearchParams url.Values
}

// LinkConstructor renders the public URL of a short link. The root key is
// rendered as the bare domain. Pretty output drops the scheme.
func LinkConstructor(opts LinkOptions) string {
	origin := "https://" + Punycode(opts.Domain)
	if opts.Localhost {
		origin = localhostOrigin
	}

	var b strings.Builder
	b.WriteString(origin)
	if opts.Key != "" && opts.Key != RootKey {
		b.WriteString("/")
		b.WriteString(Punycode(opts.Key))
	}
	if len(opts.SearchParams) > 0 {
		b.WriteString("?")
		b.WriteString(opts.SearchParams.Encode())
	}

	link := b.String()
	if opts.Pretty {
		link = strings.TrimPrefix(link, "https://")
		link = strings.TrimPrefix(link, "http://")
	}
	return link
}

// Punycode converts IDNA labels (xn--...) to their Unicode form for display.
// Input that does not decode is returned unchanged.
func Punycode(s string) string {
	if s == "" {
		return ""
	}
	decoded, err := idna.Punycode.ToUnicode(s)
	if err != nil {
		return s
	}
	return decoded
}

// QueryParams returns u's path and query with the given parameters set and
// removed. Other parameters are preserved.
func QueryParams(u *url.URL, set map[string]string, del ...string) string {
	query := u.Query()
	for key, value := range set {
		query.Set(key, value)
	}
	for _, key := range del {
		query.Del(key)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if encoded := query.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
