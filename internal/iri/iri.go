// Package iri provides IRI classification, resolution and relativization on
// top of net/url.
package iri

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

var Parse = url.Parse

// IsAbsolute reports whether s is an absolute IRI with a valid escape
// encoding.
func IsAbsolute(s string) bool {
	u, err := url.Parse(s)
	return err == nil &&
		u.IsAbs() &&
		(u.RawPath == "" || u.RawPath == u.EscapedPath()) &&
		(u.RawFragment == "" || u.RawFragment == u.EscapedFragment())
}

// IsIRI reports whether s parses as an absolute IRI and survives a
// parse/serialize round-trip unchanged.
func IsIRI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	ns := u.String()
	if strings.HasSuffix(s, "#") {
		// preserve the empty fragment
		ns = ns + "#"
	}

	return u.IsAbs() && s == ns
}

// IsRelative reports whether s parses as a relative IRI reference.
func IsRelative(s string) bool {
	u, err := url.Parse(s)
	return err == nil && !u.IsAbs()
}

// Resolve resolves val against base per RFC 3986 reference resolution.
func Resolve(base string, val string) (string, error) {
	r, err := url.Parse(val)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	return u.ResolveReference(r).String(), nil
}

// Relative turns an absolute IRI into a reference relative to base. It fails
// when scheme or authority differ.
func Relative(base string, iri string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse base IRI: %w", err)
	}

	absURL, err := url.Parse(iri)
	if err != nil {
		return "", fmt.Errorf("failed to parse absolute IRI: %w", err)
	}

	if baseURL.Scheme != absURL.Scheme || baseURL.Host != absURL.Host {
		return "", fmt.Errorf("cannot relativize across scheme or host")
	}

	basePath := baseURL.EscapedPath()
	absPath := absURL.EscapedPath()
	if basePath == absPath {
		if absURL.Fragment != "" || absURL.RawQuery != "" {
			return (&url.URL{
				RawQuery: absURL.RawQuery,
				Fragment: absURL.Fragment,
			}).String(), nil
		}
	}

	last := strings.LastIndex(basePath, "/")
	basePath = basePath[:last+1]
	baseParts := strings.Split(basePath, "/")
	absParts := strings.Split(absPath, "/")

	prefix := 0
	count := min(len(baseParts), len(absParts))
	for i, elem := range baseParts[:count] {
		if elem != absParts[i] {
			break
		}
		prefix++
	}

	relParts := make([]string, 0, len(baseParts)-prefix+len(absParts))
	for range baseParts[prefix+1:] {
		relParts = append(relParts, "..")
	}
	relParts = append(relParts, absParts[prefix:]...)

	relURL := &url.URL{
		Path:     path.Join(relParts...),
		RawQuery: absURL.RawQuery,
		Fragment: absURL.Fragment,
	}

	res := relURL.String()
	if strings.HasSuffix(res, "..") {
		res = res + "/"
	}

	return res, nil
}

// EndsInGenDelim reports whether the last rune of s is an RFC 3986 gen-delim.
// Prefix terms must end in one to be usable in compact IRIs.
func EndsInGenDelim(s string) bool {
	if s == "" {
		return false
	}

	switch s[len(s)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	default:
		return false
	}
}
