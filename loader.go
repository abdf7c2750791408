package jsonld

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pquerna/cachecontrol"
	"golang.org/x/sync/singleflight"

	"github.com/condensedlight/jsonld/internal/json"
)

// RemoteContextLoaderFunc is called to retrieve a remote context.
//
// It returns a Document, and an error in case retrieval failed.
//
// When building your own loader, please remember that:
//   - [Document.URL] is the URL the context was retrieved from after having
//     followed any redirects.
//   - [Document.Context] is the value of the [KeywordContext] in the returned
//     document, or the empty JSON map if the context was absent.
//   - Request a context with [ApplicationLDJSON] and profile [ProfileContext].
//     You can use [mime.FormatMediaType] to build the value for the Accept
//     header.
//   - Have proper timeouts, retry handling and request deduplication.
//   - Make sure to cache the resulting [Document] to avoid unnecessary future
//     requests. Contexts should not change for the lifetime of the application.
//
// [NewHTTPLoader] and [NewCachingLoader] provide ready-made implementations.
type RemoteContextLoaderFunc func(context.Context, string) (Document, error)

// Document holds a retrieved context.
//
//   - URL holds the final URL a context was retrieved from, after following
//     redirects.
//   - Context holds the value of the @context element, or the empty map.
type Document struct {
	URL     string
	Context json.RawMessage
}

// maxContextSize bounds how much of a remote context response gets read.
const maxContextSize = 10 << 20

// NewHTTPLoader returns a loader that retrieves contexts over HTTP using the
// given client. Every call performs a request; wrap it with, or use,
// [NewCachingLoader] if the same contexts get loaded repeatedly.
func NewHTTPLoader(client *http.Client) RemoteContextLoaderFunc {
	return func(ctx context.Context, uri string) (Document, error) {
		doc, _, err := fetchContext(ctx, client, uri)
		return doc, err
	}
}

type contextCacheEntry struct {
	doc     Document
	expires time.Time
}

// NewCachingLoader returns a loader that retrieves contexts over HTTP and
// caches them in memory, keyed by request URL.
//
// Concurrent requests for the same URL deduplicate to a single in-flight
// fetch with multiple waiters. Cancelling the passed context releases the
// waiting caller; the fetch itself continues so other waiters still get a
// result.
//
// Cached entries are kept for as long as the response's cache headers allow,
// or indefinitely when the response carries none.
func NewCachingLoader(client *http.Client) RemoteContextLoaderFunc {
	var (
		mu    sync.RWMutex
		cache = make(map[string]contextCacheEntry, 8)
		group singleflight.Group
	)

	return func(ctx context.Context, uri string) (Document, error) {
		mu.RLock()
		entry, ok := cache[uri]
		mu.RUnlock()

		if ok && (entry.expires.IsZero() || time.Now().Before(entry.expires)) {
			return entry.doc, nil
		}

		ch := group.DoChan(uri, func() (any, error) {
			doc, expires, err := fetchContext(context.WithoutCancel(ctx), client, uri)
			if err != nil {
				return nil, err
			}

			mu.Lock()
			cache[uri] = contextCacheEntry{doc: doc, expires: expires}
			mu.Unlock()

			return doc, nil
		})

		select {
		case <-ctx.Done():
			return Document{}, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return Document{}, res.Err
			}
			return res.Val.(Document), nil
		}
	}
}

func fetchContext(
	ctx context.Context,
	client *http.Client,
	uri string,
) (Document, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return Document{}, time.Time{}, errors.Wrapf(ErrLoadingRemoteContext, "%s: %v", uri, err)
	}

	accept := mime.FormatMediaType(ApplicationLDJSON, map[string]string{
		"profile": ProfileContext,
	})
	req.Header.Set("Accept", accept+", "+ApplicationLDJSON+";q=0.9, "+ApplicationJSON+";q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, time.Time{}, errors.Wrapf(ErrLoadingRemoteContext, "%s: %v", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, time.Time{}, errors.Wrapf(ErrLoadingRemoteContext, "%s: status %d", uri, resp.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return Document{}, time.Time{}, errors.Wrapf(ErrInvalidRemoteContext, "%s: %v", uri, err)
	}

	switch {
	case mediaType == ApplicationLDJSON,
		mediaType == ApplicationJSON,
		strings.HasSuffix(mediaType, "+json"):
	default:
		return Document{}, time.Time{}, errors.Wrapf(ErrInvalidRemoteContext, "%s: content type %q", uri, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContextSize))
	if err != nil {
		return Document{}, time.Time{}, errors.Wrapf(ErrLoadingRemoteContext, "%s: %v", uri, err)
	}

	var obj json.Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return Document{}, time.Time{}, errors.Wrapf(ErrInvalidRemoteContext, "%s: %v", uri, err)
	}

	doc := Document{
		// redirects move the base IRI along with them
		URL:     resp.Request.URL.String(),
		Context: json.RawMessage(`{}`),
	}
	if v, ok := obj[KeywordContext]; ok {
		doc.Context = v
	}

	// a zero expiry means the entry never goes stale; responses that must
	// not be cached expire immediately instead
	var expires time.Time
	reasons, exp, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{})
	if err != nil || len(reasons) > 0 {
		expires = time.Now()
	} else {
		expires = exp
	}

	return doc, expires, nil
}
