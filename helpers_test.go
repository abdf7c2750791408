package jsonld_test

import (
	"context"
	"flag"
	"fmt"

	ld "github.com/condensedlight/jsonld"
	"github.com/condensedlight/jsonld/internal/json"
	"github.com/google/go-cmp/cmp"
)

var dump = flag.Bool("dump", false, "dump the compacted or expanded JSON on test failure")

// MapLoader resolves remote contexts from an in-memory map of context IRI to
// the raw value of the document's @context entry.
func MapLoader(contexts map[string]json.RawMessage) ld.RemoteContextLoaderFunc {
	return func(_ context.Context, iri string) (ld.Document, error) {
		data, ok := contexts[iri]
		if !ok {
			return ld.Document{}, fmt.Errorf("%w: %s", ld.ErrLoadingRemoteContext, iri)
		}

		return ld.Document{
			URL:     iri,
			Context: data,
		}, nil
	}
}

// JSONDiff should be used when diffing JSON documents.
func JSONDiff() cmp.Option {
	return cmp.Options{
		cmp.FilterValues(func(x, y json.RawMessage) bool {
			return json.Valid(x) && json.Valid(y)
		}, cmp.Transformer("ParseJSON", func(in json.RawMessage) (out any) {
			if err := json.Unmarshal(in, &out); err != nil {
				panic(err) // should never occur given previous filter to ensure valid JSON
			}
			return out
		})),
	}
}
