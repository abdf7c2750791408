package jsonld_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	ld "github.com/condensedlight/jsonld"
	"github.com/condensedlight/jsonld/internal/json"
)

func mustExpand(t *testing.T, p *ld.Processor, input json.RawMessage) []ld.Node {
	t.Helper()

	expanded, err := p.Expand(context.Background(), input, "")
	if err != nil {
		t.Fatalf("failed to expand input: %s", err)
	}
	return expanded
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name    string
		input   json.RawMessage
		context json.RawMessage
		output  json.RawMessage
		docIRI  string
		opts    []ld.ProcessorOption
	}{
		{
			name:    "IRI to term",
			input:   json.RawMessage(`[{"@id":"http://example.org/1","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"name":"http://schema.org/name"}`),
			output:  json.RawMessage(`{"@context":{"name":"http://schema.org/name"},"@id":"http://example.org/1","name":"Ada"}`),
		},
		{
			name:    "IRI to compact IRI",
			input:   json.RawMessage(`[{"@id":"http://example.org/1","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"schema":"http://schema.org/"}`),
			output:  json.RawMessage(`{"@context":{"schema":"http://schema.org/"},"@id":"http://example.org/1","schema:name":"Ada"}`),
		},
		{
			name:    "keyword alias",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/p":[{"@value":1}]}]`),
			context: json.RawMessage(`{"id":"@id"}`),
			output:  json.RawMessage(`{"@context":{"id":"@id"},"id":"http://example.com/a","http://example.com/p":1}`),
		},
		{
			name:    "term selection by type",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/num":[{"@value":5,"@type":"http://www.w3.org/2001/XMLSchema#integer"}]}]`),
			context: json.RawMessage(`{"int":{"@id":"http://example.com/num","@type":"http://www.w3.org/2001/XMLSchema#integer"},"str":"http://example.com/num"}`),
			output:  json.RawMessage(`{"@context":{"int":{"@id":"http://example.com/num","@type":"http://www.w3.org/2001/XMLSchema#integer"},"str":"http://example.com/num"},"@id":"http://example.com/a","int":5}`),
		},
		{
			name:    "id coercion to string",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/knows":[{"@id":"http://example.com/b"}]}]`),
			context: json.RawMessage(`{"knows":{"@id":"http://schema.org/knows","@type":"@id"}}`),
			output:  json.RawMessage(`{"@context":{"knows":{"@id":"http://schema.org/knows","@type":"@id"}},"@id":"http://example.com/a","knows":"http://example.com/b"}`),
		},
		{
			name:    "list container",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/list":[{"@list":[{"@value":"a"},{"@value":"b"}]}]}]`),
			context: json.RawMessage(`{"list":{"@id":"http://example.com/list","@container":"@list"}}`),
			output:  json.RawMessage(`{"@context":{"list":{"@id":"http://example.com/list","@container":"@list"}},"@id":"http://example.com/a","list":["a","b"]}`),
		},
		{
			name:    "language container",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/label":[{"@value":"Queen","@language":"en"},{"@value":"Königin","@language":"de"}]}]`),
			context: json.RawMessage(`{"label":{"@id":"http://example.com/label","@container":"@language"}}`),
			output:  json.RawMessage(`{"@context":{"label":{"@id":"http://example.com/label","@container":"@language"}},"@id":"http://example.com/a","label":{"de":"Königin","en":"Queen"}}`),
		},
		{
			name:    "keep arrays",
			input:   json.RawMessage(`[{"http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"name":"http://schema.org/name"}`),
			opts:    []ld.ProcessorOption{ld.WithCompactArrays(false)},
			output:  json.RawMessage(`{"@context":{"name":"http://schema.org/name"},"@graph":[{"name":["Ada"]}]}`),
		},
		{
			name:    "relative IRI against the document",
			input:   json.RawMessage(`[{"@id":"http://example.com/dir/item","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"name":"http://schema.org/name"}`),
			docIRI:  "http://example.com/dir/doc",
			output:  json.RawMessage(`{"@context":{"name":"http://schema.org/name"},"@id":"item","name":"Ada"}`),
		},
		{
			name:    "absolute IRIs preserved",
			input:   json.RawMessage(`[{"@id":"http://example.com/dir/item","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"name":"http://schema.org/name"}`),
			docIRI:  "http://example.com/dir/doc",
			opts:    []ld.ProcessorOption{ld.WithCompactToRelative(false)},
			output:  json.RawMessage(`{"@context":{"name":"http://schema.org/name"},"@id":"http://example.com/dir/item","name":"Ada"}`),
		},
		{
			name:    "excluded IRIs stay expanded",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: json.RawMessage(`{"name":"http://schema.org/name"}`),
			opts:    []ld.ProcessorOption{ld.WithExcludeIRIsFromCompaction("http://schema.org/name")},
			output:  json.RawMessage(`{"@context":{"name":"http://schema.org/name"},"@id":"http://example.com/a","http://schema.org/name":"Ada"}`),
		},
		{
			name:    "no context leaves expanded form",
			input:   json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/name":[{"@value":"Ada"}]}]`),
			context: nil,
			output:  json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/name":[{"@value":"Ada"}]}]`),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := ld.NewProcessor(tc.opts...)
			doc := mustExpand(t, p, tc.input)

			got, err := p.Compact(context.Background(), tc.context, doc, tc.docIRI)
			if err != nil {
				t.Fatalf("expected no error, got: %s", err)
			}

			if diff := cmp.Diff(tc.output, got, JSONDiff()); diff != "" {
				if *dump {
					t.Logf("compacted to: %s", string(got))
				}
				t.Errorf("compaction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	docCtx := json.RawMessage(`{"name":"http://schema.org/name","knows":{"@id":"http://schema.org/knows","@type":"@id"}}`)
	input := json.RawMessage(`{"@context":{"name":"http://schema.org/name","knows":{"@id":"http://schema.org/knows","@type":"@id"}},"@id":"http://example.com/ada","name":"Ada","knows":"http://example.com/lovelace"}`)

	p := ld.NewProcessor()
	doc := mustExpand(t, p, input)

	got, err := p.Compact(context.Background(), docCtx, doc, "")
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	want := json.RawMessage(`{"@context":{"name":"http://schema.org/name","knows":{"@id":"http://schema.org/knows","@type":"@id"}},"@id":"http://example.com/ada","name":"Ada","knows":"http://example.com/lovelace"}`)
	if diff := cmp.Diff(want, got, JSONDiff()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCompactEmptyDocument(t *testing.T) {
	p := ld.NewProcessor()

	got, err := p.Compact(context.Background(), json.RawMessage(`{"name":"http://schema.org/name"}`), nil, "")
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	if diff := cmp.Diff(json.RawMessage(`{}`), got, JSONDiff()); diff != "" {
		t.Errorf("compaction mismatch (-want +got):\n%s", diff)
	}
}
