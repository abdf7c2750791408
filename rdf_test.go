package jsonld_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	ld "github.com/condensedlight/jsonld"
	"github.com/condensedlight/jsonld/internal/json"
	"github.com/condensedlight/jsonld/rdf"
)

func TestToRDF(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  []rdf.Quad
	}{
		{
			name: "literals",
			input: json.RawMessage(`[{"@id":"http://example.com/a","@type":["http://example.com/T"],` +
				`"http://example.com/age":[{"@value":32}],` +
				`"http://example.com/name":[{"@value":"Ada","@language":"en"}],` +
				`"http://example.com/ok":[{"@value":true}],` +
				`"http://example.com/pi":[{"@value":3.14}]}]`),
			want: []rdf.Quad{
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: ld.RDFType},
					O: rdf.IRI{Value: "http://example.com/T"},
				},
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/age"},
					O: rdf.Literal{Lexical: "32", Datatype: rdf.IRI{Value: ld.XSDInteger}},
				},
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/name"},
					O: rdf.Literal{Lexical: "Ada", Datatype: rdf.IRI{Value: ld.RDFLangString}, Lang: "en"},
				},
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/ok"},
					O: rdf.Literal{Lexical: "true", Datatype: rdf.IRI{Value: ld.XSDBoolean}},
				},
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/pi"},
					O: rdf.Literal{Lexical: "3.14E0", Datatype: rdf.IRI{Value: ld.XSDDouble}},
				},
			},
		},
		{
			name:  "integral double keeps its datatype",
			input: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/p":[{"@value":5,"@type":"http://www.w3.org/2001/XMLSchema#double"}]}]`),
			want: []rdf.Quad{
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/p"},
					O: rdf.Literal{Lexical: "5.0E0", Datatype: rdf.IRI{Value: ld.XSDDouble}},
				},
			},
		},
		{
			name:  "list chain",
			input: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/list":[{"@list":[{"@value":"x"},{"@value":"y"}]}]}]`),
			want: []rdf.Quad{
				{
					S: rdf.BlankNode{ID: "b0"},
					P: rdf.IRI{Value: ld.RDFFirst},
					O: rdf.Literal{Lexical: "x", Datatype: rdf.IRI{Value: ld.XSDString}},
				},
				{
					S: rdf.BlankNode{ID: "b0"},
					P: rdf.IRI{Value: ld.RDFRest},
					O: rdf.BlankNode{ID: "b1"},
				},
				{
					S: rdf.BlankNode{ID: "b1"},
					P: rdf.IRI{Value: ld.RDFFirst},
					O: rdf.Literal{Lexical: "y", Datatype: rdf.IRI{Value: ld.XSDString}},
				},
				{
					S: rdf.BlankNode{ID: "b1"},
					P: rdf.IRI{Value: ld.RDFRest},
					O: rdf.IRI{Value: ld.RDFNil},
				},
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/list"},
					O: rdf.BlankNode{ID: "b0"},
				},
			},
		},
		{
			name:  "empty list",
			input: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/list":[{"@list":[]}]}]`),
			want: []rdf.Quad{
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/list"},
					O: rdf.IRI{Value: ld.RDFNil},
				},
			},
		},
		{
			name:  "named graph",
			input: json.RawMessage(`[{"@id":"http://example.com/g","@graph":[{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]}]}]`),
			want: []rdf.Quad{
				{
					S: rdf.IRI{Value: "http://example.com/a"},
					P: rdf.IRI{Value: "http://example.com/p"},
					O: rdf.Literal{Lexical: "v", Datatype: rdf.IRI{Value: ld.XSDString}},
					G: rdf.IRI{Value: "http://example.com/g"},
				},
			},
		},
		{
			name:  "blank node predicates are dropped",
			input: json.RawMessage(`[{"@id":"http://example.com/a","_:p":[{"@value":1}]}]`),
			want:  []rdf.Quad{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := ld.NewProcessor()
			doc := mustExpand(t, p, tc.input)

			got, err := p.ToRDF(context.Background(), doc)
			if err != nil {
				t.Fatalf("expected no error, got: %s", err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("quad mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToRDFJSONLiteral(t *testing.T) {
	p := ld.NewProcessor()
	doc := mustExpand(t, p, json.RawMessage(
		`[{"@id":"http://example.com/a","http://example.com/data":[{"@value":{"b":1,"a":true},"@type":"@json"}]}]`,
	))

	got, err := p.ToRDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected one quad, got %d", len(got))
	}

	lit, ok := got[0].O.(rdf.Literal)
	if !ok {
		t.Fatalf("expected a literal object, got %T", got[0].O)
	}
	if lit.Datatype.Value != ld.RDFJSON {
		t.Errorf("expected datatype %s, got %s", ld.RDFJSON, lit.Datatype.Value)
	}
	if !json.Valid(json.RawMessage(lit.Lexical)) {
		t.Errorf("lexical form is not valid JSON: %s", lit.Lexical)
	}
}

func TestFromRDF(t *testing.T) {
	quads := []rdf.Quad{
		{
			S: rdf.IRI{Value: "http://example.com/a"},
			P: rdf.IRI{Value: ld.RDFType},
			O: rdf.IRI{Value: "http://example.com/T"},
		},
		{
			S: rdf.IRI{Value: "http://example.com/a"},
			P: rdf.IRI{Value: "http://example.com/age"},
			O: rdf.Literal{Lexical: "32", Datatype: rdf.IRI{Value: ld.XSDInteger}},
		},
		{
			S: rdf.IRI{Value: "http://example.com/a"},
			P: rdf.IRI{Value: "http://example.com/name"},
			O: rdf.Literal{Lexical: "Ada", Datatype: rdf.IRI{Value: ld.RDFLangString}, Lang: "en"},
		},
		{
			S: rdf.IRI{Value: "http://example.com/b"},
			P: rdf.IRI{Value: "http://example.com/p"},
			O: rdf.Literal{Lexical: "v", Datatype: rdf.IRI{Value: ld.XSDString}},
			G: rdf.IRI{Value: "http://example.com/g"},
		},
	}

	p := ld.NewProcessor()
	got, err := json.Marshal(p.FromRDF(quads))
	if err != nil {
		t.Fatalf("failed to marshal to expanded JSON: %s", err)
	}

	want := json.RawMessage(`[` +
		`{"@id":"http://example.com/a","@type":["http://example.com/T"],` +
		`"http://example.com/age":[{"@value":"32","@type":"http://www.w3.org/2001/XMLSchema#integer"}],` +
		`"http://example.com/name":[{"@language":"en","@value":"Ada"}]},` +
		`{"@id":"http://example.com/g","@graph":[{"@id":"http://example.com/b","http://example.com/p":[{"@value":"v"}]}]}]`)

	if diff := cmp.Diff(want, json.RawMessage(got), JSONDiff()); diff != "" {
		t.Errorf("serialization mismatch (-want +got):\n%s", diff)
	}
}

func TestRDFRoundTrip(t *testing.T) {
	input := json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/name":[{"@value":"Ada"}]}]`)

	p := ld.NewProcessor()
	doc := mustExpand(t, p, input)

	quads, err := p.ToRDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	got, err := json.Marshal(p.FromRDF(quads))
	if err != nil {
		t.Fatalf("failed to marshal to expanded JSON: %s", err)
	}

	if diff := cmp.Diff(input, json.RawMessage(got), JSONDiff()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
