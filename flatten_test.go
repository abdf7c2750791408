package jsonld_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	ld "github.com/condensedlight/jsonld"
	"github.com/condensedlight/jsonld/internal/json"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		input  json.RawMessage
		output json.RawMessage
		err    error
	}{
		{
			name:  "embedded node gets a blank node label",
			input: json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/knows":[{"http://schema.org/name":[{"@value":"Bob"}]}]}]`),
			output: json.RawMessage(`[` +
				`{"@id":"_:b0","http://schema.org/name":[{"@value":"Bob"}]},` +
				`{"@id":"http://example.com/a","http://schema.org/knows":[{"@id":"_:b0"}]}]`),
		},
		{
			name: "repeated subjects concatenate property values",
			input: json.RawMessage(`[` +
				`{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]},` +
				`{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"},{"@value":"w"}]}]`),
			output: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"},{"@value":"v"},{"@value":"w"}]}]`),
		},
		{
			name:   "blank node labels are reissued",
			input:  json.RawMessage(`[{"@id":"_:input","http://example.com/p":[{"@id":"_:other"}]}]`),
			output: json.RawMessage(`[{"@id":"_:b0","http://example.com/p":[{"@id":"_:b1"}]}]`),
		},
		{
			name:   "named graph",
			input:  json.RawMessage(`[{"@id":"http://example.com/g","@graph":[{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]}]}]`),
			output: json.RawMessage(`[{"@id":"http://example.com/g","@graph":[{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]}]}]`),
		},
		{
			name:   "reverse properties become forward properties",
			input:  json.RawMessage(`[{"@id":"http://example.com/a","@reverse":{"http://example.com/parent":[{"@id":"http://example.com/b"}]}}]`),
			output: json.RawMessage(`[{"@id":"http://example.com/b","http://example.com/parent":[{"@id":"http://example.com/a"}]}]`),
		},
		{
			name:  "blank nodes in lists",
			input: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/list":[{"@list":[{"@value":1},{"@id":"_:x"}]}]}]`),
			output: json.RawMessage(`[` +
				`{"@id":"http://example.com/a","http://example.com/list":[{"@list":[{"@value":1},{"@id":"_:b0"}]}]}]`),
		},
		{
			name: "conflicting indexes",
			input: json.RawMessage(`[` +
				`{"@id":"http://example.com/a","@index":"x","http://example.com/p":[{"@value":1}]},` +
				`{"@id":"http://example.com/a","@index":"y","http://example.com/p":[{"@value":2}]}]`),
			err: ld.ErrConflictingIndexes,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := ld.NewProcessor()
			doc := mustExpand(t, p, tc.input)

			flattened, err := p.Flatten(context.Background(), doc)

			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected error: %s, got: %s", tc.err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got: %s", err)
			}

			got, err := json.Marshal(flattened)
			if err != nil {
				t.Fatalf("failed to marshal to flattened JSON: %s", err)
			}

			if diff := cmp.Diff(tc.output, json.RawMessage(got), JSONDiff()); diff != "" {
				if *dump {
					t.Logf("flattened to: %s", string(got))
				}
				t.Errorf("flattening mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestNodeMapFreeFloatingValues feeds hand-built documents with top-level
// value and list objects, which expansion would have dropped, straight into
// the exported entry points.
func TestNodeMapFreeFloatingValues(t *testing.T) {
	p := ld.NewProcessor()

	doc := []ld.Node{
		{Value: json.RawMessage(`"loose"`)},
		{List: []ld.Node{{Value: json.RawMessage(`1`)}}},
		{ID: "http://example.com/a", Properties: ld.Properties{
			"http://example.com/p": {{Value: json.RawMessage(`"v"`)}},
		}},
	}

	nodeMap, err := p.NodeMap(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	def := nodeMap["@default"]
	if len(def) != 1 {
		t.Errorf("expected only the node object in the default graph, got %d entries", len(def))
	}
	if _, ok := def["http://example.com/a"]; !ok {
		t.Error("missing node http://example.com/a in default graph")
	}

	flattened, err := p.Flatten(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}
	if len(flattened) != 1 {
		t.Errorf("expected one flattened node, got %d", len(flattened))
	}
}

func TestNodeMap(t *testing.T) {
	p := ld.NewProcessor()
	doc := mustExpand(t, p, json.RawMessage(`[`+
		`{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]},`+
		`{"@id":"http://example.com/g","@graph":[{"@id":"http://example.com/b","http://example.com/p":[{"@value":"w"}]}]}]`))

	nodeMap, err := p.NodeMap(context.Background(), doc)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	def, ok := nodeMap["@default"]
	if !ok {
		t.Fatal("missing default graph")
	}
	if _, ok := def["http://example.com/a"]; !ok {
		t.Error("missing node http://example.com/a in default graph")
	}
	if _, ok := def["http://example.com/g"]; !ok {
		t.Error("missing graph node http://example.com/g in default graph")
	}

	g, ok := nodeMap["http://example.com/g"]
	if !ok {
		t.Fatal("missing named graph http://example.com/g")
	}
	if _, ok := g["http://example.com/b"]; !ok {
		t.Error("missing node http://example.com/b in named graph")
	}
}
