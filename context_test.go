package jsonld_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	ld "github.com/condensedlight/jsonld"
	"github.com/condensedlight/jsonld/internal/json"
)

func TestContextProcessing(t *testing.T) {
	tests := []struct {
		name     string
		input    json.RawMessage
		output   json.RawMessage
		contexts map[string]json.RawMessage
		opts     []ld.ProcessorOption
		err      error
	}{
		{
			name:  "protected term cannot be redefined",
			input: json.RawMessage(`{"@context":[{"@protected":true,"name":"http://schema.org/name"},{"name":"http://example.com/other"}],"name":"Ada"}`),
			err:   ld.ErrProtectedTermRedefinition,
		},
		{
			name:   "identical redefinition of a protected term",
			input:  json.RawMessage(`{"@context":[{"@protected":true,"name":"http://schema.org/name"},{"name":"http://schema.org/name"}],"@id":"http://example.com/a","name":"Ada"}`),
			output: json.RawMessage(`[{"@id":"http://example.com/a","http://schema.org/name":[{"@value":"Ada"}]}]`),
		},
		{
			name:  "nullification with protected terms",
			input: json.RawMessage(`{"@context":[{"@protected":true,"name":"http://schema.org/name"},null],"name":"Ada"}`),
			err:   ld.ErrInvalidContextNullification,
		},
		{
			name:   "nullification resets term definitions",
			input:  json.RawMessage(`{"@context":[{"name":"http://schema.org/name"},null],"@id":"http://example.com/a","http://example.com/p":"v","name":"Ada"}`),
			output: json.RawMessage(`[{"@id":"http://example.com/a","http://example.com/p":[{"@value":"v"}]}]`),
		},
		{
			name:  "protected in 1.0",
			input: json.RawMessage(`{"@context":{"@protected":true,"name":"http://schema.org/name"},"name":"Ada"}`),
			opts:  []ld.ProcessorOption{ld.With10Processing(true)},
			err:   ld.ErrInvalidContextEntry,
		},
		{
			name:  "remote context chain over the limit",
			input: json.RawMessage(`{"@context":"https://example.com/a","name":"Ada"}`),
			contexts: map[string]json.RawMessage{
				"https://example.com/a": json.RawMessage(`"https://example.com/b"`),
				"https://example.com/b": json.RawMessage(`{"name":"http://schema.org/name"}`),
			},
			opts: []ld.ProcessorOption{ld.WithRemoteContextLimit(1)},
			err:  ld.ErrContextOverflow,
		},
		{
			name:  "remote context chain within the limit",
			input: json.RawMessage(`{"@context":"https://example.com/a","name":"Ada"}`),
			contexts: map[string]json.RawMessage{
				"https://example.com/a": json.RawMessage(`"https://example.com/b"`),
				"https://example.com/b": json.RawMessage(`{"name":"http://schema.org/name"}`),
			},
			output: json.RawMessage(`[{"http://schema.org/name":[{"@value":"Ada"}]}]`),
		},
		{
			name:  "remote context cycle through a chain",
			input: json.RawMessage(`{"@context":"https://example.com/a","name":"Ada"}`),
			contexts: map[string]json.RawMessage{
				"https://example.com/a": json.RawMessage(`"https://example.com/b"`),
				"https://example.com/b": json.RawMessage(`"https://example.com/a"`),
			},
			err: ld.ErrRecursiveContextInclusion,
		},
		{
			name:  "base from the context",
			input: json.RawMessage(`{"@context":{"@base":"http://example.com/dir/","p":{"@id":"http://example.com/p","@type":"@id"}},"@id":"item","p":"other"}`),
			output: json.RawMessage(
				`[{"@id":"http://example.com/dir/item","http://example.com/p":[{"@id":"http://example.com/dir/other"}]}]`,
			),
		},
		{
			name:  "vocab from the context",
			input: json.RawMessage(`{"@context":{"@vocab":"http://example.com/ns#"},"@id":"http://example.com/a","term":"v"}`),
			output: json.RawMessage(
				`[{"@id":"http://example.com/a","http://example.com/ns#term":[{"@value":"v"}]}]`,
			),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := []ld.ProcessorOption{
				ld.WithRemoteContextLoader(MapLoader(tc.contexts)),
			}
			opts = append(opts, tc.opts...)
			p := ld.NewProcessor(opts...)

			expanded, err := p.Expand(context.Background(), tc.input, "")

			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected error: %s, got: %s", tc.err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got: %s", err)
			}

			got, err := json.Marshal(expanded)
			if err != nil {
				t.Fatalf("failed to marshal to expanded JSON: %s", err)
			}

			if diff := cmp.Diff(tc.output, json.RawMessage(got), JSONDiff()); diff != "" {
				t.Errorf("expansion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestProcessedContext primes a processor with an already processed context
// and expands a document referencing it without any loader configured.
func TestProcessedContext(t *testing.T) {
	p := ld.NewProcessor()

	processed, err := p.Context(
		context.Background(),
		json.RawMessage(`{"name":"http://schema.org/name"}`),
		"",
	)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	primed := ld.NewProcessor(
		ld.WithProcessedContext("https://example.com/ctx.jsonld", processed),
	)

	expanded, err := primed.Expand(
		context.Background(),
		json.RawMessage(`{"@context":"https://example.com/ctx.jsonld","name":"Ada"}`),
		"",
	)
	if err != nil {
		t.Fatalf("expected no error, got: %s", err)
	}

	got, err := json.Marshal(expanded)
	if err != nil {
		t.Fatalf("failed to marshal to expanded JSON: %s", err)
	}

	want := json.RawMessage(`[{"http://schema.org/name":[{"@value":"Ada"}]}]`)
	if diff := cmp.Diff(want, json.RawMessage(got), JSONDiff()); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}
}
