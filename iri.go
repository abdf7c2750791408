package jsonld

import (
	"context"
	"log/slog"
	"strings"

	"github.com/condensedlight/jsonld/internal/iri"
	"github.com/condensedlight/jsonld/internal/json"
)

// expandIRI resolves a string against the active context to a keyword, an
// absolute IRI or a blank node identifier.
//
// With vocab set, term definitions and the vocabulary mapping apply. With
// documentRelative set, relative references resolve against the base IRI.
// A value shadowed by a null term definition expands to the empty string,
// which callers drop.
//
// localCtx and defined are only passed during context processing, where
// sibling keys may forward-reference terms that are not defined yet.
func (p *Processor) expandIRI(
	activeContext *Context,
	value string,
	documentRelative bool,
	vocab bool,
	localCtx json.Object,
	defined map[string]termState,
) (string, error) {
	// 1)
	if isKeyword(value) {
		return value, nil
	}

	// 2)
	if looksLikeKeyword(value) {
		p.logger.Warn("keyword lookalike value ignored",
			slog.String("value", value))
		return "", nil
	}

	hasLocal := len(localCtx) > 0

	// 3)
	if hasLocal {
		if _, ok := localCtx[value]; ok && defined[value] != termDefined {
			if err := p.createTerm(
				context.Background(),
				activeContext,
				localCtx,
				value,
				defined,
				newCreateTermOptions(),
			); err != nil {
				return "", err
			}
		}
	}

	// 4)
	if activeContext != nil {
		if t, ok := activeContext.defs[value]; ok && isKeyword(t.IRI) {
			return t.IRI, nil
		}
	}

	// 5)
	if vocab && activeContext != nil {
		if t, ok := activeContext.defs[value]; ok {
			return t.IRI, nil
		}
	}

	// 6)
	if strings.Index(value, ":") >= 1 {
		// 6.1)
		prefix, suffix, _ := strings.Cut(value, ":")

		// 6.2)
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}

		// 6.3)
		if hasLocal {
			if _, ok := localCtx[prefix]; ok && defined[prefix] != termDefined {
				if err := p.createTerm(
					context.Background(),
					activeContext,
					localCtx,
					prefix,
					defined,
					newCreateTermOptions(),
				); err != nil {
					return "", err
				}
			}
		}

		// 6.4)
		if activeContext != nil {
			if t, ok := activeContext.defs[prefix]; ok && t.IRI != "" && t.Prefix {
				return t.IRI + suffix, nil
			}
		}

		// 6.5)
		if iri.IsIRI(value) {
			return value, nil
		}
	}

	// 7)
	if vocab && activeContext != nil && activeContext.vocabMapping != "" {
		return activeContext.vocabMapping + value, nil
	}

	// 8)
	if documentRelative && activeContext != nil {
		if activeContext.currentBaseIRI == "" {
			return value, nil
		}
		return iri.Resolve(activeContext.currentBaseIRI, value)
	}

	return value, nil
}
