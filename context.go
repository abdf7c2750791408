package jsonld

import (
	"context"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/condensedlight/jsonld/internal/iri"
	"github.com/condensedlight/jsonld/internal/json"
)

// Context represents a processed JSON-LD context: the accumulated term,
// vocabulary, base, language and direction state used to interpret a
// document at a point in its structure.
//
// Contexts are never mutated once returned; every update clones first, so a
// Context can be shared read-only between concurrent calls.
type Context struct {
	defs            map[string]Term
	currentBaseIRI  string
	originalBaseIRI string

	vocabMapping     string
	defaultLang      string
	defaultDirection string
	previousContext  *Context
	inverse          inverseContext
}

// newContext initialises a new context with the specified documentURL set as
// the current and original base IRI.
func newContext(documentURL string) *Context {
	return &Context{
		defs:            make(map[string]Term),
		currentBaseIRI:  documentURL,
		originalBaseIRI: documentURL,
	}
}

// Terms returns an iterator over context term definitions.
func (c *Context) Terms() iter.Seq2[string, Term] {
	return func(yield func(string, Term) bool) {
		for k, v := range c.defs {
			if !yield(k, v) {
				return
			}
		}
	}
}

// BaseIRI returns the context's current base IRI.
func (c *Context) BaseIRI() string {
	return c.currentBaseIRI
}

// VocabMapping returns the context's vocabulary mapping, if any.
func (c *Context) VocabMapping() string {
	return c.vocabMapping
}

func (c *Context) clone() *Context {
	return &Context{
		defs:             maps.Clone(c.defs),
		currentBaseIRI:   c.currentBaseIRI,
		originalBaseIRI:  c.originalBaseIRI,
		vocabMapping:     c.vocabMapping,
		defaultLang:      c.defaultLang,
		defaultDirection: c.defaultDirection,
		previousContext:  c.previousContext,
		inverse:          nil,
	}
}

func (c *Context) hasProtectedTerms() bool {
	for _, def := range c.defs {
		if def.Protected {
			return true
		}
	}
	return false
}

// Context takes in the raw value of a @context entry and processes it into a
// [Context].
func (p *Processor) Context(ctx context.Context, localContext json.RawMessage, baseURL string) (*Context, error) {
	if len(localContext) == 0 || json.IsNull(localContext) {
		return nil, nil
	}

	return p.context(ctx, nil, localContext, baseURL, newCtxProcessingOpts())
}

type ctxProcessingOpts struct {
	remotes   []string
	override  bool
	propagate bool
	validate  bool
}

func newCtxProcessingOpts() ctxProcessingOpts {
	return ctxProcessingOpts{
		propagate: true,
		validate:  true,
	}
}

func (p *Processor) context(
	ctx context.Context,
	activeContext *Context,
	localContext json.RawMessage,
	baseURL string,
	opts ctxProcessingOpts,
) (*Context, error) {
	if activeContext == nil {
		activeContext = newContext(baseURL)
	}

	if p.baseIRI != "" {
		activeContext.currentBaseIRI = p.baseIRI
	}

	// 1)
	result := activeContext.clone()

	// 2)
	if json.IsMap(localContext) {
		var propcheck struct {
			Propagate *bool `json:"@propagate,omitempty"`
		}
		if err := json.Unmarshal(localContext, &propcheck); err != nil {
			return nil, ErrInvalidPropagateValue
		}
		if propcheck.Propagate != nil {
			opts.propagate = *propcheck.Propagate
		}
	}

	// 3)
	if !opts.propagate && result.previousContext == nil {
		result.previousContext = activeContext.clone()
	}

	// 4)
	var contexts []json.RawMessage
	if err := json.Unmarshal(json.MakeArray(localContext), &contexts); err != nil {
		return nil, errors.Wrap(ErrInvalidLocalContext, "@context is not valid JSON")
	}

	if len(contexts) == 0 {
		return nil, nil
	}

	// 5)
	for _, local := range contexts {
		// 5.1)
		if json.IsNull(local) {
			// 5.1.1)
			if !opts.override && result.hasProtectedTerms() {
				return nil, ErrInvalidContextNullification
			}

			// 5.1.2)
			previous := result.clone()
			result = newContext(activeContext.originalBaseIRI)
			if !opts.propagate {
				result.previousContext = previous
			}

			// 5.1.3)
			continue
		}

		if json.IsArray(local) {
			return nil, errors.Wrap(ErrInvalidLocalContext, "nested array in @context")
		}

		// 5.2)
		if json.IsString(local) {
			res, err := p.remoteContext(ctx, result, local, baseURL, opts)
			if err != nil {
				return nil, err
			}
			if res != nil {
				result = res
			}
			continue
		}

		// 5.3)
		var ctxObj json.Object
		if err := json.Unmarshal(local, &ctxObj); err != nil {
			return nil, errors.Wrap(ErrInvalidLocalContext, "@context entry is not an object")
		}

		// 5.5)
		if version, ok := ctxObj[KeywordVersion]; ok {
			if err := p.handleVersion(version); err != nil {
				return nil, err
			}
		}

		// 5.6)
		if imp, ok := ctxObj[KeywordImport]; ok {
			res, err := p.handleImport(ctx, baseURL, imp, ctxObj)
			if err != nil {
				return nil, err
			}
			ctxObj = res
		}

		// 5.7)
		if base, ok := ctxObj[KeywordBase]; ok && len(opts.remotes) == 0 {
			if err := p.handleBase(result, base); err != nil {
				return nil, err
			}
		}

		// 5.8)
		if vocab, ok := ctxObj[KeywordVocab]; ok {
			if err := p.handleVocab(result, vocab); err != nil {
				return nil, err
			}
		}

		// 5.9)
		if lang, ok := ctxObj[KeywordLanguage]; ok {
			if err := p.handleLanguage(result, lang); err != nil {
				return nil, err
			}
		}

		// 5.10)
		if dir, ok := ctxObj[KeywordDirection]; ok {
			if err := p.handleDirection(result, dir); err != nil {
				return nil, err
			}
		}

		// 5.11)
		if prop, ok := ctxObj[KeywordPropagate]; ok {
			if err := p.handlePropagate(prop); err != nil {
				return nil, err
			}
		}

		protected := false
		if prot, ok := ctxObj[KeywordProtected]; ok && !json.IsNull(prot) {
			if p.modeLD10 {
				return nil, ErrInvalidContextEntry
			}
			if err := json.Unmarshal(prot, &protected); err != nil {
				return nil, ErrInvalidProtectedValue
			}
		}

		// 5.12)
		defined := map[string]termState{}

		// 5.13)
		keys := slices.Sorted(maps.Keys(ctxObj))
		for _, k := range keys {
			switch k {
			case KeywordBase, KeywordDirection, KeywordImport,
				KeywordLanguage, KeywordPropagate, KeywordProtected,
				KeywordVersion, KeywordVocab:
			default:
				newOpts := newCreateTermOptions()
				newOpts.baseURL = baseURL
				newOpts.protected = protected
				newOpts.override = opts.override
				newOpts.remotes = slices.Clone(opts.remotes)
				if err := p.createTerm(
					ctx,
					result,
					ctxObj,
					k,
					defined,
					newOpts,
				); err != nil {
					return nil, err
				}
			}
		}
	}

	return result, nil
}

// remoteContext dereferences a remote context reference and merges it into
// result. It returns nil without error when the reference should be skipped.
func (p *Processor) remoteContext(
	ctx context.Context,
	result *Context,
	reference json.RawMessage,
	baseURL string,
	opts ctxProcessingOpts,
) (*Context, error) {
	var s string
	if err := json.Unmarshal(reference, &s); err != nil {
		return nil, ErrInvalidLocalContext
	}

	// 5.2.1)
	if !iri.IsIRI(baseURL) && !iri.IsIRI(s) {
		return nil, errors.Wrapf(ErrLoadingDocument, "cannot resolve %q without a base", s)
	}

	uri, err := iri.Resolve(baseURL, s)
	if err != nil {
		return nil, errors.Wrapf(ErrLoadingDocument, "resolving %q: %v", s, err)
	}

	// 5.2.2)
	if slices.Contains(opts.remotes, uri) {
		if !opts.validate {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrRecursiveContextInclusion, "%s", uri)
	}

	// 5.2.3)
	if len(opts.remotes) >= p.remoteLimit {
		if p.modeLD10 {
			return nil, errors.Wrapf(ErrRecursiveContextInclusion, "%s", uri)
		}
		return nil, errors.Wrapf(ErrContextOverflow, "more than %d remote contexts", p.remoteLimit)
	}
	opts.remotes = append(opts.remotes, uri)

	// Primed contexts short-circuit retrieval for the leading remote
	// reference of a document.
	if len(result.defs) == 0 {
		if primed, ok := p.processedContext[uri]; ok && primed != nil {
			return primed.clone(), nil
		}
	}

	// 5.2.4) 5.2.5)
	doc, err := p.retrieveRemoteContext(ctx, uri)
	if err != nil {
		return nil, err
	}

	// 5.2.6)
	newOpts := newCtxProcessingOpts()
	newOpts.remotes = slices.Clone(opts.remotes)
	newOpts.validate = opts.validate
	return p.context(
		ctx,
		result,
		doc.Context,
		doc.URL,
		newOpts,
	)
}

func (p *Processor) handlePropagate(prop json.RawMessage) error {
	if p.modeLD10 {
		return ErrInvalidContextEntry
	}

	if json.IsNull(prop) {
		return ErrInvalidPropagateValue
	}

	var b bool
	if err := json.Unmarshal(prop, &b); err != nil {
		return ErrInvalidPropagateValue
	}

	return nil
}

func (p *Processor) handleDirection(result *Context, dir json.RawMessage) error {
	if p.modeLD10 {
		return ErrInvalidContextEntry
	}

	if json.IsNull(dir) {
		result.defaultDirection = ""
		return nil
	}

	var d string
	if err := json.Unmarshal(dir, &d); err != nil {
		return ErrInvalidBaseDirection
	}

	switch d {
	case DirectionLTR, DirectionRTL:
	default:
		return errors.Wrapf(ErrInvalidBaseDirection, "%q", d)
	}

	result.defaultDirection = d
	return nil
}

func (p *Processor) handleLanguage(result *Context, lang json.RawMessage) error {
	if json.IsNull(lang) {
		result.defaultLang = ""
		return nil
	}

	var l string
	if err := json.Unmarshal(lang, &l); err != nil {
		return ErrInvalidDefaultLanguage
	}

	result.defaultLang = strings.ToLower(l)
	return nil
}

func (p *Processor) handleVocab(result *Context, vocab json.RawMessage) error {
	// 5.8.2)
	if json.IsNull(vocab) {
		result.vocabMapping = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(vocab, &s); err != nil {
		return ErrInvalidVocabMapping
	}

	// 5.8.3)
	if !(iri.IsIRI(s) || iri.IsRelative(s) || s == BlankNode) {
		return errors.Wrapf(ErrInvalidVocabMapping, "%q", s)
	}

	u, err := p.expandIRI(result, s, true, true, nil, nil)
	if err != nil {
		return err
	}

	result.vocabMapping = u
	return nil
}

func (p *Processor) handleBase(result *Context, base json.RawMessage) error {
	// 5.7.2)
	if json.IsNull(base) {
		result.currentBaseIRI = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(base, &s); err != nil {
		return ErrInvalidBaseIRI
	}

	// 5.7.3)
	if iri.IsIRI(s) {
		result.currentBaseIRI = s
		return nil
	}

	// 5.7.4)
	if iri.IsRelative(s) && result.currentBaseIRI != "" {
		u, err := iri.Resolve(result.currentBaseIRI, s)
		if err != nil {
			return errors.Wrapf(ErrInvalidBaseIRI, "%q", s)
		}
		result.currentBaseIRI = u
		return nil
	}

	// 5.7.5)
	return errors.Wrapf(ErrInvalidBaseIRI, "%q", s)
}

func (p *Processor) handleImport(ctx context.Context, baseURL string, data json.RawMessage, local json.Object) (json.Object, error) {
	// 5.6.1)
	if p.modeLD10 {
		return nil, ErrInvalidContextEntry
	}

	// 5.6.2)
	var val string
	if err := json.Unmarshal(data, &val); err != nil {
		return nil, ErrInvalidImportValue
	}

	// 5.6.3)
	uri, err := iri.Resolve(baseURL, val)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidImportValue, "%q", val)
	}

	// 5.6.4) 5.6.5)
	res, err := p.retrieveRemoteContext(ctx, uri)
	if err != nil {
		return nil, err
	}

	// 5.6.6)
	var ctxObj json.Object
	if err := json.Unmarshal(res.Context, &ctxObj); err != nil {
		return nil, errors.Wrapf(ErrInvalidRemoteContext, "%s", uri)
	}

	// 5.6.7)
	if _, ok := ctxObj[KeywordImport]; ok {
		return nil, errors.Wrapf(ErrInvalidContextEntry, "@import inside %s", uri)
	}

	maps.Copy(ctxObj, local)
	return ctxObj, nil
}

func (p *Processor) handleVersion(data json.RawMessage) error {
	var ver float64
	if err := json.Unmarshal(data, &ver); err != nil {
		return ErrInvalidVersionValue
	}
	if ver != 1.1 {
		return ErrInvalidVersionValue
	}
	if p.modeLD10 {
		return ErrProcessingMode
	}
	return nil
}

func (p *Processor) retrieveRemoteContext(
	ctx context.Context,
	uri string,
) (Document, error) {
	if p.loader == nil {
		return Document{}, errors.Wrapf(ErrContextLoadingDenied, "%s", uri)
	}

	doc, err := p.loader(ctx, uri)
	if err != nil {
		return Document{}, errors.Wrapf(ErrLoadingRemoteContext, "%s: %v", uri, err)
	}

	return doc, nil
}
