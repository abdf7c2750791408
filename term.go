package jsonld

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/condensedlight/jsonld/internal/iri"
	"github.com/condensedlight/jsonld/internal/json"
)

// termState tracks the definition state of a term during context processing.
// The defining state is what detects cycles between sibling keys that
// forward-reference each other.
type termState uint8

const (
	termUndefined termState = iota
	termDefining
	termDefined
)

// Term represents a term definition in a JSON-LD context.
type Term struct {
	IRI       string
	Prefix    bool
	Protected bool
	Reverse   bool

	BaseIRI   string
	Context   json.RawMessage
	Container []string
	Direction string
	Index     string
	Language  string
	Nest      string
	Type      string
}

func (t *Term) equalWithoutProtected(ot *Term) bool {
	if t == nil || ot == nil {
		return t == ot
	}
	return t.IRI == ot.IRI &&
		t.Prefix == ot.Prefix &&
		t.Reverse == ot.Reverse &&
		t.BaseIRI == ot.BaseIRI &&
		bytes.Equal(t.Context, ot.Context) &&
		slices.Equal(t.Container, ot.Container) &&
		t.Direction == ot.Direction &&
		t.Index == ot.Index &&
		t.Language == ot.Language &&
		t.Nest == ot.Nest &&
		t.Type == ot.Type
}

func (t *Term) IsZero() bool {
	if t == nil {
		return true
	}
	return t.IRI == "" && !t.Prefix && !t.Protected &&
		!t.Reverse && t.BaseIRI == "" && t.Context == nil &&
		t.Container == nil && t.Direction == "" &&
		t.Index == "" && t.Language == "" && t.Nest == "" &&
		t.Type == ""
}

type createTermOptions struct {
	baseURL   string
	protected bool
	override  bool
	remotes   []string
}

func newCreateTermOptions() createTermOptions {
	return createTermOptions{}
}

// containerValue is the tri-state @container entry: absent, explicit null,
// or a set of container keywords.
type containerValue struct {
	Set   bool
	Null  bool
	Value []string
}

// termInput is the parsed, not yet validated, value of a term entry in a
// local context.
type termInput struct {
	Null           bool
	Simple         bool
	ID             Null[string]
	Type           string
	Reverse        string
	Container      containerValue
	Index          string
	Context        json.RawMessage
	Language       Null[string]
	Direction      Null[string]
	Nest           string
	Prefix         Null[bool]
	Protected      Null[bool]
	HasUnknownKeys bool
}

func parseTermInput(raw json.RawMessage) (termInput, error) {
	var input termInput

	if json.IsNull(raw) {
		input.Null = true
		return input, nil
	}

	if json.IsString(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return input, ErrInvalidTermDefinition
		}
		input.Simple = true
		input.ID = Null[string]{Set: true, Value: s}
		return input, nil
	}

	if !json.IsMap(raw) {
		return input, ErrInvalidTermDefinition
	}

	var obj json.Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return input, ErrInvalidTermDefinition
	}

	for key, value := range obj {
		switch key {
		case KeywordID:
			if err := input.ID.UnmarshalJSON(value); err != nil {
				return input, ErrInvalidIRIMapping
			}
		case KeywordType:
			if !json.IsString(value) {
				return input, ErrInvalidTypeMapping
			}
			if err := json.Unmarshal(value, &input.Type); err != nil {
				return input, ErrInvalidTypeMapping
			}
		case KeywordReverse:
			if !json.IsString(value) {
				return input, ErrInvalidIRIMapping
			}
			if err := json.Unmarshal(value, &input.Reverse); err != nil {
				return input, ErrInvalidIRIMapping
			}
		case KeywordContainer:
			input.Container.Set = true
			if json.IsNull(value) {
				input.Container.Null = true
				continue
			}
			if err := json.Unmarshal(json.MakeArray(value), &input.Container.Value); err != nil {
				return input, ErrInvalidContainerMapping
			}
			if len(input.Container.Value) == 0 {
				return input, ErrInvalidContainerMapping
			}
		case KeywordIndex:
			if err := json.Unmarshal(value, &input.Index); err != nil {
				return input, ErrInvalidTermDefinition
			}
		case KeywordContext:
			input.Context = value
		case KeywordLanguage:
			if err := input.Language.UnmarshalJSON(value); err != nil {
				return input, ErrInvalidLanguageMapping
			}
		case KeywordDirection:
			if err := input.Direction.UnmarshalJSON(value); err != nil {
				return input, ErrInvalidBaseDirection
			}
		case KeywordNest:
			if err := json.Unmarshal(value, &input.Nest); err != nil {
				return input, ErrInvalidNestValue
			}
		case KeywordPrefix:
			if err := input.Prefix.UnmarshalJSON(value); err != nil {
				return input, ErrInvalidTermDefinition
			}
		case KeywordProtected:
			if err := input.Protected.UnmarshalJSON(value); err != nil {
				return input, ErrInvalidProtectedValue
			}
		default:
			input.HasUnknownKeys = true
		}
	}

	return input, nil
}

func (p *Processor) createTerm(
	ctx context.Context,
	activeCtx *Context,
	localCtx json.Object,
	term string,
	defined map[string]termState,
	opts createTermOptions,
) error {
	// 1)
	if state := defined[term]; state != termUndefined {
		if state == termDefined {
			return nil
		}
		return errors.Wrapf(ErrCyclicIRIMapping, "%q", term)
	}

	// 2)
	if term == "" {
		return errors.Wrap(ErrInvalidTermDefinition, "empty term")
	}
	defined[term] = termDefining

	// 3)
	input, err := parseTermInput(localCtx[term])
	if err != nil {
		return errors.Wrapf(err, "term %q", term)
	}

	// a null definition behaves like {"@id": null}
	if input.Null {
		input.ID = Null[string]{Set: true, Null: true}
	}

	// 4)
	if term == KeywordType {
		if p.modeLD10 {
			return ErrKeywordRedefinition
		}

		if oldDef, ok := activeCtx.defs[term]; ok && oldDef.Protected && !opts.override {
			return errors.Wrapf(ErrProtectedTermRedefinition, "%q", term)
		}

		// for @type, only @container: @set and @protected are allowed
		if input.ID.Set || input.Type != "" || input.Reverse != "" ||
			input.Index != "" || input.Context != nil || input.Language.Set ||
			input.Direction.Set || input.Nest != "" ||
			(input.Prefix.Set && !input.Prefix.Null) ||
			input.HasUnknownKeys {
			return ErrKeywordRedefinition
		}

		if input.Container.Set && !input.Container.Null {
			if !slices.Equal(input.Container.Value, []string{KeywordSet}) {
				return ErrKeywordRedefinition
			}
		} else if !input.Simple && !input.Null {
			return ErrKeywordRedefinition
		}
	} else {
		// 5)
		if isKeyword(term) {
			return errors.Wrapf(ErrKeywordRedefinition, "%q", term)
		}

		if looksLikeKeyword(term) {
			p.logger.Warn("keyword lookalike term ignored", slog.String("term", term))
			return nil
		}
	}

	// 6)
	oldDef, oldDefOK := activeCtx.defs[term]
	delete(activeCtx.defs, term)

	// 10)
	termDef := Term{
		Protected: opts.protected,
	}

	// 11)
	if input.Protected.Set && !input.Protected.Null {
		if p.modeLD10 {
			return ErrInvalidTermDefinition
		}
		termDef.Protected = input.Protected.Value
	}

	// 12)
	if input.Type != "" {
		// 12.2)
		u, err := p.expandIRI(activeCtx, input.Type, false, true, localCtx, defined)
		if err != nil {
			return errors.Wrapf(ErrInvalidTypeMapping, "term %q", term)
		}

		// 12.3)
		if p.modeLD10 && (u == KeywordNone || u == KeywordJSON) {
			return errors.Wrapf(ErrInvalidTypeMapping, "term %q", term)
		}

		// 12.4)
		switch u {
		case KeywordID, KeywordJSON, KeywordNone, KeywordVocab:
		default:
			if !iri.IsAbsolute(u) {
				return errors.Wrapf(ErrInvalidTypeMapping, "term %q: %q", term, u)
			}
		}

		// 12.5)
		termDef.Type = u
	}

	// 13)
	if input.Reverse != "" {
		// 13.1)
		if input.ID.Set || input.Nest != "" {
			return errors.Wrapf(ErrInvalidReverseProperty, "%q", term)
		}

		// 13.3)
		if looksLikeKeyword(input.Reverse) {
			p.logger.Warn("keyword lookalike value ignored",
				slog.String("value", input.Reverse))
			return nil
		}

		// 13.4)
		u, err := p.expandIRI(activeCtx, input.Reverse, false, true, localCtx, defined)
		if err != nil {
			return errors.Wrapf(ErrInvalidIRIMapping, "term %q", term)
		}

		if !iri.IsAbsolute(u) && !strings.HasPrefix(u, BlankNode) {
			return errors.Wrapf(ErrInvalidIRIMapping, "term %q: %q", term, u)
		}

		termDef.IRI = u

		// 13.5)
		if input.Container.Set {
			if input.Container.Null {
				termDef.Container = nil
			} else {
				if len(input.Container.Value) != 1 ||
					(input.Container.Value[0] != KeywordSet &&
						input.Container.Value[0] != KeywordIndex) {
					return errors.Wrapf(ErrInvalidReverseProperty, "%q", term)
				}
				termDef.Container = input.Container.Value
			}
		}

		// 13.6)
		termDef.Reverse = true

		if slices.Contains(termDef.Container, KeywordIndex) && input.Index != "" {
			termDef.Index = input.Index
		}

		// 13.7)
		activeCtx.defs[term] = termDef
		defined[term] = termDefined
		return nil
	} else if input.ID.Set && !input.ID.Null && term != input.ID.Value {
		// 14.2)
		if !isKeyword(input.ID.Value) && looksLikeKeyword(input.ID.Value) {
			// 14.2.2)
			p.logger.Warn("keyword lookalike value ignored",
				slog.String("value", input.ID.Value))
			return nil
		}

		// 14.2.3)
		u, err := p.expandIRI(activeCtx, input.ID.Value, false, true, localCtx, defined)
		if err != nil {
			return err
		}

		if !isKeyword(u) && !iri.IsAbsolute(u) && !strings.HasPrefix(u, BlankNode) {
			return errors.Wrapf(ErrInvalidIRIMapping, "term %q: %q", term, u)
		}

		if u == KeywordContext {
			return ErrInvalidKeywordAlias
		}

		termDef.IRI = u

		// 14.2.4)
		if strings.Contains(term, "/") ||
			(!strings.HasPrefix(term, ":") && !strings.HasSuffix(term, ":") && strings.Contains(term, ":")) {
			// 14.2.4.1)
			defined[term] = termDefined

			// 14.2.4.2)
			tu, err := p.expandIRI(activeCtx, term, false, true, localCtx, defined)
			if err != nil || tu != u {
				return errors.Wrapf(ErrInvalidIRIMapping, "term %q is itself a compact IRI for %q", term, tu)
			}
		} else {
			// 14.2.5)
			if input.Simple && (iri.EndsInGenDelim(u) || strings.HasPrefix(u, BlankNode)) {
				if v, ok := p.remapPrefixIRIs[u]; ok {
					termDef.IRI = v
				}
				termDef.Prefix = true
			}
		}
	} else if input.ID.Set && input.ID.Null {
		// 14.1) @id was explicitly null: the term shadows any inherited
		// definition and expands to nothing.
	} else if strings.Contains(term[1:], ":") {
		// 15)
		prefix, suffix, _ := strings.Cut(term, ":")

		// 15.1)
		if !strings.HasPrefix(suffix, "//") {
			if _, ok := localCtx[prefix]; ok {
				if err := p.createTerm(ctx, activeCtx, localCtx, prefix, defined, newCreateTermOptions()); err != nil {
					return err
				}
			}
		}

		// 15.2)
		if def, ok := activeCtx.defs[prefix]; ok {
			termDef.IRI = def.IRI + suffix
		} else {
			// 15.3)
			termDef.IRI = term
		}
	} else if strings.Contains(term, "/") {
		// 16)
		u, err := p.expandIRI(activeCtx, term, false, true, nil, nil)
		if err != nil || !iri.IsAbsolute(u) {
			return errors.Wrapf(ErrInvalidIRIMapping, "term %q", term)
		}
		termDef.IRI = u
	} else if term == KeywordType {
		// 17)
		termDef.IRI = KeywordType
	} else if activeCtx.vocabMapping != "" {
		// 18)
		termDef.IRI = activeCtx.vocabMapping + term
	} else {
		return errors.Wrapf(ErrInvalidIRIMapping, "term %q has no IRI and no vocab mapping applies", term)
	}

	// 19)
	if input.Container.Set {
		if input.Container.Null {
			return errors.Wrapf(ErrInvalidContainerMapping, "term %q", term)
		}

		// 19.1)
		values := input.Container.Value
		for _, vl := range values {
			switch vl {
			case KeywordGraph, KeywordID, KeywordIndex,
				KeywordLanguage, KeywordList, KeywordSet,
				KeywordType:
			default:
				return errors.Wrapf(ErrInvalidContainerMapping, "term %q: %q", term, vl)
			}
		}

		if slices.Contains(values, KeywordGraph) &&
			(slices.Contains(values, KeywordID) || slices.Contains(values, KeywordIndex)) {
			rest := make(map[string]struct{}, len(values))
			for _, vl := range values {
				rest[vl] = struct{}{}
			}
			delete(rest, KeywordGraph)
			delete(rest, KeywordIndex)
			delete(rest, KeywordID)
			if _, ok := rest[KeywordSet]; ok && len(rest) != 1 {
				return errors.Wrapf(ErrInvalidContainerMapping, "term %q", term)
			}
		} else if slices.Contains(values, KeywordSet) {
			for _, vl := range values {
				switch vl {
				case KeywordGraph, KeywordID, KeywordIndex,
					KeywordLanguage, KeywordType, KeywordSet:
				default:
					return errors.Wrapf(ErrInvalidContainerMapping, "term %q: @set with %q", term, vl)
				}
			}
		}

		// 19.2)
		if p.modeLD10 {
			switch values[0] {
			case KeywordID, KeywordGraph, KeywordType:
				return errors.Wrapf(ErrInvalidContainerMapping, "term %q: %q needs json-ld-1.1", term, values[0])
			}
		}

		// 19.3)
		termDef.Container = values

		// 19.4)
		if slices.Contains(values, KeywordType) {
			// 19.4.1)
			termDef.Type = cmp.Or(termDef.Type, KeywordID)

			// 19.4.2)
			switch termDef.Type {
			case KeywordID, KeywordVocab:
			default:
				return errors.Wrapf(ErrInvalidTypeMapping, "term %q", term)
			}
		}
	}

	// 20)
	if input.Index != "" {
		// 20.1)
		if p.modeLD10 || !slices.Contains(termDef.Container, KeywordIndex) {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		// 20.2)
		u, err := p.expandIRI(activeCtx, input.Index, false, true, localCtx, defined)
		if err != nil || !iri.IsAbsolute(u) {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q: @index %q", term, input.Index)
		}

		// 20.3)
		termDef.Index = input.Index
	}

	// 21)
	if input.Context != nil {
		// 21.1)
		if p.modeLD10 {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		// 21.3) validate the scoped context without keeping its result
		resolvOpts := newCtxProcessingOpts()
		resolvOpts.override = true
		resolvOpts.remotes = slices.Clone(opts.remotes)
		resolvOpts.validate = false
		if _, err := p.context(
			ctx,
			activeCtx,
			input.Context,
			opts.baseURL,
			resolvOpts,
		); err != nil {
			return errors.Wrapf(ErrInvalidScopedContext, "term %q: %v", term, err)
		}

		// 21.4)
		termDef.Context = input.Context
		termDef.BaseIRI = opts.baseURL
	}

	// 22)
	if input.Language.Set && input.Type == "" {
		if input.Language.Null {
			termDef.Language = KeywordNull
		} else {
			termDef.Language = strings.ToLower(input.Language.Value)
		}
	}

	// 23)
	if input.Direction.Set && input.Type == "" {
		if input.Direction.Null {
			termDef.Direction = KeywordNull
		} else {
			switch input.Direction.Value {
			case DirectionLTR, DirectionRTL:
			default:
				return errors.Wrapf(ErrInvalidBaseDirection, "term %q: %q", term, input.Direction.Value)
			}
			termDef.Direction = input.Direction.Value
		}
	}

	// 24)
	if input.Nest != "" {
		// 24.1)
		if p.modeLD10 {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		if isKeyword(input.Nest) && input.Nest != KeywordNest {
			return errors.Wrapf(ErrInvalidNestValue, "term %q", term)
		}
		termDef.Nest = input.Nest
	}

	// 25)
	if input.Prefix.Set && !input.Prefix.Null {
		// 25.1)
		if p.modeLD10 {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		if strings.Contains(term, ":") || strings.Contains(term, "/") {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		// 25.3)
		if input.Prefix.Value && isKeyword(termDef.IRI) {
			return errors.Wrapf(ErrInvalidTermDefinition, "term %q", term)
		}

		termDef.Prefix = input.Prefix.Value
	}

	// 26)
	if input.HasUnknownKeys {
		return errors.Wrapf(ErrInvalidTermDefinition, "term %q has unknown entries", term)
	}

	// 27)
	if oldDefOK && oldDef.Protected && !opts.override {
		// 27.1)
		if !oldDef.equalWithoutProtected(&termDef) {
			return errors.Wrapf(ErrProtectedTermRedefinition, "%q", term)
		}
		// 27.2)
		termDef = oldDef
	}

	// 28)
	activeCtx.defs[term] = termDef
	defined[term] = termDefined
	return nil
}

// selectTerm picks the best term for an IRI from the inverse context, given
// the acceptable containers and type/language preferences in order.
func selectTerm(
	activeContext *Context,
	keyIRI string,
	containers []string,
	typeLanguage string,
	preferredValues []string,
) string {
	// 1)
	activeContext.initInverse()

	// 2)
	inverse := activeContext.inverse

	// 3)
	containerMap := inverse[keyIRI]

	for _, container := range containers {
		// 4.1) 4.2)
		typeLanguageMap, ok := containerMap[container]
		if !ok {
			continue
		}

		// 4.3)
		var valMap map[string]string
		switch typeLanguage {
		case KeywordLanguage:
			valMap = typeLanguageMap.Language
		case KeywordType:
			valMap = typeLanguageMap.Type
		case KeywordAny:
			valMap = typeLanguageMap.Any
		}

		// 4.4)
		for _, pval := range preferredValues {
			if v, ok := valMap[pval]; ok {
				return v
			}
		}
	}

	// 5)
	return ""
}
