package jsonld

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/condensedlight/jsonld/internal/iri"
	"github.com/condensedlight/jsonld/internal/json"
)

type expandOptions struct {
	fromMap        bool
	frameExpansion bool
}

func (e expandOptions) withoutFromMap() expandOptions {
	return expandOptions{frameExpansion: e.frameExpansion}
}

// Expand transforms a JSON document into JSON-LD expanded document form.
//
// If the document was retrieved from a URL, pass it as the third argument.
// Otherwise an empty string.
func (p *Processor) Expand(ctx context.Context, document json.RawMessage, documentURL string) ([]Node, error) {
	baseIRI := cmp.Or(p.baseIRI, documentURL)

	var activeCtx *Context

	if p.expandContext == nil {
		activeCtx = newContext(baseIRI)
	} else {
		expandCtx := p.expandContext
		if json.IsMap(expandCtx) {
			var obj json.Object
			if err := json.Unmarshal(expandCtx, &obj); err != nil {
				return nil, ErrInvalidLocalContext
			}
			if v, ok := obj[KeywordContext]; ok {
				expandCtx = v
			}
		}

		var err error
		activeCtx, err = p.context(ctx, newContext(baseIRI), expandCtx, baseIRI, newCtxProcessingOpts())
		if err != nil {
			return nil, err
		}
	}

	res, err := p.expand(ctx, activeCtx, "", document, documentURL, expandOptions{}, 0)
	if err != nil {
		return nil, err
	}

	if res == nil {
		return []Node{}, nil
	}

	if len(res) == 1 && res[0].IsSimpleGraph() {
		res = res[0].Graph
	}

	// drop free-floating values and bare subject references
	result := make([]Node, 0, len(res))
	for _, obj := range res {
		if obj.IsZero() || obj.IsValue() {
			continue
		}

		if obj.Has(KeywordID) && obj.Len() == 1 {
			continue
		}

		result = append(result, obj)
	}

	return result, nil
}

func (p *Processor) expand(
	ctx context.Context,
	activeCtx *Context,
	activeProp string,
	value json.RawMessage,
	baseURL string,
	opts expandOptions,
	depth int,
) ([]Node, error) {
	if depth > p.maxDepth {
		return nil, errors.Wrapf(ErrMaxDepthExceeded, "nesting deeper than %d", p.maxDepth)
	}

	// 2)
	if activeProp == KeywordDefault {
		opts.frameExpansion = false
	}

	// bail out on frame expansion since we don't do that
	if opts.frameExpansion {
		return nil, ErrFrameExpansionUnsupported
	}

	// 1)
	if len(value) == 0 || json.IsNull(value) {
		return nil, nil
	}

	termDef := activeCtx.defs[activeProp]

	// 5)
	if json.IsArray(value) {
		return p.expandArray(ctx, activeCtx, activeProp, value, baseURL, opts, termDef, depth)
	}

	// 6) onwards
	if json.IsMap(value) {
		return p.expandObject(ctx, activeCtx, activeProp, value, baseURL, opts, termDef, termDef.Context, depth)
	}

	// 4) scalar
	if activeProp == "" || activeProp == KeywordGraph {
		return nil, nil
	}

	if termDef.Context != nil {
		nctx, err := p.context(ctx, activeCtx, termDef.Context, termDef.BaseIRI, newCtxProcessingOpts())
		if err != nil {
			return nil, err
		}
		activeCtx = nctx
	}

	res, err := p.expandValue(activeCtx, activeProp, value)
	if err != nil {
		return nil, err
	}
	return []Node{res}, nil
}

func (p *Processor) expandArray(
	ctx context.Context,
	activeCtx *Context,
	activeProp string,
	value json.RawMessage,
	baseURL string,
	opts expandOptions,
	termDef Term,
	depth int,
) ([]Node, error) {
	var items json.Array
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, ErrInvalidLocalContext
	}

	asList := slices.Contains(termDef.Container, KeywordList)

	// 5.1)
	result := make([]Node, 0, len(items))

	// 5.2)
	for _, item := range items {
		// 5.2.1)
		expanded, err := p.expand(ctx, activeCtx, activeProp, item, baseURL, opts, depth+1)
		if err != nil {
			return nil, err
		}

		// 5.2.2) a nested array under a list container forms its own list
		if asList && json.IsArray(item) {
			if p.modeLD10 {
				return nil, ErrListOfLists
			}
			expanded = []Node{{List: expanded}}
		}

		// 5.2.3)
		result = append(result, expanded...)
	}

	// 5.3)
	return result, nil
}

func (p *Processor) expandObject(
	ctx context.Context,
	activeCtx *Context,
	activeProp string,
	value json.RawMessage,
	baseURL string,
	opts expandOptions,
	termDef Term,
	propContext json.RawMessage,
	depth int,
) ([]Node, error) {
	var obj json.Object
	if err := json.Unmarshal(value, &obj); err != nil {
		return nil, ErrInvalidLocalContext
	}

	// 7)
	if activeCtx.previousContext != nil && !opts.fromMap {
		hasValue := p.expandsToKeyword(activeCtx, KeywordValue, maps.Keys(obj))
		hasID := p.expandsToKeyword(activeCtx, KeywordID, maps.Keys(obj))
		if !hasValue && !(len(obj) == 1 && hasID) {
			activeCtx = activeCtx.previousContext
		}
	}

	// 8)
	if propContext != nil {
		ropts := newCtxProcessingOpts()
		ropts.override = true
		nctx, err := p.context(ctx, activeCtx, propContext, termDef.BaseIRI, ropts)
		if err != nil {
			return nil, err
		}
		activeCtx = nctx
	}

	// 9)
	if rawCtx, ok := obj[KeywordContext]; ok {
		nctx, err := p.context(ctx, activeCtx, rawCtx, baseURL, newCtxProcessingOpts())
		if err != nil {
			return nil, err
		}
		activeCtx = nctx
	}

	// 10)
	typeContext := activeCtx

	// 11) find the @type entry and apply type-scoped contexts
	var typeVal json.RawMessage
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		u, err := p.expandIRI(activeCtx, k, false, true, nil, nil)
		if err != nil {
			continue
		}
		if u == KeywordType {
			typeVal = obj[k]
			break
		}
	}

	var typeTerms []string
	if len(typeVal) > 0 && (json.IsString(typeVal) || json.IsArray(typeVal)) {
		if err := json.Unmarshal(json.MakeArray(typeVal), &typeTerms); err != nil {
			return nil, ErrInvalidTypeValue
		}

		slices.Sort(typeTerms)

		for _, term := range typeTerms {
			if scoped, ok := typeContext.defs[term]; ok && scoped.Context != nil {
				ropts := newCtxProcessingOpts()
				ropts.propagate = false

				nctx, err := p.context(ctx, activeCtx, scoped.Context, scoped.BaseIRI, ropts)
				if err != nil {
					return nil, err
				}
				activeCtx = nctx
			}
		}
	}

	// 12)
	result := &Node{
		Properties: make(Properties, len(obj)),
	}

	nests := map[string]struct{}{}

	var inputType string
	if len(typeTerms) > 0 {
		u, err := p.expandIRI(activeCtx, typeTerms[len(typeTerms)-1], false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		inputType = u
	}

	// 13) and 14)
	if err := p.expandObjectKeys(
		ctx,
		result,
		nests,
		activeCtx,
		typeContext,
		activeProp,
		inputType,
		baseURL,
		obj,
		opts,
		depth,
	); err != nil {
		return nil, err
	}

	// 15)
	if result.Has(KeywordValue) {
		if !result.IsValue() {
			return nil, ErrInvalidValueObject
		}

		if result.Has(KeywordType) && (result.Has(KeywordLanguage) || result.Has(KeywordDirection)) {
			return nil, ErrInvalidValueObject
		}

		if !slices.Equal(result.Type, []string{KeywordJSON}) {
			if json.IsNull(result.Value) {
				return nil, nil
			}

			if result.Has(KeywordLanguage) && !json.IsString(result.Value) {
				return nil, ErrInvalidLanguageTaggedValue
			}

			if len(result.Type) > 1 || (len(result.Type) == 1 && !iri.IsAbsolute(result.Type[0])) {
				return nil, ErrInvalidTypedValue
			}
		}
	}

	// 17)
	if result.Has(KeywordSet) || result.Has(KeywordList) {
		if len(result.propsWithout(KeywordIndex, KeywordList, KeywordSet)) != 0 {
			return nil, ErrInvalidSetOrListObject
		}

		if result.Has(KeywordSet) {
			return result.Set, nil
		}

		return []Node{*result}, nil
	}

	// 18)
	if result.Has(KeywordLanguage) && result.Len() == 1 {
		return nil, nil
	}

	// 19)
	if activeProp == "" || activeProp == KeywordGraph {
		if result.Len() == 0 ||
			result.Has(KeywordList) ||
			result.Has(KeywordValue) ||
			(result.Len() == 1 && result.Has(KeywordID)) {
			return nil, nil
		}
	}

	return []Node{*result}, nil
}

func (p *Processor) expandObjectKeys(
	ctx context.Context,
	result *Node,
	nests map[string]struct{},
	activeCtx *Context,
	typeContext *Context,
	activeProp string,
	inputType string,
	baseURL string,
	obj json.Object,
	opts expandOptions,
	depth int,
) error {
	// 13)
mainLoop:
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		value := obj[key]

		// 13.1)
		if key == KeywordContext {
			continue
		}

		// 13.2)
		expProp, err := p.expandIRI(activeCtx, key, false, true, nil, nil)
		if err != nil {
			return err
		}

		// 13.3) keys that expand to nothing are dropped silently
		if expProp == "" {
			continue
		}

		if !isKeyword(expProp) && !strings.Contains(expProp, ":") {
			continue
		}

		// 13.4)
		if isKeyword(expProp) {
			// 13.4.1)
			if activeProp == KeywordReverse {
				return ErrInvalidReversePropertyMap
			}

			// 13.4.2)
			if result.Has(expProp) && (p.modeLD10 || (expProp != KeywordIncluded && expProp != KeywordType)) {
				return errors.Wrapf(ErrCollidingKeywords, "%q", expProp)
			}

			switch expProp {
			case KeywordID:
				// 13.4.3)
				var s string
				if err := json.Unmarshal(value, &s); err != nil {
					return ErrInvalidIDValue
				}

				if s == "" {
					return ErrInvalidIDValue
				}

				u, err := p.expandIRI(activeCtx, s, true, false, nil, nil)
				if err != nil {
					return err
				}

				if u == "" {
					return ErrInvalidIDValue
				}

				result.ID = u
			case KeywordType:
				// 13.4.4)
				if !json.IsString(value) && !json.IsArray(value) {
					return ErrInvalidTypeValue
				}

				var vals []string
				if err := json.Unmarshal(json.MakeArray(value), &vals); err != nil {
					return ErrInvalidTypeValue
				}

				iris := make([]string, 0, len(vals))
				for _, v := range vals {
					u, err := p.expandIRI(typeContext, v, true, true, nil, nil)
					if err != nil {
						return err
					}
					iris = append(iris, u)
				}

				result.Type = append(result.Type, iris...)
			case KeywordGraph:
				// 13.4.5)
				res, err := p.expand(ctx, activeCtx, KeywordGraph, value, baseURL, opts.withoutFromMap(), depth+1)
				if err != nil {
					return err
				}
				if res == nil {
					res = []Node{}
				}
				result.Graph = res
			case KeywordIncluded:
				// 13.4.6)
				if p.modeLD10 {
					continue mainLoop
				}

				if !json.IsMap(value) && !json.IsArray(value) {
					return ErrInvalidIncludedValue
				}

				res, err := p.expand(ctx, activeCtx, "", value, baseURL, opts.withoutFromMap(), depth+1)
				if err != nil {
					return err
				}

				if res == nil {
					return ErrInvalidIncludedValue
				}

				for _, elem := range res {
					if !elem.isNode() {
						return ErrInvalidIncludedValue
					}
				}
				result.Included = append(result.Included, res...)
			case KeywordValue:
				// 13.4.7)
				if inputType == KeywordJSON {
					if p.modeLD10 {
						return ErrInvalidValueObjectValue
					}
					result.Value = value
					continue mainLoop
				}

				if !json.IsScalar(value) && !json.IsNull(value) {
					return ErrInvalidValueObjectValue
				}

				result.Value = value
			case KeywordLanguage:
				// 13.4.8)
				var l string
				if err := json.Unmarshal(value, &l); err != nil {
					return ErrInvalidLanguageTaggedString
				}

				result.Language = strings.ToLower(l)
			case KeywordDirection:
				// 13.4.9)
				if p.modeLD10 {
					continue mainLoop
				}

				var d string
				if err := json.Unmarshal(value, &d); err != nil {
					return ErrInvalidBaseDirection
				}

				switch d {
				case DirectionLTR, DirectionRTL:
				default:
					return errors.Wrapf(ErrInvalidBaseDirection, "%q", d)
				}

				result.Direction = d
			case KeywordIndex:
				// 13.4.10)
				var i string
				if err := json.Unmarshal(value, &i); err != nil {
					return ErrInvalidIndexValue
				}

				result.Index = i
			case KeywordList:
				// 13.4.11)
				if activeProp == "" || activeProp == KeywordGraph {
					continue mainLoop
				}

				if json.IsEmptyArray(value) {
					result.List = make([]Node, 0)
				} else {
					res, err := p.expand(ctx, activeCtx, activeProp, value, baseURL, opts.withoutFromMap(), depth+1)
					if err != nil {
						return err
					}

					if p.modeLD10 {
						for _, elem := range res {
							if elem.IsList() {
								return ErrListOfLists
							}
						}
					}

					result.List = res
				}
			case KeywordSet:
				// 13.4.12)
				res, err := p.expand(ctx, activeCtx, activeProp, value, baseURL, opts.withoutFromMap(), depth+1)
				if err != nil {
					return err
				}
				if res == nil {
					res = []Node{}
				}
				result.Set = res
			case KeywordReverse:
				// 13.4.13)
				if !json.IsMap(value) {
					return ErrInvalidReverseValue
				}

				res, err := p.expand(ctx, activeCtx, KeywordReverse, value, baseURL, opts.withoutFromMap(), depth+1)
				if err != nil {
					return err
				}

				for _, robj := range res {
					// 13.4.13.3)
					for k, v := range robj.Reverse {
						result.Properties[k] = append(result.Properties[k], v...)
					}

					// 13.4.13.4)
					for k, v := range robj.Properties {
						if !result.Has(KeywordReverse) {
							result.Reverse = make(Properties, 8)
						}

						for _, item := range v {
							// 13.4.13.4.2.1.1)
							if item.IsValue() || item.IsList() {
								return ErrInvalidReversePropertyValue
							}

							// 13.4.13.4.2.1.2)
							result.Reverse[k] = append(result.Reverse[k], item)
						}
					}
				}

				continue mainLoop
			case KeywordNest:
				// 13.4.14)
				nests[key] = struct{}{}
				continue mainLoop
			default:
				p.logger.Warn("unhandled keyword", slog.String("keyword", expProp))
			}

			continue mainLoop
		}

		// 13.5)
		keyDef := activeCtx.defs[key]
		cnt := keyDef.Container
		expVal := []Node{}

		if keyDef.Type == KeywordJSON {
			// 13.6)
			expVal = append(expVal, Node{Value: value, Type: []string{KeywordJSON}})
		} else if slices.Contains(cnt, KeywordLanguage) && json.IsMap(value) {
			// 13.7)
			res, err := p.expandLanguageMap(activeCtx, keyDef, value)
			if err != nil {
				return err
			}
			expVal = res
		} else if (slices.Contains(cnt, KeywordIndex) ||
			slices.Contains(cnt, KeywordType) ||
			slices.Contains(cnt, KeywordID)) &&
			json.IsMap(value) {
			// 13.8)
			res, err := p.expandIndexMap(ctx, activeCtx, key, keyDef, value, baseURL, opts, depth)
			if err != nil {
				return err
			}
			expVal = res
		} else {
			// 13.9)
			res, err := p.expand(ctx, activeCtx, key, value, baseURL, opts.withoutFromMap(), depth+1)
			if err != nil {
				return err
			}
			expVal = res
		}

		// 13.10) nil means dropped; an empty slice is retained
		if expVal == nil {
			continue mainLoop
		}

		// 13.11)
		if slices.Contains(cnt, KeywordList) {
			alreadyList := json.IsMap(value) && len(expVal) == 1 && expVal[0].IsList()
			if !alreadyList {
				expVal = []Node{{List: expVal}}
			}
		}

		// 13.12)
		if slices.Contains(cnt, KeywordGraph) && !slices.Contains(cnt, KeywordID) && !slices.Contains(cnt, KeywordIndex) {
			res := make([]Node, 0, len(expVal))
			for _, g := range expVal {
				res = append(res, Node{Graph: []Node{g}})
			}
			expVal = res
		}

		// 13.13)
		if keyDef.Reverse {
			if !result.Has(KeywordReverse) {
				result.Reverse = make(Properties, len(expVal))
			}

			for _, robj := range expVal {
				// 13.13.4.1)
				if robj.IsValue() || robj.IsList() {
					return ErrInvalidReversePropertyValue
				}
				result.Reverse[expProp] = append(result.Reverse[expProp], robj)
			}
		} else {
			// 13.14)
			// preserve an explicitly empty array the first time the
			// property is seen
			if !result.Has(expProp) {
				result.Properties[expProp] = expVal
			} else {
				result.Properties[expProp] = append(result.Properties[expProp], expVal...)
			}
		}
	}

	// 14)
	for _, k := range slices.Sorted(maps.Keys(nests)) {
		// 14.1)
		var nestValues []json.RawMessage
		if err := json.Unmarshal(json.MakeArray(obj[k]), &nestValues); err != nil {
			return ErrInvalidNestValue
		}

		for _, nestValue := range nestValues {
			var nested json.Object
			if err := json.Unmarshal(nestValue, &nested); err != nil {
				return ErrInvalidNestValue
			}

			if p.expandsToKeyword(activeCtx, KeywordValue, maps.Keys(nested)) {
				// 14.2.1)
				return ErrInvalidNestValue
			}

			// 14.2.2)
			nestCtx := activeCtx
			if nestDef := activeCtx.defs[k]; nestDef.Context != nil {
				ropts := newCtxProcessingOpts()
				ropts.override = true

				nctx, err := p.context(ctx, activeCtx, nestDef.Context, nestDef.BaseIRI, ropts)
				if err != nil {
					return err
				}
				nestCtx = nctx
			}

			if err := p.expandObjectKeys(
				ctx,
				result,
				nests,
				nestCtx,
				typeContext,
				k,
				inputType,
				baseURL,
				nested,
				opts,
				depth+1,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandLanguageMap reshapes a language-map value into language-tagged value
// objects.
func (p *Processor) expandLanguageMap(
	activeCtx *Context,
	keyDef Term,
	value json.RawMessage,
) ([]Node, error) {
	var langMap json.Object
	if err := json.Unmarshal(value, &langMap); err != nil {
		return nil, ErrInvalidLanguageMapping
	}

	// 13.7.1)
	result := make([]Node, 0, len(langMap))

	// 13.7.2)
	dir := cmp.Or(keyDef.Direction, activeCtx.defaultDirection)

	// 13.7.4)
	for _, langKey := range slices.Sorted(maps.Keys(langMap)) {
		var langValues json.Array
		if err := json.Unmarshal(json.MakeArray(langMap[langKey]), &langValues); err != nil {
			return nil, ErrInvalidLanguageMapValue
		}

		// 13.7.4.2)
		for _, item := range langValues {
			// 13.7.4.2.1)
			if json.IsNull(item) {
				continue
			}

			// 13.7.4.2.2)
			if !json.IsString(item) {
				return nil, ErrInvalidLanguageMapValue
			}

			node := Node{
				Value: item,
			}

			// 13.7.4.2.3) 13.7.4.2.4)
			if ldef := activeCtx.defs[langKey]; ldef.IRI != KeywordNone && langKey != KeywordNone {
				node.Language = strings.ToLower(langKey)
			}

			// 13.7.4.2.5)
			if dir != "" && dir != KeywordNull {
				node.Direction = dir
			}

			result = append(result, node)
		}
	}

	return result, nil
}

// expandIndexMap reshapes an @index/@id/@type container map before
// recursively expanding its entries.
func (p *Processor) expandIndexMap(
	ctx context.Context,
	activeCtx *Context,
	key string,
	keyDef Term,
	value json.RawMessage,
	baseURL string,
	opts expandOptions,
	depth int,
) ([]Node, error) {
	cnt := keyDef.Container

	var objVal json.Object
	if err := json.Unmarshal(value, &objVal); err != nil {
		return nil, ErrInvalidLocalContext
	}

	// 13.8.1)
	result := make([]Node, 0, len(objVal))

	// 13.8.2)
	idxKey := cmp.Or(keyDef.Index, KeywordIndex)

	// 13.8.3)
	for _, idx := range slices.Sorted(maps.Keys(objVal)) {
		idxVal := objVal[idx]

		// 13.8.3.1) 13.8.3.3)
		mapCtx := activeCtx

		if (slices.Contains(cnt, KeywordID) || slices.Contains(cnt, KeywordType)) &&
			activeCtx.previousContext != nil {
			mapCtx = activeCtx.previousContext
		}

		// 13.8.3.2)
		if slices.Contains(cnt, KeywordType) {
			if def, ok := mapCtx.defs[idx]; ok && def.Context != nil {
				nctx, err := p.context(ctx, mapCtx, def.Context, def.BaseIRI, newCtxProcessingOpts())
				if err != nil {
					return nil, err
				}
				mapCtx = nctx
			}
		}

		// 13.8.3.4)
		expIdx, err := p.expandIRI(activeCtx, idx, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		// 13.8.3.5) 13.8.3.6)
		expIdxVals, err := p.expand(
			ctx,
			mapCtx,
			key,
			json.MakeArray(idxVal),
			baseURL,
			expandOptions{fromMap: true},
			depth+1,
		)
		if err != nil {
			return nil, err
		}

		// 13.8.3.7)
		for _, item := range expIdxVals {
			// 13.8.3.7.1)
			if slices.Contains(cnt, KeywordGraph) && item.Graph == nil {
				item = Node{Graph: []Node{item}}
			}

			if expIdx != KeywordNone {
				if slices.Contains(cnt, KeywordIndex) && idxKey != KeywordIndex {
					// 13.8.3.7.2) a property-valued index
					rexpIdx, err := p.expandValue(activeCtx, idxKey, json.MakeString(idx))
					if err != nil {
						return nil, err
					}

					expIdxKey, err := p.expandIRI(activeCtx, idxKey, false, true, nil, nil)
					if err != nil {
						return nil, err
					}

					propVals := []Node{rexpIdx}
					propVals = append(propVals, item.Properties[expIdxKey]...)

					if item.Properties == nil {
						item.Properties = make(Properties, 4)
					}
					item.Properties[expIdxKey] = propVals

					if item.Has(KeywordValue) && !item.IsValue() {
						return nil, ErrInvalidValueObject
					}
				} else if slices.Contains(cnt, KeywordIndex) && !item.Has(KeywordIndex) {
					// 13.8.3.7.3)
					item.Index = idx
				} else if slices.Contains(cnt, KeywordID) && !item.Has(KeywordID) {
					// 13.8.3.7.4)
					u, err := p.expandIRI(activeCtx, idx, true, false, nil, nil)
					if err != nil {
						return nil, err
					}
					item.ID = u
				} else if slices.Contains(cnt, KeywordType) {
					// 13.8.3.7.5)
					item.Type = append([]string{expIdx}, item.Type...)
				}
			}

			// 13.8.3.7.6)
			result = append(result, item)
		}
	}

	return result, nil
}

func (p *Processor) expandsToKeyword(
	activeContext *Context,
	keyword string,
	elems iter.Seq[string],
) bool {
	for k := range elems {
		res, err := p.expandIRI(activeContext, k, false, true, nil, nil)
		if err != nil {
			continue
		}

		if res == keyword {
			return true
		}
	}

	return false
}

// expandValue turns a scalar into a value object, honoring the active
// property's type coercion and language/direction mappings. The raw scalar is
// carried verbatim, preserving the source's number formatting.
func (p *Processor) expandValue(
	activeCtx *Context,
	property string,
	value json.RawMessage,
) (Node, error) {
	def := activeCtx.defs[property]
	result := Node{}

	switch def.Type {
	case KeywordID, KeywordVocab:
		// 1) 2)
		if json.IsString(value) {
			var val string
			if err := json.Unmarshal(value, &val); err != nil {
				return result, ErrInvalidIDValue
			}
			if val == "" {
				break
			}

			u, err := p.expandIRI(activeCtx, val, true, def.Type == KeywordVocab, nil, nil)
			if err != nil {
				return result, err
			}

			result.ID = u
			return result, nil
		}
	case KeywordNone, "":
		// 4)
	default:
		// 4)
		result.Type = []string{def.Type}
	}

	// 3)
	result.Value = value

	// 5)
	if json.IsString(value) {
		// 5.1)
		lang := cmp.Or(def.Language, activeCtx.defaultLang)

		// 5.2)
		dir := cmp.Or(def.Direction, activeCtx.defaultDirection)

		// 5.3)
		if lang != KeywordNull {
			result.Language = lang
		}

		// 5.4)
		if dir != KeywordNull {
			result.Direction = dir
		}
	}

	return result, nil
}
