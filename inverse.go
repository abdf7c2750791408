package jsonld

import (
	"maps"
	"slices"
	"strings"
)

// inverseContext indexes IRI → container signature → type/language → term,
// enabling best-term lookup during compaction. It is derived read-only from
// its source context and cached there.
type inverseContext map[string]map[string]termMapping

type termMapping struct {
	Language map[string]string
	Type     map[string]string
	Any      map[string]string
}

func (c *Context) initInverse() {
	if c.inverse == nil {
		c.inverse = buildInverse(c)
	}
}

// buildInverse creates the inverse context for an active context.
//
// Terms are visited shortest-first, lexicographic within one length, and
// earlier entries win: that ordering is the tie-break between equally
// specific terms.
func buildInverse(activeContext *Context) inverseContext {
	// 1)
	result := inverseContext{}

	// 2)
	defaultLang := KeywordNone
	if activeContext.defaultLang != "" {
		defaultLang = strings.ToLower(activeContext.defaultLang)
	}

	// 3)
	terms := slices.Collect(maps.Keys(activeContext.defs))
	slices.SortFunc(terms, shortestLeast)

	for _, key := range terms {
		def := activeContext.defs[key]
		// 3.1)
		if def.IsZero() {
			continue
		}

		// 3.2)
		container := KeywordNone
		if def.Container != nil {
			dc := slices.Clone(def.Container)
			slices.Sort(dc)
			container = strings.Join(dc, "")
		}

		// 3.3)
		v := def.IRI

		// 3.4) 3.5)
		if _, ok := result[v]; !ok {
			result[v] = map[string]termMapping{}
		}
		containerMap := result[v]

		// 3.6)
		if _, ok := containerMap[container]; !ok {
			containerMap[container] = termMapping{
				Language: map[string]string{},
				Type:     map[string]string{},
				Any: map[string]string{
					KeywordNone: key,
				},
			}
		}

		// 3.7) 3.8) 3.9)
		typeLanguage := containerMap[container]
		typeMap := typeLanguage.Type
		langMap := typeLanguage.Language

		switch {
		case def.Reverse:
			// 3.10)
			if _, ok := typeMap[KeywordReverse]; !ok {
				typeMap[KeywordReverse] = key
			}
		case def.Type == KeywordNone:
			// 3.11)
			if _, ok := langMap[KeywordAny]; !ok {
				langMap[KeywordAny] = key
			}
			if _, ok := typeMap[KeywordAny]; !ok {
				typeMap[KeywordAny] = key
			}
		case def.Type != "":
			// 3.12)
			if _, ok := typeMap[def.Type]; !ok {
				typeMap[def.Type] = key
			}
		case def.Language != "" && def.Direction != "":
			// 3.13)
			langDir := KeywordNone
			if def.Language != KeywordNull && def.Direction != KeywordNull {
				langDir = strings.ToLower(def.Language) + "_" + def.Direction
			} else if def.Language != KeywordNull {
				langDir = strings.ToLower(def.Language)
			} else if def.Direction != KeywordNull {
				langDir = "_" + def.Direction
			}
			if _, ok := langMap[langDir]; !ok {
				langMap[langDir] = key
			}
		case def.Language != "":
			// 3.14)
			lang := KeywordNull
			if def.Language != KeywordNull {
				lang = strings.ToLower(def.Language)
			}
			if _, ok := langMap[lang]; !ok {
				langMap[lang] = key
			}
		case def.Direction != "":
			// 3.15)
			dir := KeywordNone
			if def.Direction != KeywordNull {
				dir = "_" + def.Direction
			}
			if _, ok := langMap[dir]; !ok {
				langMap[dir] = key
			}
		case activeContext.defaultDirection != "":
			// 3.16)
			langDir := strings.ToLower(defaultLang) + "_" + activeContext.defaultDirection
			if _, ok := langMap[langDir]; !ok {
				langMap[langDir] = key
			}
			if _, ok := langMap[KeywordNone]; !ok {
				langMap[KeywordNone] = key
			}
			if _, ok := typeMap[KeywordNone]; !ok {
				typeMap[KeywordNone] = key
			}
		default:
			// 3.17)
			if _, ok := langMap[defaultLang]; !ok {
				langMap[defaultLang] = key
			}
			if _, ok := langMap[KeywordNone]; !ok {
				langMap[KeywordNone] = key
			}
			if _, ok := typeMap[KeywordNone]; !ok {
				typeMap[KeywordNone] = key
			}
		}
	}

	return result
}

// shortestLeast orders strings shortest first and lexicographically within
// one length.
func shortestLeast(a, b string) int {
	if len(a) < len(b) {
		return -1
	}
	if len(a) > len(b) {
		return 1
	}
	return strings.Compare(a, b)
}
