package jsonld

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/condensedlight/jsonld/internal/iri"
	"github.com/condensedlight/jsonld/internal/json"
	"github.com/condensedlight/jsonld/rdf"
)

// ToRDF deserializes a document in expanded form into RDF quads. Triples
// whose subject, predicate or object would be an ill-formed term are dropped,
// as are predicates that are blank node identifiers.
//
// Quads come out in deterministic order: by graph name, then subject, then
// predicate.
func (p *Processor) ToRDF(ctx context.Context, document []Node) ([]rdf.Quad, error) {
	issuer := newBlankNodeIssuer()
	nodeMap := map[string]map[string]*Node{
		KeywordDefault: {},
	}

	if err := p.generateNodeMap(document, nodeMap, KeywordDefault, "", false, "", nil, issuer, 0); err != nil {
		return nil, err
	}

	quads := make([]rdf.Quad, 0, 16)

	for _, graphName := range slices.Sorted(maps.Keys(nodeMap)) {
		var graphTerm rdf.Term
		if graphName != KeywordDefault {
			graphTerm = resourceTerm(graphName)
			if graphTerm == nil {
				continue
			}
		}

		graph := nodeMap[graphName]
		for _, id := range slices.Sorted(maps.Keys(graph)) {
			node := graph[id]

			subject := resourceTerm(id)
			if subject == nil {
				continue
			}

			for _, t := range node.Type {
				object := resourceTerm(t)
				if object == nil {
					continue
				}
				quads = append(quads, rdf.Quad{
					S: subject,
					P: rdf.IRI{Value: RDFType},
					O: object,
					G: graphTerm,
				})
			}

			for _, property := range slices.Sorted(maps.Keys(node.Properties)) {
				if isBlankNodeID(property) || !iri.IsAbsolute(property) {
					continue
				}
				predicate := rdf.IRI{Value: property}

				for _, item := range node.Properties[property] {
					object, listQuads, err := p.objectToTerm(item, graphTerm, issuer)
					if err != nil {
						return nil, err
					}

					quads = append(quads, listQuads...)

					if object == nil {
						continue
					}

					quads = append(quads, rdf.Quad{
						S: subject,
						P: predicate,
						O: object,
						G: graphTerm,
					})
				}
			}
		}
	}

	return quads, nil
}

// objectToTerm converts an expanded value, node reference or list object to
// an RDF term. For lists it also returns the rdf:first/rdf:rest chain quads
// and the head of the chain as the term.
func (p *Processor) objectToTerm(
	item Node,
	graphTerm rdf.Term,
	issuer *blankNodeIssuer,
) (rdf.Term, []rdf.Quad, error) {
	if item.IsList() {
		return p.listToRDF(item.List, graphTerm, issuer)
	}

	if item.IsValue() {
		lit, err := valueToLiteral(item)
		if err != nil {
			return nil, nil, err
		}
		return lit, nil, nil
	}

	return resourceTerm(item.ID), nil, nil
}

// listToRDF converts a list object's items into an rdf:first/rdf:rest chain.
func (p *Processor) listToRDF(
	list []Node,
	graphTerm rdf.Term,
	issuer *blankNodeIssuer,
) (rdf.Term, []rdf.Quad, error) {
	// 1)
	if len(list) == 0 {
		return rdf.IRI{Value: RDFNil}, nil, nil
	}

	// 2)
	nodes := make([]rdf.Term, 0, len(list))
	for range list {
		bn := issuer.issue("")
		nodes = append(nodes, rdf.BlankNode{ID: strings.TrimPrefix(bn, BlankNode)})
	}

	quads := make([]rdf.Quad, 0, 2*len(list))

	// 3)
	for i, item := range list {
		subject := nodes[i]

		object, listQuads, err := p.objectToTerm(item, graphTerm, issuer)
		if err != nil {
			return nil, nil, err
		}
		quads = append(quads, listQuads...)

		if object != nil {
			quads = append(quads, rdf.Quad{
				S: subject,
				P: rdf.IRI{Value: RDFFirst},
				O: object,
				G: graphTerm,
			})
		}

		var rest rdf.Term = rdf.IRI{Value: RDFNil}
		if i < len(list)-1 {
			rest = nodes[i+1]
		}
		quads = append(quads, rdf.Quad{
			S: subject,
			P: rdf.IRI{Value: RDFRest},
			O: rest,
			G: graphTerm,
		})
	}

	return nodes[0], quads, nil
}

// resourceTerm turns a node identifier into an IRI or blank node term. It
// returns nil for relative IRIs, which have no RDF representation.
func resourceTerm(id string) rdf.Term {
	if id == "" {
		return nil
	}

	if isBlankNodeID(id) {
		return rdf.BlankNode{ID: strings.TrimPrefix(id, BlankNode)}
	}

	if !iri.IsAbsolute(id) {
		return nil
	}

	return rdf.IRI{Value: id}
}

// valueToLiteral converts a value object to an RDF literal, canonicalizing
// booleans, integers and doubles to their XSD lexical forms.
func valueToLiteral(value Node) (rdf.Literal, error) {
	var datatype string
	if len(value.Type) > 0 {
		datatype = value.Type[0]
	}

	// rdf:JSON literals carry the canonical serialization of the value
	if datatype == KeywordJSON {
		var decoded any
		if err := json.Unmarshal(value.Value, &decoded); err != nil {
			return rdf.Literal{}, ErrInvalidValueObjectValue
		}
		canonical, err := json.Marshal(decoded)
		if err != nil {
			return rdf.Literal{}, err
		}
		return rdf.Literal{
			Lexical:  string(canonical),
			Datatype: rdf.IRI{Value: RDFJSON},
		}, nil
	}

	var lexical string

	switch {
	case json.IsBool(value.Value):
		lexical = string(value.Value)
		if datatype == "" {
			datatype = XSDBoolean
		}
	case json.IsNumber(value.Value):
		raw := string(value.Value)
		isDouble := strings.ContainsAny(raw, ".eE") || datatype == XSDDouble

		if !isDouble {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				isDouble = true
			} else {
				lexical = strconv.FormatInt(n, 10)
				if datatype == "" {
					datatype = XSDInteger
				}
			}
		}

		if isDouble {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return rdf.Literal{}, ErrInvalidValueObjectValue
			}
			lexical = canonicalDouble(f)
			if datatype == "" {
				datatype = XSDDouble
			}
		}
	case json.IsString(value.Value):
		var s string
		if err := json.Unmarshal(value.Value, &s); err != nil {
			return rdf.Literal{}, ErrInvalidValueObjectValue
		}
		lexical = s
	default:
		return rdf.Literal{}, ErrInvalidValueObjectValue
	}

	if value.Language != "" {
		return rdf.Literal{
			Lexical:  lexical,
			Datatype: rdf.IRI{Value: RDFLangString},
			Lang:     value.Language,
		}, nil
	}

	if datatype == "" {
		datatype = XSDString
	}

	return rdf.Literal{
		Lexical:  lexical,
		Datatype: rdf.IRI{Value: datatype},
	}, nil
}

// canonicalDouble renders a float in the canonical xsd:double lexical form:
// a mantissa with a decimal point and an exponent without a plus sign or
// leading zeros.
func canonicalDouble(f float64) string {
	s := strconv.FormatFloat(f, 'E', -1, 64)

	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}

	exp = strings.TrimPrefix(exp, "+")
	negative := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(strings.TrimPrefix(exp, "-"), "0")
	if exp == "" {
		exp = "0"
	}
	if negative {
		exp = "-" + exp
	}

	return mantissa + "E" + exp
}

// FromRDF serializes RDF quads into a document in expanded form. Literals
// keep their lexical form as string values with an explicit datatype, except
// for xsd:string which becomes a plain string, rdf:langString which becomes a
// language-tagged string, and rdf:JSON which becomes an @json value.
//
// rdf:first/rdf:rest chains are left as-is rather than folded back into list
// objects.
func (p *Processor) FromRDF(quads []rdf.Quad) []Node {
	graphMap := map[string]map[string]*Node{
		KeywordDefault: {},
	}
	graphOf := func(name string) map[string]*Node {
		g, ok := graphMap[name]
		if !ok {
			g = make(map[string]*Node, 8)
			graphMap[name] = g
		}
		return g
	}

	for _, quad := range quads {
		graphName := KeywordDefault
		if quad.G != nil {
			graphName = quad.G.String()
		}
		graph := graphOf(graphName)

		subjectID := quad.S.String()
		node, ok := graph[subjectID]
		if !ok {
			node = &Node{
				ID:         subjectID,
				Properties: make(Properties, 4),
			}
			graph[subjectID] = node
		}

		if quad.P.Value == RDFType && quad.O.Kind() != rdf.TermLiteral {
			node.Type = append(node.Type, quad.O.String())
			continue
		}

		node.Properties[quad.P.Value] = append(
			node.Properties[quad.P.Value], termToNode(quad.O))
	}

	defaultGraph := graphMap[KeywordDefault]

	for _, graphName := range slices.Sorted(maps.Keys(graphMap)) {
		if graphName == KeywordDefault {
			continue
		}

		entry, ok := defaultGraph[graphName]
		if !ok {
			entry = &Node{ID: graphName}
			defaultGraph[graphName] = entry
		}

		graph := graphMap[graphName]
		entry.Graph = make([]Node, 0, len(graph))
		for _, id := range slices.Sorted(maps.Keys(graph)) {
			entry.Graph = append(entry.Graph, *graph[id])
		}
	}

	result := make([]Node, 0, len(defaultGraph))
	for _, id := range slices.Sorted(maps.Keys(defaultGraph)) {
		result = append(result, *defaultGraph[id])
	}

	return result
}

func termToNode(term rdf.Term) Node {
	lit, ok := term.(rdf.Literal)
	if !ok {
		return Node{ID: term.String()}
	}

	switch lit.Datatype.Value {
	case RDFLangString:
		return Node{
			Value:    json.MakeString(lit.Lexical),
			Language: lit.Lang,
		}
	case RDFJSON:
		return Node{
			Value: json.RawMessage(lit.Lexical),
			Type:  []string{KeywordJSON},
		}
	case XSDString, "":
		return Node{Value: json.MakeString(lit.Lexical)}
	default:
		return Node{
			Value: json.MakeString(lit.Lexical),
			Type:  []string{lit.Datatype.Value},
		}
	}
}
