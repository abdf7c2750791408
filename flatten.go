package jsonld

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// blankNodeIssuer hands out blank node identifiers. The same input always
// maps to the same identifier within one issuer.
type blankNodeIssuer struct {
	counter int
	issued  map[string]string
}

func newBlankNodeIssuer() *blankNodeIssuer {
	return &blankNodeIssuer{
		issued: make(map[string]string, 8),
	}
}

func (b *blankNodeIssuer) issue(id string) string {
	if id != "" {
		if v, ok := b.issued[id]; ok {
			return v
		}
	}

	bn := BlankNode + "b" + strconv.Itoa(b.counter)
	b.counter++

	if id != "" {
		b.issued[id] = bn
	}

	return bn
}

func isBlankNodeID(id string) bool {
	return strings.HasPrefix(id, BlankNode)
}

// NodeMap collects all properties of a node across an expanded document into
// a single entry, keyed by graph name and node identifier. The default graph
// is keyed by @default. Blank nodes are relabeled.
func (p *Processor) NodeMap(ctx context.Context, document []Node) (map[string]map[string]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issuer := newBlankNodeIssuer()
	nodeMap := map[string]map[string]*Node{
		KeywordDefault: {},
	}

	if err := p.generateNodeMap(document, nodeMap, KeywordDefault, "", false, "", nil, issuer, 0); err != nil {
		return nil, err
	}

	return nodeMap, nil
}

// Flatten collects all properties of a node into a single entry and labels
// all blank nodes with blank node identifiers. The result is a single
// top-level array of node objects, with named graphs carried on their graph
// name's node.
func (p *Processor) Flatten(ctx context.Context, document []Node) ([]Node, error) {
	nodeMap, err := p.NodeMap(ctx, document)
	if err != nil {
		return nil, err
	}

	defaultGraph := nodeMap[KeywordDefault]

	for _, graphName := range slices.Sorted(maps.Keys(nodeMap)) {
		if graphName == KeywordDefault {
			continue
		}

		entry, ok := defaultGraph[graphName]
		if !ok {
			entry = &Node{ID: graphName}
			defaultGraph[graphName] = entry
		}

		graph := nodeMap[graphName]
		entry.Graph = make([]Node, 0, len(graph))
		for _, id := range slices.Sorted(maps.Keys(graph)) {
			node := graph[id]
			if node.IsSubjectReference() {
				continue
			}
			entry.Graph = append(entry.Graph, *node)
		}
	}

	flattened := make([]Node, 0, len(defaultGraph))
	for _, id := range slices.Sorted(maps.Keys(defaultGraph)) {
		node := defaultGraph[id]
		if node.IsSubjectReference() {
			continue
		}
		flattened = append(flattened, *node)
	}

	return flattened, nil
}

func (p *Processor) generateNodeMap(
	elements []Node,
	nodeMap map[string]map[string]*Node,
	activeGraph string,
	activeSubject string,
	subjectIsReverse bool,
	activeProperty string,
	list *Node,
	issuer *blankNodeIssuer,
	depth int,
) error {
	for _, element := range elements {
		if err := p.generateNodeMapElement(
			element,
			nodeMap,
			activeGraph,
			activeSubject,
			subjectIsReverse,
			activeProperty,
			list,
			issuer,
			depth,
		); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) generateNodeMapElement(
	element Node,
	nodeMap map[string]map[string]*Node,
	activeGraph string,
	activeSubject string,
	subjectIsReverse bool,
	activeProperty string,
	list *Node,
	issuer *blankNodeIssuer,
	depth int,
) error {
	if depth > p.maxDepth {
		return errors.Wrapf(ErrMaxDepthExceeded, "nesting deeper than %d", p.maxDepth)
	}

	graph, ok := nodeMap[activeGraph]
	if !ok {
		graph = make(map[string]*Node, 8)
		nodeMap[activeGraph] = graph
	}

	var subjectNode *Node
	if activeSubject != "" {
		subjectNode = graph[activeSubject]
	}

	// 3)
	for i, t := range element.Type {
		if isBlankNodeID(t) {
			element.Type[i] = issuer.issue(t)
		}
	}

	// 4) free-floating values have no subject to attach to and are ignored
	if element.IsValue() {
		if list != nil {
			list.List = append(list.List, element)
		} else if subjectNode != nil {
			subjectNode.Properties[activeProperty] = append(
				subjectNode.Properties[activeProperty], element)
		}
		return nil
	}

	// 5)
	if element.IsList() {
		result := Node{
			List:  make([]Node, 0, len(element.List)),
			Index: element.Index,
		}

		if err := p.generateNodeMap(
			element.List,
			nodeMap,
			activeGraph,
			activeSubject,
			subjectIsReverse,
			activeProperty,
			&result,
			issuer,
			depth+1,
		); err != nil {
			return err
		}

		if list != nil {
			list.List = append(list.List, result)
		} else if subjectNode != nil {
			subjectNode.Properties[activeProperty] = append(
				subjectNode.Properties[activeProperty], result)
		}
		return nil
	}

	// 6) element is a node object
	var id string
	if element.Has(KeywordID) {
		if isBlankNodeID(element.ID) {
			id = issuer.issue(element.ID)
		} else {
			id = element.ID
		}
	} else {
		id = issuer.issue("")
	}

	// 6.2)
	node, ok := graph[id]
	if !ok {
		node = &Node{
			ID:         id,
			Properties: make(Properties, element.Len()),
		}
		graph[id] = node
	}
	if node.Properties == nil {
		node.Properties = make(Properties, element.Len())
	}

	// 6.4)
	if subjectIsReverse {
		node.Properties[activeProperty] = append(
			node.Properties[activeProperty], Node{ID: activeSubject})
	} else if activeProperty != "" {
		// 6.5)
		reference := Node{ID: id}
		if list == nil {
			subjectNode.Properties[activeProperty] = append(
				subjectNode.Properties[activeProperty], reference)
		} else {
			list.List = append(list.List, reference)
		}
	}

	// 6.6)
	for _, t := range element.Type {
		if !slices.Contains(node.Type, t) {
			node.Type = append(node.Type, t)
		}
	}

	// 6.7)
	if element.Has(KeywordIndex) {
		if node.Has(KeywordIndex) && node.Index != element.Index {
			return errors.Wrapf(ErrConflictingIndexes, "%q and %q on %q",
				node.Index, element.Index, id)
		}
		node.Index = element.Index
	}

	// 6.8)
	if element.Has(KeywordReverse) {
		for _, property := range slices.Sorted(maps.Keys(element.Reverse)) {
			if err := p.generateNodeMap(
				element.Reverse[property],
				nodeMap,
				activeGraph,
				id,
				true,
				property,
				nil,
				issuer,
				depth+1,
			); err != nil {
				return err
			}
		}
	}

	// 6.9)
	if element.Graph != nil {
		if err := p.generateNodeMap(
			element.Graph,
			nodeMap,
			id,
			"",
			false,
			"",
			nil,
			issuer,
			depth+1,
		); err != nil {
			return err
		}
	}

	// 6.10)
	if element.Included != nil {
		if err := p.generateNodeMap(
			element.Included,
			nodeMap,
			activeGraph,
			"",
			false,
			"",
			nil,
			issuer,
			depth+1,
		); err != nil {
			return err
		}
	}

	// 6.11)
	for _, property := range slices.Sorted(maps.Keys(element.Properties)) {
		value := element.Properties[property]

		if isBlankNodeID(property) {
			property = issuer.issue(property)
		}

		if _, ok := node.Properties[property]; !ok {
			node.Properties[property] = make([]Node, 0, len(value))
		}

		if err := p.generateNodeMap(
			value,
			nodeMap,
			activeGraph,
			id,
			false,
			property,
			nil,
			issuer,
			depth+1,
		); err != nil {
			return err
		}
	}

	return nil
}
