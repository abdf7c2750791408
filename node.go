package jsonld

import (
	"github.com/condensedlight/jsonld/internal/json"
)

// Properties is a key-to-array-of-[Node] map.
//
// It's used to hold any property that's not a JSON-LD keyword.
type Properties map[string][]Node

// Node represents an element of a document in expanded form: a node object,
// value object, list object or graph object.
//
// Every supported JSON-LD keyword has a field of its own. All remaining
// properties, keyed by their expanded IRI, are tracked on the Properties
// field.
type Node struct {
	Direction string          // @direction
	Graph     []Node          // @graph
	ID        string          // @id
	Included  []Node          // @included
	Index     string          // @index
	Language  string          // @language
	List      []Node          // @list
	Reverse   Properties      // @reverse
	Set       []Node          // @set
	Type      []string        // @type
	Value     json.RawMessage // @value

	Properties Properties // everything else
}

// Has returns if a node has the requested property.
//
// Properties must either be a JSON-LD keyword, or an expanded IRI.
func (n *Node) Has(prop string) bool {
	if n == nil {
		return false
	}

	switch prop {
	case KeywordID:
		return n.ID != ""
	case KeywordValue:
		return n.Value != nil
	case KeywordLanguage:
		return n.Language != ""
	case KeywordDirection:
		return n.Direction != ""
	case KeywordType:
		return n.Type != nil
	case KeywordList:
		return n.List != nil
	case KeywordSet:
		return n.Set != nil
	case KeywordGraph:
		return n.Graph != nil
	case KeywordIncluded:
		return n.Included != nil
	case KeywordIndex:
		return n.Index != ""
	case KeywordReverse:
		return n.Reverse != nil
	default:
		_, ok := n.Properties[prop]
		return ok
	}
}

// PropertySet returns a set with an entry for each property present on the
// node, keywords included.
func (n *Node) PropertySet() map[string]struct{} {
	if n == nil {
		return nil
	}

	res := make(map[string]struct{}, len(n.Properties)+2)
	for _, kw := range []string{
		KeywordDirection, KeywordGraph, KeywordID, KeywordIncluded,
		KeywordIndex, KeywordLanguage, KeywordList, KeywordReverse,
		KeywordSet, KeywordType, KeywordValue,
	} {
		if n.Has(kw) {
			res[kw] = struct{}{}
		}
	}

	for p := range n.Properties {
		res[p] = struct{}{}
	}

	return res
}

func (n *Node) propsWithout(props ...string) map[string]struct{} {
	nprops := n.PropertySet()
	for _, prop := range props {
		delete(nprops, prop)
	}
	return nprops
}

// Len returns the number of properties present on the node.
func (n *Node) Len() int {
	return len(n.PropertySet())
}

func (n *Node) isNode() bool {
	if n == nil {
		return false
	}

	return !n.Has(KeywordList) && !n.Has(KeywordValue) && !n.Has(KeywordSet)
}

// IsZero returns if this is the zero value of a [Node].
func (n *Node) IsZero() bool {
	if n == nil {
		return true
	}

	return len(n.PropertySet()) == 0
}

// IsSubject checks if this node is a subject: it has an @id and at least one
// property beyond @id and @index.
func (n *Node) IsSubject() bool {
	if !n.Has(KeywordID) {
		return false
	}

	return len(n.propsWithout(KeywordID, KeywordIndex)) != 0
}

// IsSubjectReference checks if this node is a subject reference: an @id,
// optionally an @type, and nothing else.
func (n *Node) IsSubjectReference() bool {
	if !n.Has(KeywordID) {
		return false
	}

	return len(n.propsWithout(KeywordID, KeywordType)) == 0
}

// IsList checks if this node is a list object: an @list, optionally an
// @index, and nothing else.
func (n *Node) IsList() bool {
	if !n.Has(KeywordList) {
		return false
	}

	return len(n.propsWithout(KeywordList, KeywordIndex)) == 0
}

// IsValue checks if this is a value object: an @value, optionally
// @direction, @index, @language and @type, and nothing else.
func (n *Node) IsValue() bool {
	if !n.Has(KeywordValue) {
		return false
	}

	return len(n.propsWithout(
		KeywordValue,
		KeywordDirection,
		KeywordIndex,
		KeywordLanguage,
		KeywordType,
	)) == 0
}

// IsGraph returns if the node is a graph object: an @graph, optionally @id
// and @index, and nothing else.
func (n *Node) IsGraph() bool {
	if !n.Has(KeywordGraph) {
		return false
	}

	return len(n.propsWithout(KeywordID, KeywordIndex, KeywordGraph)) == 0
}

// IsSimpleGraph returns if the node is a simple graph object: a graph object
// without an @id.
func (n *Node) IsSimpleGraph() bool {
	return n.IsGraph() && !n.Has(KeywordID)
}

// MarshalJSON encodes to expanded document form.
func (n *Node) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(n.Properties)+2)

	if n.Has(KeywordID) {
		result[KeywordID] = n.ID
	}

	if n.Has(KeywordIndex) {
		result[KeywordIndex] = n.Index
	}

	if n.Has(KeywordType) {
		var data any
		if n.Value != nil && len(n.Type) == 1 {
			data = n.Type[0]
		} else {
			data = n.Type
		}
		result[KeywordType] = data
	}

	if n.Has(KeywordValue) {
		result[KeywordValue] = n.Value
	}

	if n.Has(KeywordLanguage) {
		result[KeywordLanguage] = n.Language
	}

	if n.Has(KeywordDirection) {
		result[KeywordDirection] = n.Direction
	}

	if n.Has(KeywordList) {
		result[KeywordList] = n.List
	}

	if n.Has(KeywordSet) {
		result[KeywordSet] = n.Set
	}

	if n.Has(KeywordGraph) {
		result[KeywordGraph] = n.Graph
	}

	if n.Has(KeywordIncluded) {
		result[KeywordIncluded] = n.Included
	}

	if n.Has(KeywordReverse) {
		result[KeywordReverse] = n.Reverse
	}

	for k, v := range n.Properties {
		result[k] = v
	}

	return json.Marshal(result)
}

// GetNodes returns the nodes stored in property.
func (n *Node) GetNodes(property string) []Node {
	switch property {
	case KeywordGraph:
		return n.Graph
	case KeywordIncluded:
		return n.Included
	case KeywordList:
		return n.List
	case KeywordSet:
		return n.Set
	default:
		return n.Properties[property]
	}
}

// AddNodes appends nodes to the property.
func (n *Node) AddNodes(property string, nodes ...Node) {
	if n.Properties == nil {
		n.Properties = make(Properties, 4)
	}
	n.Properties[property] = append(n.Properties[property], nodes...)
}

// SetNodes overrides the nodes stored in property.
func (n *Node) SetNodes(property string, nodes ...Node) {
	if n.Properties == nil {
		n.Properties = make(Properties, 4)
	}
	n.Properties[property] = nodes
}
