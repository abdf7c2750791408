package jsonld

const (
	// BlankNode is the blank node identifier prefix.
	BlankNode = "_:"
)

// Values for @direction.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// JSON-LD MIME types and request profiles.
const (
	ApplicationLDJSON = "application/ld+json"
	ApplicationJSON   = "application/json"

	ProfileExpanded  = "http://www.w3.org/ns/json-ld#expanded"
	ProfileCompacted = "http://www.w3.org/ns/json-ld#compacted"
	ProfileContext   = "http://www.w3.org/ns/json-ld#context"
	ProfileFlattened = "http://www.w3.org/ns/json-ld#flattened"
	ProfileFrame     = "http://www.w3.org/ns/json-ld#frame"
	ProfileFramed    = "http://www.w3.org/ns/json-ld#framed"
)

// RDF and XSD vocabulary IRIs used by the RDF bridge.
const (
	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFFirst      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
	RDFJSON       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"

	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
)
