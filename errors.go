package jsonld

import "github.com/cockroachdb/errors"

// Input errors: the document or one of its contexts is malformed. These are
// terminal and non-retryable; call sites wrap them with the offending term,
// key or IRI.
var (
	ErrCollidingKeywords           = errors.New("colliding keywords")
	ErrConflictingIndexes          = errors.New("conflicting indexes")
	ErrCyclicIRIMapping            = errors.New("cyclic IRI mapping")
	ErrInvalidBaseDirection        = errors.New("invalid base direction")
	ErrInvalidBaseIRI              = errors.New("invalid base IRI")
	ErrInvalidContainerMapping     = errors.New("invalid container mapping")
	ErrInvalidContextEntry         = errors.New("invalid context entry")
	ErrInvalidContextNullification = errors.New("invalid context nullification")
	ErrInvalidDefaultLanguage      = errors.New("invalid default language")
	ErrInvalidIDValue              = errors.New("invalid @id value")
	ErrInvalidImportValue          = errors.New("invalid @import value")
	ErrInvalidIncludedValue        = errors.New("invalid @included value")
	ErrInvalidIndexValue           = errors.New("invalid @index value")
	ErrInvalidIRIMapping           = errors.New("invalid IRI mapping")
	ErrInvalidKeywordAlias         = errors.New("invalid keyword alias")
	ErrInvalidLanguageMapValue     = errors.New("invalid language map value")
	ErrInvalidLanguageMapping      = errors.New("invalid language mapping")
	ErrInvalidLanguageTaggedString = errors.New("invalid language-tagged string")
	ErrInvalidLanguageTaggedValue  = errors.New("invalid language-tagged value")
	ErrInvalidLocalContext         = errors.New("invalid local context")
	ErrInvalidNestValue            = errors.New("invalid @nest value")
	ErrInvalidPropagateValue       = errors.New("invalid @propagate value")
	ErrInvalidProtectedValue       = errors.New("invalid @protected value")
	ErrInvalidReverseProperty      = errors.New("invalid reverse property")
	ErrInvalidReversePropertyMap   = errors.New("invalid reverse property map")
	ErrInvalidReversePropertyValue = errors.New("invalid reverse property value")
	ErrInvalidReverseValue         = errors.New("invalid @reverse value")
	ErrInvalidScopedContext        = errors.New("invalid scoped context")
	ErrInvalidSetOrListObject      = errors.New("invalid set or list object")
	ErrInvalidTermDefinition       = errors.New("invalid term definition")
	ErrInvalidTypeMapping          = errors.New("invalid type mapping")
	ErrInvalidTypeValue            = errors.New("invalid @type value")
	ErrInvalidTypedValue           = errors.New("invalid typed value")
	ErrInvalidValueObject          = errors.New("invalid value object")
	ErrInvalidValueObjectValue     = errors.New("invalid value object value")
	ErrInvalidVersionValue         = errors.New("invalid @version value")
	ErrInvalidVocabMapping         = errors.New("invalid vocab mapping")
	ErrIRIConfusedWithPrefix       = errors.New("IRI confused with prefix")
	ErrKeywordRedefinition         = errors.New("keyword redefinition")
	ErrListOfLists                 = errors.New("list of lists")
	ErrProtectedTermRedefinition   = errors.New("protected term redefinition")
)

// Loading errors: remote context dereference failed. Retry policy belongs to
// the Loader implementation, not to the processor.
var (
	ErrContextLoadingDenied = errors.New("context loading denied: no loader configured")
	ErrInvalidRemoteContext = errors.New("invalid remote context")
	ErrLoadingDocument      = errors.New("loading document failed")
	ErrLoadingRemoteContext = errors.New("loading remote context failed")
)

// Limit errors: a configured ceiling was exceeded. These bound worst-case
// cost against adversarial input and are always terminal.
var (
	ErrContextOverflow           = errors.New("context overflow")
	ErrMaxDepthExceeded          = errors.New("maximum recursion depth exceeded")
	ErrRecursiveContextInclusion = errors.New("recursive context inclusion")
)

// Unsupported feature set.
var (
	ErrFrameExpansionUnsupported = errors.New("frame expansion is not supported")
	ErrPreserveUnsupported       = errors.New("@preserve is not supported")
	ErrProcessingMode            = errors.New("processing mode conflict")
)
