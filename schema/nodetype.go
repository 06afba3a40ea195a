package schema

import "regexp"

// Kind discriminates the variants of NodeType.
type Kind int

const (
	KindObject Kind = iota
	KindMapOf
	KindArray
	KindScalar
	KindUnion
)

// PrimitiveKind enumerates the scalar kinds a Scalar NodeType may hold.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveNumber
	PrimitiveInteger
	PrimitiveBoolean
	PrimitiveNull
	PrimitiveAny
)

// FieldType describes one declared property of an Object NodeType: the name
// of the NodeType that governs its value, and whether the field is required.
type FieldType struct {
	TypeName string
	Required bool
}

// PatternProperty pairs a compiled key pattern with the NodeType name that
// governs values whose key matches it (used for OAS2 `responses`/vendor
// extension handling and similar "most keys are free-form, a few are known"
// shapes).
type PatternProperty struct {
	Pattern *regexp.Regexp
	Type    string
}

// ShapeRule is a named presence constraint on an Object NodeType reported
// with a fixed message when violated, e.g. "at least one of {schema,
// content}" on an OAS 3 Parameter/MediaType, or the OAS 3.0 `nullable`
// constraint (requires a sibling `type`).
type ShapeRule struct {
	Name        string
	Message     string
	ReportOnKey bool
	// ReportField, when set, names a child field of the object this rule
	// applies to; the violation is reported against that field's key/value
	// node and pointer instead of the object's own (e.g. the OAS 3.0
	// `nullable`-requires-`type` rule reports at .../nullable, not at the
	// enclosing Schema).
	ReportField string
	// Check receives the set of field names actually present on the object
	// (direct fields only, not flattened through allOf) and returns false
	// if the constraint is violated.
	Check func(presentFields map[string]bool) bool
}

// NodeType describes the expected shape of a value at a point in the schema.
// Exactly one of the Kind-specific fields is meaningful, selected by Kind.
type NodeType struct {
	Name string
	Kind Kind

	// KindObject
	Properties          map[string]FieldType
	ExtensionsAllowed   bool
	PatternProperties   []PatternProperty
	AdditionalProperty  string // NodeType name; "" means not allowed unless AdditionalPropertiesAny
	AdditionalPropsAny  bool
	ShapeRules          []ShapeRule

	// KindMapOf / KindArray
	ElementType string // NodeType name

	// KindScalar
	Primitives []PrimitiveKind // OAS 3.1 `type` may list more than one
	Enum       []string
	// EnumLabel names this value in enum-violation messages (e.g. "type");
	// defaults to Name when unset.
	EnumLabel string

	// KindUnion
	Discriminator string          // property name used to pick a variant, "" for structural match
	Variants      []UnionVariant
}

// UnionVariant is one candidate shape of a Union NodeType.
type UnionVariant struct {
	// DiscriminatorValue, when the union is discriminator-based, is the
	// value of the discriminator property that selects this variant.
	DiscriminatorValue string
	Type                string // NodeType name
	// StructuralMatch, when the union has no discriminator, reports whether
	// the given set of present field names matches this variant.
	StructuralMatch func(presentFields map[string]bool) bool
}

func Object(name string) *NodeType {
	return &NodeType{Name: name, Kind: KindObject, Properties: map[string]FieldType{}}
}

func MapOf(name, elementType string) *NodeType {
	return &NodeType{Name: name, Kind: KindMapOf, ElementType: elementType}
}

func ArrayOf(name, elementType string) *NodeType {
	return &NodeType{Name: name, Kind: KindArray, ElementType: elementType}
}

func Scalar(name string, kinds ...PrimitiveKind) *NodeType {
	return &NodeType{Name: name, Kind: KindScalar, Primitives: kinds}
}

func Union(name string) *NodeType {
	return &NodeType{Name: name, Kind: KindUnion}
}

// WithField registers a property on an Object NodeType and returns it for chaining.
func (n *NodeType) WithField(name, typeName string, required bool) *NodeType {
	n.Properties[name] = FieldType{TypeName: typeName, Required: required}
	return n
}

// WithExtensions marks the Object NodeType as accepting `x-*` vendor extensions.
func (n *NodeType) WithExtensions() *NodeType {
	n.ExtensionsAllowed = true
	return n
}

// WithShapeRule attaches a presence constraint to an Object NodeType.
func (n *NodeType) WithShapeRule(rule ShapeRule) *NodeType {
	n.ShapeRules = append(n.ShapeRules, rule)
	return n
}

// WithAdditionalProperties declares the NodeType governing unknown mapping
// keys on an Object (used by Responses/SecurityDefinitions-style shapes that
// are mostly free-form but define a few known keys).
func (n *NodeType) WithAdditionalProperties(typeName string) *NodeType {
	n.AdditionalProperty = typeName
	return n
}

// WithAdditionalPropertiesAny allows arbitrary untyped additional properties.
func (n *NodeType) WithAdditionalPropertiesAny() *NodeType {
	n.AdditionalPropsAny = true
	return n
}

// WithEnum restricts a Scalar NodeType's allowed values.
func (n *NodeType) WithEnum(values ...string) *NodeType {
	n.Enum = values
	return n
}

// IsExtensionKey reports whether key is a vendor extension key (`x-*`).
func IsExtensionKey(key string) bool {
	return len(key) > 2 && key[0] == 'x' && key[1] == '-'
}

// SelectVariant picks the matching variant of a Union NodeType given the raw
// value of its discriminator property (ignored when Discriminator is unset)
// and the set of field names present on the candidate node. ok is false when
// no variant matches.
func (n *NodeType) SelectVariant(discriminatorValue string, presentFields map[string]bool) (*UnionVariant, bool) {
	if n.Kind != KindUnion {
		return nil, false
	}
	if n.Discriminator != "" {
		for i := range n.Variants {
			if n.Variants[i].DiscriminatorValue == discriminatorValue {
				return &n.Variants[i], true
			}
		}
		return nil, false
	}
	for i := range n.Variants {
		if n.Variants[i].StructuralMatch != nil && n.Variants[i].StructuralMatch(presentFields) {
			return &n.Variants[i], true
		}
	}
	return nil, false
}

// ClassifyField resolves the NodeType name governing the value at key on an
// Object NodeType, trying declared properties, then pattern properties,
// then vendor extensions, then additional-properties, in that order. known
// is false when key matches none of these and should be reported as an
// unexpected property; typeName is "" when the field is recognized but
// untyped (an extension or an any-typed additional property).
func (n *NodeType) ClassifyField(key string) (typeName string, known bool) {
	if n.Kind != KindObject {
		return "", false
	}
	if field, ok := n.Properties[key]; ok {
		return field.TypeName, true
	}
	for _, pp := range n.PatternProperties {
		if pp.Pattern.MatchString(key) {
			return pp.Type, true
		}
	}
	if n.ExtensionsAllowed && IsExtensionKey(key) {
		return "", true
	}
	if n.AdditionalProperty != "" {
		return n.AdditionalProperty, true
	}
	if n.AdditionalPropsAny {
		return "", true
	}
	return "", false
}
