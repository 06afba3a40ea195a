package validation

const (
	// Spec Validation Rules
	RuleValidationRequiredField           = "validation-required-field"
	RuleValidationTypeMismatch            = "validation-type-mismatch"
	RuleValidationDuplicateKey            = "validation-duplicate-key"
	RuleValidationInvalidFormat           = "validation-invalid-format"
	RuleValidationEmptyValue              = "validation-empty-value"
	RuleValidationInvalidReference        = "validation-invalid-reference"
	RuleValidationInvalidSyntax           = "validation-invalid-syntax"
	RuleValidationInvalidSchema           = "validation-invalid-schema"
	RuleValidationInvalidTarget           = "validation-invalid-target"
	RuleValidationAllowedValues           = "validation-allowed-values"
	RuleValidationMutuallyExclusiveFields = "validation-mutually-exclusive-fields"
	RuleValidationOperationNotFound       = "validation-operation-not-found"
	RuleValidationOperationIdUnique       = "validation-operation-id-unique"
	RuleValidationOperationParameters     = "validation-operation-parameters"
	RuleValidationSchemeNotFound          = "validation-scheme-not-found"
	RuleValidationTagNotFound             = "validation-tag-not-found"
	RuleValidationSupportedVersion        = "validation-supported-version"
	RuleValidationCircularReference       = "validation-circular-reference"
	RuleValidationUnexpectedProperty      = "validation-unexpected-property"
	RuleValidationShapeConstraint         = "validation-shape-constraint"
	RuleValidationNoMatchingVariant       = "validation-union-variant-mismatch"
)

// RuleInfo is the static documentation for a built-in rule: what it checks,
// why, and how to fix a finding it reports. Used by the "rules" CLI
// subcommand and by formatters that want to show more than a bare message.
type RuleInfo struct {
	Summary     string
	Description string
	HowToFix    string
}

var ruleInfo = map[string]RuleInfo{
	RuleValidationRequiredField: {
		Summary:     "Missing required field.",
		Description: "Required fields must be present in the document. Missing required fields cause validation to fail.",
		HowToFix:    "Provide the required field in the document.",
	},
	RuleValidationTypeMismatch: {
		Summary:     "Type mismatch.",
		Description: "A value's type does not match the type required at this location.",
		HowToFix:    "Change the value to match the expected type.",
	},
	RuleValidationDuplicateKey: {
		Summary:     "Duplicate key.",
		Description: "Duplicate keys are not allowed in objects. Remove duplicates to avoid parsing ambiguity.",
		HowToFix:    "Remove or rename the duplicate key.",
	},
	RuleValidationInvalidFormat: {
		Summary:     "Invalid format.",
		Description: "The value does not satisfy the format declared for this field.",
		HowToFix:    "Change the value to match the declared format.",
	},
	RuleValidationEmptyValue: {
		Summary:     "Empty value.",
		Description: "A value that must be non-empty was empty.",
		HowToFix:    "Provide a non-empty value or remove the field.",
	},
	RuleValidationInvalidReference: {
		Summary:     "Invalid reference.",
		Description: "A $ref does not resolve to a document and location that exists.",
		HowToFix:    "Fix the $ref target or define the referenced component.",
	},
	RuleValidationInvalidSyntax: {
		Summary:     "Invalid syntax.",
		Description: "The document could not be parsed as valid YAML or JSON.",
		HowToFix:    "Fix the syntax error reported at the given location.",
	},
	RuleValidationInvalidSchema: {
		Summary:     "Invalid schema.",
		Description: "A schema object is not a valid representation for its declared OpenAPI version.",
		HowToFix:    "Correct the schema to match the OpenAPI version's schema dialect.",
	},
	RuleValidationInvalidTarget: {
		Summary:     "Invalid target.",
		Description: "A reference or pointer targets a location that is not the kind of object expected there.",
		HowToFix:    "Point the reference at an object of the expected kind.",
	},
	RuleValidationAllowedValues: {
		Summary:     "Value not allowed.",
		Description: "The value is not one of the values permitted for this field.",
		HowToFix:    "Use one of the permitted values.",
	},
	RuleValidationMutuallyExclusiveFields: {
		Summary:     "Mutually exclusive fields.",
		Description: "Two or more fields that cannot be used together are both present.",
		HowToFix:    "Remove all but one of the mutually exclusive fields.",
	},
	RuleValidationOperationNotFound: {
		Summary:     "Operation not found.",
		Description: "A reference to an operation does not match any operation defined in the document.",
		HowToFix:    "Correct the reference or define the missing operation.",
	},
	RuleValidationOperationIdUnique: {
		Summary:     "Duplicate operationId.",
		Description: "Every operationId in a document must be unique.",
		HowToFix:    "Rename one of the operations so operationIds no longer collide.",
	},
	RuleValidationOperationParameters: {
		Summary:     "Invalid operation parameters.",
		Description: "An operation's parameters do not satisfy the constraints required for its path and method.",
		HowToFix:    "Correct the operation's parameter list.",
	},
	RuleValidationSchemeNotFound: {
		Summary:     "Security scheme not found.",
		Description: "A security requirement references a scheme that is not defined in components.securitySchemes.",
		HowToFix:    "Define the referenced security scheme or correct the requirement.",
	},
	RuleValidationTagNotFound: {
		Summary:     "Tag not found.",
		Description: "An operation references a tag that is not declared in the document's top-level tags list.",
		HowToFix:    "Add the tag to the top-level tags list or correct the reference.",
	},
	RuleValidationSupportedVersion: {
		Summary:     "Unsupported version.",
		Description: "The document's openapi/swagger version is not one this engine supports.",
		HowToFix:    "Upgrade or downgrade the document to a supported OpenAPI/Swagger version.",
	},
	RuleValidationCircularReference: {
		Summary:     "Circular reference.",
		Description: "Schemas must not contain circular references that cannot be resolved. Unresolvable cycles can break validation and tooling.",
		HowToFix:    "Refactor schemas to break the reference cycle.",
	},
	RuleValidationUnexpectedProperty: {
		Summary:     "Unexpected property.",
		Description: "A property is present that is not declared by the schema for this object and is not a vendor extension.",
		HowToFix:    "Remove the property, or rename it if it was meant to be a known field.",
	},
	RuleValidationShapeConstraint: {
		Summary:     "Shape constraint violated.",
		Description: "An object does not satisfy a presence constraint across several of its fields (e.g. requiring at least one of a set).",
		HowToFix:    "Add or remove fields so the object satisfies the constraint described in the finding message.",
	},
	RuleValidationNoMatchingVariant: {
		Summary:     "No matching variant.",
		Description: "A value at a polymorphic position (a $ref-or-object union, or a discriminated union) does not match any of its expected shapes.",
		HowToFix:    "Change the value to match one of the expected shapes, or correct the discriminator value.",
	},
}

// RuleInfoForID returns the documentation for a built-in rule id, and false
// if ruleID is not a known built-in rule.
func RuleInfoForID(ruleID string) (RuleInfo, bool) {
	info, ok := ruleInfo[ruleID]
	return info, ok
}

// RuleSummary returns the one-line summary for ruleID, or "" if unknown.
func RuleSummary(ruleID string) string {
	return ruleInfo[ruleID].Summary
}

// RuleDescription returns the longer description for ruleID, or "" if
// unknown.
func RuleDescription(ruleID string) string {
	return ruleInfo[ruleID].Description
}

// RuleHowToFix returns the suggested remediation for ruleID, or "" if
// unknown.
func RuleHowToFix(ruleID string) string {
	return ruleInfo[ruleID].HowToFix
}
