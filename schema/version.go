// Package schema declares the typed shape of OpenAPI documents: for each
// supported OAS version, a registry of named NodeTypes describing the
// expected object/array/scalar/union shape at each position in the tree.
// Nothing in this package touches a concrete document; it is pure
// declaration, consulted by the walker (package engine) while it traverses
// a real *yaml.Node tree.
package schema

import "strings"

// Version identifies the OpenAPI/Swagger dialect that governs a document.
// It is fixed at first inspection of a document (from its `openapi`/`swagger`
// field) and selects the NodeType registry used for the remainder of the walk.
type Version string

const (
	Oas2   Version = "oas2" // Swagger 2.0
	Oas3_0 Version = "oas3.0"
	Oas3_1 Version = "oas3.1"
)

// DetectVersion inspects the raw `openapi`/`swagger` field value of a root
// document and returns the Version it selects, or false if the value names
// an unsupported dialect.
func DetectVersion(openapiField, swaggerField string) (Version, bool) {
	switch {
	case swaggerField != "":
		if strings.HasPrefix(swaggerField, "2.") {
			return Oas2, true
		}
		return "", false
	case strings.HasPrefix(openapiField, "3.0"):
		return Oas3_0, true
	case strings.HasPrefix(openapiField, "3.1"):
		return Oas3_1, true
	default:
		return "", false
	}
}
