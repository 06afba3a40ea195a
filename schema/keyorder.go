package schema

// CanonicalTopLevelKeys returns the stable key order used by the normalizer
// (component I) when reordering a root document's top-level mapping. Keys
// absent from the document are simply skipped; keys present but not named
// here are appended after the canonical ones, in their original order.
func CanonicalTopLevelKeys(v Version) []string {
	switch v {
	case Oas2:
		return []string{
			"swagger", "info", "host", "basePath", "schemes", "consumes",
			"produces", "security", "tags", "externalDocs", "paths",
			"definitions", "parameters", "responses", "securityDefinitions",
		}
	default:
		return []string{
			"openapi", "info", "jsonSchemaDialect", "servers", "security",
			"tags", "externalDocs", "paths", "webhooks", "x-webhooks",
			"components",
		}
	}
}
