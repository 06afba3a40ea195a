package schema

// buildOas2Registry declares the Swagger 2.0 NodeType table. Smaller than
// OAS 3 (no components/webhooks, no content-negotiated media types — a
// single global consumes/produces list instead).
func buildOas2Registry() *Registry {
	r := newRegistry(Oas2)

	document := Object("Document2").
		WithField("swagger", "String", true).
		WithField("info", "Info", true).
		WithField("host", "String", false).
		WithField("basePath", "String", false).
		WithField("schemes", "StringList", false).
		WithField("consumes", "StringList", false).
		WithField("produces", "StringList", false).
		WithField("security", "SecurityRequirementList", false).
		WithField("tags", "TagList", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("paths", "Paths", true).
		WithField("definitions", "SchemaMap", false).
		WithField("parameters", "ParameterMap", false).
		WithField("responses", "ResponseMap", false).
		WithField("securityDefinitions", "SecuritySchemeMap", false).
		WithExtensions()

	info := Object("Info").
		WithField("title", "String", true).
		WithField("description", "String", false).
		WithField("termsOfService", "String", false).
		WithField("contact", "Contact", false).
		WithField("license", "License", false).
		WithField("version", "String", true).
		WithExtensions()

	contact := Object("Contact").
		WithField("name", "String", false).
		WithField("url", "String", false).
		WithField("email", "String", false).
		WithExtensions()

	license := Object("License").
		WithField("name", "String", true).
		WithField("url", "String", false).
		WithExtensions()

	externalDocs := Object("ExternalDocs").
		WithField("description", "String", false).
		WithField("url", "String", true).
		WithExtensions()

	tag := Object("Tag").
		WithField("name", "String", true).
		WithField("description", "String", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithExtensions()

	paths := Object("Paths").WithExtensions().WithAdditionalProperties("PathItem")

	pathItem := Object("PathItem").
		WithField("$ref", "String", false).
		WithField("get", "Operation", false).
		WithField("put", "Operation", false).
		WithField("post", "Operation", false).
		WithField("delete", "Operation", false).
		WithField("options", "Operation", false).
		WithField("head", "Operation", false).
		WithField("patch", "Operation", false).
		WithField("parameters", "ParameterOrRefList", false).
		WithExtensions()

	operation := Object("Operation").
		WithField("tags", "StringList", false).
		WithField("summary", "String", false).
		WithField("description", "String", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("operationId", "String", false).
		WithField("consumes", "StringList", false).
		WithField("produces", "StringList", false).
		WithField("parameters", "ParameterOrRefList", false).
		WithField("responses", "Responses", true).
		WithField("schemes", "StringList", false).
		WithField("deprecated", "Boolean", false).
		WithField("security", "SecurityRequirementList", false).
		WithExtensions()

	parameter := Object("Parameter").
		WithField("name", "String", true).
		WithField("in", "String", true).
		WithField("description", "String", false).
		WithField("required", "Boolean", false).
		WithField("schema", "SchemaOrRef", false).
		WithField("type", "String", false).
		WithField("items", "Items", false).
		WithExtensions()

	items := Object("Items").
		WithField("type", "String", true).
		WithField("format", "String", false).
		WithField("items", "Items", false).
		WithExtensions()

	responses := Object("Responses").
		WithField("default", "Response", false).
		WithExtensions().
		WithAdditionalProperties("Response")

	response := Object("Response").
		WithField("description", "String", true).
		WithField("schema", "SchemaOrRef", false).
		WithField("headers", "HeaderMap", false).
		WithField("examples", "Any", false).
		WithExtensions()

	header := Object("Header").
		WithField("description", "String", false).
		WithField("type", "String", true).
		WithField("items", "Items", false).
		WithExtensions()

	securityScheme := Object("SecurityScheme").
		WithField("type", "String", true).
		WithField("description", "String", false).
		WithField("name", "String", false).
		WithField("in", "String", false).
		WithField("flow", "String", false).
		WithField("authorizationUrl", "String", false).
		WithField("tokenUrl", "String", false).
		WithField("scopes", "StringMap", false).
		WithExtensions()

	securityRequirement := MapOf("SecurityRequirement", "StringList")

	schemaType := Object("Schema").
		WithField("title", "String", false).
		WithField("description", "String", false).
		WithField("default", "Any", false).
		WithField("multipleOf", "Number", false).
		WithField("maximum", "Number", false).
		WithField("minimum", "Number", false).
		WithField("maxLength", "Integer", false).
		WithField("minLength", "Integer", false).
		WithField("pattern", "String", false).
		WithField("maxItems", "Integer", false).
		WithField("minItems", "Integer", false).
		WithField("uniqueItems", "Boolean", false).
		WithField("required", "StringList", false).
		WithField("enum", "AnyList", false).
		WithField("type", "String", false).
		WithField("allOf", "SchemaOrRefList", false).
		WithField("items", "SchemaOrRef", false).
		WithField("properties", "SchemaOrRefMap", false).
		WithField("additionalProperties", "SchemaOrBool", false).
		WithField("discriminator", "String", false).
		WithField("readOnly", "Boolean", false).
		WithField("xml", "XML", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("example", "Any", false).
		WithExtensions()

	xml := Object("XML").
		WithField("name", "String", false).
		WithField("namespace", "String", false).
		WithField("prefix", "String", false).
		WithField("attribute", "Boolean", false).
		WithField("wrapped", "Boolean", false).
		WithExtensions()

	reference := Object("Reference").WithField("$ref", "String", true)

	r.register(
		document, info, contact, license, externalDocs, tag, paths, pathItem,
		operation, parameter, items, responses, response, header,
		securityScheme, securityRequirement, schemaType, xml, reference,
	)

	r.register(
		Scalar("String", PrimitiveString),
		Scalar("Number", PrimitiveNumber),
		Scalar("Integer", PrimitiveInteger),
		Scalar("Boolean", PrimitiveBoolean),
		Scalar("Any", PrimitiveAny),
	)

	r.register(&NodeType{
		Name: "SchemaOrRef",
		Kind: KindUnion,
		Variants: []UnionVariant{
			{Type: "Reference", StructuralMatch: func(present map[string]bool) bool { return present["$ref"] }},
			{Type: "Schema", StructuralMatch: func(present map[string]bool) bool { return !present["$ref"] }},
		},
	})
	r.register(&NodeType{
		Name: "ParameterOrRef",
		Kind: KindUnion,
		Variants: []UnionVariant{
			{Type: "Reference", StructuralMatch: func(present map[string]bool) bool { return present["$ref"] }},
			{Type: "Parameter", StructuralMatch: func(present map[string]bool) bool { return !present["$ref"] }},
		},
	})
	r.register(&NodeType{
		Name: "SchemaOrBool",
		Kind: KindUnion,
		Variants: []UnionVariant{
			{Type: "Boolean", StructuralMatch: func(present map[string]bool) bool { return len(present) == 0 }},
			{Type: "SchemaOrRef", StructuralMatch: func(present map[string]bool) bool { return true }},
		},
	})

	r.register(
		ArrayOf("TagList", "Tag"),
		ArrayOf("StringList", "String"),
		ArrayOf("AnyList", "Any"),
		ArrayOf("SecurityRequirementList", "SecurityRequirement"),
		ArrayOf("ParameterOrRefList", "ParameterOrRef"),
		ArrayOf("SchemaOrRefList", "SchemaOrRef"),
		MapOf("StringMap", "String"),
		MapOf("SchemaMap", "SchemaOrRef"),
		MapOf("SchemaOrRefMap", "SchemaOrRef"),
		MapOf("ParameterMap", "ParameterOrRef"),
		MapOf("ResponseMap", "Response"),
		MapOf("HeaderMap", "Header"),
		MapOf("SecuritySchemeMap", "SecurityScheme"),
	)

	return r
}
