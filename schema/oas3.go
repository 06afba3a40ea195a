package schema

// buildOas3Registry declares the OAS 3.0/3.1 NodeType table. The two
// dialects share almost everything; the differences (Schema's `nullable`
// constraint vs `type` as string-or-array, §4.C) are branched on version.
func buildOas3Registry(v Version) *Registry {
	r := newRegistry(v)

	document := Object("Document3").
		WithField("openapi", "String", true).
		WithField("info", "Info", true).
		WithField("jsonSchemaDialect", "String", false).
		WithField("servers", "ServerList", false).
		WithField("security", "SecurityRequirementList", false).
		WithField("tags", "TagList", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("paths", "Paths", false).
		WithField("webhooks", "WebhookMap", false).
		WithField("components", "Components", false).
		WithExtensions().
		WithShapeRule(ShapeRule{
			Name:        "paths-components-webhooks",
			Message:     "Must contain at least one of the following fields: paths, components, webhooks.",
			ReportOnKey: true,
			Check: func(present map[string]bool) bool {
				return present["paths"] || present["components"] || present["webhooks"]
			},
		})

	info := Object("Info").
		WithField("title", "String", true).
		WithField("summary", "String", false).
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
		WithField("identifier", "String", false).
		WithField("url", "String", false).
		WithExtensions()

	server := Object("Server").
		WithField("url", "String", true).
		WithField("description", "String", false).
		WithField("variables", "ServerVariableMap", false).
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

	pathItem := Object("PathItem").
		WithField("$ref", "String", false).
		WithField("summary", "String", false).
		WithField("description", "String", false).
		WithField("get", "Operation", false).
		WithField("put", "Operation", false).
		WithField("post", "Operation", false).
		WithField("delete", "Operation", false).
		WithField("options", "Operation", false).
		WithField("head", "Operation", false).
		WithField("patch", "Operation", false).
		WithField("trace", "Operation", false).
		WithField("servers", "ServerList", false).
		WithField("parameters", "ParameterOrRefList", false).
		WithExtensions()

	operation := Object("Operation").
		WithField("tags", "StringList", false).
		WithField("summary", "String", false).
		WithField("description", "String", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("operationId", "String", false).
		WithField("parameters", "ParameterOrRefList", false).
		WithField("requestBody", "RequestBodyOrRef", false).
		WithField("responses", "Responses", true).
		WithField("callbacks", "CallbackMap", false).
		WithField("deprecated", "Boolean", false).
		WithField("security", "SecurityRequirementList", false).
		WithField("servers", "ServerList", false).
		WithExtensions()

	parameter := Object("Parameter").
		WithField("name", "String", true).
		WithField("in", "String", true).
		WithField("description", "String", false).
		WithField("required", "Boolean", false).
		WithField("deprecated", "Boolean", false).
		WithField("allowEmptyValue", "Boolean", false).
		WithField("style", "String", false).
		WithField("explode", "Boolean", false).
		WithField("schema", "SchemaOrRef", false).
		WithField("content", "MediaTypeMap", false).
		WithField("example", "Any", false).
		WithField("examples", "ExampleMap", false).
		WithExtensions().
		WithShapeRule(ShapeRule{
			Name:        "schema-content",
			Message:     "Must contain at least one of the following fields: schema, content.",
			ReportOnKey: false,
			Check: func(present map[string]bool) bool {
				return present["schema"] || present["content"]
			},
		})

	requestBody := Object("RequestBody").
		WithField("description", "String", false).
		WithField("content", "MediaTypeMap", true).
		WithField("required", "Boolean", false).
		WithExtensions()

	mediaType := Object("MediaType").
		WithField("schema", "SchemaOrRef", false).
		WithField("example", "Any", false).
		WithField("examples", "ExampleMap", false).
		WithField("encoding", "EncodingMap", false).
		WithExtensions()

	encoding := Object("Encoding").
		WithField("contentType", "String", false).
		WithField("headers", "HeaderMap", false).
		WithField("style", "String", false).
		WithField("explode", "Boolean", false).
		WithField("allowReserved", "Boolean", false).
		WithExtensions()

	responses := Object("Responses").
		WithField("default", "ResponseOrRef", false).
		WithExtensions().
		WithAdditionalProperties("ResponseOrRef")

	response := Object("Response").
		WithField("description", "String", true).
		WithField("headers", "HeaderMap", false).
		WithField("content", "MediaTypeMap", false).
		WithField("links", "LinkMap", false).
		WithExtensions()

	header := Object("Header").
		WithField("description", "String", false).
		WithField("required", "Boolean", false).
		WithField("deprecated", "Boolean", false).
		WithField("schema", "SchemaOrRef", false).
		WithField("content", "MediaTypeMap", false).
		WithExtensions()

	example := Object("Example").
		WithField("summary", "String", false).
		WithField("description", "String", false).
		WithField("value", "Any", false).
		WithField("externalValue", "String", false).
		WithExtensions()

	link := Object("Link").
		WithField("operationRef", "String", false).
		WithField("operationId", "String", false).
		WithField("parameters", "Any", false).
		WithField("requestBody", "Any", false).
		WithField("description", "String", false).
		WithField("server", "Server", false).
		WithExtensions()

	callback := MapOf("Callback", "PathItem")

	components := Object("Components").
		WithField("schemas", "SchemaMap", false).
		WithField("responses", "ResponseOrRefMap", false).
		WithField("parameters", "ParameterOrRefMap", false).
		WithField("examples", "ExampleOrRefMap", false).
		WithField("requestBodies", "RequestBodyOrRefMap", false).
		WithField("headers", "HeaderOrRefMap", false).
		WithField("securitySchemes", "SecuritySchemeOrRefMap", false).
		WithField("links", "LinkOrRefMap", false).
		WithField("callbacks", "CallbackOrRefMap", false).
		WithField("pathItems", "PathItemOrRefMap", false).
		WithExtensions()

	securityScheme := Object("SecurityScheme").
		WithField("type", "String", true).
		WithField("description", "String", false).
		WithField("name", "String", false).
		WithField("in", "String", false).
		WithField("scheme", "String", false).
		WithField("bearerFormat", "String", false).
		WithField("flows", "OAuthFlows", false).
		WithField("openIdConnectUrl", "String", false).
		WithExtensions()

	oauthFlows := Object("OAuthFlows").
		WithField("implicit", "OAuthFlow", false).
		WithField("password", "OAuthFlow", false).
		WithField("clientCredentials", "OAuthFlow", false).
		WithField("authorizationCode", "OAuthFlow", false).
		WithExtensions()

	oauthFlow := Object("OAuthFlow").
		WithField("authorizationUrl", "String", false).
		WithField("tokenUrl", "String", false).
		WithField("refreshUrl", "String", false).
		WithField("scopes", "StringMap", false).
		WithExtensions()

	securityRequirement := MapOf("SecurityRequirement", "StringList")

	discriminator := Object("Discriminator").
		WithField("propertyName", "String", true).
		WithField("mapping", "StringMap", false)

	xml := Object("XML").
		WithField("name", "String", false).
		WithField("namespace", "String", false).
		WithField("prefix", "String", false).
		WithField("attribute", "Boolean", false).
		WithField("wrapped", "Boolean", false).
		WithExtensions()

	schemaType := Object("Schema").
		WithField("title", "String", false).
		WithField("description", "String", false).
		WithField("default", "Any", false).
		WithField("multipleOf", "Number", false).
		WithField("maximum", "Number", false).
		WithField("exclusiveMaximum", "Any", false).
		WithField("minimum", "Number", false).
		WithField("exclusiveMinimum", "Any", false).
		WithField("maxLength", "Integer", false).
		WithField("minLength", "Integer", false).
		WithField("pattern", "String", false).
		WithField("maxItems", "Integer", false).
		WithField("minItems", "Integer", false).
		WithField("uniqueItems", "Boolean", false).
		WithField("maxProperties", "Integer", false).
		WithField("minProperties", "Integer", false).
		WithField("required", "StringList", false).
		WithField("enum", "AnyList", false).
		WithField("type", "SchemaType", false).
		WithField("allOf", "SchemaOrRefList", false).
		WithField("oneOf", "SchemaOrRefList", false).
		WithField("anyOf", "SchemaOrRefList", false).
		WithField("not", "SchemaOrRef", false).
		WithField("items", "SchemaOrRef", false).
		WithField("properties", "SchemaOrRefMap", false).
		WithField("additionalProperties", "SchemaOrBool", false).
		WithField("discriminator", "Discriminator", false).
		WithField("readOnly", "Boolean", false).
		WithField("writeOnly", "Boolean", false).
		WithField("xml", "XML", false).
		WithField("externalDocs", "ExternalDocs", false).
		WithField("example", "Any", false).
		WithField("deprecated", "Boolean", false).
		WithExtensions()

	if v == Oas3_0 {
		schemaType.WithField("nullable", "Boolean", false)
		schemaType.WithShapeRule(ShapeRule{
			Name:        "nullable-requires-type",
			Message:     "The `type` field must be defined when the `nullable` field is used.",
			ReportOnKey: false,
			ReportField: "nullable",
			Check: func(present map[string]bool) bool {
				if !present["nullable"] {
					return true
				}
				return present["type"]
			},
		})
	}

	r.register(
		document, info, contact, license, server, externalDocs, tag,
		pathItem, operation, parameter, requestBody, mediaType, encoding,
		responses, response, header, example, link, callback, components,
		securityScheme, oauthFlows, oauthFlow, securityRequirement,
		discriminator, xml, schemaType,
	)

	registerOas3ScalarsAndUnions(r, v)
	registerOas3Containers(r)

	return r
}

// registerOas3ScalarsAndUnions declares the leaf Scalar NodeTypes and the
// Union NodeTypes used for "object or $ref" positions throughout OAS 3.
func registerOas3ScalarsAndUnions(r *Registry, v Version) {
	r.register(
		Scalar("String", PrimitiveString),
		Scalar("Number", PrimitiveNumber),
		Scalar("Integer", PrimitiveInteger),
		Scalar("Boolean", PrimitiveBoolean),
		Scalar("Any", PrimitiveAny),
		Scalar("Ref", PrimitiveString),
	)

	if v == Oas3_1 {
		r.register(&NodeType{
			Name: "SchemaType",
			Kind: KindScalar,
			// 3.1 allows a string or a sequence of allowed primitive names;
			// the walker descends into a sequence node element by element, so
			// this NodeType only ever has to validate one value at a time.
			Enum:      []string{"object", "array", "string", "number", "integer", "boolean", "null"},
			EnumLabel: "type",
		})
	} else {
		r.register(&NodeType{
			Name:      "SchemaType",
			Kind:      KindScalar,
			Enum:      []string{"object", "array", "string", "number", "integer", "boolean"},
			EnumLabel: "type",
		})
	}

	refUnion := func(name, objectType string) *NodeType {
		return &NodeType{
			Name:          name,
			Kind:          KindUnion,
			Discriminator: "",
			Variants: []UnionVariant{
				{Type: "Reference", StructuralMatch: func(present map[string]bool) bool { return present["$ref"] }},
				{Type: objectType, StructuralMatch: func(present map[string]bool) bool { return !present["$ref"] }},
			},
		}
	}

	reference := Object("Reference").
		WithField("$ref", "String", true).
		WithField("summary", "String", false).
		WithField("description", "String", false)
	r.register(reference)

	r.register(
		refUnion("SchemaOrRef", "Schema"),
		refUnion("ParameterOrRef", "Parameter"),
		refUnion("ResponseOrRef", "Response"),
		refUnion("RequestBodyOrRef", "RequestBody"),
		refUnion("HeaderOrRef", "Header"),
		refUnion("ExampleOrRef", "Example"),
		refUnion("LinkOrRef", "Link"),
		refUnion("SecuritySchemeOrRef", "SecurityScheme"),
		refUnion("CallbackOrRef", "Callback"),
		refUnion("PathItemOrRef", "PathItem"),
	)

	r.register(&NodeType{
		Name: "SchemaOrBool",
		Kind: KindUnion,
		Variants: []UnionVariant{
			{Type: "Boolean", StructuralMatch: func(present map[string]bool) bool { return len(present) == 0 }},
			{Type: "SchemaOrRef", StructuralMatch: func(present map[string]bool) bool { return true }},
		},
	})
}

func registerOas3Containers(r *Registry) {
	r.register(
		ArrayOf("ServerList", "Server"),
		ArrayOf("TagList", "Tag"),
		ArrayOf("StringList", "String"),
		ArrayOf("AnyList", "Any"),
		ArrayOf("SecurityRequirementList", "SecurityRequirement"),
		ArrayOf("ParameterOrRefList", "ParameterOrRef"),
		ArrayOf("SchemaOrRefList", "SchemaOrRef"),

		MapOf("ServerVariableMap", "ServerVariable"),
		MapOf("StringMap", "String"),
		MapOf("MediaTypeMap", "MediaType"),
		MapOf("ExampleMap", "Example"),
		MapOf("EncodingMap", "Encoding"),
		MapOf("HeaderMap", "HeaderOrRef"),
		MapOf("LinkMap", "LinkOrRef"),
		MapOf("CallbackMap", "CallbackOrRef"),
		MapOf("WebhookMap", "PathItemOrRef"),
		MapOf("SchemaMap", "SchemaOrRef"),
		MapOf("SchemaOrRefMap", "SchemaOrRef"),
		MapOf("ResponseOrRefMap", "ResponseOrRef"),
		MapOf("ParameterOrRefMap", "ParameterOrRef"),
		MapOf("ExampleOrRefMap", "ExampleOrRef"),
		MapOf("RequestBodyOrRefMap", "RequestBodyOrRef"),
		MapOf("HeaderOrRefMap", "HeaderOrRef"),
		MapOf("SecuritySchemeOrRefMap", "SecuritySchemeOrRef"),
		MapOf("LinkOrRefMap", "LinkOrRef"),
		MapOf("CallbackOrRefMap", "CallbackOrRef"),
		MapOf("PathItemOrRefMap", "PathItemOrRef"),
	)

	serverVariable := Object("ServerVariable").
		WithField("enum", "StringList", false).
		WithField("default", "String", true).
		WithField("description", "String", false).
		WithExtensions()
	r.register(serverVariable)

	paths := Object("Paths").WithExtensions().WithAdditionalProperties("PathItem")
	r.register(paths)
}
