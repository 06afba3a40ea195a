package rule

// Built-in rule ids. Grouped below into the preset bundles spec.md §4.G
// names (minimal/recommended/recommended-strict); "all" needs no list of
// its own since the registry synthesises it from every registered id.
const (
	IDSpec                 = "spec"
	IDOperationOperationID = "operation-operationid"
	IDOperationSummary     = "operation-summary"
	IDOperation2xxResponse = "operation-2xx-response"
	IDOperation4xxResponse = "operation-4xx-response"
	IDInfoContact          = "info-contact"
	IDInfoLicense          = "info-license"
	IDInfoDescription      = "info-description"
	IDTagDescription       = "tag-description"
)

// PresetMinimal is the smallest preset: structural validity only.
var PresetMinimal = []string{
	IDSpec,
}

// PresetRecommended adds the style checks most API style guides start
// from, still permissive enough to pass a document no one has tuned yet.
var PresetRecommended = []string{
	IDSpec,
	IDOperationOperationID,
	IDOperation2xxResponse,
	IDInfoContact,
	IDTagDescription,
}

// PresetRecommendedStrict is recommended plus the checks teams usually
// turn on once a style guide has matured past the defaults.
var PresetRecommendedStrict = []string{
	IDSpec,
	IDOperationOperationID,
	IDOperation2xxResponse,
	IDInfoContact,
	IDTagDescription,
	IDOperationSummary,
	IDOperation4xxResponse,
	IDInfoLicense,
	IDInfoDescription,
}
