package model

// Examples packs understood by the extraction service
const (
	ExamplesMedical = "medical"
	ExamplesLegal   = "legal"
)

// ExtractRequest is the body POSTed to the extraction service
type ExtractRequest struct {
	Text         string `json:"text"`
	ExamplesType string `json:"examples_type,omitempty"`
	ModelID      string `json:"model_id,omitempty"`
}

// ExtractResponse is the decoded service reply.
// Error is set instead of Result when the service reports a failure.
type ExtractResponse struct {
	Result           ExtractResult `json:"result"`
	ExtractionsCount int           `json:"extractions_count"`
	ExamplesType     string        `json:"examples_type,omitempty"`
	ModelUsed        string        `json:"model_used,omitempty"`
	Message          string        `json:"message,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// ExtractResult wraps the extraction list
type ExtractResult struct {
	Extractions []ExtractionRecord `json:"extractions"`
}

// DeriveExamplesType maps the two UI toggles to an examples pack.
// The second toggle wins; the first toggle or neither selects medical.
func DeriveExamplesType(first, second bool) string {
	if second {
		return ExamplesLegal
	}
	return ExamplesMedical
}

// SampleReport is a short adverse event report for trying the tool out
const SampleReport = `REPORT TYPE: Adverse Event
PATIENT: 54-year-old female
DRUG: Drug LMN
EVENT: Severe rash and pruritus after 3 days of therapy.
ACTIONS: Drug discontinued, antihistamines administered.
OUTCOME: Rash resolved within 5 days.
CONCLUSIONS:
Likely drug-induced hypersensitivity reaction.`
