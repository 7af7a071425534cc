package gemini

import "strings"

// Mode is the document-ingestion strategy, decided once at startup.
type Mode int

const (
	// ModeFileHandle uploads documents to the file service and references
	// the returned handle. Available on the Developer API backend.
	ModeFileHandle Mode = iota
	// ModeInlinePayload embeds document bytes directly in the request.
	// Used on Vertex-style backends, which are stricter about persistent
	// uploads.
	ModeInlinePayload
)

func (m Mode) String() string {
	switch m {
	case ModeFileHandle:
		return "file-handle"
	case ModeInlinePayload:
		return "inline-payload"
	default:
		return "unknown"
	}
}

// DetectMode picks the ingestion strategy from configuration alone: a
// cloud project identifier means a Vertex backend, so inline payloads;
// otherwise the Developer API's upload handles. Pure, no I/O.
func DetectMode(projectID string) Mode {
	if strings.TrimSpace(projectID) != "" {
		return ModeInlinePayload
	}
	return ModeFileHandle
}
