package review

import (
	"context"
	"fmt"
	"strings"
)

// DocumentAsset is an in-memory document headed for the model.
// Name is used for display and report titles; MIME should be best-effort.
type DocumentAsset struct {
	Name string
	MIME string
	Data []byte
}

// Size returns the payload size in bytes.
func (a DocumentAsset) Size() int { return len(a.Data) }

// Fragment is one size-bounded piece of a larger document. Fragments carry
// an ascending Index and are always submitted in that order.
type Fragment struct {
	Index int
	MIME  string
	Data  []byte
}

// HandleState tracks the lifecycle of an uploaded file resource.
type HandleState int

const (
	HandleUploaded HandleState = iota
	HandleReleased
)

// RemoteHandle references a file uploaded to the chat backend's file
// service. Handles must be released by the Reaper after the run.
type RemoteHandle struct {
	Name  string // backend resource name, e.g. "files/abc123"
	URI   string
	MIME  string
	State HandleState
}

// Part is one element of a multimodal message: exactly one of Text,
// Inline, or Handle is set.
type Part struct {
	Text   string
	Inline *Fragment
	Handle *RemoteHandle
}

// TextPart builds a plain text part.
func TextPart(s string) Part { return Part{Text: s} }

// PrimingPrompt is a single priming exchange: its text plus any document
// parts attached to it.
type PrimingPrompt struct {
	Text        string
	Attachments []Part
}

// KnowledgeBase is the immutable priming material for a run: the system
// instruction and the ordered priming sequence.
type KnowledgeBase struct {
	SystemInstruction string
	PrimingPrompts    []PrimingPrompt
}

// ParsedTable is the tabular block recovered from the model's response.
// Header is optional; every row has the same width as the first parsed row.
type ParsedTable struct {
	Header []string
	Rows   [][]string
}

// AllRows returns the header (when present) followed by the data rows, in
// write order.
func (t *ParsedTable) AllRows() [][]string {
	if len(t.Header) == 0 {
		return t.Rows
	}
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}

// Width returns the column count of the table.
func (t *ParsedTable) Width() int {
	if len(t.Header) > 0 {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// Anchor is a 1-based cell position inside a sheet.
type Anchor struct {
	Row int
	Col int
}

// ParseAnchor parses A1 notation ("B26") into an Anchor.
func ParseAnchor(cell string) (Anchor, error) {
	cell = strings.ToUpper(strings.TrimSpace(cell))
	i := 0
	col := 0
	for ; i < len(cell); i++ {
		ch := cell[i]
		if ch < 'A' || ch > 'Z' {
			break
		}
		col = col*26 + int(ch-'A'+1)
	}
	if i == 0 || i == len(cell) {
		return Anchor{}, fmt.Errorf("invalid cell reference %q", cell)
	}
	row := 0
	for ; i < len(cell); i++ {
		ch := cell[i]
		if ch < '0' || ch > '9' {
			return Anchor{}, fmt.Errorf("invalid cell reference %q", cell)
		}
		row = row*10 + int(ch-'0')
	}
	if row == 0 {
		return Anchor{}, fmt.Errorf("invalid cell reference %q", cell)
	}
	return Anchor{Row: row, Col: col}, nil
}

// A1 renders the anchor back into A1 notation.
func (a Anchor) A1() string {
	col := a.Col
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return fmt.Sprintf("%s%d", letters, a.Row)
}

// ChatSession is a stateful conversation with the reasoning model. Each
// Send appends to the conversational history.
type ChatSession interface {
	Send(ctx context.Context, parts ...Part) (string, error)
}

// ChatBackend is the reasoning-model collaborator: it creates sessions and
// manages uploaded file resources.
type ChatBackend interface {
	NewSession(ctx context.Context, systemInstruction string) (ChatSession, error)
	Upload(ctx context.Context, asset DocumentAsset) (*RemoteHandle, error)
	Release(ctx context.Context, handle *RemoteHandle) error
}

// DocumentSource is the document-storage collaborator.
type DocumentSource interface {
	// Export converts a native document to the requested format.
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
	// Download fetches raw file content.
	Download(ctx context.Context, fileID string) ([]byte, error)
	// FileName returns the document's display name.
	FileName(ctx context.Context, fileID string) (string, error)
}

// SpreadsheetBackend is the report-storage collaborator.
type SpreadsheetBackend interface {
	CopyTemplate(ctx context.Context, templateID, newTitle string) (string, error)
	Dimensions(ctx context.Context, sheetID, sheetName string) (rows, cols int, err error)
	WriteRange(ctx context.Context, sheetID, sheetName string, anchor Anchor, rows [][]string) error
}

// DocumentPreparer turns a DocumentAsset into message parts using the
// ingestion strategy selected at startup.
type DocumentPreparer interface {
	Prepare(ctx context.Context, asset DocumentAsset) ([]Part, error)
}

// Splitter divides an oversized asset into ordered fragments.
type Splitter interface {
	Split(asset DocumentAsset) ([]Fragment, error)
}

// KnowledgeLoader assembles the knowledge base for a run.
type KnowledgeLoader interface {
	Load(ctx context.Context) (*KnowledgeBase, error)
}
