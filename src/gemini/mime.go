package gemini

import (
	"mime"
	"path/filepath"
	"strings"
)

var mimeExtMap = map[string]string{
	".pdf":  "application/pdf",
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

var mimeAliasMap = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/x-png": "image/png",
}

// normalizeMIME fixes messy or aliased MIME strings and falls back to the
// file extension before an upload.
func normalizeMIME(name, m string) string {
	raw := strings.ToLower(strings.TrimSpace(m))
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	if alias, ok := mimeAliasMap[raw]; ok {
		return alias
	}
	if raw != "" && strings.Contains(raw, "/") && !strings.HasSuffix(raw, "/") {
		return raw
	}

	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := mimeExtMap[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		return mt
	}
	return "application/octet-stream"
}
