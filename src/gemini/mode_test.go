package gemini

import "testing"

func TestDetectModeIsDeterministic(t *testing.T) {
	cases := []struct {
		projectID string
		want      Mode
	}{
		{"", ModeFileHandle},
		{"   ", ModeFileHandle},
		{"my-project-123", ModeInlinePayload},
	}
	for _, tc := range cases {
		for i := 0; i < 3; i++ {
			if got := DetectMode(tc.projectID); got != tc.want {
				t.Fatalf("DetectMode(%q) = %v, want %v", tc.projectID, got, tc.want)
			}
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeFileHandle.String() != "file-handle" || ModeInlinePayload.String() != "inline-payload" {
		t.Fatalf("unexpected mode names: %v %v", ModeFileHandle, ModeInlinePayload)
	}
}

func TestNormalizeMIME(t *testing.T) {
	cases := []struct {
		name, mime, want string
	}{
		{"doc.pdf", "application/pdf", "application/pdf"},
		{"doc.pdf", "", "application/pdf"},
		{"list.csv", "text/csv; charset=utf-8", "text/csv"},
		{"photo.jpg", "image/jpg", "image/jpeg"},
		{"mystery.bin", "", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := normalizeMIME(tc.name, tc.mime); got != tc.want {
			t.Fatalf("normalizeMIME(%q, %q) = %q, want %q", tc.name, tc.mime, got, tc.want)
		}
	}
}
