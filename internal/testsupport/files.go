package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// SegmentFixture is one entry of a recording's segment-list file.
type SegmentFixture struct {
	ID         int     `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogprob float64 `json:"avg_logprob"`
}

// WriteRecording creates a recording folder under root with an audio file
// (named after the folder with the given extension) and a result.json
// holding the provided segments. Returns the folder path.
func WriteRecording(t testing.TB, root, name, audioExt string, segments []SegmentFixture) string {
	t.Helper()

	folder := filepath.Join(root, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir recording folder: %v", err)
	}

	if audioExt != "" {
		audio := filepath.Join(folder, name+"."+audioExt)
		if err := os.WriteFile(audio, []byte("fake audio"), 0o644); err != nil {
			t.Fatalf("write audio file: %v", err)
		}
	}

	payload := map[string]any{"segments": segments}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		t.Fatalf("marshal segments: %v", err)
	}
	if err := os.WriteFile(filepath.Join(folder, "result.json"), data, 0o644); err != nil {
		t.Fatalf("write result.json: %v", err)
	}
	return folder
}

// WriteFile creates path (and parent directories) with the given content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
