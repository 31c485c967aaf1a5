package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TranscribedDir = filepath.Join(base, "transcribed")
	cfgVal.Paths.QCDir = filepath.Join(base, "qc")
	cfgVal.Paths.QueueDir = filepath.Join(base, "queue")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	for _, dir := range []string{cfgVal.Paths.TranscribedDir, cfgVal.Paths.QCDir, cfgVal.Paths.QueueDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithClipFormat overrides the clip format on the test config.
func WithClipFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.ClipFormat = format
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed. The ffmpeg stub creates its output file (the final
// argument) so clip extraction appears to succeed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "ffplay"}
		}
		for _, name := range names {
			script := "#!/bin/sh\nexit 0\n"
			if name == "ffmpeg" {
				// Touch the destination path so callers see a clip appear.
				script = "#!/bin/sh\nfor last; do :; done\n: > \"$last\"\nexit 0\n"
			}
			StubBinary(b.t, b.baseDir, name, script)
		}
	}
}

// WithStubScript installs a stub executable with custom script content.
func WithStubScript(name, script string) ConfigOption {
	return func(b *configBuilder) {
		StubBinary(b.t, b.baseDir, name, script)
	}
}

// StubBinary writes an executable shell script under baseDir/bin and
// prepends that directory to PATH for the remainder of the test.
func StubBinary(t testing.TB, baseDir, name, script string) {
	t.Helper()

	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TranscribedDir)
}
