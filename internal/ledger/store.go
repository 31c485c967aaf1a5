package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gofrs/flock"

	"scribe/internal/fileutil"
	"scribe/internal/segment"
)

// ErrSessionLocked indicates another scribe process owns the qc directory.
var ErrSessionLocked = errors.New("qc directory is locked by another scribe session")

const (
	ledgerFileName = "qc.csv"
	lockFileName   = "scribe.lock"
)

// header is the stable ledger column set. Column names match the upstream
// transcriber's field names so the file stays readable by external tooling.
var header = []string{"id", "name", "uid", "start", "end", "text", "avg_logprob", "label"}

// Store manages ledger persistence for a qc directory.
type Store struct {
	dir  string
	path string
	lock *flock.Flock
}

// Open prepares a ledger store over the given qc directory, creating the
// directory if needed. No lock is taken; callers that mutate state must
// call Lock first.
func Open(qcDir string) (*Store, error) {
	if err := os.MkdirAll(qcDir, 0o755); err != nil {
		return nil, fmt.Errorf("create qc directory: %w", err)
	}
	return &Store{
		dir:  qcDir,
		path: filepath.Join(qcDir, ledgerFileName),
		lock: flock.New(filepath.Join(qcDir, lockFileName)),
	}, nil
}

// Dir returns the qc directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Lock acquires exclusive ownership of the qc directory. Returns
// ErrSessionLocked when another process already holds it.
func (s *Store) Lock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return ErrSessionLocked
	}
	return nil
}

// Unlock releases the session lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// Load reads the persisted ledger. A missing ledger file yields an empty
// ledger, never an error; a present but malformed file is an error, since
// the file is written only by this tool.
func (s *Store) Load() ([]segment.Segment, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	for i, name := range header {
		if head[i] != name {
			return nil, fmt.Errorf("ledger header mismatch: column %d is %q, want %q", i, head[i], name)
		}
	}

	var rows []segment.Segment
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}
		seg, err := decodeRow(record)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		rows = append(rows, seg)
	}
	return rows, nil
}

// Save sorts the ledger by (sequence id, recording id) ascending and writes
// it atomically, replacing any previous version.
func (s *Store) Save(rows []segment.Segment) error {
	sorted := make([]segment.Segment, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SequenceID != sorted[j].SequenceID {
			return sorted[i].SequenceID < sorted[j].SequenceID
		}
		return sorted[i].RecordingID < sorted[j].RecordingID
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("encode ledger header: %w", err)
	}
	for _, seg := range sorted {
		if err := writer.Write(encodeRow(seg)); err != nil {
			return fmt.Errorf("encode ledger row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := fileutil.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// MergeInsert returns a ledger containing all rows of existing plus the
// rows of incoming whose (recording, sequence) key is not already present.
// First-seen wins, so labels on existing rows always survive a re-import.
func MergeInsert(existing, incoming []segment.Segment) []segment.Segment {
	merged := make([]segment.Segment, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[segment.Key]struct{}, len(existing))
	for _, seg := range existing {
		seen[seg.Key()] = struct{}{}
	}
	for _, seg := range incoming {
		if _, ok := seen[seg.Key()]; ok {
			continue
		}
		seen[seg.Key()] = struct{}{}
		merged = append(merged, seg)
	}
	return merged
}

// Recordings returns the set of recording ids present in the ledger.
func Recordings(rows []segment.Segment) map[string]struct{} {
	out := make(map[string]struct{}, len(rows))
	for _, seg := range rows {
		out[seg.RecordingID] = struct{}{}
	}
	return out
}

func encodeRow(seg segment.Segment) []string {
	return []string{
		strconv.Itoa(seg.SequenceID),
		seg.RecordingID,
		seg.UID,
		formatSeconds(seg.Start),
		formatSeconds(seg.End),
		seg.Text,
		strconv.FormatFloat(seg.Confidence, 'g', -1, 64),
		seg.Label,
	}
}

func decodeRow(record []string) (segment.Segment, error) {
	seq, err := strconv.Atoi(record[0])
	if err != nil {
		return segment.Segment{}, fmt.Errorf("parse sequence id %q: %w", record[0], err)
	}
	start, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("parse start %q: %w", record[3], err)
	}
	end, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("parse end %q: %w", record[4], err)
	}
	confidence, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("parse confidence %q: %w", record[6], err)
	}
	return segment.Segment{
		SequenceID:  seq,
		RecordingID: record[1],
		UID:         record[2],
		Start:       start,
		End:         end,
		Text:        record[5],
		Confidence:  confidence,
		Label:       record[7],
	}, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
