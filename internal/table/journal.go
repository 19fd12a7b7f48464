package table

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

func init() {
	gob.Register(&Card{})
	gob.Register(&Deck{})
	gob.Register(&Token{})
	gob.Register(&Board{})
	gob.Register(&Dice{})
	gob.Register(&Counter{})
	gob.Register(&Panel{})
	gob.Register(&Window{})
}

// Record is one applied action with its sequence number and the time
// it was appended.
type Record struct {
	Seq    uint64
	At     time.Time
	Action Action
}

// defaultJournalCap bounds how many records a journal retains.
const defaultJournalCap = 10000

// Journal is an append-only log of the actions applied to one table.
// Replaying the records through the reducer from the same initial
// state reconstructs the exact final state, which is what makes the
// log useful for session recovery and bug reports.
type Journal struct {
	mu      sync.Mutex
	records []Record
	next    uint64
	cap     int
}

// NewJournal creates a journal retaining at most capacity records;
// zero or negative capacity selects the default.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = defaultJournalCap
	}
	return &Journal{cap: capacity}
}

// Append records an applied action and returns its journal entry.
func (j *Journal) Append(a Action) Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec := Record{Seq: j.next, At: time.Now(), Action: a}
	j.next++
	j.records = append(j.records, rec)
	if len(j.records) > j.cap {
		j.records = j.records[len(j.records)-j.cap:]
	}
	return rec
}

// Records returns a copy of the retained records.
func (j *Journal) Records() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Record(nil), j.records...)
}

// Len returns the number of retained records.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}

// SaveToFile writes the retained records as a gzip-compressed gob
// stream.
func (j *Journal) SaveToFile(path string) error {
	records := j.Records()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create journal file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := gob.NewEncoder(gz).Encode(records); err != nil {
		gz.Close()
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// LoadJournalFromFile reads records written by SaveToFile.
func LoadJournalFromFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read journal file: %w", err)
	}
	defer gz.Close()

	var records []Record
	if err := gob.NewDecoder(gz).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode journal: %w", err)
	}
	return records, nil
}

// ReplayRecords applies the recorded actions onto the given state in
// order and returns the result.
func ReplayRecords(initial *Store, records []Record) *Store {
	s := initial
	for _, rec := range records {
		s = Apply(s, rec.Action)
	}
	return s
}

// Recorder keeps one journal per table and can persist them to a save
// directory. A disabled recorder ignores every call.
type Recorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	entries map[string]*Journal
	enabled bool
	saveDir string
}

// NewRecorder creates a recorder writing journals under saveDir.
func NewRecorder(logger *zap.Logger, enabled bool, saveDir string) *Recorder {
	return &Recorder{
		logger:  logger,
		entries: make(map[string]*Journal),
		enabled: enabled,
		saveDir: saveDir,
	}
}

// Record appends an action to the table's journal.
func (r *Recorder) Record(tableID string, a Action) {
	if r == nil || !r.enabled {
		return
	}
	r.mu.Lock()
	j, ok := r.entries[tableID]
	if !ok {
		j = NewJournal(0)
		r.entries[tableID] = j
	}
	r.mu.Unlock()
	j.Append(a)
}

// Journal returns the table's journal, or nil if nothing was recorded.
func (r *Recorder) Journal(tableID string) *Journal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[tableID]
}

// Save persists the table's journal and returns the file path.
func (r *Recorder) Save(tableID string) (string, error) {
	if r == nil || !r.enabled {
		return "", fmt.Errorf("recorder disabled")
	}
	j := r.Journal(tableID)
	if j == nil {
		return "", fmt.Errorf("no journal for table %s", tableID)
	}
	if err := os.MkdirAll(r.saveDir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(r.saveDir, fmt.Sprintf("journal-%s-%d.gob.gz", tableID, time.Now().Unix()))
	if err := j.SaveToFile(path); err != nil {
		return "", err
	}
	if r.logger != nil {
		r.logger.Info("saved table journal",
			zap.String("table_id", tableID),
			zap.String("path", path),
			zap.Int("records", j.Len()),
		)
	}
	return path, nil
}

// Drop discards the table's journal.
func (r *Recorder) Drop(tableID string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.entries, tableID)
	r.mu.Unlock()
}
