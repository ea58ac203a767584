package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"
)

/*
EXCHANGE LOG DESIGN

append only file logging.
 One JSON line per completed exchange
 Easy to tail, easy to reason about failure modes

hash chaining.
 Detects deletion, modification, or reordering

fail open.
 Logging failure must never block request handling
*/

type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Upstream   string    `json:"upstream,omitempty"`
	Status     int       `json:"status"`
	Outcome    string    `json:"outcome"`
	DurationMS int64     `json:"duration_ms"`
	PrevHash   string    `json:"prev_hash"`
	Hash       string    `json:"hash"`
}

type Logger struct {
	mu       sync.Mutex
	file     *os.File
	lastHash string
}

// NewLogger opens (or creates) an append only exchange log file.
// When the file already holds entries the chain continues from the last one.
func NewLogger(path string) (*Logger, error) {
	last, err := ReadLastEntries(path, 1)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(
		path,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, err
	}

	l := &Logger{file: f}
	if len(last) == 1 {
		l.lastHash = last[0].Hash
	}
	return l, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

// Record appends e. Timestamp, PrevHash and Hash are filled in here.
func (l *Logger) Record(e Entry) {
	// Fail open never panic outward
	defer func() {
		_ = recover()
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	e.Timestamp = time.Now().UTC()
	e.PrevHash = l.lastHash
	e.Hash = computeHash(e)

	data, err := json.Marshal(e)
	if err != nil {
		return
	}

	_, err = l.file.Write(append(data, '\n'))
	if err != nil {
		return
	}

	l.lastHash = e.Hash
}

/*
hashing
*/

func computeHash(e Entry) string {
	h := sha256.New()

	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.RequestID))
	h.Write([]byte(e.Route))
	h.Write([]byte(e.Method))
	h.Write([]byte(e.Path))
	h.Write([]byte(e.Upstream))
	h.Write([]byte(strconv.Itoa(e.Status)))
	h.Write([]byte(e.Outcome))
	h.Write([]byte(strconv.FormatInt(e.DurationMS, 10)))
	h.Write([]byte(e.PrevHash))

	return hex.EncodeToString(h.Sum(nil))
}
