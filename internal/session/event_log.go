package session

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	eventBufferSize    = 1024                   // Circular buffer size
	maxEventsPerSec    = 10000                  // Global rate limit
	maxEventsPerConn   = 100                    // Per-connection rate limit per second
	batchFlushSize     = 64                     // Events per batch write
	batchFlushInterval = 100 * time.Millisecond // How often to flush
	connLimiterCleanup = 5 * time.Minute        // Cleanup interval for stale limiters
)

// LogEventType classifies session log events.
type LogEventType uint8

const (
	LogUnknown LogEventType = iota
	LogPlayerJoin
	LogPlayerLeave
	LogChat
	LogScore
)

// String returns the human-readable event type.
func (t LogEventType) String() string {
	switch t {
	case LogPlayerJoin:
		return "player_join"
	case LogPlayerLeave:
		return "player_leave"
	case LogChat:
		return "chat"
	case LogScore:
		return "score"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the type as its name so the JSONL log stays greppable.
func (t LogEventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// LogEvent is one record in the session log.
type LogEvent struct {
	Type      LogEventType    `json:"type"`
	Timestamp int64           `json:"timestamp"` // unix nano
	Sequence  uint64          `json:"sequence"`  // monotonic
	ConnID    string          `json:"connId"`
	Payload   json.RawMessage `json:"payload"`
}

// Typed log payloads.

type joinLogPayload struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

type leaveLogPayload struct {
	Name string `json:"name"`
}

type chatLogPayload struct {
	Name   string `json:"name"`
	Length int    `json:"length"` // message text is not persisted
}

type scoreLogPayload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Time  int    `json:"time"`
}

// EventLog is a bounded, rate-limited JSONL log of session events. Emissions
// never block the session loop: over the rate limit or with a full buffer,
// events are dropped and counted.
type EventLog struct {
	// Circular buffer, single producer (the hub loop), single consumer
	buffer    [eventBufferSize]LogEvent
	writeHead uint64 // atomic
	readHead  uint64 // atomic

	globalLimiter *rate.Limiter
	connLimiters  sync.Map // map[string]*connLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

type connLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewEventLog creates a new bounded event log.
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(maxEventsPerSec, maxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start opens the log file and begins the async writer.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrap(err, "open event log")
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop flushes and shuts down the writer.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event, subject to rate limits. Returns false when the event
// was dropped.
func (el *EventLog) Emit(event LogEvent) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	// Per-connection limit keeps one chatty client from flooding the log.
	if event.ConnID != "" {
		limiter := el.getConnLimiter(event.ConnID)
		if !limiter.Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	slot := atomic.AddUint64(&el.writeHead, 1) - 1
	tail := atomic.LoadUint64(&el.readHead)

	if slot-tail >= eventBufferSize {
		// Buffer full: drop the oldest, keep the window rolling.
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = slot
	el.buffer[slot%eventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and emits an event with the current timestamp.
func (el *EventLog) EmitSimple(t LogEventType, connID string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return el.Emit(LogEvent{
		Type:      t,
		Timestamp: time.Now().UnixNano(),
		ConnID:    connID,
		Payload:   data,
	})
}

func (el *EventLog) getConnLimiter(connID string) *rate.Limiter {
	if entry, ok := el.connLimiters.Load(connID); ok {
		e := entry.(*connLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}

	entry := &connLimiterEntry{
		limiter:  rate.NewLimiter(maxEventsPerConn, maxEventsPerConn/10),
		lastUsed: time.Now(),
	}
	actual, _ := el.connLimiters.LoadOrStore(connID, entry)
	return actual.(*connLimiterEntry).limiter
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(batchFlushInterval)
	defer ticker.Stop()

	batch := make([]LogEvent, 0, batchFlushSize)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(connLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-connLimiterCleanup)
			el.connLimiters.Range(func(key, value any) bool {
				if value.(*connLimiterEntry).lastUsed.Before(cutoff) {
					el.connLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (el *EventLog) collectBatch(batch []LogEvent) []LogEvent {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < batchFlushSize; i++ {
		batch = append(batch, el.buffer[i%eventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flushBatch appends newline-delimited JSON records.
func (el *EventLog) flushBatch(batch []LogEvent) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// DroppedCount returns the number of dropped events.
func (el *EventLog) DroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// TotalCount returns the number of accepted events.
func (el *EventLog) TotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
