package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecorderConfig contains configuration for the async recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the write queue.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds a single store write and the wait for queue space.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes records to a Store in the background so callers never
// wait on the database.
type Recorder struct {
	store   Store
	config  *RecorderConfig
	records chan *Record
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewRecorder starts a recorder writing to store.
func NewRecorder(store Store, cfg *RecorderConfig) *Recorder {
	if cfg == nil {
		cfg = DefaultRecorderConfig()
	}
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = 1000
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:   store,
		config:  cfg,
		records: make(chan *Record, cfg.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record enqueues record for writing. It returns an error only if the
// queue stays full for WriteTimeout or the recorder is closed.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	select {
	case <-r.done:
		return NewStorageError("recorder", "enqueue", ErrClosed)
	default:
	}

	select {
	case r.records <- record:
		return nil
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("history queue full, dropping record",
			"record_id", record.ID,
			"capacity", r.config.AsyncBuffer,
		)
		return NewStorageError("recorder", "enqueue", context.DeadlineExceeded)
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return NewStorageError("recorder", "enqueue", ErrClosed)
	}
}

// Close drains the queue and waits for pending writes.
func (r *Recorder) Close() error {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.write(record)
		case <-r.done:
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.store.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}
	r.logger.Debug("history recorded",
		"record_id", record.ID,
		"operation", record.Operation,
	)
}
