package analytics

import (
	"ChannelTrack-Backend/internal/events"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotStarted   = errors.New("dispatcher not started")
	ErrQueueFull    = errors.New("event queue is full")
	ErrShuttingDown = errors.New("dispatcher is shutting down")
)

// Sink доставляет событие во внешнюю систему (Kafka)
type Sink interface {
	Send(ctx context.Context, event events.Event) error
}

// DispatcherConfig holds configuration for the event dispatcher
type DispatcherConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the event queue buffer
	RetryAttempts   int           // Number of delivery attempts per event
	RetryDelay      time.Duration // Base delay between retries
	SendTimeout     time.Duration // Timeout of a single delivery attempt
	ShutdownTimeout time.Duration // Time to wait for the queue to drain on Stop
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      100 * time.Millisecond,
		SendTimeout:     10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Dispatcher асинхронно доставляет события трекинга в Sink.
// Доставка at-most-once: при переполнении очереди события отбрасываются.
type Dispatcher struct {
	config DispatcherConfig
	sink   Sink
	log    *zap.Logger

	queue   chan events.Event
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex

	delivered uint64
	dropped   uint64
	failed    uint64
	statsMu   sync.Mutex
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(sink Sink, log *zap.Logger, config DispatcherConfig) *Dispatcher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = DefaultConfig().SendTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		config: config,
		sink:   sink,
		log:    log,
		queue:  make(chan events.Event, config.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins delivering events
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("dispatcher already started")
	}

	d.log.Info("starting event dispatcher",
		zap.Int("workers", d.config.WorkerCount),
		zap.Int("buffer_size", d.config.BufferSize),
		zap.Int("retry_attempts", d.config.RetryAttempts),
	)

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.started = true
	return nil
}

// Stop закрывает очередь и ждет, пока воркеры доставят накопленные события.
// По истечении ShutdownTimeout оставшиеся события отбрасываются.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return ErrNotStarted
	}

	d.log.Info("stopping event dispatcher", zap.Int("pending", len(d.queue)))

	close(d.queue)
	d.started = false

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.log.Info("event dispatcher stopped gracefully")
		return nil
	case <-time.After(d.config.ShutdownTimeout):
		d.cancel()
		<-done
		d.log.Warn("event dispatcher shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}
}

// Submit ставит событие в очередь, не блокируясь
func (d *Dispatcher) Submit(event events.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.started {
		return ErrNotStarted
	}

	select {
	case d.queue <- event:
		return nil
	case <-d.ctx.Done():
		return ErrShuttingDown
	default:
		d.count(&d.dropped)
		d.log.Error("event queue is full, dropping event",
			zap.String("type", event.Type),
			zap.Int("queue_size", len(d.queue)),
		)
		return ErrQueueFull
	}
}

// Publish реализует events.Publisher: ошибки постановки в очередь только логируются
func (d *Dispatcher) Publish(_ context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := d.Submit(event); err != nil && !errors.Is(err, ErrQueueFull) {
		d.log.Warn("event not published", zap.String("type", event.Type), zap.Error(err))
	}
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	log := d.log.With(zap.Int("worker_id", workerID))
	log.Debug("event worker started")

	for event := range d.queue {
		d.sendWithRetry(log, event)
	}

	log.Debug("event worker stopped")
}

// sendWithRetry доставляет событие с экспоненциальной задержкой между попытками
func (d *Dispatcher) sendWithRetry(log *zap.Logger, event events.Event) {
	var lastErr error

	for attempt := 1; attempt <= d.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.config.SendTimeout)
		err := d.sink.Send(ctx, event)
		cancel()

		if err == nil {
			d.count(&d.delivered)
			if attempt > 1 {
				log.Info("event delivered after retry",
					zap.String("type", event.Type),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		lastErr = err
		log.Warn("event delivery failed",
			zap.String("type", event.Type),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", d.config.RetryAttempts),
			zap.Error(err),
		)

		if attempt == d.config.RetryAttempts {
			break
		}

		delay := d.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-d.ctx.Done():
			d.count(&d.failed)
			log.Info("worker shutdown during retry delay", zap.String("type", event.Type))
			return
		}
	}

	d.count(&d.failed)
	log.Error("event delivery failed after all retries",
		zap.String("type", event.Type),
		zap.Int("attempts", d.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

func (d *Dispatcher) count(counter *uint64) {
	d.statsMu.Lock()
	*counter++
	d.statsMu.Unlock()
}

// Stats снимок состояния диспетчера
type Stats struct {
	Started       bool   `json:"started"`
	QueueLength   int    `json:"queue_length"`
	QueueCapacity int    `json:"queue_capacity"`
	WorkerCount   int    `json:"worker_count"`
	Delivered     uint64 `json:"delivered"`
	Dropped       uint64 `json:"dropped"`
	Failed        uint64 `json:"failed"`
}

// GetStats returns dispatcher statistics
func (d *Dispatcher) GetStats() Stats {
	d.mu.RLock()
	started := d.started
	d.mu.RUnlock()

	d.statsMu.Lock()
	defer d.statsMu.Unlock()

	return Stats{
		Started:       started,
		QueueLength:   len(d.queue),
		QueueCapacity: cap(d.queue),
		WorkerCount:   d.config.WorkerCount,
		Delivered:     d.delivered,
		Dropped:       d.dropped,
		Failed:        d.failed,
	}
}
