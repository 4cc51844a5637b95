// Package actionlog provides the asynchronous audit log pipeline.
package actionlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/variables-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/domain/models"
	"github.com/unifiedui/variables-service/internal/pkg/requestctx"
)

const (
	// DefaultQueueSize is used when Config.QueueSize is not positive.
	DefaultQueueSize = 1000

	persistTimeout = 30 * time.Second
)

// Service accepts audit entries and answers queries over persisted ones.
type Service interface {
	// LogAction stamps the acting user and request id onto a copy of action
	// and enqueues it without blocking. It returns false when the queue is full
	// and the entry was dropped.
	LogAction(ctx context.Context, action *models.ActionLog) bool

	// Search returns entries in [OffsetTime-Range, OffsetTime], newest first,
	// and the number of matching entries older than that window.
	Search(ctx context.Context, criteria models.ActionLogSearchCriteria) (*models.ActionLogSearchResult, error)

	// DeleteOlderThan removes entries older than age and returns how many.
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Config holds the configuration for the audit pipeline.
type Config struct {
	Collection docdb.ActionLogsCollection
	QueueSize  int
	Metrics    *Metrics
	// Logger receives the audit trace lines. Defaults to the global logger.
	Logger *zerolog.Logger
}

// Pipeline implements Service with a bounded queue drained by one writer.
type Pipeline struct {
	collection docdb.ActionLogsCollection
	metrics    *Metrics
	logger     zerolog.Logger
	queue      chan models.ActionLog

	mu      sync.Mutex
	started bool
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewPipeline creates a pipeline. Call Start to run the writer.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Collection == nil {
		return nil, fmt.Errorf("action logs collection is required")
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Pipeline{
		collection: cfg.Collection,
		metrics:    cfg.Metrics,
		logger:     logger,
		queue:      make(chan models.ActionLog, size),
		stop:       make(chan struct{}),
	}, nil
}

// Start launches the writer goroutine. Calling it again is a no-op.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	p.wg.Add(1)
	go p.run()
}

// Stop ends the writer after it has persisted everything still queued.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
}

// QueueLen returns the number of entries waiting for the writer.
func (p *Pipeline) QueueLen() int {
	return len(p.queue)
}

// LogAction stamps and enqueues an entry without blocking.
func (p *Pipeline) LogAction(ctx context.Context, action *models.ActionLog) bool {
	if action == nil {
		return false
	}

	record := *action
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.ActionTime.IsZero() {
		record.ActionTime = time.Now().UTC()
	}
	if user := requestctx.User(ctx); user != (models.User{}) {
		record.User = user
	}
	if id := requestctx.RequestID(ctx); id != "" {
		record.RequestID = id
	}

	redacted := record.Redacted()
	p.trace(redacted)

	select {
	case p.queue <- redacted:
		p.metrics.recordEnqueued()
		return true
	default:
		p.metrics.recordDropped()
		p.logger.Error().
			Str("operation", string(redacted.Operation)).
			Str("entityType", string(redacted.EntityType)).
			Str("entityName", redacted.EntityName).
			Msg("action log queue is full, entry dropped")
		return false
	}
}

// trace writes the human-readable audit line for an already redacted entry.
func (p *Pipeline) trace(a models.ActionLog) {
	msg := fmt.Sprintf("Action %s for %s", orDash(string(a.Operation)), orDash(string(a.EntityType)))
	if a.EntityName != "" {
		msg += " with name " + a.EntityName
	}
	if a.ParentType != "" {
		msg += " under parent entity " + string(a.ParentType)
		if a.ParentName != "" {
			msg += " with name " + a.ParentName
		}
	}
	if a.User.Username != "" {
		msg += " performed by user " + a.User.Username
	}
	if a.User.ID != "" {
		msg += " with id: " + a.User.ID
	}

	p.logger.Info().
		Str("logType", "audit").
		Str("requestId", a.RequestID).
		Msg(msg)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// run blocks for one entry, drains whatever else is queued and persists the
// batch in one call.
func (p *Pipeline) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			if batch := p.drain(nil); len(batch) > 0 {
				p.persist(batch)
			}
			return
		case first := <-p.queue:
			p.persist(p.drain([]models.ActionLog{first}))
		}
	}
}

func (p *Pipeline) drain(batch []models.ActionLog) []models.ActionLog {
	for {
		select {
		case record := <-p.queue:
			batch = append(batch, record)
		default:
			return batch
		}
	}
}

// persist saves a batch. Failures are logged and the batch is discarded.
func (p *Pipeline) persist(batch []models.ActionLog) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := p.collection.SaveBatch(ctx, batch)
	p.metrics.recordBatch(len(batch), err)
	if err != nil {
		p.logger.Error().Err(err).Int("count", len(batch)).Msg("failed to save action logs")
		return
	}
	p.logger.Debug().Int("count", len(batch)).Msg("action logs saved")
}

// Search returns one window of entries and the count of older matches.
func (p *Pipeline) Search(ctx context.Context, criteria models.ActionLogSearchCriteria) (*models.ActionLogSearchResult, error) {
	if criteria.Range <= 0 {
		return nil, domainerrors.NewValidationError("range time must be positive", criteria.Range.String())
	}
	offset := criteria.OffsetTime
	if offset.IsZero() {
		offset = time.Now().UTC()
	}
	from := offset.Add(-criteria.Range)

	logs, err := p.collection.Find(ctx, &docdb.FindActionLogsOptions{
		From:    from,
		To:      offset,
		Filters: criteria.Filters,
	})
	if errors.Is(err, docdb.ErrUnknownFilterColumn) {
		p.logger.Debug().Err(err).Msg("action log search ignored")
		return &models.ActionLogSearchResult{ActionLogs: []models.ActionLog{}}, nil
	}
	if err != nil {
		return nil, domainerrors.NewInternalError("failed to search action logs", err)
	}

	older, err := p.collection.CountOlderThan(ctx, from, criteria.Filters)
	if err != nil {
		return nil, domainerrors.NewInternalError("failed to count action logs", err)
	}

	if logs == nil {
		logs = []models.ActionLog{}
	}
	return &models.ActionLogSearchResult{RecordsAfterRange: older, ActionLogs: logs}, nil
}

// DeleteOlderThan removes entries older than age.
func (p *Pipeline) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	if age <= 0 {
		return 0, domainerrors.NewValidationError("retention must be positive", age.String())
	}

	deleted, err := p.collection.DeleteOlderThan(ctx, time.Now().UTC().Add(-age))
	if err != nil {
		return 0, domainerrors.NewInternalError("failed to delete old action logs", err)
	}
	p.metrics.recordDeleted(deleted)
	return deleted, nil
}

var _ Service = (*Pipeline)(nil)
