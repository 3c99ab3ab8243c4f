// Package controller owns the state of a single knowledge query session:
// the query text, the one-time availability probe, and the outcome of each
// submission, answered either by a live knowledge source or by the local
// mock corpus.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kdduha/kolam-knowledge/internal/corpus"
	"github.com/kdduha/kolam-knowledge/internal/knowledge"
	"github.com/kdduha/kolam-knowledge/internal/metrics"
	"github.com/kdduha/kolam-knowledge/internal/models"
	"go.uber.org/zap"
)

type Options struct {
	// UseMockData answers every submission from the corpus and skips the
	// health probe.
	UseMockData bool
	// MockDelay emulates network latency on the mock path.
	MockDelay time.Duration
}

type Controller struct {
	logger *zap.Logger
	source knowledge.Source
	corpus *corpus.Corpus
	opts   Options

	mountOnce sync.Once

	mu           sync.Mutex
	query        string
	phase        Phase
	errMsg       string
	answer       *models.KnowledgeAnswer
	answerSeq    uint64
	imageFailed  bool
	availability Availability
	seq          uint64
}

// New builds a controller. source may be nil only when opts.UseMockData is set.
func New(logger *zap.Logger, source knowledge.Source, c *corpus.Corpus, opts Options) (*Controller, error) {
	if source == nil && !opts.UseMockData {
		return nil, errors.New("knowledge source is required unless mock data is used")
	}
	if c == nil {
		c = &corpus.Corpus{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger: logger,
		source: source,
		corpus: c,
		opts:   opts,
	}, nil
}

// Mount runs the availability probe. Only the first call does any work.
func (c *Controller) Mount(ctx context.Context) {
	c.mountOnce.Do(func() {
		a := c.probe(ctx)
		c.mu.Lock()
		c.availability = a
		c.mu.Unlock()
	})
}

func (c *Controller) probe(ctx context.Context) Availability {
	if c.opts.UseMockData {
		metrics.AvailabilityProbesTotal("mock")
		return Availability{State: Unavailable, Message: MsgMockConfigured}
	}

	health, err := c.source.Health(ctx)
	if err != nil {
		c.logger.Warn("API health check failed", zap.Error(err))
		metrics.AvailabilityProbesTotal("unavailable")
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		return Availability{State: Unavailable, Message: "API unavailable: " + msg}
	}

	status := "OK"
	if health != nil && health.Status != "" {
		status = health.Status
	}
	metrics.AvailabilityProbesTotal("available")
	return Availability{State: Available, Message: fmt.Sprintf("API available (%s)", status)}
}

func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// Submit resolves the current query. An empty or whitespace-only query is
// rejected with ErrEmptyQuery and leaves state untouched. The returned
// snapshot reflects state after this submission resolved; if a newer
// submission was issued meanwhile, its state wins.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	q := c.query
	if strings.TrimSpace(q) == "" {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrEmptyQuery
	}
	c.seq++
	seq := c.seq
	c.phase = PhaseSubmitting
	c.errMsg = ""
	c.answer = nil
	c.imageFailed = false
	c.mu.Unlock()

	var (
		start  = time.Now()
		source = metrics.SourceLive
		answer *models.KnowledgeAnswer
		errMsg string
	)
	if c.opts.UseMockData {
		source = metrics.SourceMock
		c.logger.Debug("using mock data for knowledge response", zap.Uint64("seq", seq))
		a := c.mockAnswer(ctx, q)
		answer = &a
	} else {
		c.logger.Debug("sending knowledge query", zap.Uint64("seq", seq), zap.String("query", q))
		answer, errMsg = c.fetch(ctx, q)
	}
	metrics.KnowledgeQueryDuration(source, time.Since(start))

	return c.resolve(seq, source, answer, errMsg), nil
}

// mockAnswer waits out the simulated delay and looks q up in the corpus.
// Cancellation only cuts the wait short; the lookup result still applies.
func (c *Controller) mockAnswer(ctx context.Context, q string) models.KnowledgeAnswer {
	if c.opts.MockDelay > 0 {
		timer := time.NewTimer(c.opts.MockDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	return c.corpus.Lookup(q)
}

func (c *Controller) fetch(ctx context.Context, q string) (*models.KnowledgeAnswer, string) {
	resp, err := c.source.Query(ctx, &models.KnowledgeRequest{Query: q, GenerateImage: true})
	if err != nil {
		c.logger.Warn("error fetching knowledge", zap.Error(err))
		return nil, Classify(err)
	}
	if resp == nil {
		c.logger.Warn("empty knowledge response")
		return nil, MsgInvalidFormat
	}

	explanation, ok := resp.Explanation.(string)
	if !ok {
		c.logger.Warn("invalid response format", zap.Any("explanation", resp.Explanation))
		return nil, MsgInvalidFormat
	}

	answer := &models.KnowledgeAnswer{Explanation: explanation}
	if resp.ImageBase64 != nil && *resp.ImageBase64 != "" {
		answer.ImageBase64 = *resp.ImageBase64
		c.logger.Debug("response includes image", zap.Int("length", len(answer.ImageBase64)))
	} else {
		c.logger.Debug("no image was generated in the response")
	}
	return answer, ""
}

func (c *Controller) resolve(seq uint64, source string, answer *models.KnowledgeAnswer, errMsg string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("discarding stale completion", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		metrics.KnowledgeQueriesTotal(source, metrics.OutcomeStale)
		return c.snapshotLocked()
	}

	if errMsg != "" {
		c.phase = PhaseFailed
		c.errMsg = errMsg
		metrics.KnowledgeQueriesTotal(source, metrics.OutcomeFailed)
	} else {
		c.phase = PhaseSucceeded
		c.answer = answer
		c.answerSeq = seq
		metrics.KnowledgeQueriesTotal(source, metrics.OutcomeSucceeded)
	}
	c.imageFailed = false
	return c.snapshotLocked()
}

// ReportImageError marks the image of the answer produced by seq as
// undisplayable. It reports false when seq no longer names the current answer
// or the answer has no image.
func (c *Controller) ReportImageError(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.answer == nil || c.answerSeq != seq || !c.answer.HasImage() {
		return false
	}
	if !c.imageFailed {
		c.logger.Warn("failed to load image from base64 data", zap.Uint64("seq", seq))
	}
	c.imageFailed = true
	return true
}

func (c *Controller) Availability() Availability {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availability
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Query:        c.query,
		Phase:        c.phase,
		Error:        c.errMsg,
		ImageFailed:  c.imageFailed,
		Availability: c.availability,
		Seq:          c.seq,
		AnswerSeq:    c.answerSeq,
	}
	if c.answer != nil {
		a := *c.answer
		s.Answer = &a
	}
	return s
}
