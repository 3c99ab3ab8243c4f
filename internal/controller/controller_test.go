package controller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/kdduha/kolam-knowledge/internal/corpus"
	"github.com/kdduha/kolam-knowledge/internal/knowledge"
	"github.com/kdduha/kolam-knowledge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource answers through the query function and counts calls.
type fakeSource struct {
	mu          sync.Mutex
	queryCalls  int
	healthCalls int
	lastReq     models.KnowledgeRequest

	query  func(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error)
	health func(ctx context.Context) (*models.HealthResponse, error)
}

func (f *fakeSource) Query(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
	f.mu.Lock()
	f.queryCalls++
	f.lastReq = *req
	f.mu.Unlock()
	return f.query(ctx, req)
}

func (f *fakeSource) Health(ctx context.Context) (*models.HealthResponse, error) {
	f.mu.Lock()
	f.healthCalls++
	f.mu.Unlock()
	if f.health == nil {
		return &models.HealthResponse{Status: "healthy"}, nil
	}
	return f.health(ctx)
}

func answering(explanation any, image *string) *fakeSource {
	return &fakeSource{
		query: func(context.Context, *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
			return &models.KnowledgeResponse{Explanation: explanation, ImageBase64: image}, nil
		},
	}
}

func failing(err error) *fakeSource {
	return &fakeSource{
		query: func(context.Context, *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
			return nil, err
		},
	}
}

func newLive(t *testing.T, src knowledge.Source) *Controller {
	t.Helper()
	c, err := New(zap.NewNop(), src, nil, Options{})
	require.NoError(t, err)
	return c
}

func newMock(t *testing.T, delay time.Duration) *Controller {
	t.Helper()
	corp, err := corpus.Default()
	require.NoError(t, err)
	c, err := New(zap.NewNop(), nil, corp, Options{UseMockData: true, MockDelay: delay})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresSourceForLiveMode(t *testing.T) {
	_, err := New(zap.NewNop(), nil, nil, Options{})
	assert.Error(t, err)
}

func TestSubmit_EmptyQueryIsNoop(t *testing.T) {
	src := answering("x", nil)
	c := newLive(t, src)

	for _, q := range []string{"", " ", "\t\n  "} {
		c.SetQuery(q)
		before := c.Snapshot()

		snap, err := c.Submit(context.Background())
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Equal(t, before, snap)
		assert.Equal(t, PhaseIdle, snap.Phase)
		assert.Zero(t, snap.Seq)
	}
	assert.Zero(t, src.queryCalls)
}

func TestSubmit_EmptyQueryKeepsPreviousResult(t *testing.T) {
	c := newLive(t, answering("first", nil))
	c.SetQuery("what is kolam")
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.SetQuery("   ")
	snap, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyQuery)
	require.NotNil(t, snap.Answer)
	assert.Equal(t, "first", snap.Answer.Explanation)
	assert.Equal(t, PhaseSucceeded, snap.Phase)
}

func TestSubmit_MockUsesCorpusAfterDelay(t *testing.T) {
	const delay = 30 * time.Millisecond
	c := newMock(t, delay)
	corp, _ := corpus.Default()

	c.SetQuery("What is Kolam?")
	start := time.Now()
	snap, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, PhaseSucceeded, snap.Phase)
	require.NotNil(t, snap.Answer)
	assert.Equal(t, corp.Records()[0].Answer, snap.Answer.Explanation)
	assert.Empty(t, snap.Error)
	assert.Equal(t, ImageNone, snap.ImageDisplay())
}

func TestSubmit_MockDefaultAnswer(t *testing.T) {
	c := newMock(t, 0)

	c.SetQuery("tell me about rangoli")
	snap, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snap.Answer)
	assert.Equal(t, corpus.DefaultExplanation, snap.Answer.Explanation)
	assert.False(t, snap.Answer.HasImage())
}

func TestSubmit_MockCancelledContextStillSucceeds(t *testing.T) {
	c := newMock(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.SetQuery("What is Kolam?")
	snap, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseSucceeded, snap.Phase)
}

func TestSubmit_LiveSuccess(t *testing.T) {
	img := "aGVsbG8="
	src := answering("Sikku kolams loop around dots.", &img)
	c := newLive(t, src)

	c.SetQuery("sikku")
	snap, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseSucceeded, snap.Phase)
	require.NotNil(t, snap.Answer)
	assert.Equal(t, "Sikku kolams loop around dots.", snap.Answer.Explanation)
	assert.Equal(t, img, snap.Answer.ImageBase64)
	assert.Equal(t, ImageRendered, snap.ImageDisplay())
	assert.Equal(t, "sikku", src.lastReq.Query)
	assert.True(t, src.lastReq.GenerateImage)
}

func TestSubmit_LiveEmptyImageMeansNoImage(t *testing.T) {
	empty := ""
	c := newLive(t, answering("text", &empty))

	c.SetQuery("q")
	snap, _ := c.Submit(context.Background())
	assert.Equal(t, ImageNone, snap.ImageDisplay())
}

func TestSubmit_InvalidResponseFormat(t *testing.T) {
	for _, explanation := range []any{123.0, nil, map[string]any{"text": "x"}} {
		c := newLive(t, answering(explanation, nil))

		c.SetQuery("what is kolam")
		snap, err := c.Submit(context.Background())
		require.NoError(t, err)

		assert.Equal(t, PhaseFailed, snap.Phase)
		assert.Equal(t, MsgInvalidFormat, snap.Error)
		assert.Nil(t, snap.Answer)
	}
}

func TestSubmit_EmptyResponseIsInvalidFormat(t *testing.T) {
	src := &fakeSource{
		query: func(context.Context, *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
			return nil, nil
		},
	}
	c := newLive(t, src)

	c.SetQuery("what is kolam")
	snap, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, MsgInvalidFormat, snap.Error)
	assert.Nil(t, snap.Answer)
}

func TestSubmit_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &knowledge.StatusError{Code: http.StatusNotFound}, MsgNotFound},
		{"server error", &knowledge.StatusError{Code: http.StatusInternalServerError}, MsgServerError},
		{"unauthorized", &knowledge.StatusError{Code: http.StatusUnauthorized}, MsgAuthorization},
		{"forbidden", &knowledge.StatusError{Code: http.StatusForbidden}, MsgAuthorization},
		{"bad gateway", &knowledge.StatusError{Code: http.StatusBadGateway}, MsgGeneric},
		{"no response", &knowledge.NoResponseError{Err: errors.New("dial tcp: refused")}, MsgNoResponse},
		{"undecodable", knowledge.ErrInvalidResponse, MsgInvalidFormat},
		{"other", errors.New("boom"), MsgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newLive(t, failing(tt.err))

			c.SetQuery("kolam")
			snap, err := c.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, PhaseFailed, snap.Phase)
			assert.Equal(t, tt.want, snap.Error)
			assert.Nil(t, snap.Answer)
		})
	}
}

func TestSubmit_ClearsPreviousErrorAndResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	src := &fakeSource{
		query: func(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
			calls++
			if calls == 1 {
				return nil, &knowledge.StatusError{Code: http.StatusInternalServerError}
			}
			close(started)
			<-release
			return &models.KnowledgeResponse{Explanation: "ok"}, nil
		},
	}
	c := newLive(t, src)

	c.SetQuery("q")
	snap, _ := c.Submit(context.Background())
	require.Equal(t, MsgServerError, snap.Error)

	done := make(chan Snapshot)
	go func() {
		s, _ := c.Submit(context.Background())
		done <- s
	}()

	<-started
	inFlight := c.Snapshot()
	assert.True(t, inFlight.Loading())
	assert.Empty(t, inFlight.Error)
	assert.Nil(t, inFlight.Answer)

	close(release)
	final := <-done
	assert.Equal(t, PhaseSucceeded, final.Phase)
	assert.Empty(t, final.Error)
}

func TestSubmit_DiscardsStaleCompletion(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	src := &fakeSource{
		query: func(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
			if req.Query == "slow" {
				close(firstStarted)
				<-releaseFirst
				return &models.KnowledgeResponse{Explanation: "slow answer"}, nil
			}
			return &models.KnowledgeResponse{Explanation: "fast answer"}, nil
		},
	}
	c := newLive(t, src)

	c.SetQuery("slow")
	slowDone := make(chan Snapshot)
	go func() {
		s, _ := c.Submit(context.Background())
		slowDone <- s
	}()
	<-firstStarted

	c.SetQuery("fast")
	fast, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fast.Answer)
	assert.Equal(t, "fast answer", fast.Answer.Explanation)

	close(releaseFirst)
	stale := <-slowDone

	assert.Equal(t, "fast answer", stale.Answer.Explanation)
	final := c.Snapshot()
	assert.Equal(t, PhaseSucceeded, final.Phase)
	assert.Equal(t, "fast answer", final.Answer.Explanation)
	assert.Equal(t, uint64(2), final.Seq)
	assert.Equal(t, uint64(2), final.AnswerSeq)
}

func TestMount_MockNeverProbes(t *testing.T) {
	src := answering("x", nil)
	c, err := New(zap.NewNop(), src, nil, Options{UseMockData: true})
	require.NoError(t, err)

	c.Mount(context.Background())

	a := c.Availability()
	assert.Equal(t, Unavailable, a.State)
	assert.Equal(t, MsgMockConfigured, a.Message)
	assert.Zero(t, src.healthCalls)
}

func TestMount_ProbesOnce(t *testing.T) {
	src := answering("x", nil)
	c := newLive(t, src)

	assert.False(t, c.Availability().Checked())
	c.Mount(context.Background())
	c.Mount(context.Background())

	a := c.Availability()
	assert.Equal(t, Available, a.State)
	assert.Equal(t, "API available (healthy)", a.Message)
	assert.Equal(t, 1, src.healthCalls)
}

func TestMount_EmptyStatusReportsOK(t *testing.T) {
	src := answering("x", nil)
	src.health = func(context.Context) (*models.HealthResponse, error) {
		return &models.HealthResponse{}, nil
	}
	c := newLive(t, src)

	c.Mount(context.Background())
	assert.Equal(t, "API available (OK)", c.Availability().Message)
}

func TestMount_ProbeFailureIsAdvisory(t *testing.T) {
	src := answering("still works", nil)
	src.health = func(context.Context) (*models.HealthResponse, error) {
		return nil, errors.New("connection refused")
	}
	c := newLive(t, src)

	c.Mount(context.Background())
	a := c.Availability()
	assert.Equal(t, Unavailable, a.State)
	assert.Equal(t, "API unavailable: connection refused", a.Message)

	c.SetQuery("q")
	snap, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "still works", snap.Answer.Explanation)
}

func TestReportImageError(t *testing.T) {
	img := "bm90IGFuIGltYWdl"
	c := newLive(t, answering("text", &img))

	c.SetQuery("q")
	snap, _ := c.Submit(context.Background())
	require.Equal(t, ImageRendered, snap.ImageDisplay())

	assert.False(t, c.ReportImageError(snap.Seq+1))
	assert.True(t, c.ReportImageError(snap.Seq))

	after := c.Snapshot()
	assert.Equal(t, ImageUndisplayable, after.ImageDisplay())
	assert.Equal(t, "text", after.Answer.Explanation)

	next, _ := c.Submit(context.Background())
	assert.False(t, next.ImageFailed)
	assert.Equal(t, ImageRendered, next.ImageDisplay())
}

func TestReportImageError_NoImage(t *testing.T) {
	c := newLive(t, answering("text", nil))

	c.SetQuery("q")
	snap, _ := c.Submit(context.Background())
	assert.False(t, c.ReportImageError(snap.Seq))
	assert.Equal(t, ImageNone, c.Snapshot().ImageDisplay())
}

func TestSnapshot_View(t *testing.T) {
	img := "aGVsbG8="
	c := newLive(t, answering("text", &img))
	c.Mount(context.Background())

	c.SetQuery("q")
	snap, _ := c.Submit(context.Background())
	v := snap.View()

	assert.Equal(t, "succeeded", v.Phase)
	assert.False(t, v.Loading)
	assert.Equal(t, "rendered", v.ImageDisplay)
	assert.True(t, v.APIStatus.Checked)
	assert.True(t, v.APIStatus.Available)
	require.NotNil(t, v.Response)
	assert.Equal(t, img, v.Response.ImageBase64)
}
