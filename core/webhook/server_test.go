package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/metrics"
)

type fakeProcessor struct {
	mu      sync.Mutex
	updates []tele.Update
	err     error
}

func (p *fakeProcessor) Process(_ context.Context, upd tele.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, upd)
	return p.err
}

func (p *fakeProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

type fakeJournal struct {
	claimed  map[int]string
	released []int
	claimErr error
	pingErr  error
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{claimed: map[int]string{}}
}

func (j *fakeJournal) Claim(_ context.Context, id int, kind string) (bool, error) {
	if j.claimErr != nil {
		return false, j.claimErr
	}
	if _, ok := j.claimed[id]; ok {
		return false, nil
	}
	j.claimed[id] = kind
	return true, nil
}

func (j *fakeJournal) Release(_ context.Context, id int) error {
	delete(j.claimed, id)
	j.released = append(j.released, id)
	return nil
}

func (j *fakeJournal) Ping(context.Context) error { return j.pingErr }

const callbackBody = `{"update_id":10,"callback_query":{"id":"cb1","from":{"id":7,"first_name":"Ana"},"data":"\ffaq|shipping"}}`

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	h := NewHandler(Options{Processor: &fakeProcessor{}})
	for _, path := range []string{"/", "/healthz", "/ready"} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String(), path)
	}
}

func TestReadyReportsJournalOutage(t *testing.T) {
	j := newFakeJournal()
	j.pingErr = errors.New("down")
	h := NewHandler(Options{Processor: &fakeProcessor{}, Journal: j})

	rec := do(t, h, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpdateDispatched(t *testing.T) {
	proc := &fakeProcessor{}
	h := NewHandler(Options{Processor: proc, Path: "/hook"})

	for _, path := range []string{"/telegram", "/hook"} {
		rec := do(t, h, http.MethodPost, path, callbackBody, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	}
	require.Equal(t, 2, proc.count())
	upd := proc.updates[0]
	assert.Equal(t, 10, upd.ID)
	require.NotNil(t, upd.Callback)
	assert.Equal(t, "\ffaq|shipping", upd.Callback.Data)
}

func TestSecretMismatch(t *testing.T) {
	proc := &fakeProcessor{}
	m := metrics.New(nil)
	h := NewHandler(Options{Processor: proc, Secret: "s3cret", Metrics: m})

	rec := do(t, h, http.MethodPost, "/telegram", callbackBody, map[string]string{SecretHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Unauthorized"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/telegram", callbackBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, 0, proc.count())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.WebhookRejectedTotal.WithLabelValues(ReasonSecret)))

	rec = do(t, h, http.MethodPost, "/telegram", callbackBody, map[string]string{SecretHeader: "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, proc.count())
}

func TestMalformedBody(t *testing.T) {
	proc := &fakeProcessor{}
	m := metrics.New(nil)
	h := NewHandler(Options{Processor: proc, Metrics: m})

	rec := do(t, h, http.MethodPost, "/telegram", "{not json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, proc.count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookRejectedTotal.WithLabelValues(ReasonBody)))
}

func TestDispatchFailureReturns500AndReleasesClaim(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("telegram down")}
	j := newFakeJournal()
	h := NewHandler(Options{Processor: proc, Journal: j})

	rec := do(t, h, http.MethodPost, "/telegram", callbackBody, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []int{10}, j.released)
	assert.Empty(t, j.claimed)
}

func TestDuplicateDeliverySkipped(t *testing.T) {
	proc := &fakeProcessor{}
	j := newFakeJournal()
	m := metrics.New(nil)
	h := NewHandler(Options{Processor: proc, Journal: j, Metrics: m})

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/telegram", callbackBody, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, proc.count())
	assert.Equal(t, "callback", j.claimed[10])
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpdatesTotal.WithLabelValues("callback", "duplicate")))
}

func TestJournalFailureFallsThrough(t *testing.T) {
	proc := &fakeProcessor{}
	j := newFakeJournal()
	j.claimErr = errors.New("db gone")
	h := NewHandler(Options{Processor: proc, Journal: j})

	rec := do(t, h, http.MethodPost, "/telegram", callbackBody, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, proc.count())
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New(nil)
	h := NewHandler(Options{Processor: &fakeProcessor{}, Metrics: m, MetricsPath: "/metrics"})

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "faqbot_build_info")
}

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, "callback", updateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, "message", updateKind(tele.Update{Message: &tele.Message{}}))
	assert.Equal(t, "other", updateKind(tele.Update{}))
}
