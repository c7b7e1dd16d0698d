package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pawtally/pawtally/internal/domain"
)

// fakeQueue is an in-memory BallotQueue for handler tests.
type fakeQueue struct {
	mu      sync.Mutex
	entries []string
	pushErr error
	pingErr error
}

func (q *fakeQueue) Push(_ context.Context, option domain.Option) error {
	if q.pushErr != nil {
		return q.pushErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, option.String())
	return nil
}

func (q *fakeQueue) BlockingPop(_ context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return "", nil
	}
	last := q.entries[len(q.entries)-1]
	q.entries = q.entries[:len(q.entries)-1]
	return last, nil
}

func (q *fakeQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.entries)), nil
}

func (q *fakeQueue) Ping(_ context.Context) error {
	return q.pingErr
}

func newVoteTestRouter(queue domain.BallotQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupVoteRoutes(router, NewVoteHandler(queue))
	return router
}

func postVote(router *gin.Engine, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader("vote="+value))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name        string
		vote        string
		wantQueued  int64
		wantEntries []string
	}{
		{name: "valid cats vote is queued", vote: "cats", wantQueued: 1, wantEntries: []string{"cats"}},
		{name: "valid dogs vote is queued", vote: "dogs", wantQueued: 1, wantEntries: []string{"dogs"}},
		{name: "invalid vote leaves queue unchanged", vote: "elephants", wantQueued: 0},
		{name: "empty vote leaves queue unchanged", vote: "", wantQueued: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &fakeQueue{}
			router := newVoteTestRouter(queue)

			w := postVote(router, tt.vote)

			// Valid and invalid submissions must be indistinguishable
			if w.Code != http.StatusFound {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
			}
			if loc := w.Header().Get("Location"); loc != "/" {
				t.Errorf("redirect location = %q, want %q", loc, "/")
			}

			length, _ := queue.Len(context.Background())
			if length != tt.wantQueued {
				t.Errorf("queue length = %d, want %d", length, tt.wantQueued)
			}
			for i, want := range tt.wantEntries {
				if queue.entries[i] != want {
					t.Errorf("queue entry %d = %q, want %q", i, queue.entries[i], want)
				}
			}
		})
	}
}

func TestCastVoteQueueLengthIncrementsPerVote(t *testing.T) {
	queue := &fakeQueue{}
	router := newVoteTestRouter(queue)

	for _, vote := range []string{"cats", "cats", "dogs", "elephants"} {
		postVote(router, vote)
	}

	length, _ := queue.Len(context.Background())
	if length != 3 {
		t.Errorf("queue length = %d, want 3 (invalid vote must not enqueue)", length)
	}
}

func TestCastVotePushFailureIsNotSilentSuccess(t *testing.T) {
	queue := &fakeQueue{pushErr: context.DeadlineExceeded}
	router := newVoteTestRouter(queue)

	w := postVote(router, "cats")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d when the queue push fails", w.Code, http.StatusInternalServerError)
	}
}

func TestIndexRendersForm(t *testing.T) {
	router := newVoteTestRouter(&fakeQueue{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, option := range domain.Options() {
		if !strings.Contains(body, `value="`+option.String()+`"`) {
			t.Errorf("form is missing a button for %q", option)
		}
	}
	if !strings.Contains(body, `action="/vote"`) {
		t.Error("form does not post to /vote")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "queue reachable",
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ok"`,
		},
		{
			name:       "queue unreachable",
			pingErr:    context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"detail"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newVoteTestRouter(&fakeQueue{pingErr: tt.pingErr})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", w.Body.String(), tt.wantBody)
			}
			if tt.pingErr != nil && strings.Contains(w.Body.String(), `"detail":""`) {
				t.Error("error detail must not be empty")
			}
		})
	}
}
