package herd

import (
	"bufio"
	"encoding/json"
	"io"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/twaclaw/cowtracker-app/pkg/db"
	"github.com/twaclaw/cowtracker-app/pkg/herd/mocks"
	"github.com/twaclaw/cowtracker-app/pkg/models"
)

func GetMockHerdWithMemorySqliteDialector(t *testing.T, useMockIngest, useMockNotify bool) (
	*gomock.Controller,
	*Herd,
	*Dispatcher,
	*fakeMailer,
	*mocks.MockIIngest,
	*mocks.MockINotify,
) {
	ctrl := gomock.NewController(t)

	mockIngest := mocks.NewMockIIngest(ctrl)
	mockNotify := mocks.NewMockINotify(ctrl)

	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations

	conf := DefaultThresholds()
	herdInstance := &Herd{
		Db:    *dbInstance,
		Conf:  &conf,
		State: NewStateStore(),
	}

	fake := &fakeMailer{}
	dispatcher := herdInstance.NewDispatcher(fake, []string{"farmer@example.com"}, 64)

	ingestService := herdInstance.GetIIngest()
	if useMockIngest {
		ingestService = mockIngest
	}

	var notifyService INotify = dispatcher
	if useMockNotify {
		notifyService = mockNotify
	}

	herdInstance.WithServices(ServiceOpts{
		Ingest: ingestService,
		Notify: notifyService,
	})

	return ctrl, herdInstance, dispatcher, fake, mockIngest, mockNotify
}

// newDeveui returns a fresh device identity so tests sharing the
// in-memory database do not interfere.
func newDeveui() int64 {
	return rand.Int63n(1 << 40)
}

func registerTracker(t *testing.T, h *Herd, deveui int64, label string) {
	t.Helper()
	if err := h.Db.Conn.Create(&models.Tracker{Deveui: deveui, Label: label}).Error; err != nil {
		t.Fatalf("failed to register tracker: %v", err)
	}
}

type sentMail struct {
	Recipients []string
	Subject    string
	Body       string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failErr error
}

func (f *fakeMailer) Send(recipients []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, sentMail{Recipients: recipients, Subject: subject, Body: body})
	return nil
}

func (f *fakeMailer) Sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMail, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeMailer) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
