package labeler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teemow/inboxlabeler/internal/category"
	"github.com/teemow/inboxlabeler/internal/llm"
	"github.com/teemow/inboxlabeler/internal/mail"
)

// fakeMailbox is an in-memory label store. Search returns every thread that still
// holds a message without a category label, mirroring the -label: exclusions.
type fakeMailbox struct {
	mu sync.Mutex

	threadOrder []string
	threads     map[string][]*mail.Message
	labels      map[string]*mail.Label // by lower-cased name
	nextLabel   int

	queries []string
	creates int
	applied []applyCall

	searchErr error
	threadErr map[string]error
	lookupErr error
	createErr map[string]error
	applyErr  error
}

type applyCall struct {
	Target  string // "thread" or "message"
	ID      string
	LabelID string
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{
		threads:   make(map[string][]*mail.Message),
		labels:    make(map[string]*mail.Label),
		threadErr: make(map[string]error),
		createErr: make(map[string]error),
	}
}

// addThread appends a thread whose messages have the given subjects.
func (f *fakeMailbox) addThread(threadID string, subjects ...string) {
	f.threadOrder = append(f.threadOrder, threadID)
	for i, subject := range subjects {
		f.threads[threadID] = append(f.threads[threadID], &mail.Message{
			ID:       fmt.Sprintf("%s-m%d", threadID, i+1),
			ThreadID: threadID,
			LabelIDs: []string{"INBOX"},
			Record: mail.Record{
				Subject: subject,
				Sender:  "Recruiting <jobs@example.com>",
				Body:    "body of " + subject,
			},
		})
	}
}

func (f *fakeMailbox) categoryIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, c := range category.All() {
		if l, ok := f.labels[strings.ToLower(c.Label())]; ok {
			ids[l.ID] = true
		}
	}
	return ids
}

func (f *fakeMailbox) Search(_ context.Context, query string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	ids := f.categoryIDs()
	var out []string
	for _, tid := range f.threadOrder {
		for _, m := range f.threads[tid] {
			if !m.HasAnyLabel(ids) {
				out = append(out, tid)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeMailbox) ThreadMessages(_ context.Context, threadID string) ([]mail.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.threadErr[threadID]; err != nil {
		return nil, err
	}
	var out []mail.Message
	for _, m := range f.threads[threadID] {
		cp := *m
		cp.LabelIDs = append([]string(nil), m.LabelIDs...)
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeMailbox) LabelByName(_ context.Context, name string) (*mail.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	l, ok := f.labels[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeMailbox) CreateLabel(_ context.Context, name string) (*mail.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.createErr[name]; err != nil {
		return nil, err
	}
	f.creates++
	f.nextLabel++
	l := &mail.Label{ID: fmt.Sprintf("Label_%d", f.nextLabel), Name: name}
	f.labels[strings.ToLower(name)] = l
	cp := *l
	return &cp, nil
}

func (f *fakeMailbox) AddLabelToThread(_ context.Context, threadID, labelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, applyCall{Target: "thread", ID: threadID, LabelID: labelID})
	for _, m := range f.threads[threadID] {
		m.LabelIDs = appendUnique(m.LabelIDs, labelID)
	}
	return nil
}

func (f *fakeMailbox) AddLabelToMessage(_ context.Context, messageID, labelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, applyCall{Target: "message", ID: messageID, LabelID: labelID})
	for _, msgs := range f.threads {
		for _, m := range msgs {
			if m.ID == messageID {
				m.LabelIDs = appendUnique(m.LabelIDs, labelID)
			}
		}
	}
	return nil
}

func (f *fakeMailbox) labelID(c category.Category) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.labels[strings.ToLower(c.Label())]; ok {
		return l.ID
	}
	return ""
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// scriptedOracle replies from a table keyed by prompt substring and advances the
// fake clock on every call.
type scriptedOracle struct {
	replies  map[string]string // subject -> reply
	fallback string
	errFor   map[string]error
	panicFor map[string]bool
	clock    *fakeClock
	step     time.Duration
	calls    []string
}

func (o *scriptedOracle) Provider() llm.Provider { return llm.ProviderOpenAI }

func (o *scriptedOracle) Complete(ctx context.Context, p string) (string, error) {
	o.calls = append(o.calls, p)
	if o.clock != nil {
		o.clock.Advance(o.step)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for subject, err := range o.errFor {
		if strings.Contains(p, subject) {
			return "", err
		}
	}
	for subject := range o.panicFor {
		if strings.Contains(p, subject) {
			panic("oracle exploded")
		}
	}
	for subject, reply := range o.replies {
		if strings.Contains(p, subject) {
			return reply, nil
		}
	}
	return o.fallback, nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBackend = errors.New("backend unavailable")
