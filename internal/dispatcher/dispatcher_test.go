package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ledgerbot/internal/bindings"
	"ledgerbot/internal/flow"
	"ledgerbot/internal/ledger"
	"ledgerbot/internal/sheets"
)

type fakeSender struct {
	mu      sync.Mutex
	prompts []string
	choices []string
	failing bool
}

func (f *fakeSender) Prompt(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("send failed")
	}
	f.prompts = append(f.prompts, text)
	return nil
}

func (f *fakeSender) Choices(_ context.Context, _ int64, text, _ string, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("send failed")
	}
	f.choices = append(f.choices, text)
	return nil
}

func (f *fakeSender) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeGateway struct {
	mu        sync.Mutex
	expenses  []ledger.Expense
	incomes   []ledger.Income
	appendErr error
}

func (g *fakeGateway) Categories(context.Context) ([]string, error) {
	return []string{"Food", "Transport"}, nil
}

func (g *fakeGateway) Wallets(context.Context) ([]string, error) {
	return []string{"Cash", "Card"}, nil
}

func (g *fakeGateway) AppendExpense(_ context.Context, rec ledger.Expense) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.appendErr != nil {
		return g.appendErr
	}
	g.expenses = append(g.expenses, rec)
	return nil
}

func (g *fakeGateway) AppendIncome(_ context.Context, rec ledger.Income) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.appendErr != nil {
		return g.appendErr
	}
	g.incomes = append(g.incomes, rec)
	return nil
}

type fakeOpener struct {
	gw          *fakeGateway
	validateErr error
}

func (o *fakeOpener) Open(string) sheets.Gateway { return o.gw }

func (o *fakeOpener) Validate(context.Context, string) error { return o.validateErr }

type memBindings struct {
	mu     sync.Mutex
	m      map[int64]string
	putErr error
}

func newMemBindings() *memBindings { return &memBindings{m: make(map[int64]string)} }

func (b *memBindings) Get(_ context.Context, chatID int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.m[chatID]
	if !ok {
		return "", bindings.ErrNotFound
	}
	return id, nil
}

func (b *memBindings) Put(_ context.Context, chatID int64, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.m[chatID] = id
	return nil
}

func (b *memBindings) Delete(_ context.Context, chatID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, chatID)
	return nil
}

func (b *memBindings) Close() error { return nil }

type fixture struct {
	d        *Dispatcher
	sessions flow.Store
	sender   *fakeSender
	gw       *fakeGateway
	opener   *fakeOpener
	binds    *memBindings
}

func newFixture() *fixture {
	sessions := flow.NewMemoryStore()
	sender := &fakeSender{}
	gw := &fakeGateway{}
	opener := &fakeOpener{gw: gw}
	binds := newMemBindings()
	return &fixture{
		d:        New(sessions, binds, opener, sender),
		sessions: sessions,
		sender:   sender,
		gw:       gw,
		opener:   opener,
		binds:    binds,
	}
}

const chatID = int64(100)

const linkURL = "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit"

func dispatch(t *testing.T, f *fixture, events ...flow.Event) {
	t.Helper()
	ctx := context.Background()
	for _, e := range events {
		if err := f.d.Dispatch(ctx, chatID, e); err != nil {
			t.Fatalf("dispatch %T: %v", e, err)
		}
	}
}

func TestFullExpenseFlow(t *testing.T) {
	f := newFixture()
	f.binds.m[chatID] = "sheet-1"

	dispatch(t, f,
		flow.StartExpense{Linked: true},
		flow.Text{Value: "Groceries"},
		flow.Text{Value: "42.50"},
		flow.Text{Value: "15"},
		flow.Choice{Value: "Food"},
		flow.Choice{Value: "Cash"},
		flow.Text{Value: "weekly run"},
	)

	if _, ok := f.sessions.Get(chatID).(flow.Idle); !ok {
		t.Fatalf("final state = %T", f.sessions.Get(chatID))
	}
	if len(f.gw.expenses) != 1 {
		t.Fatalf("expenses written = %d", len(f.gw.expenses))
	}
	rec := f.gw.expenses[0]
	if rec.Title != "Groceries" || rec.Category != "Food" || rec.Wallet != "Cash" {
		t.Fatalf("record = %#v", rec)
	}
	if got := f.sender.lastPrompt(); got != flow.MsgSaved {
		t.Fatalf("last prompt = %q", got)
	}
	if len(f.sender.choices) != 2 {
		t.Fatalf("pickers shown = %d", len(f.sender.choices))
	}
}

func TestFullIncomeFlow(t *testing.T) {
	f := newFixture()
	f.binds.m[chatID] = "sheet-1"

	dispatch(t, f,
		flow.StartIncome{Linked: true},
		flow.Text{Value: "Salary"},
		flow.Text{Value: "1000"},
		flow.Text{Value: "1"},
	)

	if len(f.gw.incomes) != 1 {
		t.Fatalf("incomes written = %d", len(f.gw.incomes))
	}
	if got := f.sender.lastPrompt(); got != flow.MsgSaved {
		t.Fatalf("last prompt = %q", got)
	}
}

func TestWriteFailureKeepsStateForRetry(t *testing.T) {
	f := newFixture()
	f.binds.m[chatID] = "sheet-1"

	dispatch(t, f,
		flow.StartExpense{Linked: true},
		flow.Text{Value: "Coffee"},
		flow.Text{Value: "3"},
		flow.Text{Value: "2"},
		flow.Choice{Value: "Food"},
		flow.Choice{Value: "Cash"},
	)

	f.gw.appendErr = fmt.Errorf("sheets: transient 503")
	err := f.d.Dispatch(context.Background(), chatID, flow.Text{Value: "espresso"})
	if err == nil {
		t.Fatal("expected dispatch error")
	}
	// State was not committed, the notes step is still active.
	st, ok := f.sessions.Get(chatID).(flow.ExpenseStep)
	if !ok || st.Step != flow.StepNotes {
		t.Fatalf("state after failure = %#v", f.sessions.Get(chatID))
	}
	if len(f.gw.expenses) != 0 {
		t.Fatalf("expenses written despite failure = %d", len(f.gw.expenses))
	}
	if got := f.sender.lastPrompt(); got != MsgTryAgain {
		t.Fatalf("failure prompt = %q", got)
	}

	// Resending the same input succeeds once the backend recovers.
	f.gw.appendErr = nil
	dispatch(t, f, flow.Text{Value: "espresso"})
	if len(f.gw.expenses) != 1 {
		t.Fatalf("expenses after retry = %d", len(f.gw.expenses))
	}
	if f.gw.expenses[0].Notes != "espresso" {
		t.Fatalf("record = %#v", f.gw.expenses[0])
	}
	if _, ok := f.sessions.Get(chatID).(flow.Idle); !ok {
		t.Fatalf("state after retry = %T", f.sessions.Get(chatID))
	}
}

func TestLinkFlowPersistsBinding(t *testing.T) {
	f := newFixture()

	dispatch(t, f, flow.StartLink{}, flow.Text{Value: linkURL})

	if _, ok := f.sessions.Get(chatID).(flow.Idle); !ok {
		t.Fatalf("state = %T", f.sessions.Get(chatID))
	}
	if got := f.binds.m[chatID]; got != "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" {
		t.Fatalf("binding = %q", got)
	}
	if got := f.sender.lastPrompt(); got != flow.MsgLinked {
		t.Fatalf("prompt = %q", got)
	}
}

func TestMalformedLinkReprompts(t *testing.T) {
	f := newFixture()

	dispatch(t, f, flow.StartLink{}, flow.Text{Value: "not a link"})

	if _, ok := f.sessions.Get(chatID).(flow.AwaitingLink); !ok {
		t.Fatalf("state = %T", f.sessions.Get(chatID))
	}
	if len(f.binds.m) != 0 {
		t.Fatalf("binding stored for bad link: %v", f.binds.m)
	}
	if got := f.sender.lastPrompt(); got != flow.MsgBadLink {
		t.Fatalf("prompt = %q", got)
	}
}

func TestUnreachableSpreadsheetReprompts(t *testing.T) {
	f := newFixture()
	f.opener.validateErr = errors.New("googleapi: 404")

	dispatch(t, f, flow.StartLink{}, flow.Text{Value: linkURL})

	if _, ok := f.sessions.Get(chatID).(flow.AwaitingLink); !ok {
		t.Fatalf("state = %T", f.sessions.Get(chatID))
	}
	if got := f.sender.lastPrompt(); got != flow.MsgBadLink {
		t.Fatalf("prompt = %q", got)
	}
}

func TestBindingPutFailureKeepsLinkState(t *testing.T) {
	f := newFixture()
	f.binds.putErr = errors.New("db down")

	dispatch(t, f, flow.StartLink{})
	err := f.d.Dispatch(context.Background(), chatID, flow.Text{Value: linkURL})
	if err == nil {
		t.Fatal("expected dispatch error")
	}
	if _, ok := f.sessions.Get(chatID).(flow.AwaitingLink); !ok {
		t.Fatalf("state = %T", f.sessions.Get(chatID))
	}
	if got := f.sender.lastPrompt(); got != MsgTryAgain {
		t.Fatalf("prompt = %q", got)
	}
}

func TestLinked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	linked, err := f.d.Linked(ctx, chatID)
	if err != nil || linked {
		t.Fatalf("Linked = %v, %v", linked, err)
	}

	f.binds.m[chatID] = "sheet"
	linked, err = f.d.Linked(ctx, chatID)
	if err != nil || !linked {
		t.Fatalf("Linked = %v, %v", linked, err)
	}
}

func TestCancelMidDialog(t *testing.T) {
	f := newFixture()
	f.binds.m[chatID] = "sheet-1"

	dispatch(t, f,
		flow.StartExpense{Linked: true},
		flow.Text{Value: "Coffee"},
		flow.Cancel{},
	)

	if _, ok := f.sessions.Get(chatID).(flow.Idle); !ok {
		t.Fatalf("state = %T", f.sessions.Get(chatID))
	}
	if got := f.sender.lastPrompt(); got != flow.MsgCancelled {
		t.Fatalf("prompt = %q", got)
	}
	if len(f.gw.expenses) != 0 {
		t.Fatalf("cancel wrote %d expenses", len(f.gw.expenses))
	}
}

func TestChatsDoNotShareState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.binds.m[1] = "sheet-a"
	f.binds.m[2] = "sheet-b"

	if err := f.d.Dispatch(ctx, 1, flow.StartExpense{Linked: true}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := f.d.Dispatch(ctx, 2, flow.StartIncome{Linked: true}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if _, ok := f.sessions.Get(1).(flow.ExpenseStep); !ok {
		t.Fatalf("chat 1 state = %T", f.sessions.Get(1))
	}
	if _, ok := f.sessions.Get(2).(flow.IncomeStep); !ok {
		t.Fatalf("chat 2 state = %T", f.sessions.Get(2))
	}
}
