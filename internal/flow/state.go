// Package flow implements the conversation state machine that drives the
// guided record-entry dialogs. Transition is a pure function: it never
// performs I/O and only describes the side effects the dispatcher must
// execute, which keeps every dialog deterministic and testable offline.
package flow

import "ledgerbot/internal/ledger"

// Step identifies a single field-collection stage within a dialog.
type Step string

const (
	StepTitle  Step = "title"
	StepAmount Step = "amount"
	StepDay    Step = "day"
	StepNotes  Step = "notes"
)

// State is the tagged variant describing where a conversation stands.
// Exactly one State value exists per chat at any time; the session store
// owns it and replaces it wholesale on every processed event.
type State interface{ state() }

// Idle means no dialog is active.
type Idle struct{}

// AwaitingLink means the user must supply a spreadsheet link before
// anything else can happen.
type AwaitingLink struct{}

// ExpenseStep collects one text field of an expense entry.
// Step is one of StepTitle, StepAmount, StepDay, StepNotes; the
// category and wallet stages have their own choice-only states.
type ExpenseStep struct {
	Step   Step
	Record ledger.Expense
}

// PickingCategory waits for a category button press. Free text does not
// advance this state.
type PickingCategory struct {
	Record ledger.Expense
}

// PickingWallet waits for a wallet button press.
type PickingWallet struct {
	Record ledger.Expense
}

// IncomeStep collects one field of an income entry.
// Step is one of StepTitle, StepAmount, StepDay.
type IncomeStep struct {
	Step   Step
	Record ledger.Income
}

func (Idle) state()            {}
func (AwaitingLink) state()    {}
func (ExpenseStep) state()     {}
func (PickingCategory) state() {}
func (PickingWallet) state()   {}
func (IncomeStep) state()      {}

// Event is one inbound occurrence for a single conversation.
type Event interface{ event() }

// StartExpense begins the expense dialog. Linked reports whether the
// chat already has a spreadsheet binding; the dispatcher resolves it
// before calling Transition so the machine stays free of I/O.
type StartExpense struct{ Linked bool }

// StartIncome begins the income dialog.
type StartIncome struct{ Linked bool }

// StartLink begins link setup explicitly.
type StartLink struct{}

// Cancel aborts any active dialog. It is accepted in every state.
type Cancel struct{}

// Text carries a free-text reply.
type Text struct{ Value string }

// Choice carries a button selection.
type Choice struct{ Value string }

// LinkResult resumes the link-setup dialog once the dispatcher has
// validated (and on success persisted) a submitted link.
type LinkResult struct{ OK bool }

func (StartExpense) event() {}
func (StartIncome) event()  {}
func (StartLink) event()    {}
func (Cancel) event()       {}
func (Text) event()         {}
func (Choice) event()       {}
func (LinkResult) event()   {}

// Effect is a requested side effect returned by Transition. Effects are
// executed by the dispatcher strictly in order; the next state is only
// committed after the whole chain succeeds.
type Effect interface{ effect() }

// Prompt sends plain text to the chat.
type Prompt struct{ Text string }

// ShowCategoryPicker loads the category reference list and renders it as
// inline buttons.
type ShowCategoryPicker struct{}

// ShowWalletPicker loads the wallet reference list and renders it as
// inline buttons.
type ShowWalletPicker struct{}

// WriteExpense appends a completed expense row to the user's sheet.
type WriteExpense struct{ Record ledger.Expense }

// WriteIncome appends a completed income row to the user's sheet.
type WriteIncome struct{ Record ledger.Income }

// CheckLink validates the submitted link against the backing store and,
// on success, persists the chat binding. The outcome is fed back into
// the machine as a LinkResult event.
type CheckLink struct{ Raw string }

func (Prompt) effect()             {}
func (ShowCategoryPicker) effect() {}
func (ShowWalletPicker) effect()   {}
func (WriteExpense) effect()       {}
func (WriteIncome) effect()        {}
func (CheckLink) effect()          {}
