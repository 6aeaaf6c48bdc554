package flow

import "ledgerbot/internal/ledger"

// Prompt texts shared with the dispatcher and tests.
const (
	MsgIdleHelp     = "Send /expense, /income or /link to get started, /help for details."
	MsgCancelled    = "Cancelled."
	MsgSendLink     = "Send the link of your spreadsheet."
	MsgBadLink      = "That does not look like a valid spreadsheet link, try again."
	MsgLinked       = "Spreadsheet linked."
	MsgExpenseTitle = "Expense title?"
	MsgIncomeTitle  = "Income title?"
	MsgAmount       = "How much?"
	MsgBadAmount    = "The amount must be a non-negative number."
	MsgDay          = "Day of the month?"
	MsgBadDay       = "Send a number between 1 and 31."
	MsgSendText     = "Send a text."
	MsgPickCategory = "Pick a category:"
	MsgPickWallet   = "Pick a wallet:"
	MsgNotes        = "Any notes? Send text (or a dash for none)."
	MsgSaved        = "Saved."
)

// Transition computes the next state and the ordered effects for one
// event. It performs no I/O and never mutates its arguments.
func Transition(s State, e Event) (State, []Effect) {
	// Cancel wins in every state.
	if _, ok := e.(Cancel); ok {
		if _, idle := s.(Idle); idle {
			return Idle{}, []Effect{Prompt{MsgIdleHelp}}
		}
		return Idle{}, []Effect{Prompt{MsgCancelled}}
	}

	switch st := s.(type) {
	case Idle:
		return transitionIdle(e)
	case AwaitingLink:
		return transitionLink(st, e)
	case ExpenseStep:
		return transitionExpense(st, e)
	case PickingCategory:
		if c, ok := e.(Choice); ok {
			rec := st.Record
			rec.Category = c.Value
			return PickingWallet{Record: rec}, []Effect{ShowWalletPicker{}}
		}
		return s, []Effect{Prompt{MsgPickCategory}}
	case PickingWallet:
		if c, ok := e.(Choice); ok {
			rec := st.Record
			rec.Wallet = c.Value
			return ExpenseStep{Step: StepNotes, Record: rec}, []Effect{Prompt{MsgNotes}}
		}
		return s, []Effect{Prompt{MsgPickWallet}}
	case IncomeStep:
		return transitionIncome(st, e)
	}
	return s, nil
}

func transitionIdle(e Event) (State, []Effect) {
	switch ev := e.(type) {
	case StartExpense:
		if !ev.Linked {
			return AwaitingLink{}, []Effect{Prompt{MsgSendLink}}
		}
		return ExpenseStep{Step: StepTitle}, []Effect{Prompt{MsgExpenseTitle}}
	case StartIncome:
		if !ev.Linked {
			return AwaitingLink{}, []Effect{Prompt{MsgSendLink}}
		}
		return IncomeStep{Step: StepTitle}, []Effect{Prompt{MsgIncomeTitle}}
	case StartLink:
		return AwaitingLink{}, []Effect{Prompt{MsgSendLink}}
	}
	return Idle{}, []Effect{Prompt{MsgIdleHelp}}
}

func transitionLink(st AwaitingLink, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case Text:
		return st, []Effect{CheckLink{Raw: ev.Value}}
	case LinkResult:
		if ev.OK {
			return Idle{}, []Effect{Prompt{MsgLinked}}
		}
		return st, []Effect{Prompt{MsgBadLink}}
	}
	return st, []Effect{Prompt{MsgSendLink}}
}

func transitionExpense(st ExpenseStep, e Event) (State, []Effect) {
	t, ok := e.(Text)
	if !ok {
		return st, []Effect{reprompt(st.Step)}
	}

	rec := st.Record
	switch st.Step {
	case StepTitle:
		title, err := ledger.ParseTitle(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgSendText}}
		}
		rec.Title = title
		return ExpenseStep{Step: StepAmount, Record: rec}, []Effect{Prompt{MsgAmount}}
	case StepAmount:
		amount, err := ledger.ParseAmount(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgBadAmount}}
		}
		rec.Amount = amount
		return ExpenseStep{Step: StepDay, Record: rec}, []Effect{Prompt{MsgDay}}
	case StepDay:
		day, err := ledger.ParseDay(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgBadDay}}
		}
		rec.Day = day
		return PickingCategory{Record: rec}, []Effect{ShowCategoryPicker{}}
	case StepNotes:
		// Empty notes are allowed.
		rec.Notes = t.Value
		return Idle{}, []Effect{WriteExpense{Record: rec}, Prompt{MsgSaved}}
	}
	return st, []Effect{reprompt(st.Step)}
}

func transitionIncome(st IncomeStep, e Event) (State, []Effect) {
	t, ok := e.(Text)
	if !ok {
		return st, []Effect{reprompt(st.Step)}
	}

	rec := st.Record
	switch st.Step {
	case StepTitle:
		title, err := ledger.ParseTitle(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgSendText}}
		}
		rec.Title = title
		return IncomeStep{Step: StepAmount, Record: rec}, []Effect{Prompt{MsgAmount}}
	case StepAmount:
		amount, err := ledger.ParseAmount(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgBadAmount}}
		}
		rec.Amount = amount
		return IncomeStep{Step: StepDay, Record: rec}, []Effect{Prompt{MsgDay}}
	case StepDay:
		day, err := ledger.ParseDay(t.Value)
		if err != nil {
			return st, []Effect{Prompt{MsgBadDay}}
		}
		rec.Day = day
		return Idle{}, []Effect{WriteIncome{Record: rec}, Prompt{MsgSaved}}
	}
	return st, []Effect{reprompt(st.Step)}
}

// reprompt repeats the description of the input the active step expects.
func reprompt(step Step) Effect {
	switch step {
	case StepAmount:
		return Prompt{MsgAmount}
	case StepDay:
		return Prompt{MsgDay}
	case StepNotes:
		return Prompt{MsgNotes}
	default:
		return Prompt{MsgSendText}
	}
}

// Name returns a stable identifier for a state, used in logs.
func Name(s State) string {
	switch st := s.(type) {
	case Idle:
		return "idle"
	case AwaitingLink:
		return "awaiting_link"
	case ExpenseStep:
		return "expense." + string(st.Step)
	case PickingCategory:
		return "expense.category"
	case PickingWallet:
		return "expense.wallet"
	case IncomeStep:
		return "income." + string(st.Step)
	}
	return "unknown"
}
