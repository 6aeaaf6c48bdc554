// Package dispatcher connects Telegram updates to the conversation
// machine. It resolves bindings, executes the effects each transition
// requests and commits the next state only after the whole effect chain
// succeeded, so a failed write keeps the dialog where it was.
package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ledgerbot/core/logger"
	"ledgerbot/internal/bindings"
	"ledgerbot/internal/flow"
	"ledgerbot/internal/sheets"
)

// MsgTryAgain is sent when an effect failed for transient reasons. The
// dialog state is kept so the user can resend the same input.
const MsgTryAgain = "Something went wrong, your input was not saved. Please try again."

// Callback keys used by the inline pickers.
const (
	CallbackCategory = "cat"
	CallbackWallet   = "wal"
)

// Sender delivers outbound messages to a chat.
type Sender interface {
	Prompt(ctx context.Context, chatID int64, text string) error
	Choices(ctx context.Context, chatID int64, text, key string, options []string) error
}

// Dispatcher routes conversation events for all chats. Events for the
// same chat are processed strictly one at a time; different chats run
// concurrently.
type Dispatcher struct {
	sessions flow.Store
	bindings bindings.Store
	sheets   sheets.Opener
	sender   Sender

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New constructs a Dispatcher over the given stores and transports.
func New(sessions flow.Store, binds bindings.Store, opener sheets.Opener, sender Sender) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		bindings: binds,
		sheets:   opener,
		sender:   sender,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (d *Dispatcher) chatLock(chatID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[chatID] = l
	}
	return l
}

// Linked reports whether the chat has a spreadsheet bound.
func (d *Dispatcher) Linked(ctx context.Context, chatID int64) (bool, error) {
	_, err := d.bindings.Get(ctx, chatID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bindings.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Dispatch runs one event through the conversation machine for a chat.
// The returned error reports effect failures; the user is already
// notified and the previous state is preserved in that case.
func (d *Dispatcher) Dispatch(ctx context.Context, chatID int64, ev flow.Event) error {
	lock := d.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	state := d.sessions.Get(chatID)
	from := flow.Name(state)

	// CheckLink feeds its outcome back as a LinkResult, hence the loop.
	for {
		next, effects := flow.Transition(state, ev)

		followup, err := d.runEffects(ctx, chatID, effects)
		if err != nil {
			logger.Error(ctx, "fsm", "transition.fail",
				slog.Int64("chat_id", chatID),
				slog.String("from", from),
				slog.String("event", eventName(ev)),
				slog.String("err", err.Error()),
				slog.Duration("took", logger.Took(start)),
			)
			if serr := d.sender.Prompt(ctx, chatID, MsgTryAgain); serr != nil {
				logger.Error(ctx, "fsm", "transition.notify_fail",
					slog.Int64("chat_id", chatID),
					slog.String("err", serr.Error()),
				)
			}
			return err
		}

		state = next
		d.sessions.Put(chatID, next)

		if followup == nil {
			break
		}
		ev = followup
	}

	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "fsm", "transition",
			slog.Int64("chat_id", chatID),
			slog.String("handler", logger.HandlerFrom(ctx)),
			slog.String("from", from),
			slog.String("to", flow.Name(state)),
			slog.Duration("took", logger.Took(start)),
		)
	}
	return nil
}

// runEffects executes effects strictly in order. It returns a follow-up
// event when link validation produced an outcome that must re-enter the
// machine. Any error aborts the chain before the state is committed.
func (d *Dispatcher) runEffects(ctx context.Context, chatID int64, effects []flow.Effect) (flow.Event, error) {
	var followup flow.Event

	for _, eff := range effects {
		switch e := eff.(type) {
		case flow.Prompt:
			if err := d.sender.Prompt(ctx, chatID, e.Text); err != nil {
				return nil, err
			}
		case flow.ShowCategoryPicker:
			gw, err := d.gateway(ctx, chatID)
			if err != nil {
				return nil, err
			}
			options, err := gw.Categories(ctx)
			if err != nil {
				return nil, err
			}
			d.logOptions(ctx, chatID, "categories", options)
			if err := d.sender.Choices(ctx, chatID, flow.MsgPickCategory, CallbackCategory, options); err != nil {
				return nil, err
			}
		case flow.ShowWalletPicker:
			gw, err := d.gateway(ctx, chatID)
			if err != nil {
				return nil, err
			}
			options, err := gw.Wallets(ctx)
			if err != nil {
				return nil, err
			}
			d.logOptions(ctx, chatID, "wallets", options)
			if err := d.sender.Choices(ctx, chatID, flow.MsgPickWallet, CallbackWallet, options); err != nil {
				return nil, err
			}
		case flow.WriteExpense:
			gw, err := d.gateway(ctx, chatID)
			if err != nil {
				return nil, err
			}
			if err := gw.AppendExpense(ctx, e.Record); err != nil {
				return nil, err
			}
		case flow.WriteIncome:
			gw, err := d.gateway(ctx, chatID)
			if err != nil {
				return nil, err
			}
			if err := gw.AppendIncome(ctx, e.Record); err != nil {
				return nil, err
			}
		case flow.CheckLink:
			ok, err := d.checkLink(ctx, chatID, e.Raw)
			if err != nil {
				return nil, err
			}
			followup = flow.LinkResult{OK: ok}
		}
	}

	return followup, nil
}

// checkLink validates a submitted spreadsheet link and, when it points
// at a reachable spreadsheet, persists the binding. A malformed link or
// an unreachable spreadsheet yields ok=false; only binding persistence
// failures surface as errors.
func (d *Dispatcher) checkLink(ctx context.Context, chatID int64, raw string) (bool, error) {
	id, err := sheets.SpreadsheetID(raw)
	if err != nil {
		return false, nil
	}
	if err := d.sheets.Validate(ctx, id); err != nil {
		logger.Warn(ctx, "fsm", "link.validate_fail",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return false, nil
	}
	if err := d.bindings.Put(ctx, chatID, id); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) logOptions(ctx context.Context, chatID int64, kind string, options []string) {
	if !logger.ShouldSampleDebug() {
		return
	}
	summary, truncated := logger.SummarizeStrings(options, 8)
	logger.Debug(ctx, "fsm", "picker.options",
		slog.Int64("chat_id", chatID),
		slog.String("kind", kind),
		slog.Int("count", len(options)),
		slog.String("options", summary),
		slog.Bool("truncated", truncated),
	)
}

func (d *Dispatcher) gateway(ctx context.Context, chatID int64) (sheets.Gateway, error) {
	id, err := d.bindings.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return d.sheets.Open(id), nil
}

func eventName(ev flow.Event) string {
	switch ev.(type) {
	case flow.StartExpense:
		return "start_expense"
	case flow.StartIncome:
		return "start_income"
	case flow.StartLink:
		return "start_link"
	case flow.Cancel:
		return "cancel"
	case flow.Text:
		return "text"
	case flow.Choice:
		return "choice"
	case flow.LinkResult:
		return "link_result"
	}
	return "unknown"
}
