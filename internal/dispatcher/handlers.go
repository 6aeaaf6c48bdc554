package dispatcher

import (
	tgcore "ledgerbot/core/telegram"
	"ledgerbot/core/telegram/callbacks"
	"ledgerbot/core/telegram/commands"
	tghelpers "ledgerbot/core/telegram/helpers"
	"ledgerbot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

const helpText = `I keep your expense and income records in a Google Spreadsheet.

/expense - record an expense
/income - record an income
/link - link your spreadsheet
/cancel - abort the current dialog
/help - show this message`

// Bind registers the bot commands on the registry and returns the full
// route table for RunTelegram.
func (d *Dispatcher) Bind(reg *tgcore.Registry) []tgcore.Route {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     d.onHelp,
		Description: "Start the bot",
		Hidden:      true,
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     d.onHelp,
		Description: "Show usage help",
	})
	reg.RegisterCommand("/expense", commands.Command{
		Handler:     d.onExpense,
		Description: "Record an expense",
	})
	reg.RegisterCommand("/income", commands.Command{
		Handler:     d.onIncome,
		Description: "Record an income",
	})
	reg.RegisterCommand("/link", commands.Command{
		Handler:     d.onLink,
		Description: "Link your spreadsheet",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     d.onCancel,
		Description: "Abort the current dialog",
	})
	reg.SetTextFallback(d.onText)

	routes := make([]tgcore.Route, 0, len(reg.Commands())+2)
	for name, cmd := range reg.Commands() {
		routes = append(routes, tgcore.Route{Endpoint: name, Handler: cmd.Handler})
	}
	routes = append(routes,
		tgcore.Route{Endpoint: tele.OnText, Handler: d.onText},
		tgcore.Route{Endpoint: tele.OnCallback, Handler: d.onCallback},
	)
	return routes
}

func (d *Dispatcher) onHelp(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "help")
	return d.sender.Prompt(ctx, c.Chat().ID, helpText)
}

func (d *Dispatcher) onExpense(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "expense")
	chatID := c.Chat().ID
	linked, err := d.Linked(ctx, chatID)
	if err != nil {
		_ = d.sender.Prompt(ctx, chatID, MsgTryAgain)
		return err
	}
	return d.Dispatch(ctx, chatID, flow.StartExpense{Linked: linked})
}

func (d *Dispatcher) onIncome(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "income")
	chatID := c.Chat().ID
	linked, err := d.Linked(ctx, chatID)
	if err != nil {
		_ = d.sender.Prompt(ctx, chatID, MsgTryAgain)
		return err
	}
	return d.Dispatch(ctx, chatID, flow.StartIncome{Linked: linked})
}

func (d *Dispatcher) onLink(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "link")
	return d.Dispatch(ctx, c.Chat().ID, flow.StartLink{})
}

func (d *Dispatcher) onCancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	return d.Dispatch(ctx, c.Chat().ID, flow.Cancel{})
}

func (d *Dispatcher) onText(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "text")
	return d.Dispatch(ctx, c.Chat().ID, flow.Text{Value: c.Text()})
}

func (d *Dispatcher) onCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "callback")
	key, payload := callbacks.ParseCallbackData(c.Callback())

	switch key {
	case CallbackCategory, CallbackWallet:
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}

	// Acknowledge first so the client stops its spinner even when the
	// effect chain below takes a while.
	_ = c.Respond()
	return d.Dispatch(ctx, c.Chat().ID, flow.Choice{Value: payload})
}
