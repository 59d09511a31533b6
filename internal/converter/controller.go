package converter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/debounce"
	"github.com/Veraticus/the-spice-must-convert/internal/expr"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/Veraticus/the-spice-must-convert/internal/voice"
	"github.com/google/uuid"
)

// Default quiet periods for the two debounce stages.
const (
	DefaultTextDelay   = 500 * time.Millisecond
	DefaultAmountDelay = 300 * time.Millisecond
)

// Config holds the collaborators of a Controller.
type Config struct {
	Provider    service.RateProvider
	Notifier    service.Notifier
	Listener    *voice.Listener
	Defaults    Defaults
	TextDelay   time.Duration
	AmountDelay time.Duration
}

// Controller owns the State and is its only mutator. Inputs, debounce
// expirations, lookup responses and voice events are all funneled into one
// event loop, so transitions never race.
type Controller struct {
	ctx         context.Context
	provider    service.RateProvider
	notifier    service.Notifier
	listener    *voice.Listener
	session     *voice.Session
	textDelay   *debounce.Debouncer[textSettled]
	amountDelay *debounce.Debouncer[amountSettled]
	events      chan event
	done        chan struct{}
	subscribers []func(State)
	defaults    Defaults
	state       State
	published   State
	epoch       uint64
	mu          sync.RWMutex
	running     bool
}

type event interface{ isEvent() }

type (
	textChanged    struct{ text string }
	fromSelected   struct{ code model.CurrencyCode }
	toSelected     struct{ code model.CurrencyCode }
	swapped        struct{}
	convertForced  struct{}
	resetRequested struct{}
	voiceRequested struct{}
	voiceStopped   struct{}
	voiceReported  struct{ ev voice.Event }
	catalogFetched struct {
		err        error
		currencies []model.Currency
	}
	lookupFinished struct {
		err   error
		seq   uint64
		value float64
	}
	// textSettled and amountSettled carry the epoch they were pushed in;
	// events from an earlier epoch are dropped.
	textSettled struct {
		text  string
		epoch uint64
	}
	amountSettled struct {
		amount model.Amount
		epoch  uint64
	}
)

func (textChanged) isEvent()    {}
func (textSettled) isEvent()    {}
func (amountSettled) isEvent()  {}
func (fromSelected) isEvent()   {}
func (toSelected) isEvent()     {}
func (swapped) isEvent()        {}
func (convertForced) isEvent()  {}
func (resetRequested) isEvent() {}
func (voiceRequested) isEvent() {}
func (voiceStopped) isEvent()   {}
func (voiceReported) isEvent()  {}
func (catalogFetched) isEvent() {}
func (lookupFinished) isEvent() {}

// NewController wires a controller. Missing delays fall back to the
// defaults; a missing notifier discards notifications.
func NewController(cfg Config) *Controller {
	if cfg.TextDelay <= 0 {
		cfg.TextDelay = DefaultTextDelay
	}
	if cfg.AmountDelay <= 0 {
		cfg.AmountDelay = DefaultAmountDelay
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discardNotifier{}
	}
	if cfg.Listener == nil {
		cfg.Listener = voice.NewListener(nil)
	}

	c := &Controller{
		provider: cfg.Provider,
		notifier: cfg.Notifier,
		listener: cfg.Listener,
		defaults: cfg.Defaults,
		events:   make(chan event, 64),
		done:     make(chan struct{}),
		state:    NewState(cfg.Defaults),
	}
	c.published = c.state
	c.textDelay = debounce.New(cfg.TextDelay, func(ev textSettled) {
		c.post(ev)
	})
	c.amountDelay = debounce.New(cfg.AmountDelay, func(ev amountSettled) {
		c.post(ev)
	})

	return c
}

// OnChange registers fn to receive every new state. It must be called
// before Run; fn runs on the event loop and must not block.
func (c *Controller) OnChange(fn func(State)) {
	c.subscribers = append(c.subscribers, fn)
}

// State returns the most recently published state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.published
}

// SetText records a keystroke-level change of the amount text.
func (c *Controller) SetText(text string) { c.post(textChanged{text: text}) }

// SelectFrom chooses the source currency.
func (c *Controller) SelectFrom(code model.CurrencyCode) { c.post(fromSelected{code: code}) }

// SelectTo chooses the target currency.
func (c *Controller) SelectTo(code model.CurrencyCode) { c.post(toSelected{code: code}) }

// Swap exchanges source and target currencies.
func (c *Controller) Swap() { c.post(swapped{}) }

// Convert evaluates the current text immediately and issues a fresh lookup.
func (c *Controller) Convert() { c.post(convertForced{}) }

// Reset restores the defaults.
func (c *Controller) Reset() { c.post(resetRequested{}) }

// StartVoice begins a voice capture session.
func (c *Controller) StartVoice() { c.post(voiceRequested{}) }

// StopVoice cancels the running voice session, if any.
func (c *Controller) StopVoice() { c.post(voiceStopped{}) }

// Run loads the catalog and processes events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("controller already running")
	}
	c.running = true
	c.mu.Unlock()

	c.ctx = ctx
	defer close(c.done)
	defer c.textDelay.Cancel()
	defer c.amountDelay.Cancel()

	c.publish()
	go c.loadCatalog(ctx)
	if c.state.Text != "" {
		c.textDelay.Push(textSettled{text: c.state.Text, epoch: c.epoch})
	}

	for {
		select {
		case <-ctx.Done():
			if c.session != nil {
				c.session.Cancel()
			}
			return nil
		case ev := <-c.events:
			c.handle(ev)
			c.publish()
		}
	}
}

// post hands an event to the loop. Events raised after the loop has
// stopped are dropped.
func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	c.published = c.state
	c.mu.Unlock()

	for _, fn := range c.subscribers {
		fn(c.state)
	}
}

func (c *Controller) handle(ev event) {
	switch ev := ev.(type) {
	case textChanged:
		c.state = c.state.WithText(ev.text)
		c.textDelay.Push(textSettled{text: ev.text, epoch: c.epoch})

	case textSettled:
		if ev.epoch != c.epoch {
			slog.Debug("Dropping superseded settled text", "text", ev.text)
			return
		}
		amount := c.evaluate(ev.text)
		c.state = c.state.Evaluated(amount)
		c.amountDelay.Push(amountSettled{amount: amount, epoch: c.epoch})

	case amountSettled:
		if ev.epoch != c.epoch {
			slog.Debug("Dropping superseded settled amount", "amount", ev.amount.Value)
			return
		}
		var req *model.ConversionRequest
		c.state, req = c.state.Settle(ev.amount)
		c.issue(req)

	case fromSelected:
		var req *model.ConversionRequest
		c.state, req = c.state.SelectFrom(ev.code)
		c.issue(req)

	case toSelected:
		var req *model.ConversionRequest
		c.state, req = c.state.SelectTo(ev.code)
		c.issue(req)

	case swapped:
		var req *model.ConversionRequest
		c.state, req = c.state.Swap()
		c.issue(req)

	case convertForced:
		c.discardPending()
		var (
			req    *model.ConversionRequest
			notice string
		)
		c.state, req, notice = c.state.ForceConvert(c.evaluate(c.state.Text))
		if notice != "" {
			c.notifier.Notify(service.LevelError, notice)
		}
		c.issue(req)

	case resetRequested:
		c.discardPending()
		c.state = c.state.Reset(c.defaults)
		c.notifier.Notify(service.LevelInfo, common.MsgReset)

	case voiceRequested:
		c.startVoice()

	case voiceStopped:
		if c.session != nil {
			c.session.Cancel()
		}

	case voiceReported:
		c.handleVoice(ev.ev)

	case catalogFetched:
		if ev.err != nil {
			common.LogError(ev.err, "Failed to load currency catalog", nil)
			c.state = c.state.CatalogFailed(common.MsgCatalogFailed)
			c.notifier.Notify(service.LevelError, common.MsgCatalogFailed)
			return
		}
		var req *model.ConversionRequest
		c.state, req = c.state.CatalogLoaded(model.NewCatalog(ev.currencies))
		slog.Info("Currency catalog loaded", "count", c.state.Catalog.Len())
		c.issue(req)

	case lookupFinished:
		next, err := c.state.Resolve(ev.seq, ev.value, ev.err)
		if errors.Is(err, common.ErrStaleResponse) {
			slog.Debug("Discarding stale conversion response", "seq", ev.seq, "latest", c.state.Seq())
			return
		}
		c.state = next
		if ev.err != nil {
			c.notifier.Notify(service.LevelError, c.state.Err)
		}
	}
}

// discardPending drops debounced input, including settle events that fired
// but are still queued behind the current one.
func (c *Controller) discardPending() {
	c.textDelay.Cancel()
	c.amountDelay.Cancel()
	c.epoch++
}

// evaluate runs the expression evaluator, reporting invalid input to the
// user. Invalid input leaves the amount absent.
func (c *Controller) evaluate(text string) model.Amount {
	amount, err := expr.Evaluate(text)
	if err != nil {
		slog.Debug("Invalid amount expression", "text", text, "error", err)
		c.notifier.Notify(service.LevelError, common.MsgInvalidExpression)
		return model.NoAmount
	}
	return amount
}

func (c *Controller) issue(req *model.ConversionRequest) {
	if req == nil || c.provider == nil {
		return
	}

	r := *req
	id := uuid.NewString()
	slog.Debug("Issuing conversion lookup",
		"seq", r.Seq,
		"request_id", id,
		"from", r.From,
		"to", r.To,
		"amount", r.Amount)

	go func() {
		value, err := c.provider.Convert(c.ctx, r.From, r.To, r.Amount)
		if err != nil {
			common.LogError(err, "Conversion lookup failed", common.Fields{"seq": r.Seq, "request_id": id})
		}
		c.post(lookupFinished{seq: r.Seq, value: value, err: err})
	}()
}

func (c *Controller) loadCatalog(ctx context.Context) {
	if c.provider == nil {
		c.post(catalogFetched{err: common.ErrCatalogLoad})
		return
	}
	currencies, err := c.provider.ListCurrencies(ctx)
	c.post(catalogFetched{currencies: currencies, err: err})
}

func (c *Controller) startVoice() {
	session, err := c.listener.Start(c.ctx)
	switch {
	case errors.Is(err, common.ErrCapabilityUnavailable):
		c.notifier.Notify(service.LevelError, common.MsgNoCapability)
		return
	case errors.Is(err, common.ErrSessionActive):
		c.notifier.Notify(service.LevelInfo, common.MsgSessionActive)
		return
	case err != nil:
		c.notifier.Notify(service.LevelError, common.MsgVoiceFailed)
		return
	}

	c.session = session
	c.state = c.state.WithListening(true)

	go func() {
		for ev := range session.Events() {
			c.post(voiceReported{ev: ev})
		}
	}()
}

func (c *Controller) handleVoice(ev voice.Event) {
	if c.session == nil || c.session.ID != ev.SessionID {
		slog.Debug("Ignoring event from finished voice session", "session", ev.SessionID)
		return
	}

	switch ev.Kind {
	case voice.EventTranscript:
		cmd, err := voice.Interpret(ev.Transcript, c.state.Catalog)
		if err != nil {
			slog.Info("Voice command not understood", "session", ev.SessionID, "transcript", ev.Transcript, "error", err)
			c.notifier.Notify(service.LevelError, common.MsgUnrecognized)
			return
		}
		c.discardPending()
		c.state = c.state.ApplyVoice(cmd)
		c.amountDelay.Push(amountSettled{amount: c.state.Amount, epoch: c.epoch})

	case voice.EventError:
		if !errors.Is(ev.Err, context.Canceled) {
			common.LogError(ev.Err, "Voice capture failed", common.Fields{"session": ev.SessionID})
			c.notifier.Notify(service.LevelError, common.MsgVoiceFailed)
		}

	case voice.EventEnded:
		c.session = nil
		c.state = c.state.WithListening(false)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(service.NotificationLevel, string) {}
