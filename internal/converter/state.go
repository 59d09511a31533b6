package converter

import (
	"strconv"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
)

// Defaults are the values a session starts from and a reset returns to.
type Defaults struct {
	From model.CurrencyCode
	To   model.CurrencyCode
	Text string
}

// State is the single record describing everything the user sees. All
// transitions are pure: they return a new State and the request to issue,
// if any, and never perform I/O.
//
// TextGen increases whenever Text is replaced by something other than
// typing (a voice command or a reset), so views know when to overwrite
// their own input.
type State struct {
	Catalog    model.Catalog
	Result     *model.ConversionResult
	Text       string
	From       model.CurrencyCode
	To         model.CurrencyCode
	Err        string
	CatalogErr string
	pending    model.ConversionRequest
	lastKey    triggerKey
	Amount     model.Amount
	Settled    model.Amount
	seq        uint64
	live       uint64
	TextGen    uint64
	Status     model.ConversionState
	Listening  bool
}

// triggerKey is the dependency tuple of the last issued request. A settled
// change that reproduces it does not issue a duplicate lookup.
type triggerKey struct {
	from   model.CurrencyCode
	to     model.CurrencyCode
	amount float64
	set    bool
}

// NewState returns the initial state for a session.
func NewState(d Defaults) State {
	return State{
		Text: d.Text,
		From: d.From,
		To:   d.To,
	}
}

// Seq returns the sequence number of the most recently issued request.
func (s State) Seq() uint64 {
	return s.seq
}

// InFlight reports whether a response is still awaited.
func (s State) InFlight() bool {
	return s.live != 0
}

// WithText records raw input. Evaluation happens only after the text settles.
func (s State) WithText(text string) State {
	s.Text = text
	return s
}

// Evaluated records the evaluation of settled text.
func (s State) Evaluated(a model.Amount) State {
	s.Amount = a
	return s
}

// Settle records the debounced amount and runs the guard.
func (s State) Settle(a model.Amount) (State, *model.ConversionRequest) {
	s.Settled = a
	return s.trigger(false)
}

// SelectFrom changes the source currency and re-runs the guard with the
// settled amount.
func (s State) SelectFrom(code model.CurrencyCode) (State, *model.ConversionRequest) {
	s.From = code
	return s.trigger(false)
}

// SelectTo changes the target currency and re-runs the guard.
func (s State) SelectTo(code model.CurrencyCode) (State, *model.ConversionRequest) {
	s.To = code
	return s.trigger(false)
}

// Swap exchanges source and target. The reversed pair always gets its own
// lookup; no reciprocal rate is derived.
func (s State) Swap() (State, *model.ConversionRequest) {
	s.From, s.To = s.To, s.From
	return s.trigger(false)
}

// ForceConvert settles a (typically the immediate evaluation of the current
// text) and issues a lookup even when the inputs match the last request.
// A non-positive amount clears the result and returns a notice for the user.
func (s State) ForceConvert(a model.Amount) (State, *model.ConversionRequest, string) {
	s.Amount = a
	s.Settled = a
	if !a.Positive() {
		next, _ := s.trigger(true)
		return next, nil, common.MsgInvalidAmount
	}
	next, req := s.trigger(true)
	return next, req, ""
}

// ApplyVoice overwrites text, amount and both currencies in one step. The
// amount still has to settle before a lookup is issued.
func (s State) ApplyVoice(cmd model.VoiceCommand) State {
	s.Text = strconv.FormatFloat(cmd.Amount, 'f', -1, 64)
	s.TextGen++
	s.Amount = model.NewAmount(cmd.Amount)
	s.From = cmd.From
	s.To = cmd.To
	return s
}

// Reset clears amount, result and error and restores default currencies.
// Outstanding responses become stale.
func (s State) Reset(d Defaults) State {
	s.Text = ""
	s.TextGen++
	s.Amount = model.NoAmount
	s.Settled = model.NoAmount
	s.From = d.From
	s.To = d.To
	s.Result = nil
	s.Err = ""
	s.Status = model.StateIdle
	s.live = 0
	s.lastKey = triggerKey{}
	return s
}

// CatalogLoaded installs the catalog and runs the guard for the amount that
// may have settled while it was loading.
func (s State) CatalogLoaded(catalog model.Catalog) (State, *model.ConversionRequest) {
	s.Catalog = catalog
	s.CatalogErr = ""
	return s.trigger(false)
}

// CatalogFailed records a catalog failure. The catalog stays empty, which
// disables the guard for the rest of the session.
func (s State) CatalogFailed(message string) State {
	s.CatalogErr = message
	return s
}

// WithListening records whether a voice session is running.
func (s State) WithListening(listening bool) State {
	s.Listening = listening
	return s
}

// Resolve applies the response to request seq. Responses to anything but
// the live request fail with common.ErrStaleResponse and leave the state
// untouched. A failed lookup stores its message and clears the result.
func (s State) Resolve(seq uint64, converted float64, lookupErr error) (State, error) {
	if s.live == 0 || seq != s.live {
		return s, common.ErrStaleResponse
	}

	s.live = 0
	if lookupErr != nil {
		s.Status = model.StateError
		s.Err = common.UserMessage(lookupErr, common.MsgLookupFailed)
		s.Result = nil
		return s, nil
	}

	s.Status = model.StateSuccess
	s.Err = ""
	s.Result = &model.ConversionResult{
		Amount:    s.pending.Amount,
		From:      s.pending.From,
		To:        s.pending.To,
		Converted: converted,
	}
	return s, nil
}

// trigger is the guard. A settled amount that is absent or not above zero
// clears the display back to idle; it is not an error.
func (s State) trigger(force bool) (State, *model.ConversionRequest) {
	if !s.Settled.Positive() {
		s.Status = model.StateIdle
		s.Result = nil
		s.Err = ""
		s.live = 0
		s.lastKey = triggerKey{}
		return s, nil
	}

	if !Guard(s.Settled, s.From, s.To, s.Catalog) {
		return s, nil
	}

	key := triggerKey{from: s.From, to: s.To, amount: s.Settled.Value, set: true}
	if !force && key == s.lastKey {
		return s, nil
	}

	s.seq++
	s.live = s.seq
	s.lastKey = key
	s.pending = model.ConversionRequest{
		Seq:    s.seq,
		Amount: s.Settled.Value,
		From:   s.From,
		To:     s.To,
	}
	s.Status = model.StateLoading
	s.Err = ""

	req := s.pending
	return s, &req
}

// Guard reports whether a lookup may be issued: a finite amount above zero,
// both currencies chosen, and both present in a loaded catalog.
func Guard(amount model.Amount, from, to model.CurrencyCode, catalog model.Catalog) bool {
	if !amount.Positive() {
		return false
	}
	if from == "" || to == "" || !catalog.Loaded() {
		return false
	}
	return catalog.Contains(from) && catalog.Contains(to)
}
