// Package console implements the connectivity test view: three independent
// triggers, each with its own loading flag and result slot.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

// ErrNilRunner is returned by New without a Runner.
var ErrNilRunner = errors.New("console: nil runner")

// Runner executes one connectivity test. Failures are reported in the
// outcome, never as an error.
type Runner interface {
	RunTest(ctx context.Context, kind types.TestKind) types.TestOutcome
}

type slot struct {
	// pending counts outstanding requests; the slot is loading while > 0.
	pending int
	result  *types.TestOutcome
}

// Console holds one slot per test kind. A slot is written only by its own
// kind's requests.
type Console struct {
	runner Runner
	loc    *i18n.Localizer
	logger logger.Logger

	mu       sync.RWMutex
	slots    map[types.TestKind]*slot
	inflight sync.WaitGroup
}

// New constructs a Console with every slot idle.
func New(r Runner, opts ...Option) (*Console, error) {
	if r == nil {
		return nil, ErrNilRunner
	}
	c := &Console{
		runner: r,
		loc:    i18n.Default(),
		logger: logger.Nop(),
		slots:  make(map[types.TestKind]*slot, len(types.Kinds())),
	}
	for _, k := range types.Kinds() {
		c.slots[k] = &slot{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Trigger starts a test for kind in the background and returns at once.
// Nothing is queued or cancelled: a trigger while the same kind is loading
// starts a second request, and whichever resolves last owns the slot.
func (c *Console) Trigger(ctx context.Context, kind types.TestKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}

	c.mu.Lock()
	c.slots[kind].pending++
	c.mu.Unlock()
	metrics.RecordTriggerStarted(string(kind))

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		out := c.runner.RunTest(ctx, kind)
		c.resolve(ctx, kind, out)
	}()
	return nil
}

func (c *Console) resolve(ctx context.Context, kind types.TestKind, out types.TestOutcome) {
	metrics.RecordTriggerFinished(string(kind), out.Success)
	if !out.Success {
		c.logger.Debug(ctx, "connectivity test failed",
			logger.String("kind", string(kind)),
			logger.String("reason", out.Error))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	s.pending--
	s.result = &out
}

// Loading reports whether kind has a request outstanding.
func (c *Console) Loading(kind types.TestKind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[kind]
	return ok && s.pending > 0
}

// Wait blocks until every triggered request has resolved.
func (c *Console) Wait() { c.inflight.Wait() }

// Card is the rendered state of one trigger.
type Card struct {
	Kind        types.TestKind     `json:"kind"`
	Title       string             `json:"title"`
	ButtonLabel string             `json:"button_label"`
	Loading     bool               `json:"loading"`
	Result      *types.TestOutcome `json:"result,omitempty"`
	PrettyData  string             `json:"pretty_data,omitempty"`
}

// Snapshot returns one card per kind in display order.
func (c *Console) Snapshot() []Card {
	c.mu.RLock()
	cards := make([]Card, 0, len(c.slots))
	for _, k := range types.Kinds() {
		s := c.slots[k]
		card := Card{Kind: k, Loading: s.pending > 0}
		if s.result != nil {
			res := *s.result
			card.Result = &res
		}
		cards = append(cards, card)
	}
	c.mu.RUnlock()

	for i := range cards {
		cards[i].Title, cards[i].ButtonLabel = c.labels(cards[i].Kind)
		if cards[i].Loading {
			cards[i].ButtonLabel = c.loc.T(i18n.Testing)
		}
		if cards[i].Result != nil {
			cards[i].PrettyData = PrettyJSON(cards[i].Result.Data)
		}
	}
	return cards
}

func (c *Console) labels(kind types.TestKind) (title, button string) {
	switch kind {
	case types.KindRedis:
		return c.loc.T(i18n.RedisCardTitle), c.loc.T(i18n.TestRedis)
	case types.KindMySQL:
		return c.loc.T(i18n.MySQLCardTitle), c.loc.T(i18n.TestMySQL)
	default:
		return c.loc.T(i18n.AllCardTitle), c.loc.T(i18n.TestAll)
	}
}

// PrettyJSON indents raw with two spaces. Empty input gives "", and input
// that is not valid JSON is returned as is.
func PrettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
