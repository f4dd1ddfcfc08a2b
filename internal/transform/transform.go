// Package transform converts raw vendor tick records into real-valued ticks.
package transform

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/fx-ticks/internal/model"
)

// ErrUnknownPair is returned when no price scale is registered for a pair.
var ErrUnknownPair = errors.New("unknown currency pair")

// Transformer applies price and volume scaling. The zero value is not usable;
// construct with New.
type Transformer struct {
	priceScales map[string]decimal.Decimal
	volumeScale decimal.Decimal
	tagPair     bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithPairTag sets Tick.Pair on every output tick.
func WithPairTag(enabled bool) Option {
	return func(t *Transformer) {
		t.tagPair = enabled
	}
}

// WithPriceScale registers or overrides the price divisor for a pair.
func WithPriceScale(pair string, scale decimal.Decimal) Option {
	return func(t *Transformer) {
		t.priceScales[pair] = scale
	}
}

// New creates a Transformer with the default scale table.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		priceScales: DefaultPriceScales(),
		volumeScale: VolumeScale,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform converts records for pair at hour into ticks, preserving order.
func (t *Transformer) Transform(records []model.TickRecord, pair string, hour time.Time) ([]model.Tick, error) {
	scale, ok := t.priceScales[pair]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPair, pair)
	}

	ticks := make([]model.Tick, len(records))
	for i, r := range records {
		ticks[i] = model.Tick{
			Timestamp: hour.Add(time.Duration(r.OffsetMs) * time.Millisecond),
			Ask:       scalePrice(r.AskRaw, scale),
			Bid:       scalePrice(r.BidRaw, scale),
			AskVolume: scaleVolume(r.AskVolumeRaw, t.volumeScale),
			BidVolume: scaleVolume(r.BidVolumeRaw, t.volumeScale),
		}
		if t.tagPair {
			ticks[i].Pair = pair
		}
	}
	return ticks, nil
}

func scalePrice(raw uint32, scale decimal.Decimal) float64 {
	f, _ := decimal.NewFromInt(int64(raw)).Div(scale).Float64()
	return f
}

func scaleVolume(raw float32, scale decimal.Decimal) float64 {
	f, _ := decimal.NewFromFloat32(raw).Mul(scale).Round(0).Float64()
	return f
}
