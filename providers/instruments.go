// Package providers supplies static instrument metadata for Vietnamese
// securities: lot sizes, tick sizes and price precision used when converting
// order quantities and prices.
package providers

import (
	"regexp"

	"github.com/shopspring/decimal"

	"dnse-connect/common"
)

// Instrument is the static metadata for one tradable symbol.
type Instrument struct {
	Symbol         string
	Exchange       common.Exchange
	LotSize        int64
	TickSize       decimal.Decimal
	PricePrecision int32
	IsDerivative   bool
}

// VN30 index futures: VN30F followed by YYMM.
var vn30FuturePattern = regexp.MustCompile(`^VN30F\d{4}$`)

var (
	tickTen = decimal.NewFromInt(10)
	tickOne = decimal.NewFromInt(1)
)

// hoseSymbols are the commonly traded HOSE listings. HOSE equities trade in
// board lots of 100 with a 10 VND tick at mid prices.
var hoseSymbols = []string{
	"VNM", "VIC", "VHM", "VCB", "BID", "FPT", "MSN", "MWG", "HPG", "TCB",
	"VPB", "MBB", "ACB", "STB", "SSI", "VND", "HCM", "VCI", "PNJ", "REE",
	"GAS", "PLX", "POW", "PVD", "VRE", "NVL", "BCM", "CTG", "SAB", "VJC",
	"GVR", "SHB", "TPB", "EIB", "LPB", "HDB", "SSB", "VIB", "BVH", "DGC",
}

// hnxSymbols are common HNX listings, board lot 100, 100 VND tick.
var hnxSymbols = []string{
	"SHS", "PVS", "CEO", "IDC", "MBS", "HUT", "TNG", "VCS", "NVB", "BVS",
}

// Provider resolves symbols to instrument metadata from a static table plus
// a pattern rule for VN30 index futures.
type Provider struct {
	bySymbol map[string]Instrument
}

// NewProvider builds the provider with the known-symbol table loaded.
func NewProvider() *Provider {
	p := &Provider{bySymbol: make(map[string]Instrument)}

	for _, symbol := range hoseSymbols {
		p.bySymbol[symbol] = Instrument{
			Symbol:         symbol,
			Exchange:       common.ExchangeHOSE,
			LotSize:        100,
			TickSize:       tickTen,
			PricePrecision: 0,
		}
	}
	for _, symbol := range hnxSymbols {
		p.bySymbol[symbol] = Instrument{
			Symbol:         symbol,
			Exchange:       common.ExchangeHNX,
			LotSize:        100,
			TickSize:       decimal.NewFromInt(100),
			PricePrecision: 0,
		}
	}
	return p
}

// Lookup resolves a symbol. Unknown symbols matching the VN30 futures
// pattern resolve to a derivative instrument; anything else unknown gets a
// conservative UPCOM default so order conversion still has lot metadata.
func (p *Provider) Lookup(symbol string) (Instrument, bool) {
	if inst, ok := p.bySymbol[symbol]; ok {
		return inst, true
	}
	if vn30FuturePattern.MatchString(symbol) {
		return Instrument{
			Symbol:         symbol,
			Exchange:       common.ExchangeHNX,
			LotSize:        1,
			TickSize:       decimal.NewFromFloat(0.1),
			PricePrecision: 1,
			IsDerivative:   true,
		}, true
	}
	return Instrument{
		Symbol:         symbol,
		Exchange:       common.ExchangeUPCOM,
		LotSize:        100,
		TickSize:       tickOne,
		PricePrecision: 0,
	}, false
}

// Symbols returns all symbols in the static table.
func (p *Provider) Symbols() []string {
	symbols := make([]string, 0, len(p.bySymbol))
	for symbol := range p.bySymbol {
		symbols = append(symbols, symbol)
	}
	return symbols
}
