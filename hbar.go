package hashgraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
)

type HbarUnit int64

const (
	UnitTinybar  HbarUnit = 1
	UnitMicrobar HbarUnit = 100
	UnitMillibar HbarUnit = 100_000
	UnitHbar     HbarUnit = 100_000_000
	UnitKilobar  HbarUnit = 1_000 * UnitHbar
	UnitMegabar  HbarUnit = 1_000_000 * UnitHbar
	UnitGigabar  HbarUnit = 1_000_000_000 * UnitHbar
)

var HbarUnitSymbolMap = map[HbarUnit]string{
	UnitTinybar:  "tℏ",
	UnitMicrobar: "μℏ",
	UnitMillibar: "mℏ",
	UnitHbar:     "ℏ",
	UnitKilobar:  "kℏ",
	UnitMegabar:  "Mℏ",
	UnitGigabar:  "Gℏ",
}

func (u HbarUnit) String() string {
	if s, ok := HbarUnitSymbolMap[u]; ok {
		return s
	}
	return fmt.Sprintf("HbarUnit(%d)", int64(u))
}

// Hbar is an amount held as tinybars.
type Hbar int64

func NewHbar(hbars int64) Hbar {
	return Hbar(hbars * int64(UnitHbar))
}

func HbarFromTinybars(tinybars int64) Hbar {
	return Hbar(tinybars)
}

// HbarFrom converts amount in unit to tinybars, rejecting fractional
// tinybars and overflow.
func HbarFrom(amount float64, unit HbarUnit) (h Hbar, err error) {
	tinybars := amount * float64(unit)
	if math.IsNaN(tinybars) || math.IsInf(tinybars, 0) || tinybars >= math.MaxInt64 || tinybars < math.MinInt64 {
		err = errors.Wrapf(ErrValidation, "amount %v %s out of range", amount, unit)
		return
	}
	if tinybars != math.Trunc(tinybars) {
		err = errors.Wrapf(ErrValidation, "amount %v %s is not a whole number of tinybars", amount, unit)
		return
	}
	return Hbar(tinybars), nil
}

func (h Hbar) Tinybars() int64 {
	return int64(h)
}

func (h Hbar) As(unit HbarUnit) float64 {
	return float64(h) / float64(unit)
}

func (h Hbar) Negated() Hbar {
	return -h
}

func (h Hbar) String() string {
	if h%Hbar(UnitHbar) == 0 {
		return fmt.Sprintf("%d %s", int64(h)/int64(UnitHbar), UnitHbar)
	}
	return fmt.Sprintf("%d %s", int64(h), UnitTinybar)
}

// ParseHbar reads "<amount>" as hbars or "<amount> <symbol>".
func ParseHbar(s string) (h Hbar, err error) {
	amountStr, symbol, _ := strings.Cut(strings.TrimSpace(s), " ")

	unit := UnitHbar
	if symbol != "" {
		found := false
		for u, sym := range HbarUnitSymbolMap {
			if sym == symbol {
				unit, found = u, true
				break
			}
		}
		if !found {
			err = errors.Wrapf(ErrValidation, "unknown hbar unit '%s'", symbol)
			return
		}
	}

	amount, err2 := strconv.ParseFloat(amountStr, 64)
	if err2 != nil {
		err = errors.Wrapf(ErrValidation, "invalid hbar amount '%s'", amountStr)
		return
	}

	return HbarFrom(amount, unit)
}

func durationToProto(d time.Duration) *hapi.Duration {
	return &hapi.Duration{Seconds: int64(d / time.Second)}
}

func durationFromProto(p *hapi.Duration) time.Duration {
	if p == nil {
		return 0
	}
	return time.Duration(p.Seconds) * time.Second
}

func timestampToProto(t time.Time) *hapi.Timestamp {
	return &hapi.Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func timestampFromProto(p *hapi.Timestamp) time.Time {
	if p == nil {
		return time.Time{}
	}
	return time.Unix(p.Seconds, int64(p.Nanos)).UTC()
}
