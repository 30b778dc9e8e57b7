package main

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxKinds is the largest number of resource kinds a blueprint may declare.
const MaxKinds = 8

// ResourceKind indexes a resource in a blueprint's ordered kind list.
// Kind 0 is the base kind; the last kind is the terminal kind being maximized.
type ResourceKind int

// Kinds of the four-tier reference economy.
const (
	Ore ResourceKind = iota
	Clay
	Obsidian
	Geode
)

// DefaultKindNames names the reference economy, in tier order.
var DefaultKindNames = []string{"ore", "clay", "obsidian", "geode"}

// Amounts is a per-kind integer vector: stock, producer counts or one cost row.
type Amounts [MaxKinds]int

func (a Amounts) plus(b Amounts) Amounts {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

func (a Amounts) minus(b Amounts) Amounts {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// covers reports whether a holds at least b of every kind.
func (a Amounts) covers(b Amounts) bool {
	for i := range a {
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// KindSet is a bit-set of resource kinds.
type KindSet uint8

func (s KindSet) Has(k ResourceKind) bool { return s&(1<<uint(k)) != 0 }

func (s KindSet) With(k ResourceKind) KindSet { return s | 1<<uint(k) }

func (s KindSet) Len() int { return bits.OnesCount8(uint8(s)) }

func (s KindSet) String() string {
	var parts []string
	for k := ResourceKind(0); k < MaxKinds; k++ {
		if s.Has(k) {
			parts = append(parts, fmt.Sprint(int(k)))
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// BuildCost holds one cost row per producer kind; row k is the price of a
// producer that yields kind k.
type BuildCost []Amounts

// Blueprint is an immutable cost table plus its derived demand cap.
type Blueprint struct {
	ID    int
	Names []string // kind names, base first, terminal last; optional
	Kinds int
	Costs [MaxKinds]Amounts
	// DemandCap[r] is the largest amount of r any single build consumes.
	// Zero for the terminal kind, which is never consumed.
	DemandCap Amounts
}

// Compile validates the cost table and derives the demand cap. Malformed
// tables are rejected by the parser before reaching here, so violations panic.
func Compile(costs BuildCost) Blueprint {
	n := len(costs)
	if n < 2 || n > MaxKinds {
		panic(fmt.Sprintf("blueprint: %d kinds, want 2..%d", n, MaxKinds))
	}
	bp := Blueprint{Kinds: n}
	terminal := n - 1
	for k, row := range costs {
		for r, c := range row {
			if c < 0 {
				panic(fmt.Sprintf("blueprint: negative cost %d of kind %d in row %d", c, r, k))
			}
			if c > 0 && r >= terminal {
				panic(fmt.Sprintf("blueprint: row %d consumes kind %d, outside non-terminal range", k, r))
			}
			if c > bp.DemandCap[r] {
				bp.DemandCap[r] = c
			}
		}
		bp.Costs[k] = row
	}
	return bp
}

// Terminal returns the kind being maximized.
func (bp *Blueprint) Terminal() ResourceKind { return ResourceKind(bp.Kinds - 1) }

// Name returns the display name of kind k.
func (bp *Blueprint) Name(k ResourceKind) string {
	if int(k) < len(bp.Names) {
		return bp.Names[k]
	}
	return fmt.Sprintf("kind%d", int(k))
}

// Affordable reports whether stock covers one producer of kind k.
func (bp *Blueprint) Affordable(stock Amounts, k ResourceKind) bool {
	return stock.covers(bp.Costs[k])
}

// Useful reports whether one more producer of kind k can still pay off:
// terminal producers always can, others only while the fleet is below the
// most that any single build consumes per tick.
func (bp *Blueprint) Useful(producers Amounts, k ResourceKind) bool {
	return k == bp.Terminal() || producers[k] < bp.DemandCap[k]
}
