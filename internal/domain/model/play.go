// Package model contains domain models passed between layers.
package model

import "sort"

// Mods is the legacy mod bitmask reported by the v1 API.
type Mods int64

// Legacy mod bits.
const (
	ModNoFail      Mods = 1 << 0
	ModEasy        Mods = 1 << 1
	ModTouchDevice Mods = 1 << 2
	ModHidden      Mods = 1 << 3
	ModHardRock    Mods = 1 << 4
	ModSuddenDeath Mods = 1 << 5
	ModDoubleTime  Mods = 1 << 6
	ModRelax       Mods = 1 << 7
	ModHalfTime    Mods = 1 << 8
	ModNightcore   Mods = 1 << 9
	ModFlashlight  Mods = 1 << 10
	ModSpunOut     Mods = 1 << 12
)

var modAcronyms = []struct {
	bit  Mods
	name string
}{
	{ModNoFail, "NF"},
	{ModEasy, "EZ"},
	{ModTouchDevice, "TD"},
	{ModHidden, "HD"},
	{ModHardRock, "HR"},
	{ModSuddenDeath, "SD"},
	{ModDoubleTime, "DT"},
	{ModRelax, "RX"},
	{ModHalfTime, "HT"},
	{ModNightcore, "NC"},
	{ModFlashlight, "FL"},
	{ModSpunOut, "SO"},
}

// String renders the mod combination as concatenated acronyms, e.g. "HDDT".
// Nightcore implies the DoubleTime bit; only NC is printed in that case.
func (m Mods) String() string {
	if m == 0 {
		return "None"
	}
	if m&ModNightcore != 0 {
		m &^= ModDoubleTime
	}
	var out []byte
	for _, a := range modAcronyms {
		if m&a.bit != 0 {
			out = append(out, a.name...)
		}
	}
	if len(out) == 0 {
		return "None"
	}
	return string(out)
}

// Play is one observed scored performance, normalized from the remote
// payload. Rank is positional: a play's rank is its index in a list sorted
// by descending pp for whichever track is being analyzed, never a stored
// field.
type Play struct {
	BeatmapID int64
	Mods      Mods
	Count300  int
	Count100  int
	Count50   int
	CountMiss int
	MaxCombo  int
	Grade     string

	// LivePP is the pp value the remote service reported for this play.
	LivePP float64
	// LocalPP is the locally recomputed value, filled by the pipeline.
	LocalPP float64
}

// Profile is the remote account summary the comparison runs against.
type Profile struct {
	UserID    int64
	Username  string
	TotalPP   float64
	PlayCount int
}

// SortByLivePP orders plays by descending live pp. Stable so equal scores
// keep their fetch order.
func SortByLivePP(plays []Play) {
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].LivePP > plays[j].LivePP })
}

// SortByLocalPP orders plays by descending locally recomputed pp.
func SortByLocalPP(plays []Play) {
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].LocalPP > plays[j].LocalPP })
}

// LivePPs extracts the live track scores in slice order.
func LivePPs(plays []Play) []float64 {
	out := make([]float64, len(plays))
	for i := range plays {
		out[i] = plays[i].LivePP
	}
	return out
}

// LocalPPs extracts the local track scores in slice order.
func LocalPPs(plays []Play) []float64 {
	out := make([]float64, len(plays))
	for i := range plays {
		out[i] = plays[i].LocalPP
	}
	return out
}
