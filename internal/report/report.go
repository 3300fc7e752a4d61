// Package report renders a completed comparison as a console table: one
// row per play with the live/local delta and rank shift, followed by the
// totals block.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pptally/internal/recompute"
)

// playKey identifies one play across the two track orders.
type playKey struct {
	beatmapID int64
	mods      int64
}

// Write renders the result to w.
func Write(w io.Writer, res *recompute.Result) error {
	fmt.Fprintf(w, "%s (user %d): live total %.2fpp over %d plays\n\n",
		res.Profile.Username, res.Profile.UserID, res.Profile.TotalPP, res.Profile.PlayCount)

	// Rank on the live track, keyed by play identity. The rank shift is a
	// set comparison of the two independently sorted orders.
	liveRank := make(map[playKey]int, len(res.Live))
	for i, p := range res.Live {
		liveRank[playKey{p.BeatmapID, int64(p.Mods)}] = i
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tbeatmap\tmods\tgrade\tlive pp\tlocal pp\tdelta\tshift\t")
	for i, p := range res.Local {
		shift := liveRank[playKey{p.BeatmapID, int64(p.Mods)}] - i
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.2f\t%.2f\t%+.2f\t%+d\t\n",
			i+1, p.BeatmapID, p.Mods, p.Grade, p.LivePP, p.LocalPP, p.LocalPP-p.LivePP, shift)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	cmp := res.Comparison
	fmt.Fprintf(w, `
observed weighted (local):  %10.2fpp
extrapolated tail (local):  %10.2fpp
observed weighted (live):   %10.2fpp
extrapolated tail (live):   %10.2fpp
bonus residual:             %10.2fpp
local total:                %10.2fpp
live total:                 %10.2fpp
gap:                        %+10.2fpp
`,
		cmp.Computed.Observed,
		cmp.Computed.Tail,
		cmp.Reference.Observed,
		cmp.Reference.Tail,
		cmp.Bonus,
		cmp.Final,
		res.Profile.TotalPP,
		cmp.Final-res.Profile.TotalPP)
	return nil
}
