package main

import (
	"fmt"
	"io"
	"strings"
)

// FormatBlueprint renders bp in the text form accepted by ParseBlueprints.
func FormatBlueprint(bp *Blueprint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Blueprint %d:", bp.ID)
	for k := ResourceKind(0); int(k) < bp.Kinds; k++ {
		var terms []string
		for r := ResourceKind(0); int(r) < bp.Kinds; r++ {
			if n := bp.Costs[k][r]; n > 0 {
				terms = append(terms, fmt.Sprintf("%d %s", n, bp.Name(r)))
			}
		}
		if len(terms) == 0 {
			// zero-cost producers have no sentence form the parser accepts
			terms = append(terms, "0 "+bp.Name(0))
		}
		fmt.Fprintf(&b, " Each %s robot costs %s.", bp.Name(k), strings.Join(terms, " and "))
	}
	return b.String()
}

// FormatDemandCap renders the demand cap as "ore=4 clay=14 obsidian=7".
func FormatDemandCap(bp *Blueprint) string {
	parts := make([]string, 0, bp.Kinds-1)
	for r := ResourceKind(0); r < bp.Terminal(); r++ {
		parts = append(parts, fmt.Sprintf("%s=%d", bp.Name(r), bp.DemandCap[r]))
	}
	return strings.Join(parts, " ")
}

// printTable writes a human-readable result table.
func printTable(w io.Writer, s Summary) {
	fmt.Fprintf(w, "%-10s %8s %8s %12s %10s %8s\n", "Blueprint", "Best", "Quality", "Nodes", "Memo", "Time")
	fmt.Fprintf(w, "%-10s %8s %8s %12s %10s %8s\n", "----------", "--------", "--------", "------------", "----------", "--------")
	for _, r := range s.Results {
		if !r.Solved {
			fmt.Fprintf(w, "%-10d %8s\n", r.ID, "-")
			continue
		}
		fmt.Fprintf(w, "%-10d %8d %8d %12d %10d %7.1fs\n",
			r.ID, r.Best, r.Quality, r.Stats.Nodes, r.Stats.MemoSize, float64(r.TimeMs)/1000)
	}
	fmt.Fprintf(w, "%-10s %8s %8s %12s %10s %8s\n", "----------", "--------", "--------", "------------", "----------", "--------")
	fmt.Fprintf(w, "%-10s %8d %8s %12s %10s %7.1fs\n",
		strings.ToUpper(s.Mode), s.Value, "", "", "", float64(s.TotalMs)/1000)
}
