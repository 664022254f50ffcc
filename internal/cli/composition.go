package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/minerals"
)

type compositionJSON struct {
	Oxides           map[string]float64 `json:"oxides_wt_pct"`
	TotalWtPct       float64            `json:"total_wt_pct"`
	ElementFractions map[string]float64 `json:"element_fractions"`
}

func newCompositionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "composition <oxides.csv>",
		Short: "Convert an oxide composition into element weight fractions",
		Long: `Read a CSV with oxide and wt_pct columns, print the oxide table with its
total, and the elemental weight fractions normalised to sum to one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			bc, err := minerals.LoadBulkComposition(f, nil)
			if err != nil {
				return err
			}
			fractions, err := bc.ElementFractions()
			if err != nil {
				return err
			}
			return renderComposition(a.renderer(cmd), bc, fractions)
		},
	}
}

func renderComposition(r *renderer, bc *minerals.BulkComposition, fractions map[string]float64) error {
	if r.json() {
		out := compositionJSON{
			Oxides:           make(map[string]float64, len(bc.Oxides())),
			TotalWtPct:       bc.Total(),
			ElementFractions: fractions,
		}
		for _, ox := range bc.Oxides() {
			out.Oxides[ox], _ = bc.WeightPercent(ox)
		}
		return r.encode(out)
	}

	rows := make([]table.Row, 0, len(bc.Oxides()))
	for _, ox := range bc.Oxides() {
		wt, _ := bc.WeightPercent(ox)
		rows = append(rows, table.Row{ox, fmt.Sprintf("%.4f", wt)})
	}
	r.writeTable("Oxides", table.Row{"Oxide", "wt %"}, rows, table.Row{"Total", fmt.Sprintf("%.4f", bc.Total())})

	// Largest fraction first, ties by symbol.
	syms := make([]string, 0, len(fractions))
	for s := range fractions {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool {
		if fractions[syms[i]] != fractions[syms[j]] {
			return fractions[syms[i]] > fractions[syms[j]]
		}
		return syms[i] < syms[j]
	})
	rows = rows[:0]
	for _, s := range syms {
		rows = append(rows, table.Row{s, fmt.Sprintf("%.6f", fractions[s])})
	}
	r.writeTable("Elements", table.Row{"Element", "Weight fraction"}, rows, nil)
	return nil
}

type molarMassJSON struct {
	Formula   string         `json:"formula"`
	MolarMass float64        `json:"molar_mass_g_mol"`
	Atoms     map[string]int `json:"atoms"`
}

func newMolarMassCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "molar-mass <formula>...",
		Aliases: []string{"mm"},
		Short:   "Print the molar mass of one or more chemical formulas",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt := minerals.DefaultPeriodicTable()
			out := make([]molarMassJSON, 0, len(args))
			for _, formula := range args {
				mass, err := pt.MolecularMass(formula)
				if err != nil {
					return err
				}
				atoms, _ := minerals.AtomicCounts(formula)
				out = append(out, molarMassJSON{Formula: formula, MolarMass: mass, Atoms: atoms})
			}

			r := a.renderer(cmd)
			if r.json() {
				return r.encode(out)
			}
			rows := make([]table.Row, 0, len(out))
			for _, m := range out {
				rows = append(rows, table.Row{m.Formula, fmt.Sprintf("%.3f", m.MolarMass)})
			}
			r.writeTable("", table.Row{"Formula", "g/mol"}, rows, nil)
			return nil
		},
	}
}
