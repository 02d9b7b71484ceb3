package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntkit/ntsolve/internal/model"
)

var solveJSON bool

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Resolve a single scenario from flags",
	Long: "Builds a scenario from the supplied flags, derives every reachable quantity, and " +
		"prints all fields sorted by name. Quantities that stay underdetermined print as \"-\".",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scenarioFromFlags(cmd)

		out := newEngine().Resolve(s)

		st, err := initStore(cmd)
		if err != nil {
			return eris.Wrap(err, "open history store")
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
			if _, err := st.Save(cmd.Context(), s, out, "solve"); err != nil {
				zap.L().Warn("solve: failed to record history", zap.Error(err))
			}
		}

		if solveJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		formatScenario(cmd.OutOrStdout(), out)
		return nil
	},
}

// numericFlags maps flag names to scenario field setters; a flag only enters
// the scenario when the user actually set it, so 0 stays distinct from
// "unknown".
var numericFlags = map[string]func(*model.Scenario, float64){
	"x":       func(s *model.Scenario, v float64) { s.XVal = model.Float(v) },
	"rho":     func(s *model.Scenario, v float64) { s.Rho = model.Float(v) },
	"v":       func(s *model.Scenario, v float64) { s.V = model.Float(v) },
	"v0":      func(s *model.Scenario, v float64) { s.V0 = model.Float(v) },
	"a-t":     func(s *model.Scenario, v float64) { s.AT = model.Float(v) },
	"a-n":     func(s *model.Scenario, v float64) { s.AN = model.Float(v) },
	"a-total": func(s *model.Scenario, v float64) { s.ATotal = model.Float(v) },
	"angle":   func(s *model.Scenario, v float64) { s.AngleFromTangent = model.Float(v) },
	"time":    func(s *model.Scenario, v float64) { s.Time = model.Float(v) },
}

// scenarioFromFlags builds a Scenario from whichever solve flags were set.
func scenarioFromFlags(cmd *cobra.Command) model.Scenario {
	var s model.Scenario

	for name, set := range numericFlags {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetFloat64(name)
			set(&s, v)
		}
	}

	s.Path, _ = cmd.Flags().GetString("path")
	s.VOfTime, _ = cmd.Flags().GetString("v-of-time")
	s.VOfPosition, _ = cmd.Flags().GetString("v-of-x")
	s.ATExpr, _ = cmd.Flags().GetString("a-t-expr")
	s.SpeedIsConstant, _ = cmd.Flags().GetBool("constant-speed")
	s.SolveForElapsedTime, _ = cmd.Flags().GetBool("solve-time")

	return s
}

// formatScenario prints every field of the scenario, sorted by name.
func formatScenario(w io.Writer, s model.Scenario) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range s.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Display())
	}
	tw.Flush()
}

// addScenarioFlags registers the scenario-building flags shared with batch
// overrides.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().String("path", "", "trajectory shape y(x), e.g. \"x**2/20\"")
	cmd.Flags().Float64("x", 0, "position at which curvature and x-expressions are evaluated")
	cmd.Flags().Float64("rho", 0, "radius of curvature")
	cmd.Flags().Float64("v", 0, "instantaneous speed")
	cmd.Flags().Float64("v0", 0, "initial speed")
	cmd.Flags().String("v-of-time", "", "speed as a formula of t, e.g. \"4t\"")
	cmd.Flags().String("v-of-x", "", "speed as a formula of x")
	cmd.Flags().Float64("a-t", 0, "tangential acceleration")
	cmd.Flags().String("a-t-expr", "", "tangential acceleration as a formula of t or x")
	cmd.Flags().Float64("a-n", 0, "normal acceleration")
	cmd.Flags().Float64("a-total", 0, "total acceleration magnitude")
	cmd.Flags().Float64("angle", 0, "angle of total acceleration from tangent, degrees")
	cmd.Flags().Float64("time", 0, "clock time for t-expressions")
	cmd.Flags().Bool("constant-speed", false, "force a_t = 0")
	cmd.Flags().Bool("solve-time", false, "derive elapsed time from v0, v, a_t")
}

func init() {
	addScenarioFlags(solveCmd)
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "emit the resolved scenario as JSON")
	rootCmd.AddCommand(solveCmd)
}
