package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntkit/ntsolve/internal/config"
	"github.com/ntkit/ntsolve/internal/engine"
	"github.com/ntkit/ntsolve/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ntsolve",
	Short: "Planar curvilinear-motion kinematics resolver",
	Long: "Infers unknown normal–tangential kinematic quantities (speed, tangential/normal/total " +
		"acceleration, curvature radius, angle, elapsed time) from whatever subset is known, " +
		"including quantities supplied as formulas of position or time.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newEngine builds the resolution engine from loaded configuration.
func newEngine() *engine.Engine {
	return engine.New(
		engine.Options{DecomposeTotal: cfg.Engine.DecomposeTotal},
		engine.NewZapObserver(zap.L()),
	)
}

// initStore opens the solve-history store, or returns nil when history is
// disabled by configuration.
func initStore(cmd *cobra.Command) (store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
