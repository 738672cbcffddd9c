// Package cli contém os comandos cobra do domain-finder.
package cli

import (
	"io"
	"log/slog"
	"os"

	"domain-finder/config"
	"domain-finder/finder/domain"
	"domain-finder/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Deps permite trocar os colaboradores externos (testes, embedding).
// Campos nil usam as implementações reais (whois, datamuse).
type Deps struct {
	Prober    domain.Prober
	Suggester domain.Suggester
	Out       io.Writer
	LogOutput io.Writer
}

type rootState struct {
	deps    Deps
	v       *viper.Viper
	cfgFile string
	output  string
	cfg     config.Config
	logger  *slog.Logger
}

func Execute() {
	cmd := NewRootCmd(Deps{})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	st := &rootState{deps: deps, v: config.New()}

	cmd := &cobra.Command{
		Use:          "domain-finder",
		Short:        "Check domain registration status and find similar unregistered names",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ReadFile(st.v, st.cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(st.v)
			if err != nil {
				return err
			}
			l, err := logger.New(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: st.deps.LogOutput,
			})
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.logger = l
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&st.cfgFile, "config", "", "path to a YAML config file")
	pf.StringVarP(&st.output, "output", "o", "table", "output format: table, json or yaml")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "json", "log format: json or text")
	pf.StringSlice("labels", nil, "top-level labels used for similar-domain fan-out")
	pf.Int("max-concurrency", 0, "max simultaneous registration probes (0 = config default)")
	_ = st.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = st.v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = st.v.BindPFlag("lookup.labels", pf.Lookup("labels"))
	_ = st.v.BindPFlag("probe.max_concurrency", pf.Lookup("max-concurrency"))

	cmd.AddCommand(
		newServeCmd(st),
		newCheckCmd(st),
		newSimilarCmd(st),
		newHistoryCmd(st),
	)
	return cmd
}
