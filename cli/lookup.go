package cli

import (
	"fmt"

	"domain-finder/finder/application"

	"github.com/spf13/cobra"
)

func newCheckCmd(st *rootState) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "check <domain>",
		Short: "Check whether a domain is registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), st.cfg, st.logger, st.deps)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			st.warnEphemeralHistory(user)
			ctx := application.WithUser(cmd.Context(), user)
			res, err := a.service.LookupSingle(ctx, args[0])
			if err != nil {
				return err
			}
			return printDomains(st.deps.Out, st.output, res)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "record the lookup in this user's history")
	return cmd
}

func newSimilarCmd(st *rootState) *cobra.Command {
	var (
		user             string
		onlyUnregistered bool
	)

	cmd := &cobra.Command{
		Use:   "similar <domain>",
		Short: "Check a domain and list similar names across the configured labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), st.cfg, st.logger, st.deps)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var opts application.SimilarOptions
			if cmd.Flags().Changed("only-unregistered") {
				opts.OnlyUnregistered = &onlyUnregistered
			}

			st.warnEphemeralHistory(user)
			ctx := application.WithUser(cmd.Context(), user)
			res, err := a.service.LookupSimilar(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return printSimilar(st.deps.Out, st.output, res)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "record the lookup in this user's history")
	cmd.Flags().BoolVar(&onlyUnregistered, "only-unregistered", false, "only list names that are not registered")
	return cmd
}

func newHistoryCmd(st *rootState) *cobra.Command {
	var (
		user  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a user's recent lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			a, err := newApp(cmd.Context(), st.cfg, st.logger, st.deps)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			st.warnEphemeralHistory(user)
			if limit <= 0 {
				limit = st.cfg.History.DefaultLimit
			}
			entries, err := a.service.ListHistory(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			return printHistory(st.deps.Out, st.output, entries)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose history is listed")
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries (0 = history.default_limit)")
	return cmd
}

// warnEphemeralHistory avisa que o backend em memória não sobrevive ao
// comando: cada execução do CLI começa com histórico vazio.
func (st *rootState) warnEphemeralHistory(user string) {
	if user == "" || st.cfg.History.Backend != "memory" {
		return
	}
	st.logger.Warn("history.ephemeral",
		"backend", st.cfg.History.Backend,
		"hint", "set history.backend=sqlite (or redis) to keep history between commands",
	)
}
