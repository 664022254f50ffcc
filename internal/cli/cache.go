package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/store"
)

var errNoCachePath = errors.New("no cache configured: set --cache-path or cache_path")

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the mean density cache",
	}
	cmd.AddCommand(newCacheStatsCommand(a))
	cmd.AddCommand(newCachePurgeCommand(a))
	return cmd
}

func (a *app) requireCache(cmd *cobra.Command) (*store.SQLiteCache, error) {
	c, err := a.openCache(cmd.Context())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errNoCachePath
	}
	return c, nil
}

func newCacheStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entries and hits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.requireCache(cmd)
			if err != nil {
				return err
			}
			st, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			version, err := c.Version()
			if err != nil {
				return err
			}

			r := a.renderer(cmd)
			if r.json() {
				return r.encode(map[string]any{
					"path":           c.Path(),
					"schema_version": version,
					"entries":        st.Entries,
					"hits":           st.Hits,
				})
			}
			r.writeTable("Cache", table.Row{"Property", "Value"}, []table.Row{
				{"Path", c.Path()},
				{"Schema version", version},
				{"Entries", st.Entries},
				{"Hits", st.Hits},
			}, nil)
			return nil
		},
	}
}

func newCachePurgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached mean density",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.requireCache(cmd)
			if err != nil {
				return err
			}
			n, err := c.Purge(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info(cmd.Context(), "cache purged", logging.Int("entries", int(n)))
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		},
	}
}
