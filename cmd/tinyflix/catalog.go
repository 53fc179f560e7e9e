package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tinyflix/config"
	"tinyflix/internal/catalog"
	"tinyflix/internal/domain"
	"tinyflix/internal/logger"
	"tinyflix/internal/usecase"
)

func newCatalogCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var search, filter, sortMode string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the visible catalog for a search, filter and sort",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetGlobal(logger.NewWithWriter(cmd.ErrOrStderr(), zerolog.WarnLevel))

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			q := domain.QueryState{SearchText: search}
			if q.Filter, err = domain.ParseFilterMode(filter); err != nil {
				return err
			}
			if q.Sort, err = domain.ParseSortMode(sortMode); err != nil {
				return err
			}

			videos, err := catalog.FromConfig(cfg.Catalog)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDURATION\tVIEWS\tRATING\tPUBLISHED")
			for _, v := range usecase.ComputeVisible(videos, q, time.Now()) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
					v.ID, v.Title, v.Duration, domain.FormatViewCount(v.ViewCount), v.Rating, v.PublishedAt.Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text matched against title, description and tags")
	cmd.Flags().StringVar(&filter, "filter", string(domain.FilterAll), "all, recent or popular")
	cmd.Flags().StringVar(&sortMode, "sort", string(domain.SortTitle), "title, date or rating")
	return cmd
}

