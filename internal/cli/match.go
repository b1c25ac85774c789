package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chargematch/backend/internal/domain"
	"github.com/chargematch/backend/internal/usecase"
)

const defaultMatchCategory = "chargers"

func newMatchCmd(opts *globalOptions) *cobra.Command {
	var (
		voltage  int
		amperage int
		phase    string
		limit    int
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank chargers for a battery",
		Long: `Rank catalog chargers against the requested voltage, amperage and phase.

Omitted dimensions are not scored.

Examples:
  chargematch match --voltage 48 --amperage 60 --phase single-phase
  chargematch match --voltage 80 --phase 3ph --limit 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &domain.MatchRequest{Limit: limit}
			if cmd.Flags().Changed("voltage") {
				request.Voltage = &voltage
			}
			if cmd.Flags().Changed("amperage") {
				request.Amperage = &amperage
			}
			if phase != "" {
				p, ok := domain.ParsePhase(phase)
				if !ok {
					return fmt.Errorf("%w: unrecognized phase %q", domain.ErrInvalidRequest, phase)
				}
				request.Phase = &p
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := usecase.NewCatalogService(nil, store, usecase.CatalogServiceConfig{}).
				Snapshot(cmd.Context(), category)
			if err != nil {
				return err
			}

			svc := usecase.NewMatchingService(usecase.MatchConfig{
				Enabled:                  cfg.Matching.Enabled,
				BaseTolerancePercent:     cfg.Matching.BaseTolerancePercent,
				ThreePhaseToleranceFloor: cfg.Matching.ThreePhaseToleranceFloor,
				DefaultLimit:             cfg.Matching.DefaultLimit,
				MaxLimit:                 cfg.Matching.MaxLimit,
				EnableDebugLogging:       cfg.Matching.EnableDebugLogging,
			})

			result, err := svc.Match(cmd.Context(), request, catalog)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printMatchResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&voltage, "voltage", 0, "Battery voltage (e.g. 48)")
	cmd.Flags().IntVar(&amperage, "amperage", 0, "Desired charge current in amps")
	cmd.Flags().StringVar(&phase, "phase", "", "Supply phase: single-phase or three-phase")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of ranked chargers (default from config)")
	cmd.Flags().StringVar(&category, "category", defaultMatchCategory, "Catalog category to search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func printMatchResult(w io.Writer, result *domain.MatchResult) {
	if len(result.AllRanked) == 0 {
		fmt.Fprintln(w, "No chargers in catalog.")
		return
	}

	if result.TopPick != nil {
		fmt.Fprintln(w, "Top pick:")
		printCandidate(w, *result.TopPick)
	} else {
		fmt.Fprintln(w, "No charger meets every requested spec.")
	}

	if len(result.OtherBestMatches) > 0 {
		fmt.Fprintf(w, "\nAlso a full match (%d):\n", len(result.OtherBestMatches))
		for _, c := range result.OtherBestMatches {
			printCandidate(w, c)
		}
	}

	if len(result.Alternatives) > 0 {
		fmt.Fprintf(w, "\nAlternatives (%d):\n", len(result.Alternatives))
		for _, c := range result.Alternatives {
			printCandidate(w, c)
		}
	}
}

func printCandidate(w io.Writer, c domain.ScoredCandidate) {
	fmt.Fprintf(w, "  %-32s score %3d  [%s]\n", c.Product.Slug, c.Score, usecase.BucketKey(c.Signature))

	labels := make([]string, 0, len(c.Reasons))
	for _, r := range c.Reasons {
		if r.Kind == domain.ReasonWeighted {
			labels = append(labels, fmt.Sprintf("%s +%d", r.Label, r.Weight))
		} else {
			labels = append(labels, r.Label)
		}
	}
	fmt.Fprintf(w, "      %s\n", strings.Join(labels, "; "))
}
