package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
)

var (
	errSquadInvalid    = errors.New("squad is invalid")
	errSynthesisFailed = errors.New("squad synthesis failed")
)

type rootOptions struct {
	catalogPath string
	rulesPath   string
}

// catalogEntry is the on-disk player shape read by --catalog.
type catalogEntry struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	ClubID     int64   `json:"club_id"`
	Price      float64 `json:"price"`
	IsInjured  bool    `json:"is_injured"`
	PriceDelta float64 `json:"price_delta"`
}

type squadReport struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
	BudgetUsed float64  `json:"budget_used"`
	BudgetLeft float64  `json:"budget_left"`
	Unknown    []int64  `json:"unknown_ids,omitempty"`
}

type synthesisReport struct {
	PlayerIDs  []int64  `json:"player_ids"`
	BudgetUsed float64  `json:"budget_used"`
	BudgetLeft float64  `json:"budget_left"`
	Attempts   int      `json:"attempts"`
	Fallback   bool     `json:"fallback"`
	Violations []string `json:"violations,omitempty"`
}

type budgetReport struct {
	Cap  float64 `json:"cap"`
	Used float64 `json:"used"`
	Left float64 `json:"left"`
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Offline roster checks against a player catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "player catalog JSON file (default: built-in seed catalog)")
	root.PersistentFlags().StringVar(&opts.rulesPath, "rules", "", "roster rules YAML file (default: built-in rules)")

	root.AddCommand(
		newValidateSquadCmd(opts),
		newSynthesizeCmd(opts),
		newBudgetCmd(),
	)
	return root
}

func newValidateSquadCmd(opts *rootOptions) *cobra.Command {
	var (
		rawIDs    string
		budgetCap float64
	)

	cmd := &cobra.Command{
		Use:   "validate-squad",
		Short: "Check a squad against composition, club and budget rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := parseIDs(rawIDs)
			if err != nil {
				return err
			}
			catalog, rules, err := opts.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("budget") {
				budgetCap = rules.BudgetCap
			}

			report := buildSquadReport(rules, catalog, ids, budgetCap)
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return errSquadInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawIDs, "ids", "", "comma separated player ids")
	cmd.Flags().Float64Var(&budgetCap, "budget", 0, "budget cap (default: rules budget)")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func newSynthesizeCmd(opts *rootOptions) *cobra.Command {
	var (
		budgetCap float64
		seed      uint64
		attempts  int
	)

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Generate a random legal squad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, rules, err := opts.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("budget") {
				budgetCap = rules.BudgetCap
			}

			synthOpts := []fantasy.SynthesizerOption{fantasy.WithAttempts(attempts)}
			if cmd.Flags().Changed("seed") {
				synthOpts = append(synthOpts, fantasy.WithSeed(seed))
			}

			result, err := fantasy.NewSynthesizer(rules, synthOpts...).Synthesize(catalog, budgetCap)
			if err != nil {
				code, ok := synthesisViolation(err)
				if !ok {
					return fmt.Errorf("synthesize after %d attempts: %w", result.Attempts, err)
				}
				if err := writeJSON(cmd.OutOrStdout(), synthesisReport{
					PlayerIDs:  []int64{},
					Attempts:   result.Attempts,
					Violations: []string{string(code)},
				}); err != nil {
					return err
				}
				return fmt.Errorf("%w: %w", errSynthesisFailed, err)
			}

			used := fantasy.BudgetUsed(result.Players)
			ids := make([]int64, 0, len(result.Players))
			for _, p := range result.Players {
				ids = append(ids, p.ID)
			}
			return writeJSON(cmd.OutOrStdout(), synthesisReport{
				PlayerIDs:  ids,
				BudgetUsed: used,
				BudgetLeft: fantasy.BudgetLeft(budgetCap, used),
				Attempts:   result.Attempts,
				Fallback:   result.Fallback,
			})
		},
	}
	cmd.Flags().Float64Var(&budgetCap, "budget", 0, "budget cap (default: rules budget)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().IntVar(&attempts, "attempts", fantasy.DefaultSynthesisAttempts, "random attempts before the cheapest-first fallback")
	return cmd
}

func newBudgetCmd() *cobra.Command {
	var budgetCap, used float64

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show remaining budget with display rounding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), budgetReport{
				Cap:  budgetCap,
				Used: fantasy.Round1(used),
				Left: fantasy.BudgetLeft(budgetCap, used),
			})
		},
	}
	cmd.Flags().Float64Var(&budgetCap, "cap", fantasy.DefaultRules().BudgetCap, "budget cap")
	cmd.Flags().Float64Var(&used, "used", 0, "budget already spent")
	return cmd
}

func (o *rootOptions) load() ([]player.Player, fantasy.Rules, error) {
	rules, err := config.LoadRules(o.rulesPath)
	if err != nil {
		return nil, fantasy.Rules{}, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fantasy.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}

	if o.catalogPath == "" {
		return memory.SeedPlayers(), rules, nil
	}
	catalog, err := readCatalog(o.catalogPath)
	if err != nil {
		return nil, fantasy.Rules{}, err
	}
	return catalog, rules, nil
}

func buildSquadReport(rules fantasy.Rules, catalog []player.Player, ids []int64, budgetCap float64) squadReport {
	byID := player.IndexByID(catalog)
	members := make([]player.Player, 0, len(ids))
	var unknown []int64
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		members = append(members, p)
	}

	used := fantasy.BudgetUsed(members)
	report := squadReport{
		BudgetUsed: used,
		BudgetLeft: fantasy.BudgetLeft(budgetCap, used),
		Unknown:    unknown,
	}
	violations := rules.ValidateSquad(members, budgetCap)
	if len(unknown) > 0 {
		violations = append(violations, fantasy.ViolationSquadUnknownPlayers)
	}

	report.Violations = fantasy.Codes(violations)
	report.Valid = len(report.Violations) == 0
	return report
}

// synthesisViolation maps a synthesizer failure to its rule code.
func synthesisViolation(err error) (fantasy.Violation, bool) {
	var shortage *fantasy.PositionShortageError
	switch {
	case errors.As(err, &shortage):
		return shortage.Violation(), true
	case errors.Is(err, fantasy.ErrNoValidSquad):
		return fantasy.ViolationNoValidSquadGenerated, true
	default:
		return "", false
	}
}

func readCatalog(path string) ([]player.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries []catalogEntry
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]player.Player, 0, len(entries))
	for i, entry := range entries {
		position, err := player.ParsePosition(entry.Position)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		p := player.Player{
			ID:        entry.ID,
			Name:      entry.Name,
			Position:  position,
			ClubID:    entry.ClubID,
			Price:     entry.Price,
			IsInjured: entry.IsInjured,
		}
		if entry.PriceDelta != 0 {
			delta := entry.PriceDelta
			p.PriceDelta = &delta
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid player id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one player id is required")
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
