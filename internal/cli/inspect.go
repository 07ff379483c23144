package cli

import (
	"fmt"

	"github.com/adaptived/cadence/internal/learning"
	"github.com/adaptived/cadence/internal/store"
	"github.com/spf13/cobra"
)

// openEngine opens the database and rehydrates the engine for direct
// inspection commands that run without the server.
func openEngine() (*learning.Engine, *store.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	eng, err := learning.New(cfg.Learning, db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init engine: %w", err)
	}
	return eng, db, nil
}

// --- learnings command ---

var learningsCmd = &cobra.Command{
	Use:   "learnings",
	Short: "Show what cadence has learned, in plain language",
	RunE:  runLearnings,
}

func runLearnings(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	learnings := eng.Learnings()
	if len(learnings) == 0 {
		fmt.Println("Nothing learned yet. Keep responding to suggestions.")
		return nil
	}
	for _, l := range learnings {
		fmt.Printf("- %s\n", l)
	}
	return nil
}

// --- patterns command ---

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List confirmed patterns",
	RunE:  runPatterns,
}

func runPatterns(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	patterns := eng.ConfirmedPatterns()
	if len(patterns) == 0 {
		fmt.Println("No confirmed patterns yet.")
		return nil
	}
	for _, p := range patterns {
		fmt.Printf("%s  [%.2f]  %s\n", p.ID, p.Confidence, p.Description)
		fmt.Printf("    on %s/%s -> %s", p.Trigger.Type, p.Trigger.SuggestionType, p.Action.Type)
		if p.Action.Suggestion != "" {
			fmt.Printf(" (%s)", p.Action.Suggestion)
		}
		if p.Action.Multiplier != 0 {
			fmt.Printf(" (x%.2f)", p.Action.Multiplier)
		}
		fmt.Printf("  applied %d, overridden %d\n", p.ApplicationCount, p.OverridesSinceConfirm)
	}
	return nil
}

// --- hypotheses command ---

var hypothesesAll bool

var hypothesesCmd = &cobra.Command{
	Use:   "hypotheses",
	Short: "List hypotheses under test",
	RunE:  runHypotheses,
}

func init() {
	hypothesesCmd.Flags().BoolVar(&hypothesesAll, "all", false, "Include resolved hypotheses")
	interactionsCmd.Flags().IntVarP(&interactionsLimit, "limit", "n", 20, "Maximum number of interactions")
}

func runHypotheses(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	var hypotheses []learning.Hypothesis
	if hypothesesAll {
		hypotheses = eng.AllHypotheses()
	} else {
		hypotheses = eng.ActiveHypotheses()
	}
	if len(hypotheses) == 0 {
		fmt.Println("No hypotheses.")
		return nil
	}
	for _, h := range hypotheses {
		fmt.Printf("%s  [%s]  %s\n", h.ID, h.Status, h.Hypothesis)
		fmt.Printf("    tests %d, confirmations %d of %d\n", h.TestsRun, h.Confirmations, h.ConfidenceRequired)
	}
	return nil
}

// --- interactions command ---

var interactionsLimit int

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Show recent logged interactions",
	RunE:  runInteractions,
}

func runInteractions(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	interactions := eng.RecentInteractions(interactionsLimit)
	if len(interactions) == 0 {
		fmt.Println("No interactions logged yet.")
		return nil
	}
	for _, in := range interactions {
		fmt.Printf("%s  %s  %s/%s  %q\n",
			in.CreatedAt.Format("2006-01-02 15:04"), in.ID, in.SuggestionType, in.Response, in.Suggestion)
	}
	return nil
}

// --- notifications command ---

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show pending notifications",
	RunE:  runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	notifications := eng.PendingNotifications()
	if len(notifications) == 0 {
		fmt.Println("No pending notifications.")
		return nil
	}
	for _, n := range notifications {
		fmt.Printf("%s  [%s]  %s\n", n.ID, n.Type, n.Message)
	}
	return nil
}

// --- forget command ---

var forgetCmd = &cobra.Command{
	Use:   "forget [pattern-id]",
	Short: "Remove a learned pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	eng.RemovePattern(args[0])
	if err := eng.Sync(); err != nil {
		return fmt.Errorf("flush state: %w", err)
	}
	fmt.Printf("forgot %s\n", args[0])
	return nil
}

// --- dismiss command ---

var dismissCmd = &cobra.Command{
	Use:   "dismiss [notification-id]",
	Short: "Dismiss a notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runDismiss,
}

func runDismiss(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	eng.DismissNotification(args[0])
	if err := eng.Sync(); err != nil {
		return fmt.Errorf("flush state: %w", err)
	}
	fmt.Printf("dismissed %s\n", args[0])
	return nil
}
