package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/adaptived/cadence/internal/client"
	"github.com/spf13/cobra"
)

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the cadence server is running",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c := client.New()
	data, err := c.Get("/api/health")
	if err != nil {
		fmt.Println("server: not running")
		return nil
	}

	var health struct {
		Version string  `json:"version"`
		Uptime  float64 `json:"uptime"`
		DBPath  string  `json:"db_path"`
	}
	if err := json.Unmarshal(data, &health); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	fmt.Printf("server: ok (%s, up %.0fs)\n", health.Version, health.Uptime)
	fmt.Printf("db: %s\n", health.DBPath)
	return nil
}

// --- log command ---

var (
	logType         string
	logResponse     string
	logSuggestion   string
	logCorrection   string
	logTarget       string
	logHypothesis   string
	logTimeOfDay    string
	logDayType      string
	logLoad         string
	logEnergy       string
	logMinutesSince int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a suggestion interaction against the running server",
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logType, "type", "", "Suggestion type (gap_fill, buffer_add, ...)")
	logCmd.Flags().StringVar(&logResponse, "response", "", "User response (accepted, rejected, modified, ignored)")
	logCmd.Flags().StringVar(&logSuggestion, "suggestion", "", "The suggestion text")
	logCmd.Flags().StringVar(&logCorrection, "correction", "", "What the user did instead")
	logCmd.Flags().StringVar(&logTarget, "target", "", "ID of the event or task the suggestion concerned")
	logCmd.Flags().StringVar(&logHypothesis, "hypothesis", "", "Hypothesis ID this interaction tests")
	logCmd.Flags().StringVar(&logTimeOfDay, "time-of-day", "", "Context: morning, afternoon, evening, night")
	logCmd.Flags().StringVar(&logDayType, "day-type", "", "Context: weekday or weekend")
	logCmd.Flags().StringVar(&logLoad, "load", "", "Context: light, moderate, heavy")
	logCmd.Flags().StringVar(&logEnergy, "energy", "", "Context: high, medium, low, post_focus_dip")
	logCmd.Flags().IntVar(&logMinutesSince, "minutes-since", -1, "Context: minutes since the previous event ended")
	logCmd.MarkFlagRequired("type")
	logCmd.MarkFlagRequired("response")

	applyCmd.Flags().StringVar(&logTimeOfDay, "time-of-day", "", "Context: morning, afternoon, evening, night")
	applyCmd.Flags().StringVar(&logDayType, "day-type", "", "Context: weekday or weekend")
	applyCmd.Flags().StringVar(&logLoad, "load", "", "Context: light, moderate, heavy")
	applyCmd.Flags().StringVar(&logEnergy, "energy", "", "Context: high, medium, low, post_focus_dip")
	applyCmd.Flags().IntVar(&logMinutesSince, "minutes-since", -1, "Context: minutes since the previous event ended")
}

// contextBody assembles the context map shared by log and apply.
func contextBody() map[string]any {
	ctx := map[string]any{}
	if logTimeOfDay != "" {
		ctx["time_of_day"] = logTimeOfDay
	}
	if logDayType != "" {
		ctx["day_type"] = logDayType
	}
	if logLoad != "" {
		ctx["current_load"] = logLoad
	}
	if logEnergy != "" {
		ctx["energy"] = logEnergy
	}
	if logMinutesSince >= 0 {
		ctx["minutes_since_previous"] = logMinutesSince
	}
	return ctx
}

func runLog(cmd *cobra.Command, args []string) error {
	body := map[string]any{
		"suggestion_type": logType,
		"suggestion":      logSuggestion,
		"response":        logResponse,
		"context":         contextBody(),
	}
	if logCorrection != "" {
		body["correction"] = logCorrection
	}
	if logTarget != "" {
		body["target_id"] = logTarget
	}
	if logHypothesis != "" {
		body["hypothesis_id"] = logHypothesis
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	c := client.New()
	if !c.Healthy() {
		fmt.Fprintln(os.Stderr, "cadence server is not running; start it with `cadence serve`")
		os.Exit(1)
	}
	data, err := c.Post("/api/interactions", payload)
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("logged %s\n", resp.ID)
	return nil
}

// --- apply command ---

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Ask the server which learned actions apply to a context",
	RunE:  runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	payload, err := json.Marshal(map[string]any{"context": contextBody()})
	if err != nil {
		return err
	}

	c := client.New()
	data, err := c.Post("/api/patterns/apply", payload)
	if err != nil {
		return fmt.Errorf("apply patterns: %w", err)
	}

	var resp struct {
		Actions []struct {
			Type       string  `json:"type"`
			Suggestion string  `json:"suggestion,omitempty"`
			Multiplier float64 `json:"multiplier,omitempty"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Actions) == 0 {
		fmt.Println("No learned actions apply.")
		return nil
	}
	for _, a := range resp.Actions {
		switch {
		case a.Suggestion != "":
			fmt.Printf("%s: %s\n", a.Type, a.Suggestion)
		case a.Multiplier != 0:
			fmt.Printf("%s: x%.2f\n", a.Type, a.Multiplier)
		default:
			fmt.Println(a.Type)
		}
	}
	return nil
}
