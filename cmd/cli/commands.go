package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(venuesCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(costCmd)
	rootCmd.AddCommand(validateCmd)

	statsCmd.Flags().BoolVar(&shareStats, "share", false, "Post the stats summary to Slack")
	profileCmd.Flags().StringVar(&profileNickname, "nickname", "", "Set your nickname, binding your user id to that player")

	addMatchFlags(recordCmd)
	addMatchFlags(validateCmd)
	recordCmd.Flags().StringVar(&matchForm.Player2Name, "opponent", "", "Opponent nickname")
	recordCmd.Flags().StringVar(&matchForm.Player1Name, "me", "", "Your nickname, defaults to your player profile")
	recordCmd.Flags().StringVar(&matchForm.Date, "date", "", "Match date as YYYY-MM-DD, defaults to today")
	recordCmd.Flags().StringVar(&matchForm.Notes, "notes", "", "Free-text notes")
	recordCmd.Flags().StringVar((*string)(&matchForm.TotalCost), "cost", "", "Court cost, overrides the venue rates")
	addCostFlags(recordCmd)
	addCostFlags(costCmd)
}

var (
	matchForm  tennis.MatchInput
	setFlags   []string
	shareStats bool

	profileNickname string
)

func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&setFlags, "set", nil, "A set as owner-opponent games, e.g. 6-4 or 7-6t for a tie-break (repeatable)")
}

func addCostFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&matchForm.Location, "venue", "", "Venue name")
	cmd.Flags().StringVar((*string)(&matchForm.Duration), "duration", "", "Hours on court, defaults to 1")
	cmd.Flags().BoolVar(&matchForm.UseLights, "lights", false, "Court lights were used")
	cmd.Flags().BoolVar(&matchForm.UseHeating, "heating", false, "Court heating was used")
	cmd.Flags().BoolVar(&matchForm.IsGuest, "guest", false, "Play was at the guest rate")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the known players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List the known venues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/venues")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [id]",
	Short: "List your matches, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performGetRequest("/matches/" + url.PathEscape(args[0]))
		}
		return performGetRequest("/matches")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(setFlags)
		if err != nil {
			return err
		}
		matchForm.Sets = sets
		return performRequest(http.MethodPost, "/matches", matchForm)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one match, or all of your matches when no id is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodDelete, "/matches/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodDelete, "/matches", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		if shareStats {
			return performRequest(http.MethodPost, "/stats/share", nil)
		}
		return performGetRequest("/stats")
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set your player profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileNickname != "" {
			return performRequest(http.MethodPut, "/profile", map[string]string{"nickname": profileNickname})
		}
		return performGetRequest("/profile")
	},
}

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Preview the court cost at a venue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/cost", map[string]any{
			"location":   matchForm.Location,
			"duration":   matchForm.Duration,
			"useLights":  matchForm.UseLights,
			"useHeating": matchForm.UseHeating,
			"isGuest":    matchForm.IsGuest,
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check set scores without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(setFlags)
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/validate", map[string]any{"sets": sets})
	},
}

// parseSets turns "6-4" style flags into set inputs. A trailing "t" marks
// a tie-break.
func parseSets(values []string) ([]tennis.SetInput, error) {
	sets := make([]tennis.SetInput, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		tieBreak := strings.HasSuffix(v, "t")
		v = strings.TrimSuffix(v, "t")
		s1, s2, ok := strings.Cut(v, "-")
		if !ok {
			return nil, fmt.Errorf("invalid set %q, expected games like 6-4", v)
		}
		sets = append(sets, tennis.SetInput{
			S1:       tennis.FormValue(strings.TrimSpace(s1)),
			S2:       tennis.FormValue(strings.TrimSpace(s2)),
			TieBreak: tieBreak,
		})
	}
	return sets, nil
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performRequest(method, endpoint string, payload any) error {
	target := host + endpoint
	if dryRun {
		target += "?dry_run=true"
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
