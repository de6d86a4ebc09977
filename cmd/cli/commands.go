package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mauv0809/duel-lords/internal/auth"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/tournament"
	"github.com/spf13/cobra"
)

var (
	dryRun      bool
	statusFlag  string
	nameFlag    string
	atFlag      string
	channelFlag string
	descFlag    string
	drawFlag    bool
	categoryArg string
	limitFlag   int
	adminFlag   bool
	ttlFlag     time.Duration
	delta       player.Delta
	maxPlayers  int
)

func init() {
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate without writing or notifying")
	matchesCmd.Flags().StringVar(&statusFlag, "status", "", "Comma separated statuses to filter on")
	registerCmd.Flags().StringVar(&nameFlag, "name", "", "Display name")
	duelCmd.Flags().StringVar(&atFlag, "at", "", "Start time in RFC3339; otherwise the remaining args are parsed as free text")
	duelCmd.Flags().StringVar(&channelFlag, "channel", "", "Channel to announce the duel in")
	duelCmd.Flags().StringVar(&descFlag, "description", "", "Optional description")
	resultCmd.Flags().BoolVar(&drawFlag, "draw", false, "Record the duel as a draw")
	leaderboardCmd.Flags().StringVar(&categoryArg, "category", "wins", "wins, kills, kd_ratio or win_rate")
	leaderboardCmd.Flags().IntVar(&limitFlag, "limit", player.DefaultLeaderboardSize, "Number of rows")
	tokenCmd.Flags().BoolVar(&adminFlag, "admin", false, "Mint an admin token")
	tokenCmd.Flags().DurationVar(&ttlFlag, "ttl", 24*time.Hour, "Token lifetime")
	adjustCmd.Flags().IntVar(&delta.Wins, "wins", 0, "Wins delta")
	adjustCmd.Flags().IntVar(&delta.Losses, "losses", 0, "Losses delta")
	adjustCmd.Flags().IntVar(&delta.Draws, "draws", 0, "Draws delta")
	adjustCmd.Flags().IntVar(&delta.Kills, "kills", 0, "Kills delta")
	adjustCmd.Flags().IntVar(&delta.Deaths, "deaths", 0, "Deaths delta")

	tournamentCreateCmd.Flags().StringVar(&descFlag, "description", "", "Tournament description")
	tournamentCreateCmd.Flags().IntVar(&maxPlayers, "max-players", tournament.DefaultMaxPlayers, "Maximum number of participants")
	tournamentCmd.AddCommand(tournamentCurrentCmd, tournamentCreateCmd, tournamentJoinCmd, tournamentStartCmd, tournamentCompleteCmd)

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(duelCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(tournamentCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show persisted dispatch failure counters (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/admin/metrics", nil)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one evaluation tick now (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, fmt.Sprintf("/process?dry_run=%t", dryRun), nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players [id]",
	Short: "List players, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodGet, "/players", nil)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [id]",
	Short: "Register the token holder, or another player with an admin token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"display_name": nameFlag}
		if len(args) == 1 {
			body["id"] = args[0]
		}
		return performRequest(http.MethodPost, "/players", body)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [id]",
	Short: "List matches, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/matches/"+url.PathEscape(args[0]), nil)
		}
		endpoint := "/matches"
		if statusFlag != "" {
			endpoint += "?status=" + url.QueryEscape(statusFlag)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var duelCmd = &cobra.Command{
	Use:   "duel <playerA> <playerB> [when...]",
	Short: "Schedule a duel, e.g. duel U1 U2 tomorrow at 9pm",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := duel.CreateRequest{
			PlayerAID:   args[0],
			PlayerBID:   args[1],
			ChannelRef:  channelFlag,
			Description: descFlag,
		}
		if atFlag != "" {
			at, err := time.Parse(time.RFC3339, atFlag)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			req.At = &at
		} else if len(args) > 2 {
			req.Text = strings.Join(args[2:], " ")
		}
		return performRequest(http.MethodPost, "/matches", req)
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <matchID> <winner> <loser> <winnerKills> <loserKills>",
	Short: "Record the result of a duel",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := duel.ResultRequest{WinnerID: args[1], LoserID: args[2], Draw: drawFlag}
		if _, err := fmt.Sscan(args[3], &req.WinnerKills); err != nil {
			return fmt.Errorf("invalid winner kills: %w", err)
		}
		if _, err := fmt.Sscan(args[4], &req.LoserKills); err != nil {
			return fmt.Errorf("invalid loser kills: %w", err)
		}
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/result", req)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <matchID>",
	Short: "Cancel a duel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/cancel", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("category", categoryArg)
		q.Set("limit", fmt.Sprint(limitFlag))
		return performRequest(http.MethodGet, "/leaderboard?"+q.Encode(), nil)
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <playerID>",
	Short: "Adjust a player's counters (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/admin/players/"+url.PathEscape(args[0])+"/adjust", delta)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <playerID>",
	Short: "Reset a player's counters (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/admin/players/"+url.PathEscape(args[0])+"/reset", nil)
	},
}

var tournamentCmd = &cobra.Command{
	Use:   "tournament [id]",
	Short: "List tournaments, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/tournaments/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodGet, "/tournaments", nil)
	},
}

var tournamentCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the tournament open for registration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/tournaments/current", nil)
	},
}

var tournamentCreateCmd = &cobra.Command{
	Use:   "create <name...>",
	Short: "Create a tournament (admin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tournament.CreateRequest{
			Name:        strings.Join(args, " "),
			Description: descFlag,
			MaxPlayers:  maxPlayers,
		}
		return performRequest(http.MethodPost, "/admin/tournaments", req)
	},
}

var tournamentJoinCmd = &cobra.Command{
	Use:   "join <tournamentID>",
	Short: "Join a tournament as the token holder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/tournaments/"+url.PathEscape(args[0])+"/join", nil)
	},
}

var tournamentStartCmd = &cobra.Command{
	Use:   "start <tournamentID>",
	Short: "Close registration (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/admin/tournaments/"+url.PathEscape(args[0])+"/start", nil)
	},
}

var tournamentCompleteCmd = &cobra.Command{
	Use:   "complete <tournamentID>",
	Short: "Mark a tournament completed (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/admin/tournaments/"+url.PathEscape(args[0])+"/complete", nil)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <playerID>",
	Short: "Mint a token with ADMIN_JWT_SECRET from the environment or .env",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		secret := os.Getenv("ADMIN_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET is not set")
		}
		signed, err := auth.NewService(secret, ttlFlag).GenerateToken(args[0], adminFlag)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

func performRequest(method, endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
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
