package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(declineCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the current queue contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/queue")
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <playerID>",
	Short: "Join the queue as the given player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/join", map[string]any{"player_id": args[0]})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <playerID>",
	Short: "Leave the queue as the given player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/queue/leave", map[string]any{"player_id": args[0]})
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <matchID> <playerID>",
	Short: "Accept a found match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/accept", map[string]any{"match_id": args[0], "player_id": args[1]})
	},
}

var declineCmd = &cobra.Command{
	Use:   "decline <matchID> <playerID>",
	Short: "Decline a found match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/match/decline", map[string]any{"match_id": args[0], "player_id": args[1]})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the live matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var resyncCmd = &cobra.Command{
	Use:   "resync <matchID> <playerID>",
	Short: "Fetch the full current state of a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/resync?matchID=%s&playerID=%s", args[0], args[1]))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
