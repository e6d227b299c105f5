package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify ledger integrity",
		Run: func(cmd *cobra.Command, args []string) {
			verifyIntegrity()
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-code>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance")
		},
	}

	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Show the trial balance",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/trial-balance")
		},
	}

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit records",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/audit")
		},
	}

	periodsCmd := &cobra.Command{
		Use:   "periods",
		Short: "List closing periods",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/periods")
		},
	}

	rootCmd.AddCommand(verifyCmd, balanceCmd, trialBalanceCmd, auditCmd, periodsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func verifyIntegrity() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/verify")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Integrity check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	violations, _ := result["violations"].(float64)
	if violations > 0 {
		fmt.Printf("Integrity check FAILED\n")
		fmt.Printf("Checked: %v\nViolations: %v\n", result["checked"], result["violations"])
		os.Exit(1)
	}

	fmt.Printf("Integrity check PASSED\n")
	fmt.Printf("Checked: %v\n", result["checked"])
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
