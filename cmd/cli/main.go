package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kovai/pawnbook/internal/infrastructure/config"
	"github.com/kovai/pawnbook/internal/infrastructure/postgres"
)

var (
	baseURL   string
	companyID string
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pawnbook-cli",
		Short: "Pawnbook CLI tool",
		Long:  `A command line interface for operating the Pawnbook back-office API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Pawnbook API")
	rootCmd.PersistentFlags().StringVar(&companyID, "company", "", "Company ID to scope requests to")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	var migrationsPath string
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(migrationsPath, false)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(migrationsPath, true)
		},
	})
	rootCmd.AddCommand(migrateCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that total debits equal total credits",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})
	var asOf string
	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		Run: func(cmd *cobra.Command, args []string) {
			printTrialBalance(asOf)
		},
	}
	trialBalanceCmd.Flags().StringVar(&asOf, "as-of", "", "report cutoff in RFC3339, e.g. 2026-03-31T23:59:59Z")
	ledgerCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Chart of accounts commands
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart of accounts operations",
	}

	chartCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Install the default pawn-shop chart of accounts",
		Run: func(cmd *cobra.Command, args []string) {
			seedChart()
		},
	})
	rootCmd.AddCommand(chartCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMigrations(path string, down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if down {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, path)
	} else {
		err = postgres.RunMigrations(cfg.DatabaseURL, path)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}

func apiGet(path string) (int, []byte) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if companyID != "" {
		req.Header.Set("X-Company-ID", companyID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func checkConsistency() {
	status, body := apiGet("/api/v1/ledger/consistency")
	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
	fmt.Printf("Status: %s\n", result["status"])
}

func printTrialBalance(asOf string) {
	path := "/api/v1/ledger/trial-balance"
	if asOf != "" {
		path += "?as_of=" + url.QueryEscape(asOf)
	}
	status, body := apiGet(path)
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		Rows []struct {
			AccountCode string `json:"account_code"`
			AccountName string `json:"account_name"`
			DebitTotal  string `json:"debit_total"`
			CreditTotal string `json:"credit_total"`
			Balance     string `json:"balance"`
		} `json:"rows"`
		DebitTotal  string `json:"debit_total"`
		CreditTotal string `json:"credit_total"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tACCOUNT\tDEBIT\tCREDIT\tBALANCE")
	for _, row := range result.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.AccountCode, row.AccountName, row.DebitTotal, row.CreditTotal, row.Balance)
	}
	fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t\n", result.DebitTotal, result.CreditTotal)
	w.Flush()
}

func seedChart() {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/accounts/seed", nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if companyID != "" {
		req.Header.Set("X-Company-ID", companyID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Seed failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &result); err == nil {
		fmt.Printf("Chart seeded: %d accounts\n", result.Total)
		return
	}
	fmt.Println("Chart seeded")
}
