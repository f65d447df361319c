package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
	"github.com/iho/gobudget/internal/usecase"
)

var (
	baseURL        string
	timeout        time.Duration
	migrationsPath string
	authToken      string
	summaryMonth   int
	summaryYear    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobudget-cli",
		Short: "GoBudget CLI tool",
		Long:  `A command line interface for operating a GoBudget deployment.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBudget API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, migrationsPath)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, migrationsPath)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	// Health command
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check server readiness",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}
	rootCmd.AddCommand(healthCmd)

	// Summary command
	now := time.Now()
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the month budget summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSummary()
		},
	}
	summaryCmd.Flags().StringVar(&authToken, "token", "", "Bearer token for the API")
	summaryCmd.Flags().IntVar(&summaryMonth, "month", int(now.Month()), "Month (1-12)")
	summaryCmd.Flags().IntVar(&summaryYear, "year", now.Year(), "Year")
	rootCmd.AddCommand(summaryCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkHealth() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/ready")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	status, err := readinessStatus(body)
	if err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Readiness check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Readiness check PASSED\nStatus: %s\n", status)
}

func showSummary() error {
	url := fmt.Sprintf("%s/api/v1/reports/summary?month=%d&year=%d", baseURL, summaryMonth, summaryYear)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("summary request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var summary usecase.MonthSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return err
	}

	fmt.Print(formatSummary(&summary))
	return nil
}

func formatSummary(summary *usecase.MonthSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary for %04d-%02d\n", summary.Year, summary.Month)
	for _, budget := range summary.Budgets {
		marker := ""
		if budget.Exceeded {
			marker = " (exceeded)"
		}
		fmt.Fprintf(&b, "  %-20s %s %s spent of %s%s\n",
			budget.Name, budget.Currency, budget.Spent, budget.Allocated, marker)
	}
	for currency, totals := range summary.Totals {
		fmt.Fprintf(&b, "Total %s: allocated %s, spent %s, remaining %s\n",
			currency, totals.Allocated, totals.Spent, totals.Remaining)
	}
	return b.String()
}

func readinessStatus(body []byte) (string, error) {
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	status, _ := result["status"].(string)
	return status, nil
}
