package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "pulsectl",
		Short: "CLI client for the pulse service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Pulse service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Session bearer token (from 'pulsectl login')")

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			return runRegister(apiFlag, email, password, name, os.Stdout)
		},
	}
	registerCmd.Flags().StringP("email", "e", "", "Account email (required)")
	registerCmd.Flags().StringP("password", "p", "", "Account password (required)")
	registerCmd.Flags().StringP("name", "n", "", "Display name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return runLogin(apiFlag, email, password, os.Stdout)
		},
	}
	loginCmd.Flags().StringP("email", "e", "", "Account email (required)")
	loginCmd.Flags().StringP("password", "p", "", "Account password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Log an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, _ := cmd.Flags().GetString("at")
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runAdd(apiFlag, tokenFlag, args[0], at, os.Stdout)
		},
	}
	addCmd.Flags().String("at", "", "Activity timestamp, RFC 3339 (default: now)")
	rootCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runList(apiFlag, tokenFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(listCmd)

	rmCmd := &cobra.Command{
		Use:   "rm ACTIVITY_ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runDelete(apiFlag, tokenFlag, args[0], os.Stdout)
		},
	}
	rootCmd.AddCommand(rmCmd)

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the 7x24 activity grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("activity")
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runGrid(apiFlag, tokenFlag, filter, os.Stdout)
		},
	}
	gridCmd.Flags().String("activity", "", "Filter by exact activity name")
	rootCmd.AddCommand(gridCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show activity counts by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runSummary(apiFlag, tokenFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(summaryCmd)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Fetch an integration token for the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenFlag == "" {
				return fmt.Errorf("--token required")
			}
			return runToken(apiFlag, tokenFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
