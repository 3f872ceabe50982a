package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pharmacy/m/internal/pos"
	"pharmacy/m/internal/schema"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Query a running API",
}

var clientListCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List every row of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resource(args[0])
		if err != nil {
			return err
		}
		var rows []map[string]any
		if err := apiClient().List(cmd.Context(), res.Name, &rows); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), rows)
	},
}

var clientGetCmd = &cobra.Command{
	Use:   "get <resource> <id>",
	Short: "Show one row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resource(args[0])
		if err != nil {
			return err
		}
		var row map[string]any
		if err := apiClient().Get(cmd.Context(), res.Name, args[1], &row); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), row)
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete one row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resource(args[0])
		if err != nil {
			return err
		}
		result, err := apiClient().Delete(cmd.Context(), res.Name, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	clientCmd.PersistentFlags().StringVar(&baseURL, "api", "", "API base URL (defaults to API_BASE_URL)")
	clientCmd.AddCommand(clientListCmd, clientGetCmd, clientDeleteCmd)
}

var baseURL string

func apiClient() *pos.Client {
	url := cfg.Client.BaseURL
	if baseURL != "" {
		url = baseURL
	}
	return pos.NewClient(url, cfg.Client.Timeout)
}

func resource(name string) (*schema.Resource, error) {
	res, ok := schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", name)
	}
	return res, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
