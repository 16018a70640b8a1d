package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/highnoon/core/router"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the routes of the demo app",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		app, err := buildApp(cmd.Context(), slog.Default())
		if err != nil {
			return err
		}
		d, err := app.Build()
		if err != nil {
			return fmt.Errorf("build app: %w", err)
		}
		return printRoutes(cmd.OutOrStdout(), d.Routes(), format)
	},
}

func init() {
	routesCmd.Flags().String("format", "table", "output format: table, yaml, json")
	rootCmd.AddCommand(routesCmd)
}

func printRoutes(w io.Writer, routes []router.Route, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(routes); err != nil {
			return fmt.Errorf("encode routes: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATTERN")
		for _, r := range routes {
			fmt.Fprintf(tw, "%s\t%s\n", r.Method, r.Pattern)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
