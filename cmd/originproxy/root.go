package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "originproxy",
	Short: "URL-rewriting HTTP reverse proxy",
	Long: `originproxy is a URL-rewriting HTTP reverse proxy.

It resolves an upstream origin per request, rewrites absolute URLs in the
response body so links stay routed through the proxy, translates headers
and cookies between the client and the upstream, and falls back through a
list of candidate origins carried in a cookie when an upstream fails.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
