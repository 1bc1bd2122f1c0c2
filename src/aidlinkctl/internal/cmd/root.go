// Package cmd implements the aidlinkctl command tree.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/cache"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/session"
	"github.com/aidlink/aidlink/src/common/cli"
	"github.com/aidlink/aidlink/src/common/version"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Configuration file path
	cfgFile string

	// Output format (table, json or yaml)
	outputFormat string

	// API client instance
	apiClient *client.Client

	// Session manager wrapping the API client
	sessionMgr *session.Manager
)

// Linker variables - set via ldflags at build time
var (
	Version        = "dev"
	ReleaseName    = "Levada"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "aidlinkctl",
	Short: "AidLink CLI Client",
	Long: `aidlinkctl is the command-line client for the AidLink platform.

It communicates with the aidlinkd API server to browse and publish aid
posts, look up verified organizations, and manage your account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config init for version command without --server flag
		if cmd.Name() == "version" && !cmd.Flags().Changed("server") {
			return nil
		}
		return initConfig()
	},
}

// Execute runs the root command
func Execute() {
	VersionInfo.Version = Version
	VersionInfo.ReleaseName = ReleaseName
	VersionInfo.ReleaseVersion = ReleaseVersion
	VersionInfo.BuildDate = BuildDate
	VersionInfo.GitCommit = GitCommit

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "~/.aidlinkctl/aidlinkctl.yaml")

	rootCmd.PersistentFlags().StringP("server", "s", "", "AidLink server URL (default: http://localhost:8443)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")

	cli.RegisterLogFlags(rootCmd)

	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	viper.SetDefault("server.url", "http://localhost:8443")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(orgCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(langpackCmd)

	registerCompletions()
}

func registerCompletions() {
	// Global flag completions
	_ = rootCmd.RegisterFlagCompletionFunc("output", completionOutputFormat)

	// Post slug completions
	postGetCmd.ValidArgsFunction = completionPostSlugs
	postUpdateCmd.ValidArgsFunction = completionPostSlugs
	postDeleteCmd.ValidArgsFunction = completionPostSlugs
	postHistoryCmd.ValidArgsFunction = completionPostSlugs

	// Post flag completions
	_ = postListCmd.RegisterFlagCompletionFunc("need", completionNeedCategories)
	_ = postSearchCmd.RegisterFlagCompletionFunc("need", completionNeedCategories)
	_ = postCreateCmd.RegisterFlagCompletionFunc("need", completionNeedCategories)
	_ = postUpdateCmd.RegisterFlagCompletionFunc("need", completionNeedCategories)
	_ = postUpdateCmd.RegisterFlagCompletionFunc("state", completionPostStates)

	// Organization slug completions
	orgGetCmd.ValidArgsFunction = completionOrgSlugs

	// Language pack locale completions
	langpackGetCmd.ValidArgsFunction = completionLocales
	langpackDeleteCmd.ValidArgsFunction = completionLocales
}

func initConfig() error {
	opts := cli.ConfigOptions{
		ConfigName: "aidlinkctl",
		ConfigType: "yaml",
		EnvPrefix:  "AIDLINKCTL",
		SearchPaths: []string{
			"/etc/aidlinkctl",
			"~/.aidlinkctl",
		},
	}
	opts.ConfigFile = cfgFile

	if err := cli.InitConfig(opts); err != nil {
		return err
	}

	return nil
}

// getClient returns the API client, creating it if needed. Any stored
// session is rehydrated through the session manager: a fresh access
// token is adopted as-is, an expired one is refreshed. A failed
// rehydration just leaves the client unauthenticated.
func getClient() *client.Client {
	if apiClient == nil {
		serverURL := viper.GetString("server.url")
		apiClient = client.New(serverURL)

		store, err := cache.Open("")
		if err != nil {
			store = nil
		}
		sessionMgr = session.NewManager(apiClient, nil, store)
		_, _ = sessionMgr.Rehydrate(context.Background())
	}
	return apiClient
}

// getSession returns the session manager, creating the client if needed
func getSession() *session.Manager {
	getClient()
	return sessionMgr
}

// getOutputFormat returns the current output format
func getOutputFormat() string {
	return outputFormat
}

// setStringIfChanged copies a flag value into target only when the flag
// was set on the command line
func setStringIfChanged(cmd *cobra.Command, name string, target *string) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		*target = v
	}
}
