// Package core provides the core command and server functionality for aidlinkd.
package core

import (
	"fmt"
	"os"

	"github.com/aidlink/aidlink/src/common/cli"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Global logger instance
	log *logs.Logger

	// Configuration file path
	cfgFile string
)

// Linker variables - these are set via ldflags at build time
// They must be initialized as empty strings or literals for ldflags to work
var (
	Version        = "dev"
	ReleaseName    = "Levada"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aidlinkd",
	Short: "AidLink API Server",
	Long: `aidlinkd is the API server for the AidLink community aid platform.

It exposes REST APIs for posting community needs, browsing the public
feed and the organizations directory. The API is versioned and
discoverable through the root endpoint.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute runs the root command
func Execute() {
	// Populate VersionInfo from linker variables
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
	// Configuration file flag
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "/etc/aidlinkd/aidlinkd.yaml")

	// Server flags
	rootCmd.Flags().IntP("port", "p", 8443, "Port to listen on")
	rootCmd.Flags().StringP("bind", "b", "0.0.0.0", "Address to bind to")

	// Logging flags (using common helper)
	cli.RegisterLogFlags(rootCmd)

	// Database flags
	rootCmd.Flags().String("db-path", "~/.aidlinkd/aidlink.db", "Path to the SQLite database file")

	// Auth flags
	rootCmd.Flags().String("jwt-secret", "", "HMAC secret for signing access tokens (ephemeral if unset)")

	// Storage flags
	rootCmd.Flags().String("storage-type", "local", "Storage backend type: 'local' or 's3'")
	rootCmd.Flags().String("storage-path", "~/.aidlinkd/photos", "Local storage path (for local backend)")

	// S3 Storage flags
	rootCmd.Flags().String("s3-endpoint", "", "S3-compatible storage endpoint URL")
	rootCmd.Flags().String("s3-region", "eu-west-1", "S3 region")
	rootCmd.Flags().String("s3-bucket", "aidlink-photos", "S3 bucket for photos")
	rootCmd.Flags().String("s3-access-key", "", "S3 access key ID")
	rootCmd.Flags().String("s3-secret-key", "", "S3 secret access key")
	rootCmd.Flags().Bool("s3-path-style", true, "Use path-style addressing for S3")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.bind", rootCmd.Flags().Lookup("bind"))
	_ = viper.BindPFlag("database.path", rootCmd.Flags().Lookup("db-path"))
	_ = viper.BindPFlag("auth.jwt_secret", rootCmd.Flags().Lookup("jwt-secret"))
	_ = viper.BindPFlag("storage.type", rootCmd.Flags().Lookup("storage-type"))
	_ = viper.BindPFlag("storage.local.path", rootCmd.Flags().Lookup("storage-path"))
	_ = viper.BindPFlag("storage.s3.endpoint", rootCmd.Flags().Lookup("s3-endpoint"))
	_ = viper.BindPFlag("storage.s3.region", rootCmd.Flags().Lookup("s3-region"))
	_ = viper.BindPFlag("storage.s3.bucket", rootCmd.Flags().Lookup("s3-bucket"))
	_ = viper.BindPFlag("storage.s3.access_key", rootCmd.Flags().Lookup("s3-access-key"))
	_ = viper.BindPFlag("storage.s3.secret_key", rootCmd.Flags().Lookup("s3-secret-key"))
	_ = viper.BindPFlag("storage.s3.path_style", rootCmd.Flags().Lookup("s3-path-style"))

	// Set defaults
	viper.SetDefault("server.port", 8443)
	viper.SetDefault("server.bind", "0.0.0.0")
	viper.SetDefault("database.path", "~/.aidlinkd/aidlink.db")
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.path", "~/.aidlinkd/photos")
	viper.SetDefault("storage.s3.region", "eu-west-1")
	viper.SetDefault("storage.s3.bucket", "aidlink-photos")
	viper.SetDefault("storage.s3.path_style", true)

	// Security defaults
	viper.SetDefault("security.rate_limit.enabled", true)
	viper.SetDefault("security.rate_limit.auth_per_min", 10)
	viper.SetDefault("security.rate_limit.api_per_min", 120)
	viper.SetDefault("security.rate_limit.trust_proxy", false)
}

// initConfig reads in config file and ENV variables if set
func initConfig() error {
	// Use common config initialization with aidlinkd-specific search paths
	opts := cli.ConfigOptions{
		ConfigName: "aidlinkd",
		ConfigType: "yaml",
		EnvPrefix:  "AIDLINKD",
		SearchPaths: []string{
			"/etc/aidlinkd",
			"/opt/aidlinkd",
			"~/.aidlinkd",
		},
	}
	opts.ConfigFile = cfgFile

	if err := cli.InitConfig(opts); err != nil {
		return err
	}

	// Initialize logger using common helper
	log = cli.InitLogger("aidlinkd")

	return nil
}
