// Root command wiring: global flags, config loading, and the silent
// reconnect that binds the last active workspace on startup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidenote-labs/satchel/internal/gate"
	"github.com/sidenote-labs/satchel/internal/logger"
	"github.com/sidenote-labs/satchel/internal/paths"
	"github.com/sidenote-labs/satchel/internal/registry"
	"github.com/sidenote-labs/satchel/internal/store"
	"github.com/sidenote-labs/satchel/pkg/satchel"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

// Process-wide collaborators, initialized by PersistentPreRunE.
var (
	appLog      logger.Logger
	appStore    *store.Store
	appRegistry *registry.Registry
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the satchel version",
	Args:  cobra.NoArgs,
	// Version needs no config or workspace binding.
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("satchel %s\n", satchel.Version)
	},
}

var rootCmd = &cobra.Command{
	Use:     "satchel",
	Short:   "Satchel keeps the text you highlight while reading",
	Version: satchel.Version,
	Long: `Satchel collects captured snippets of text and lets you organize
them into documents. Snippets and documents live in named workspaces
you can switch between; each workspace is a durable storage root on
this machine.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(snippetCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// initApp loads config, builds the logger, opens the registry, and
// silently rebinds the last active workspace. Reconnection never
// prompts; commands that need a binding and don't get one tell the user
// to connect explicitly.
func initApp(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	appLog = logger.New(cfg.GetString(cfgKeyLogLevel), true)
	appStore = store.New(appLog)

	g := gate.New(&gate.TermPrompter{In: os.Stdin, Out: os.Stderr}, appLog)
	appRegistry, err = registry.Open(configDir, g, appStore, appLog)
	if err != nil {
		return err
	}

	if _, err := appRegistry.ReconnectSilently(); err != nil {
		// A vanished root surfaces here; keep going so the user can
		// switch or remove the workspace.
		appLog.Warn("reconnect failed", logger.Error(err))
	}
	return nil
}

// closeApp releases the bound backend and flushes logs.
func closeApp() error {
	var err error
	if appRegistry != nil {
		err = appRegistry.Close()
	}
	if appLog != nil {
		_ = appLog.Sync()
	}
	return err
}
