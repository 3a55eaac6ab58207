// Workspace commands: create, list, switch, remove.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidenote-labs/satchel/internal/paths"
	"github.com/sidenote-labs/satchel/pkg/types"
)

var (
	wsName    string
	wsRoot    string
	wsBackend string
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new workspace and switch to it",
	Long: `Create registers a new workspace over a storage root and makes it
the active workspace. A brand-new workspace starts with a small set of
example snippets and documents.

Example:
  satchel workspace create --name personal
  satchel workspace create --name research --root ~/notes/research
  satchel workspace create --name reading --backend embedded`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceCreate,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known workspaces",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

var workspaceSwitchCmd = &cobra.Command{
	Use:   "switch WORKSPACE",
	Short: "Switch the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceSwitch,
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove WORKSPACE",
	Short: "Forget a workspace (its data stays on disk)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceRemove,
}

func init() {
	workspaceCreateCmd.Flags().StringVar(&wsName, "name", "", "workspace display name (required)")
	workspaceCreateCmd.Flags().StringVar(&wsRoot, "root", "", "storage root (default: platform data dir)")
	workspaceCreateCmd.Flags().StringVar(&wsBackend, "backend", "", "backend: directory or embedded (default: from config)")
	_ = workspaceCreateCmd.MarkFlagRequired("name")

	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceSwitchCmd)
	workspaceCmd.AddCommand(workspaceRemoveCmd)
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	root, err := paths.ResolveWorkspaceRoot(wsRoot, wsName)
	if err != nil {
		return err
	}

	backend := wsBackend
	if backend == "" {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		backend = cfg.GetString(cfgKeyBackend)
	}

	ws, err := appRegistry.Create(wsName, backend, root)
	if err != nil {
		if errors.Is(err, types.ErrPermissionDenied) {
			return fmt.Errorf("workspace root %s was not approved", root)
		}
		return err
	}

	if flagJSON {
		return printJSON(ws)
	}
	fmt.Printf("Created workspace %s (%s) at %s\n", ws.Name, shortID(ws.ID), ws.Root)
	return nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	workspaces := appRegistry.List()
	if flagJSON {
		return printJSON(workspaces)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces. Run 'satchel workspace create' to make one.")
		return nil
	}

	active, hasActive := appRegistry.Active()
	for _, ws := range workspaces {
		marker := " "
		if hasActive && ws.ID == active.ID {
			marker = "*"
		}
		fmt.Printf("%s %s  %-16s %-9s %s\n", marker, shortID(ws.ID), ws.Name, ws.Backend, ws.Root)
	}
	return nil
}

func runWorkspaceSwitch(cmd *cobra.Command, args []string) error {
	ws, found := findWorkspace(args[0])
	if !found {
		return fmt.Errorf("workspace %q: %w", args[0], types.ErrWorkspaceNotFound)
	}

	ok, err := appRegistry.SwitchTo(ws.ID)
	if err != nil {
		if errors.Is(err, types.ErrBackendUnavailable) {
			return fmt.Errorf("workspace root %s is gone; 'satchel workspace remove %s' forgets it", ws.Root, ws.Name)
		}
		return err
	}
	if !ok {
		return fmt.Errorf("access to workspace %q was not granted", ws.Name)
	}

	fmt.Printf("Switched to workspace %s\n", ws.Name)
	return nil
}

func runWorkspaceRemove(cmd *cobra.Command, args []string) error {
	ws, found := findWorkspace(args[0])
	if !found {
		return fmt.Errorf("workspace %q: %w", args[0], types.ErrWorkspaceNotFound)
	}

	if err := appRegistry.Remove(ws.ID); err != nil {
		return err
	}
	fmt.Printf("Removed workspace %s; its data remains at %s\n", ws.Name, ws.Root)
	return nil
}
