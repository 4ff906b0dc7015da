package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tabhound/internal/configstore"
)

var (
	saveName        string
	saveDescription string
)

// targetsCmd represents the targets command
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage saved target configurations",
	Long: `Saved target configurations are named JSON documents kept under
~/.tabhound/configs. They are schema-validated on save and can be
referenced by name from 'tabhound audit --targets <name>'.`,
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved target configurations",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := configStore().List()
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			fmt.Println("No saved configurations.")
			return nil
		}
		for _, c := range configs {
			fmt.Printf("%-24s %-10s %s\n", c.Name, fmt.Sprintf("(%d targets)", len(c.Targets)), c.Description)
		}
		return nil
	},
}

var targetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one saved target configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configStore().Get(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var targetsSaveCmd = &cobra.Command{
	Use:   "save <targets.json>",
	Short: "Validate and save a target configuration",
	Long: `Save reads a JSON document (either a bare target array or a full
saved-config document), validates it against the schema, and stores it
under the given name.

Example:
  tabhound targets save targets.json --name weekly-audit
  tabhound targets save targets.json --name weekly-audit --description "Friday review"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read targets file: %w", err)
		}

		doc := configstore.SavedConfig{Name: saveName, Description: saveDescription}
		if err := json.Unmarshal(data, &doc.Targets); err != nil {
			// Not a bare array; accept a full document.
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("decode targets file: %w", err)
			}
			if saveName != "" {
				doc.Name = saveName
			}
			if saveDescription != "" {
				doc.Description = saveDescription
			}
		}
		if doc.Name == "" {
			return fmt.Errorf("config name is required (use --name)")
		}

		if err := configStore().Save(doc); err != nil {
			return err
		}
		fmt.Printf("✓ Saved configuration: %s (%d targets)\n", doc.Name, len(doc.Targets))
		return nil
	},
}

var targetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved target configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configStore().Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted configuration: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsShowCmd)
	targetsCmd.AddCommand(targetsSaveCmd)
	targetsCmd.AddCommand(targetsDeleteCmd)

	targetsCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "saved-config directory (default: ~/.tabhound/configs)")
	targetsSaveCmd.Flags().StringVar(&saveName, "name", "", "configuration name")
	targetsSaveCmd.Flags().StringVar(&saveDescription, "description", "", "configuration description")
}
