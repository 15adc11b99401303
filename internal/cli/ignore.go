package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage ignore rules",
	Long: `Manage the glob patterns that exclude paths from tracking.

Rules live in .codetrailignore at the project root, one pattern per line.
If the file is missing, a default rule set is written on first use.`,
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the loaded ignore patterns",
	RunE:  runIgnoreList,
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Add a pattern to the rules file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreAdd,
}

var ignoreRemoveCmd = &cobra.Command{
	Use:   "remove <pattern>",
	Short: "Remove a pattern from the rules file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreRemove,
}

func init() {
	ignoreCmd.AddCommand(ignoreListCmd, ignoreAddCmd, ignoreRemoveCmd)
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnoreList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	for _, p := range a.filter.Patterns() {
		fmt.Println(p)
	}
	return nil
}

func runIgnoreAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	a.filter.AddPattern(args[0])
	if err := writeRules(a.filter.RulesPath(), a.filter.Patterns()); err != nil {
		return err
	}
	fmt.Printf("Added pattern %q.\n", args[0])
	return nil
}

func runIgnoreRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	a.filter.RemovePattern(args[0])
	if err := writeRules(a.filter.RulesPath(), a.filter.Patterns()); err != nil {
		return err
	}
	fmt.Printf("Removed pattern %q.\n", args[0])
	return nil
}

// writeRules persists the in-memory pattern set back to the rules file.
// AddPattern/RemovePattern only mutate memory; the CLI is the persistence
// boundary.
func writeRules(path string, patterns []string) error {
	var sb strings.Builder
	for _, p := range patterns {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}
