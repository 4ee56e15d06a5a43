package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the jobtrack application
var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Tracks job applications from Gmail and renders insights",
	Long: `jobtrack searches your Gmail for job-search correspondence, classifies
each message into an application status (Applied, Rejected, Interview,
Assessment, Other), and renders the results as a CSV export, a console
summary and four charts.

Classification is a deterministic keyword heuristic; no message content
leaves your machine.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jobtrack version %s\n" .Version}}`)

	// If no subcommand is provided, run the analyze command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "analyze")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jobtrack version %s\n", version)
		},
	}
}
