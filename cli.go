package ordo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type CLIConfig struct {
	Model         string
	APIKey        string
	APIKeyEnv     string
	BaseURL       string
	Port          int
	Guidance      string
	MappingPath   string
	FromClipboard bool
	Exclude       []string
	MaxDepth      int
	NoSummaries   bool
	NoCleanup     bool
	Yes           bool
	JSON          bool
	NoAnimation   bool
	Debug         bool
	Completion    string
}

var cliCfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "ordo [directory]",
	Short: "Reorganize a directory from an LLM-proposed file mapping.",
	Long: `Scan a directory, have a language model propose a tidier layout,
review the change as a tree diff and apply it only after confirmation.

Example: ordo ~/Downloads -m gpt-4o-mini`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cliCfg.Completion != "" {
			return handleCompletion(cmd)
		}
		if cliCfg.MappingPath != "" && cliCfg.FromClipboard {
			return fmt.Errorf("--mapping and --from-clipboard are mutually exclusive")
		}

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		appCfg := &Config{
			Directory:     dir,
			Model:         cliCfg.Model,
			APIKey:        resolveAPIKey(),
			BaseURL:       resolveBaseURL(),
			Guidance:      cliCfg.Guidance,
			MappingPath:   cliCfg.MappingPath,
			FromClipboard: cliCfg.FromClipboard,
			Exclude:       cliCfg.Exclude,
			MaxDepth:      cliCfg.MaxDepth,
			NoSummaries:   cliCfg.NoSummaries,
			NoCleanup:     cliCfg.NoCleanup,
		}

		app, err := NewApp(appCfg)
		if err != nil {
			return err
		}
		return run(cmd.Context(), app)
	},
}

func run(ctx context.Context, app *App) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := NewProgress(cliCfg.NoAnimation)
	startPhase := func(label string) {
		if !cliCfg.JSON {
			progress.Start(label)
		}
	}
	stopPhase := func() {
		if !cliCfg.JSON {
			progress.Stop("")
		}
	}
	if !cliCfg.JSON {
		app.SetProgressCallback(progress.Update)
	}

	startPhase("Analyzing files")
	plan, err := app.Prepare(ctx)
	stopPhase()
	if err != nil {
		var invalid *InvalidMappingError
		if errors.As(err, &invalid) {
			fmt.Print(RenderReport(invalid.Report))
		}
		return describeError(err)
	}

	if len(plan.Files) == 0 {
		return emitMessage("No files found to organize.")
	}

	if !cliCfg.JSON {
		fmt.Println(RenderTreeDiff(plan.Current, plan.Proposed))
	}
	if !plan.ChangesNeeded() {
		return emitMessage("No file organization changes needed.")
	}

	confirmed := cliCfg.Yes
	if !confirmed {
		if !StdinIsInteractive() {
			return fmt.Errorf("no terminal available for confirmation, pass --yes to proceed")
		}
		confirmed, err = ConfirmApply("Apply changes?")
		if err != nil {
			return err
		}
	}
	if !confirmed {
		return emitMessage("Operation canceled.")
	}

	startPhase("Moving files")
	summary, err := app.Apply(plan, confirmed)
	stopPhase()
	if err != nil {
		return describeError(err)
	}
	return emitSummary(summary)
}

func emitSummary(summary RunSummary) error {
	if cliCfg.JSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Print(FormatSummary(summary))
	return nil
}

func emitMessage(msg string) error {
	if cliCfg.JSON {
		return emitSummary(RunSummary{Message: msg})
	}
	fmt.Println(msg)
	return nil
}

// resolveAPIKey prefers the flag, then the configured environment
// variable.
func resolveAPIKey() string {
	if cliCfg.APIKey != "" {
		return cliCfg.APIKey
	}
	return os.Getenv(cliCfg.APIKeyEnv)
}

func resolveBaseURL() string {
	if cliCfg.BaseURL != "" {
		return cliCfg.BaseURL
	}
	if cliCfg.Port > 0 {
		return fmt.Sprintf("http://localhost:%d", cliCfg.Port)
	}
	return ""
}

func describeError(err error) error {
	var detailed *DetailedError
	if cliCfg.Debug && errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "%s\n", detailed.Stack)
	}
	return err
}

func handleCompletion(cmd *cobra.Command) error {
	switch cliCfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", cliCfg.Completion)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cliCfg.Completion, "completion", "", "Generate completion script")
	rootCmd.Flags().StringVarP(&cliCfg.Model, "model", "m", "gpt-4o-mini", "Model used for summaries and the proposal")
	rootCmd.Flags().StringVar(&cliCfg.APIKey, "api-key", "", "API key for the model endpoint")
	rootCmd.Flags().StringVar(&cliCfg.APIKeyEnv, "api-key-env", "OPENAI_API_KEY", "Environment variable read when --api-key is unset")
	rootCmd.Flags().StringVar(&cliCfg.BaseURL, "base-url", "", "Override the model endpoint base URL")
	rootCmd.Flags().IntVar(&cliCfg.Port, "port", 0, "Talk to a local model server on this port")
	rootCmd.Flags().StringVarP(&cliCfg.Guidance, "prompt", "p", "", "Extra guidance for the proposed organization")
	rootCmd.Flags().StringVar(&cliCfg.MappingPath, "mapping", "", "Read the mapping from FILE instead of the model ('-' for stdin)")
	rootCmd.Flags().BoolVar(&cliCfg.FromClipboard, "from-clipboard", false, "Read the mapping from the clipboard")
	rootCmd.Flags().StringSliceVarP(&cliCfg.Exclude, "exclude", "x", []string{}, "Glob patterns to leave alone")
	rootCmd.Flags().IntVar(&cliCfg.MaxDepth, "max-depth", 0, "Limit scanning depth (0 means unlimited)")
	rootCmd.Flags().BoolVar(&cliCfg.NoSummaries, "no-summaries", false, "Organize by name and metadata only")
	rootCmd.Flags().BoolVar(&cliCfg.NoCleanup, "no-cleanup", false, "Keep directories emptied by the moves")
	rootCmd.Flags().BoolVarP(&cliCfg.Yes, "yes", "y", false, "Apply without asking for confirmation")
	rootCmd.Flags().BoolVar(&cliCfg.JSON, "json", false, "Print the run summary as JSON")
	rootCmd.Flags().BoolVar(&cliCfg.NoAnimation, "no-animation", false, "Disable spinner")
	rootCmd.Flags().BoolVar(&cliCfg.Debug, "debug", false, "Print stack traces for internal errors")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
