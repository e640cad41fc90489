package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	selectPaths     []string
	interactiveMode bool

	ignorePatterns string
	ignorePreset   string
	includeGhosts  bool
	noIgnoreFile   bool

	filterSpec      string
	outputFormat    string
	outputName      string
	copyToClipboard bool

	verbosity int
)

// ignorePresets are named starting points for the ignore list, merged with
// whatever --ignore adds on top.
var ignorePresets = map[string]string{
	"default":    "node_modules, .git, .svn, .hg, .idea, .vscode, .DS_Store, thumbs.db, __pycache__",
	"web":        "node_modules, .git, .vscode, dist, build, coverage, .next, .nuxt, package-lock.json, yarn.lock, .DS_Store",
	"python":     "__pycache__, venv, .venv, env, .git, .vscode, *.pyc, *.pyd, poetry.lock, .ipynb_checkpoints, site-packages",
	"aggressive": "node_modules, venv, .git, dist, build, *.lock, *.json, *.svg, *.png, *.jpg, *.pdf, *.zip, test, tests, docs, assets",
	"none":       "",
}

// version is set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "folio [DIR]",
	Short: "Folio turns a directory tree into a single consolidated report.",
	Long: `Folio scans a directory (or a git repository), lets you mark a subset of
files and folders for inclusion, and writes one report with a tree index and
per-file contents as TXT, CSV or PDF.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbosity)

		base := "."
		if len(args) == 1 {
			base = args[0]
		}

		if isGitURL(base) {
			tempDir, err := cloneRepo(base)
			if err != nil {
				return err
			}
			defer os.RemoveAll(tempDir)
			base = tempDir
		}

		if info, err := os.Stat(base); err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotADirectory, base)
		}

		ignore := buildIgnoreList()

		picks := selectPaths
		if interactiveMode {
			var err error
			picks, err = runInteractivePicker(base, ignore)
			if err != nil {
				return err
			}
			if picks == nil {
				fmt.Println("selection aborted")
				return nil
			}
		}

		spec := JobSpec{
			BaseDir:        base,
			Selection:      selectionFromPicks(base, picks),
			IgnorePatterns: ignore,
			IncludeGhosts:  includeGhosts,
			UseIgnoreFile:  !noIgnoreFile,
			Filter:         ParseFilterSpec(filterSpec),
			Format:         outputFormat,
			Destination:    outputName + "." + outputFormat,
			ToClipboard:    copyToClipboard,
		}

		return consumeEvents(startJob(spec))
	},
}

// consumeEvents drains the job channel, mirroring the worker's log to the
// terminal, and turns the single terminal event into the process outcome.
// Warnings still exit zero: an index-only report is unhelpful but valid.
func consumeEvents(events <-chan Event) error {
	for ev := range events {
		switch ev.Kind {
		case EventLog:
			fmt.Printf("-> %s\n", ev.Message)
		case EventProgress:
			fmt.Fprintf(os.Stderr, "\r[%3.0f%%]", ev.Percent)
		case EventDone:
			fmt.Fprint(os.Stderr, "\r      \r")
			switch ev.Outcome {
			case OutcomeError:
				return fmt.Errorf("%s", ev.Message)
			case OutcomeWarning:
				fmt.Printf("warning: %s\n", ev.Message)
			default:
				fmt.Println(ev.Message)
			}
		}
	}
	return nil
}

// buildIgnoreList merges the chosen preset with the explicit pattern string.
func buildIgnoreList() []string {
	preset, ok := ignorePresets[ignorePreset]
	if !ok {
		preset = ignorePresets["default"]
	}
	return append(parsePatterns(preset), parsePatterns(ignorePatterns)...)
}

// selectionFromPicks seeds a selection tree with the picked paths and takes
// its snapshot, so CLI-supplied paths go through the same canonicalization
// and "everything checked means no restriction" rules as a UI selector.
func selectionFromPicks(base string, picks []string) []string {
	if len(picks) == 0 {
		return nil
	}
	tree := NewSelectionTree(base, picks)
	for _, p := range picks {
		tree.Reveal(p)
	}
	return tree.Snapshot()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringSliceVarP(&selectPaths, "select", "s", nil, "Paths to include (default: everything)")
	rootCmd.Flags().BoolVarP(&interactiveMode, "interactive", "i", false, "Pick paths with a fuzzy finder")

	rootCmd.Flags().StringVarP(&ignorePatterns, "ignore", "x", "", "Extra ignore patterns (comma- or newline-separated globs)")
	viper.BindPFlag("ignore", rootCmd.Flags().Lookup("ignore"))
	rootCmd.Flags().StringVar(&ignorePreset, "preset", "default", "Ignore preset: default, web, python, aggressive, none")
	viper.BindPFlag("preset", rootCmd.Flags().Lookup("preset"))
	rootCmd.Flags().BoolVarP(&includeGhosts, "ghosts", "g", false, "Keep unselected files in the index (without content)")
	viper.BindPFlag("ghosts", rootCmd.Flags().Lookup("ghosts"))
	rootCmd.Flags().BoolVar(&noIgnoreFile, "no-ignore-file", false, "Don't respect the .gitignore at the base directory")
	viper.BindPFlag("no_ignore_file", rootCmd.Flags().Lookup("no-ignore-file"))

	rootCmd.Flags().StringVarP(&filterSpec, "filter", "F", "*", `Extension filter, e.g. ".go,.md,!pdf" ("*" = everything)`)
	viper.BindPFlag("filter", rootCmd.Flags().Lookup("filter"))
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", FormatText, "Output format: txt, csv or pdf")
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().StringVarP(&outputName, "output", "o", "report", "Output name (extension appended from format)")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the text report to the clipboard instead of a file")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase diagnostic logging (-v, -vv, -vvv)")

	viper.SetDefault("preset", "default")
	viper.SetDefault("format", FormatText)
	viper.SetDefault("filter", "*")
	viper.SetDefault("ghosts", false)
	viper.SetDefault("output", "report")
}

// initConfig loads ~/.config/folio/config.toml and FOLIO_* env variables.
// Flags explicitly set on the command line win over both.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "folio"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("FOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "error reading config file: %v\n", err)
		}
	}

	flags := rootCmd.Flags()
	if !flags.Changed("ignore") {
		ignorePatterns = viper.GetString("ignore")
	}
	if !flags.Changed("preset") {
		ignorePreset = viper.GetString("preset")
	}
	if !flags.Changed("filter") {
		filterSpec = viper.GetString("filter")
	}
	if !flags.Changed("format") {
		outputFormat = viper.GetString("format")
	}
	if !flags.Changed("output") {
		outputName = viper.GetString("output")
	}
	if !flags.Changed("ghosts") {
		includeGhosts = viper.GetBool("ghosts")
	}
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
