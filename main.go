// Package main provides the entry point for the voxclone CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/voxclone/internal/clone"
	"github.com/dgnsrekt/voxclone/ui"
	"github.com/dgnsrekt/voxclone/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile    string
	endpoint      string
	languageCode  string
	referencePath string
	outputDir     string
	mouse         bool

	rootCmd = &cobra.Command{
		Use:   "voxclone [SCRIPT_FILE]",
		Short: "Clone a voice on the CLI, with pizzazz!",
		Long: paragraph(
			fmt.Sprintf("\nClone any voice %s: submit a script and a short reference sample to a hosted XTTS-v2 endpoint, then preview and download the result.", keyword("right from your terminal")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	endpoint = viper.GetString("endpoint")
	languageCode = viper.GetString("language")
	referencePath = viper.GetString("reference")
	outputDir = viper.GetString("output")
	mouse = viper.GetBool("mouse")

	if endpoint == "" {
		return errors.New("no synthesis endpoint configured")
	}

	if languageCode != "" {
		if _, err := clone.ParseLanguage(languageCode); err != nil {
			supported := make([]string, len(clone.Languages))
			for i, l := range clone.Languages {
				supported[i] = l.String()
			}
			return fmt.Errorf("unsupported language %q (supported: %s)", languageCode, strings.Join(supported, ", "))
		}
	}

	if referencePath != "" {
		referencePath = utils.ExpandPath(referencePath)
		if _, err := os.Stat(referencePath); err != nil {
			return fmt.Errorf("unable to stat reference audio: %w", err)
		}
		if !clone.AcceptableReference(referencePath) {
			return fmt.Errorf("%s is not a supported audio format (supported: %s)",
				filepath.Base(referencePath), strings.Join(clone.ReferenceExtensions, ", "))
		}
	}

	return nil
}

func execute(_ *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("voxclone needs an interactive terminal")
	}

	var script string
	if len(args) == 1 {
		b, err := os.ReadFile(utils.ExpandPath(args[0]))
		if err != nil {
			return fmt.Errorf("unable to read script file: %w", err)
		}
		script = strings.TrimRight(string(b), "\n")
	}

	return runTUI(script)
}

func runTUI(script string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Endpoint = endpoint
	cfg.Language = languageCode
	cfg.ReferencePath = referencePath
	cfg.OutputDir = utils.ExpandPath(outputDir)
	cfg.Script = script
	cfg.EnableMouse = mouse

	// Run Bubble Tea program
	p, err := ui.NewProgram(cfg)
	if err != nil {
		return fmt.Errorf("unable to set up tui program: %w", err)
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "remote inference endpoint")
	rootCmd.Flags().StringVarP(&languageCode, "language", "l", "", "target language code")
	rootCmd.Flags().StringVarP(&referencePath, "reference", "r", "", "reference audio file to clone (wav/mp3/flac/ogg/m4a)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory downloads are saved to")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("endpoint", rootCmd.Flags().Lookup("endpoint"))
	_ = viper.BindPFlag("language", rootCmd.Flags().Lookup("language"))
	_ = viper.BindPFlag("reference", rootCmd.Flags().Lookup("reference"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("endpoint", clone.DefaultEndpoint)
	viper.SetDefault("language", clone.DefaultLanguage.String())
	viper.SetDefault("output", ".")

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "voxclone")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "voxclone")}, dirs...)
	}

	if c := os.Getenv("VOXCLONE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("voxclone")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("voxclone")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "voxclone.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
