package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/lowkey/internal/channels"
	"github.com/sadopc/lowkey/internal/config"
	"github.com/sadopc/lowkey/internal/log"
	"github.com/sadopc/lowkey/internal/notify"
	"github.com/sadopc/lowkey/internal/session"
	"github.com/sadopc/lowkey/internal/store"
	"github.com/sadopc/lowkey/internal/tui"
)

func init() {
	// Query the terminal background before any program starts so the
	// response does not land in the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     = config.Defaults()
)

var rootCmd = &cobra.Command{
	Use:     "lowkey",
	Short:   "A lofi focus timer with tasks",
	Long:    `A terminal pomodoro timer with task lists and a background lofi channel.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: $XDG_CONFIG_HOME/lowkey/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the lowkey database")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("channel", defaults.Channel)

	viper.SetEnvPrefix("lowkey")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := config.Dir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing file means defaults; anything else is worth reporting.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: reading config: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: decoding config: %v\n", err)
	}
}

// setupLogging sends logs to the configured file, or to fallback when no
// file is set. The returned closer releases the file.
func setupLogging(fallback io.Writer) (io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogFile == "" {
		if fallback != nil {
			log.Init(fallback, cfg.LogLevel, true)
		}
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.Init(f, cfg.LogLevel, false)
	return f, nil
}

func openStore() (*store.Store, error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Debug().Str("path", path).Msg("database opened")
	return s, nil
}

// openSession opens the store and hydrates a coordinator over it.
func openSession(d session.Deps) (*session.Coordinator, *store.Store, error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	d.Store = s
	d.Channel = cfg.Channel
	if d.Catalog == nil {
		d.Catalog = channels.Builtin()
	}
	return session.Open(d), s, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	// The alternate screen owns stdout, so logs only go to a file.
	if cfg.LogFile == "" {
		if dir, err := config.Dir(); err == nil {
			cfg.LogFile = filepath.Join(dir, "lowkey.log")
		}
	}
	logs, err := setupLogging(nil)
	if err != nil {
		return err
	}
	defer logs.Close()

	notifier := tui.NewNotifier()
	coord, s, err := openSession(session.Deps{
		Notifier: notifier,
		Cues:     notify.NewBell(os.Stderr),
	})
	if err != nil {
		return err
	}
	defer s.Close()
	defer coord.Close()

	p := tea.NewProgram(tui.NewApp(coord), tea.WithAltScreen())
	notifier.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func joinNames[T ~string](vals []T) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
