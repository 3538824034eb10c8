package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dustin/partsrec/config"
	"github.com/dustin/partsrec/internal/layout"
	"github.com/dustin/partsrec/internal/settings"
	"github.com/dustin/partsrec/pkg/logger"
)

// options carries the process configuration after flag overrides
type options struct {
	root       string
	configFile string
	logName    string
	logDir     string
}

func Execute() {
	if err := execute(newRootCmd(config.Load())); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and prints the error unless the command already showed it
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		cmd.PrintErrln("Error:", err)
	}
	return err
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{
		root:       cfg.Paths.Root,
		configFile: cfg.Paths.ConfigFile,
		logName:    cfg.Logging.Name,
		logDir:     cfg.Logging.Dir,
	}

	cmd := &cobra.Command{
		Use:           "partsrec",
		Short:         "Hardware parts recognition system",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStartup(cmd.OutOrStdout(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.root, "root", opts.root, "project root (default: two levels above the executable)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", opts.configFile, "configuration file (default: <root>/data/config/config.json)")

	cmd.AddCommand(setupCmd(opts), checkCmd(opts), configCmd(opts))
	return cmd
}

func (o *options) layout() (*layout.Layout, error) {
	return layout.New(o.root)
}

func (o *options) store(l *layout.Layout) *settings.Store {
	if o.configFile != "" {
		return settings.NewStore(o.configFile)
	}
	return settings.NewStoreForLayout(l)
}

func (o *options) logger(l *layout.Layout) (*logger.Logger, error) {
	dir := o.logDir
	if dir == "" {
		dir = l.LogsDir()
	}
	return logger.NewLogger(&config.LoggingConfig{Name: o.logName, Dir: dir})
}

// runStartup brings the project up: directories, logging, configuration
func runStartup(out io.Writer, opts *options) error {
	fmt.Fprintln(out, "Hardware Parts Recognition System")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	l, err := opts.layout()
	if err != nil {
		fmt.Fprintf(out, "System initialization failed: %v\n", err)
		return &reportedError{err: err}
	}

	appLogger, err := opts.logger(l)
	if err != nil {
		fmt.Fprintf(out, "System initialization failed: %v\n", err)
		return &reportedError{err: err}
	}
	appLogger.Info("System starting, session " + uuid.New().String())

	if err := l.MaterializeAll(); err != nil {
		appLogger.Error("Failed to create project directories: " + err.Error())
		return err
	}
	appLogger.Info("Project directory structure checked")

	store := opts.store(l)
	if _, err := store.Load(); err != nil {
		return reportConfigError(out, appLogger, err)
	}
	appLogger.Info("Configuration loaded from " + store.Path())

	modelName, err := store.Get(settings.KeyModelConfig + ".model_name")
	if err != nil {
		return reportConfigError(out, appLogger, err)
	}
	threshold, err := store.Get(settings.KeyModelConfig + ".confidence_threshold")
	if err != nil {
		return reportConfigError(out, appLogger, err)
	}
	classes, err := store.ClassNames()
	if err != nil {
		return reportConfigError(out, appLogger, err)
	}

	fmt.Fprintf(out, "Model: %s\n", modelName.Text())
	fmt.Fprintf(out, "Part classes: %s\n", strings.Join(classes, ", "))
	fmt.Fprintf(out, "Confidence threshold: %s\n", threshold.Text())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "System initialized")

	appLogger.Info("System initialized, waiting for user action")
	return nil
}

// explainedError carries a user-facing description while keeping the
// underlying error reachable through errors.Is
type explainedError struct {
	msg string
	err error
}

func (e *explainedError) Error() string { return e.msg }

func (e *explainedError) Unwrap() error { return e.err }

func explain(err error) error {
	return &explainedError{msg: describeConfigError(err), err: err}
}

// reportedError marks a failure whose message was already written to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reportConfigError(out io.Writer, appLogger *logger.Logger, err error) error {
	msg := describeConfigError(err)
	fmt.Fprintf(out, "System initialization failed: %s\n", msg)
	appLogger.Error("System initialization failed: " + msg)
	return &reportedError{err: err}
}

// describeConfigError keeps missing, malformed and incomplete configuration apart
func describeConfigError(err error) string {
	switch {
	case errors.Is(err, settings.ErrNotFound):
		return "configuration file is missing: " + err.Error()
	case errors.Is(err, settings.ErrParse):
		return "configuration file is malformed: " + err.Error()
	case errors.Is(err, settings.ErrKeyNotFound):
		return "configuration is incomplete: " + err.Error()
	case errors.Is(err, settings.ErrTypeMismatch):
		return "configuration has an unexpected value: " + err.Error()
	}
	return err.Error()
}
