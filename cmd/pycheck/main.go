package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frederic-klein/pycheck/internal/dispatch"
	"github.com/frederic-klein/pycheck/internal/pyexec"
)

var (
	versionSpec  string
	pretty       bool
	format       string
	verbose      bool
	forcedPython string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pycheck [flags] file_or_dir...",
		Short: "Validate version-specific Python syntax by compilation",
		Long: "pycheck compiles the given Python files (or directories, recursively) under the\n" +
			"requested interpreter version and prints a JSON map of per-file results to stdout.\n" +
			"If the requested version is not the default interpreter, a matching pythonX.Y\n" +
			"executable is located and the check is relayed to it.",
		Args:         cobra.MinimumNArgs(1),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&versionSpec, "version", "v", "", "Python version(s) to use, comma-separated; first installed wins")
	rootCmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "output pretty JSON")
	rootCmd.Flags().StringVarP(&format, "format", "o", "json", "output format: json or yaml")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "trace progress on stderr")
	rootCmd.Flags().StringVar(&forcedPython, "use-this-python", "", "internal: interpreter this invocation was forced onto")
	_ = rootCmd.Flags().MarkHidden("use-this-python")

	viper.SetEnvPrefix("PYCHECK")
	viper.AutomaticEnv()
	for _, name := range []string{"version", "pretty", "format"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pycheck"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	outFormat := viper.GetString("format")
	outPretty := viper.GetBool("pretty")
	if outFormat != "json" && outFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", outFormat)
	}
	// Relayed invocations speak the JSON contract, whatever the
	// environment says.
	if forcedPython != "" {
		outFormat = "json"
		outPretty = false
	}

	var spec any
	if s := viper.GetString("version"); s != "" {
		spec = s
	}

	d := dispatch.New(pyexec.NewRunner(), logger)
	rep := d.Run(dispatch.Options{
		Targets:        args,
		VersionSpec:    spec,
		ForcedPython:   forcedPython,
		PythonOverride: viper.GetString("python"),
	})

	var err error
	if outFormat == "yaml" {
		err = rep.WriteYAML(os.Stdout)
	} else {
		err = rep.WriteJSON(os.Stdout, outPretty)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	os.Exit(rep.ExitCode())
	return nil
}
