// Command lorarenamer renames CivitAI LoRA downloads after the model and
// version recorded in their .civitai.info sidecars. It loads settings, then
// either runs diagnostics (--check) or a rename pass over the LoRA directory.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/backmassage/lorarenamer/internal/check"
	"github.com/backmassage/lorarenamer/internal/config"
	"github.com/backmassage/lorarenamer/internal/display"
	"github.com/backmassage/lorarenamer/internal/logging"
	"github.com/backmassage/lorarenamer/internal/renamer"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and maps the outcome to an exit code:
// 0 when the run reports Done (or --check passes), 1 otherwise.
func run(args []string) int {
	code := 0
	cmd := newRootCmd(&code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lorarenamer: %v\n", err)
		return 1
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lorarenamer [flags] [lora_dir]",
		Short: "Rename LoRA files after their CivitAI model and version",
		Long: `Scans lora_dir recursively for *.civitai.info sidecars and renames each
sidecar together with every file sharing its base name to
<model>__<version>.<ext>. Name clashes between different model versions get
the version id appended to the model segment; true duplicates can be moved to
the trash or deleted.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.BindFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// 1. Layer defaults, settings file, environment and flags.
		cfg, err := config.Load(flags, args)
		if err != nil {
			return err
		}

		log, err := logging.NewLogger(&cfg)
		if err != nil {
			return err
		}
		defer log.Close()

		display.PrintBanner(cmd.OutOrStdout())

		// 2. Diagnostics only.
		if cfg.CheckOnly {
			if !check.RunCheck(&cfg, log) {
				*code = 1
			}
			return nil
		}

		// 3. Fail fast when the directory or trash cannot be written.
		if err := check.Preflight(&cfg); err != nil {
			log.Error("%v", err)
			fmt.Fprintln(cmd.OutOrStdout(), err.Error())
			*code = 1
			return nil
		}

		log.Info("=== LoraRenamer v%s ===", version)
		log.Info("Dir: %s", cfg.LoraDir)

		// 4. Rename, stopping between groups on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary, err := renamer.Run(ctx, &cfg, log)
		status := summary.Status
		if err != nil {
			log.Error("%v", err)
			var stackErr *errors.Error
			if errors.As(err, &stackErr) {
				log.Debug(cfg.Verbose, "%s", stackErr.ErrorStack())
			}
			status = err.Error()
		}

		fmt.Fprintln(cmd.OutOrStdout(), status)
		if status != renamer.StatusDone {
			*code = 1
		}
		return nil
	}
	return cmd
}
