// Package main implements cmlower, a thin CLI driver over the lowering
// pipeline: out of scope as a component per spec.md §6 ("thin driver"),
// but carried anyway the way cmd/surge wraps the teacher's pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shadowlink0122/Cm-sub000/internal/diag"
	"github.com/shadowlink0122/Cm-sub000/internal/loader"
	"github.com/shadowlink0122/Cm-sub000/internal/mirenc"
	"github.com/shadowlink0122/Cm-sub000/internal/pipeline"
	"github.com/shadowlink0122/Cm-sub000/internal/trace"
	"github.com/shadowlink0122/Cm-sub000/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "cmlower",
	Short: "Cm HIR/MIR lowering pipeline",
	Long:  "cmlower lowers a pre-lowered typed AST through HIR, MIR, and monomorphization.",
}

func main() {
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace dump output file (- for stderr, empty to disable)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel module load jobs (0 = GOMAXPROCS)")

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(monoCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var lowerCmd = &cobra.Command{
	Use:   "lower [files...]",
	Short: "Lower typed-AST files through HIR and MIR, without monomorphizing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runLower(cmd, args, false) },
}

var monoCmd = &cobra.Command{
	Use:   "mono [files...]",
	Short: "Lower and monomorphize typed-AST files, printing the final MIR program",
	Args:  cobra.MinimumNArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runLower(cmd, args, true) },
}

var dumpCmd = &cobra.Command{
	Use:   "dump <files...> -o <out.mp>",
	Short: "Lower, monomorphize, and serialize the MIR program with internal/mirenc",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "", "msgpack output path (required)")
}

func runLower(cmd *cobra.Command, args []string, monomorphize bool) error {
	res, useColor, err := assemble(cmd, args, monomorphize)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, res.Diags, useColor)
	for _, verr := range res.ValidationErrors {
		fmt.Fprintln(cmd.ErrOrStderr(), "verify:", verr)
	}
	printSummary(cmd, res, useColor)
	return maybeDumpTrace(cmd, res)
}

func runDump(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("dump: --output is required")
	}
	res, useColor, err := assemble(cmd, args, true)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, res.Diags, useColor)
	if err := mirenc.Save(out, res.Program); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	printSummary(cmd, res, useColor)
	return maybeDumpTrace(cmd, res)
}

func assemble(cmd *cobra.Command, paths []string, monomorphize bool) (*pipeline.Result, bool, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, false, err
	}
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, false, err
	}
	useColor := resolveColor(colorMode)

	ring := trace.NewRing(4096)
	res, err := pipeline.Assemble(context.Background(), paths, loader.Options{Jobs: jobs}, ring, monomorphize)
	if err != nil {
		return nil, useColor, err
	}
	return res, useColor, nil
}

func resolveColor(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func printDiagnostics(cmd *cobra.Command, diags *diag.Bag, useColor bool) {
	for _, d := range diags.Items() {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.RenderLine(d, useColor))
	}
}

func printSummary(cmd *cobra.Command, res *pipeline.Result, useColor bool) {
	errs, warns := 0, 0
	for _, d := range res.Diags.Items() {
		switch d.Severity {
		case diag.Warning:
			warns++
		case diag.Error, diag.Fatal:
			errs++
		}
	}
	errs += len(res.ValidationErrors)

	summary := ui.Summary{
		Funcs:    len(res.Program.Funcs),
		Warnings: warns,
		Errors:   errs,
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.Render("cmlower", summary, useColor))
}

func maybeDumpTrace(cmd *cobra.Command, res *pipeline.Result) error {
	path, err := cmd.Flags().GetString("trace")
	if err != nil || path == "" {
		return err
	}
	w := cmd.ErrOrStderr()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}
		defer f.Close()
		w = f
	}
	return res.Trace.Dump(w)
}
