package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/modelload/internal/compile"
	"github.com/ekisa-team/modelload/internal/model"
	"github.com/ekisa-team/modelload/internal/source"
	"github.com/ekisa-team/modelload/internal/xfs"
)

func resolveCmd(a **app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "resolve <input>",
		Short: "Resolve a model reference to a local file",
		Long: `Resolve a model reference and report where it landed.

Network references are downloaded to a temporary file that is removed on exit;
use --out to keep a copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).resolver.With(cmd.Context(), args[0], func(res *source.Resolved) error {
				if !xfs.Exists(res.Path) {
					return fmt.Errorf("%w: %s (resolved to: %s)", model.ErrModelFileNotFound, res.Input, res.Path)
				}

				path := res.Path
				if out != "" {
					if err := copyFile(res.Path, out); err != nil {
						return err
					}
					path = out
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "input\t%s\n", res.Input)
				fmt.Fprintf(w, "path\t%s\n", path)
				fmt.Fprintf(w, "kind\t%s\n", model.KindFromPath(res.Path))
				fmt.Fprintf(w, "temporary\t%t\n", res.Temporary && out == "")
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Copy the resolved file to this path")
	return cmd
}

func loadCmd(a **app) *cobra.Command {
	var (
		req        model.LoadRequest
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "load <input>",
		Short: "Load a saved model and describe it",
		Long: `Load a saved model and describe it.

Files ending in .nequip.zip are loaded as packages and everything else as
checkpoints. Registry models are always packages. URL and s3:// downloads keep
the extension of their path, so https://host/best.ckpt loads as a checkpoint;
a path without an extension is treated as a package.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := (*a).manager()
			if err != nil {
				return err
			}

			res, err := mgr.LoadSavedModel(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.CompileMode, "compile-mode", model.DefaultCompileMode, "Compile mode used to build the model")
	cmd.Flags().StringVar(&req.ModelKey, "model-key", model.SoleModelKey, "Key of the model to select from the artifact")
	cmd.Flags().BoolVar(&req.WantData, "data", false, "Also read the artifact's data dict")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func compileCmd(a **app) *cobra.Command {
	var req compile.Request
	var mode string

	cmd := &cobra.Command{
		Use:   "compile <input> <output>",
		Short: "Compile a saved model with the framework compiler",
		Example: `  modelload compile nequip.net:mir-group/NequIP-OAM-L:0.1 oam.nequip.pt2 --mode aotinductor --target ase
  modelload compile best.ckpt deployed.nequip.pth --mode torchscript --device cuda`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Input = args[0]
			req.Output = args[1]
			req.Mode = compile.Mode(mode)

			// fail fast on bad flags before looking up the compiler
			if req.Device == "" {
				req.Device = (*a).cfg.Compile.Device
			}
			if err := req.Validate(); err != nil {
				return err
			}

			c, err := (*a).compiler()
			if err != nil {
				return err
			}
			if err := c.Compile(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), req.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(compile.ModeAOTInductor), "Compilation mode: aotinductor or torchscript")
	cmd.Flags().StringVar(&req.Device, "device", "", "Target device (defaults to the configured device)")
	cmd.Flags().StringVar(&req.Target, "target", "", "Integration target, required for aotinductor (e.g. ase)")
	return cmd
}

// printResult writes a human-readable summary of a loaded model.
func printResult(w io.Writer, res *model.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	m := res.Model

	fmt.Fprintf(tw, "key\t%s\n", m.Key)
	fmt.Fprintf(tw, "kind\t%s\n", m.Kind)
	fmt.Fprintf(tw, "source\t%s\n", m.Source)
	fmt.Fprintf(tw, "compile mode\t%s\n", m.CompileMode)
	if names := m.TypeNames(); len(names) > 0 {
		fmt.Fprintf(tw, "type names\t%v\n", names)
	}
	if r := m.RMax(); r > 0 {
		fmt.Fprintf(tw, "r_max\t%g\n", r)
	}
	if n := m.NumParameters(); n > 0 {
		fmt.Fprintf(tw, "parameters\t%d\n", n)
	}

	if res.Data != nil {
		keys := make([]string, 0, len(res.Data))
		for k := range res.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(tw, "data keys\t%v\n", keys)
	}

	return tw.Flush()
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}

	return out.Close()
}
