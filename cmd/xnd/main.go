// Package main provides the xnd command line tool.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/plures-go/xnd/array"
	"github.com/plures-go/xnd/types"
	"github.com/plures-go/xnd/xnd"
)

const version = "v0.1.0-dev"

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:           "xnd",
		Short:         "Typed containers for nested host values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), parseCmd(), inferCmd(), evalCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xnd %s\n", version)
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <type>",
		Short: "Parse a type string and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := types.Parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t)
			fmt.Fprintf(out, "ndim:     %d\n", t.Ndim())
			fmt.Fprintf(out, "abstract: %v\n", t.IsAbstract())
			if shape, ok := t.Shape(); ok {
				fmt.Fprintf(out, "shape:    %v\n", shape)
			}
			fmt.Fprintf(out, "dtype:    %s\n", t.DType())
			return nil
		},
	}
}

func inferCmd() *cobra.Command {
	var dtype string
	cmd := &cobra.Command{
		Use:   "infer [json-value]",
		Short: "Infer the type of a JSON value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readValue(cmd, args)
			if err != nil {
				return err
			}
			var dt *types.Type
			if dtype != "" {
				if dt, err = types.Parse(dtype); err != nil {
					return err
				}
			}
			t, err := xnd.TypeOf(v, dt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&dtype, "dtype", "", "constrain inference to this element type")
	return cmd
}

func evalCmd() *cobra.Command {
	var typ, dev, op string
	cmd := &cobra.Command{
		Use:   "eval [json-value]",
		Short: "Construct a container and optionally apply an elementwise operation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readValue(cmd, args)
			if err != nil {
				return err
			}
			opts := xnd.Options{Device: dev}
			if typ != "" {
				opts.Type = typ
			}
			a, err := array.New(v, opts)
			if err != nil {
				return err
			}
			if op != "" {
				a, err = applyUnary(a, op)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "explicit type for the value")
	cmd.Flags().StringVar(&dev, "device", "", "device, e.g. cpu:0 or cuda:managed")
	cmd.Flags().StringVar(&op, "op", "", "unary operation to apply, e.g. sqrt")
	return cmd
}

var unaryByName = map[string]array.UnaryOp{}

func init() {
	for op := array.Negative; op <= array.Tgamma; op++ {
		unaryByName[op.String()] = op
	}
}

func applyUnary(a *array.Array, name string) (*array.Array, error) {
	op, ok := unaryByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", name)
	}
	return a.Unary(op, nil)
}

// readValue decodes a JSON value from the argument or stdin. Integral
// numbers decode as int64 so that inference sees integers.
func readValue(cmd *cobra.Command, args []string) (any, error) {
	var r io.Reader
	if len(args) == 1 {
		r = strings.NewReader(args[0])
	} else {
		r = cmd.InOrStdin()
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return normalize(raw), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	default:
		return v
	}
}
