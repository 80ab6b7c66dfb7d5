package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/mutations/internal/adapters/http/dto"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// errInvalidInput is returned after printing a result that failed
// validation, so the process exits non-zero.
var errInvalidInput = errors.New("input failed validation")

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the served mutations and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.newService(cmd.Context(), c)
			if err != nil {
				return err
			}

			infos := svc.List(cmd.Context())
			if asJSON {
				return writeJSON(c.out, dto.ToMutationListResponse(infos))
			}
			return writeTable(c.out, infos)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newDescribeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Print the field schema of one mutation as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.newService(cmd.Context(), c)
			if err != nil {
				return err
			}

			info, err := svc.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(c.out, dto.ToMutationResponse(info))
		},
	}
}

// callFlags are shared by run and validate.
type callFlags struct {
	pairs   []string
	rawJSON string
	raise   bool
}

func (f *callFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.pairs, "arg", nil, "argument as key=value; repeatable; \"null\" binds nil")
	cmd.Flags().StringVar(&f.rawJSON, "args-json", "", "arguments as a JSON object")
	cmd.Flags().BoolVar(&f.raise, "raise", false, "fail with the validation error instead of printing a result")
}

// raiseOverride is nil unless --raise was given, so the configured default
// applies.
func (f *callFlags) raiseOverride(cmd *cobra.Command) *bool {
	if !cmd.Flags().Changed("raise") {
		return nil
	}
	return &f.raise
}

func newRunCmd(c *cli) *cobra.Command {
	var flags callFlags

	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Validate arguments and execute a mutation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, margs, err := prepare(cmd, c, args[0], &flags)
			if err != nil {
				return err
			}

			res, err := svc.Run(cmd.Context(), args[0], margs, flags.raiseOverride(cmd))
			if err != nil {
				return err
			}
			if err := writeJSON(c.out, dto.ToRunResponse(res)); err != nil {
				return err
			}
			if !res.Success {
				return errInvalidInput
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newValidateCmd(c *cli) *cobra.Command {
	var flags callFlags

	cmd := &cobra.Command{
		Use:   "validate NAME",
		Short: "Check arguments against a mutation without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, margs, err := prepare(cmd, c, args[0], &flags)
			if err != nil {
				return err
			}

			res, err := svc.Validate(cmd.Context(), args[0], margs, flags.raiseOverride(cmd))
			if err != nil {
				return err
			}
			if err := writeJSON(c.out, dto.ToValidateResponse(res)); err != nil {
				return err
			}
			if !res.IsValid {
				return errInvalidInput
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

// prepare builds the service and converts the flags using the mutation's
// declared field kinds.
func prepare(cmd *cobra.Command, c *cli, name string, flags *callFlags) (ports.MutationService, mutation.Args, error) {
	svc, err := c.newService(cmd.Context(), c)
	if err != nil {
		return nil, nil, err
	}

	info, err := svc.Describe(cmd.Context(), name)
	if err != nil {
		return nil, nil, err
	}

	args, err := parseArgs(info, flags.pairs, flags.rawJSON)
	if err != nil {
		return nil, nil, err
	}
	return svc, args, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, infos []ports.MutationInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFIELDS\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, fieldSummary(info.Fields), info.Description)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// fieldSummary renders fields as "email*:char send_welcome_email:boolean=false";
// * marks required fields.
func fieldSummary(fs []ports.FieldInfo) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		var b strings.Builder
		b.WriteString(f.Name)
		if f.Required {
			b.WriteByte('*')
		}
		b.WriteString(":" + f.Kind)
		if f.HasDefault {
			fmt.Fprintf(&b, "=%v", f.Default)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}
