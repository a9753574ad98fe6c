package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// viewOptions are the list and export flags.
type viewOptions struct {
	query string
	by    string
	sort  string
	dir   string
	page  int
	size  int
}

func (o *viewOptions) bind(cmd *cobra.Command, paged bool) {
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "Filter text (case-insensitive substring)")
	cmd.Flags().StringVar(&o.by, "by", string(core.FilterName), "Field to filter: name or email")
	cmd.Flags().StringVar(&o.sort, "sort", string(core.SortByID), "Sort field: id, name or email")
	cmd.Flags().StringVar(&o.dir, "dir", string(core.SortDesc), "Sort direction: asc or desc")
	if paged {
		cmd.Flags().IntVar(&o.page, "page", 1, "Page number (clamped to the last page)")
		cmd.Flags().IntVar(&o.size, "size", core.DefaultPageSize, "Page size: 5, 10 or 20")
	}
}

// params converts the flags through ViewState so unknown values fall back
// to their defaults.
func (o *viewOptions) params() core.ViewParams {
	s := core.NewViewState()
	s.SetFilterText(o.query)
	s.SetFilterField(core.FilterField(o.by))
	s.SetSortField(core.SortField(o.sort))
	s.SetSortDirection(core.SortDirection(o.dir))
	if o.size != 0 {
		s.SetPageSize(o.size)
	}
	s.GoTo(o.page)
	return s.Params()
}

// recordOptions are the editable record fields as flags.
type recordOptions struct {
	name   string
	email  string
	phone  string
	status string
	role   string
}

func (o *recordOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.name, "name", "", "Name (at least 3 characters)")
	cmd.Flags().StringVar(&o.email, "email", "", "Email address")
	cmd.Flags().StringVar(&o.phone, "phone", "", "Phone")
	cmd.Flags().StringVar(&o.status, "status", "", "Status")
	cmd.Flags().StringVar(&o.role, "role", "", "Role")
}

func (o *recordOptions) input() core.RecordInput {
	return core.RecordInput{Name: o.name, Email: o.email, Phone: o.phone, Status: o.status, Role: o.role}
}

// merge overlays the flags the user actually set onto base.
func (o *recordOptions) merge(cmd *cobra.Command, base core.RecordInput) core.RecordInput {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &base.Name, o.name)
	set("email", &base.Email, o.email)
	set("phone", &base.Phone, o.phone)
	set("status", &base.Status, o.status)
	set("role", &base.Role, o.role)
	return base
}

func newListCommand(g *globalOptions) *cobra.Command {
	opts := &viewOptions{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			res := a.service.List(opts.params())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printPage(cmd.OutOrStdout(), res)
		},
	}
	opts.bind(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page result as JSON")
	return cmd
}

func printPage(w io.Writer, res core.PageResult) error {
	if msg := res.EmptyMessage(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tSTATUS\tROLE")
	for _, r := range res.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, r.Phone, r.Status, r.Role)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s (page %d of %d)\n", res.RangeLabel(), res.CurrentPage, res.TotalPages)
	return err
}

func newAddCommand(g *globalOptions) *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := commandContext(cmd)
			rec, err := a.service.Create(ctx, opts.input())
			if err != nil {
				return reportValidation(cmd, opts.input(), err)
			}
			if err := a.ensureSaved(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added user %d\n", rec.ID)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func newUpdateCommand(g *globalOptions) *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a user; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRecordID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			current, err := a.service.Get(id)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			in := opts.merge(cmd, current.Input())
			if _, err := a.service.Update(ctx, id, in); err != nil {
				return reportValidation(cmd, in, err)
			}
			if err := a.ensureSaved(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated user %d\n", id)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func newDeleteCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRecordID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := commandContext(cmd)
			if _, err := a.service.Delete(ctx, id); err != nil {
				return err
			}
			if err := a.ensureSaved(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a record without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := opts.input()
			if errs := core.Validate(in); !errs.Valid() {
				return reportValidation(cmd, in, errs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

// reportValidation prints field messages in form order and returns
// core.ErrValidation; other errors pass through.
func reportValidation(cmd *cobra.Command, in core.RecordInput, err error) error {
	if !errors.Is(err, core.ErrValidation) {
		return err
	}
	for _, fe := range core.ValidateFields(in) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
	}
	return core.ErrValidation
}

func newExportCommand(g *globalOptions) *cobra.Command {
	opts := &viewOptions{}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all matching users as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := a.service.ExportCSV(w, opts.params()); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		},
	}
	opts.bind(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}
