package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapgraph/internal/cli/output"
	"github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/lineage"
	"github.com/leapstack-labs/leapgraph/internal/model"
	"github.com/spf13/cobra"
)

// ColumnsOptions holds options for the columns command.
type ColumnsOptions struct {
	Markdown bool
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	opts := &ColumnsOptions{}

	cmd := &cobra.Command{
		Use:   "columns [catalog] [sql-dir]",
		Short: "List model columns with their sources and types",
		Long: `List every projected column of every model together with the source
table it resolves to and the data type assigned from the catalog or a
sibling model. Columns that could not be typed are reported at the end.`,
		Example: `  # Table output
  leapgraph columns sources.yml models/

  # Markdown output, e.g. for a pull request
  leapgraph columns sources.yml models/ --markdown`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Markdown, "markdown", false, "Render as markdown")

	return cmd
}

func runColumns(cmd *cobra.Command, args []string, opts *ColumnsOptions) error {
	ctx := cmd.Context()
	cfg, err := WithArgs(config.FromContext(ctx), args)
	if err != nil {
		return err
	}

	set, err := Build(ctx, cfg, config.GetLogger(ctx))
	if err != nil {
		return err
	}

	mode := output.ModeAuto
	if opts.Markdown {
		mode = output.ModeMarkdown
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	if r.EffectiveMode() == output.ModeMarkdown {
		return columnsMarkdown(r, set)
	}
	return columnsText(r, set)
}

func columnsTable(r *output.Renderer, set *lineage.ModelSet) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Column", "Source", "Type"})

	for _, m := range set.Models() {
		for _, it := range m.Items {
			t.AppendRow(table.Row{m.Name, it.DisplayName(), sourceOf(it, m.Tables), it.DataType.String()})
		}
	}
	return t
}

func columnsText(r *output.Renderer, set *lineage.ModelSet) error {
	styles := r.Styles()
	r.Println(styles.Header1.Render(fmt.Sprintf("Columns (%d models)", len(set.Models()))))

	columnsTable(r, set).Render()

	diags := set.Diagnostics()
	if len(diags) == 0 {
		return nil
	}
	r.Println("")
	r.Println(styles.Header2.Render(fmt.Sprintf("Diagnostics (%d)", len(diags))))
	for _, d := range diags {
		r.Printf("  %s %s\n", kindLabel(styles, d.Kind), d.String())
	}
	return nil
}

func columnsMarkdown(r *output.Renderer, set *lineage.ModelSet) error {
	r.Println("# Columns")
	r.Println("")
	columnsTable(r, set).RenderMarkdown()

	diags := set.Diagnostics()
	if len(diags) == 0 {
		return nil
	}
	r.Println("")
	r.Println("## Diagnostics")
	r.Println("")
	for _, d := range diags {
		r.Printf("- `%s`\n", d.String())
	}
	return nil
}

// sourceOf renders the resolved source path of an item.
func sourceOf(it model.Item, tables []model.SourceTable) string {
	path, err := it.ResolvePath(tables)
	switch {
	case err != nil:
		return "(ambiguous)"
	case len(path) == 0:
		return "(unresolved)"
	}
	return strings.Join(path, ".")
}

func kindLabel(styles *output.Styles, kind model.DiagnosticKind) string {
	label := fmt.Sprintf("%-10s", kind)
	if kind == model.DiagAmbiguous {
		return styles.Warning.Render(label)
	}
	return styles.Muted.Render(label)
}
