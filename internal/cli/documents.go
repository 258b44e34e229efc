package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/store"
)

// documentsCommand creates the documents command for the document store.
func (c *CLI) documentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Manage saved documents",
	}

	cmd.AddCommand(c.documentsListCommand())
	cmd.AddCommand(c.documentsShowCommand())
	cmd.AddCommand(c.documentsRemoveCommand())

	return cmd
}

func (c *CLI) documentsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			docs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No saved documents")
				printNextStep("Save one", "adlayout compose ... --save")
				return nil
			}
			fmt.Println(documentTable(docs))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of documents")
	return cmd
}

func (c *CLI) documentsShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			doc, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if output != "" {
				if err := document.ExportJSON(doc, output); err != nil {
					return err
				}
				printFile(output)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file")
	return cmd
}

func (c *CLI) documentsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete saved documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleNumber.Render(id))
			}
			return nil
		},
	}
}

func documentTable(docs []*document.Document) string {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			d.ID,
			d.Name,
			string(d.Format),
			d.TemplateID,
			fmt.Sprintf("%d", len(d.Layers)),
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Format", "Template", "Layers", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
