package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bookvoice/bookvoice/internal/outline"
	"github.com/bookvoice/bookvoice/internal/toc"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "bookctl",
		Short: "Inspect book outlines and page text without the server",
	}
	root.AddCommand(tocCmd(), textCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tocCmd() *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "toc <file>",
		Short: "Print the table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := extract(args[0])
			if err != nil {
				return err
			}
			forest := toc.BuildTree(book.Outline)
			if len(forest) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no table of contents)")
				return nil
			}
			if flat {
				for _, e := range toc.Flatten(forest) {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t(p. %d)\n", e.Level, e.Title, e.Page)
				}
				return nil
			}
			toc.Walk(forest, &treePrinter{out: cmd.OutOrStdout()})
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "print flat pre-order entries instead of a tree")
	return cmd
}

func textCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Print the extracted text of one page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := extract(args[0])
			if err != nil {
				return err
			}
			text, err := book.PageText(page)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	return cmd
}

func extract(path string) (*outline.Book, error) {
	ex, err := outline.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// Extractors derive the book title from the filename.
	return ex.Extract(f, filepath.Base(path))
}

// treePrinter renders the forest with two-space indentation per level.
type treePrinter struct {
	out   io.Writer
	depth int
}

func (p *treePrinter) EnterGroup(n *toc.Node) {
	p.line(n)
	p.depth++
}

func (p *treePrinter) LeaveGroup(n *toc.Node) {
	p.depth--
}

func (p *treePrinter) Leaf(n *toc.Node) {
	p.line(n)
}

func (p *treePrinter) line(n *toc.Node) {
	fmt.Fprintf(p.out, "%s%s (p. %d)\n", strings.Repeat("  ", p.depth), n.Title, n.Page)
}