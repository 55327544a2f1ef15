package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cro-ux-auditor/crawler"
	"cro-ux-auditor/extract"
)

func newCrawlCmd() *cobra.Command {
	var (
		maxPages int
		render   bool
	)
	cmd := &cobra.Command{
		Use:   "crawl URL",
		Short: "Discover same-domain pages without analyzing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()
			if !cmd.Flags().Changed("max-pages") {
				maxPages = a.settings.Crawl.MaxPages
			}

			ctx, cancel := signalContext()
			defer cancel()

			urls, err := crawler.NewCrawler(a.fetcher(render), a.logger).Crawl(ctx, args[0], maxPages)
			return finishCrawl(printer{out: cmd.OutOrStdout()}, urls, err)
		},
	}
	cmd.Flags().IntVarP(&maxPages, "max-pages", "n", 10, "maximum number of pages to crawl")
	cmd.Flags().BoolVar(&render, "render", false, "render pages in a headless browser while crawling")
	return cmd
}

// finishCrawl prints what was discovered, including a partial list from an
// interrupted crawl, and returns crawlErr.
func finishCrawl(p printer, urls []string, crawlErr error) error {
	if crawlErr != nil && len(urls) == 0 {
		return crawlErr
	}
	p.urls(urls)
	return crawlErr
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status URL",
		Short: "Check whether a site is reachable before auditing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			status := a.status.CheckStatus(ctx, args[0])
			printer{out: cmd.OutOrStdout()}.status(args[0], status)
			if !status.Reachable {
				return fmt.Errorf("%s is not reachable", args[0])
			}
			return nil
		},
	}
}

type extractOutput struct {
	URL      string               `json:"url"`
	Features extract.PageFeatures `json:"features"`
	Markdown string               `json:"markdown,omitempty"`
}

func newExtractCmd() *cobra.Command {
	var render, markdown bool
	cmd := &cobra.Command{
		Use:   "extract URL",
		Short: "Print the extracted page features as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			pageHTML, err := a.fetcher(render).Fetch(ctx, args[0])
			if err != nil {
				printer{out: cmd.ErrOrStderr()}.fetchHint(err)
				return err
			}
			out, err := extractPage(args[0], pageHTML, markdown)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "render the page in a headless browser first")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "include the page body converted to Markdown")
	return cmd
}

func extractPage(pageURL, pageHTML string, markdown bool) (extractOutput, error) {
	doc, err := extract.Parse(pageHTML)
	if err != nil {
		return extractOutput{}, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	out := extractOutput{URL: pageURL, Features: extract.FromDocument(doc)}
	if markdown {
		if out.Markdown, err = extract.Markdown(doc); err != nil {
			return extractOutput{}, fmt.Errorf("markdown for %s: %w", pageURL, err)
		}
	}
	return out, nil
}
