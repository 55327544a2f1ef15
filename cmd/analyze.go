package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/report"
	"cro-ux-auditor/store"
)

type saveMode string

const (
	saveJSON saveMode = "json"
	savePDF  saveMode = "pdf"
	saveBoth saveMode = "both"
	saveNone saveMode = "none"
)

func parseSaveMode(s string) (saveMode, error) {
	switch m := saveMode(strings.ToLower(s)); m {
	case saveJSON, savePDF, saveBoth, saveNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown save mode %q (want json, pdf, both or none)", s)
}

func (m saveMode) json() bool { return m == saveJSON || m == saveBoth }
func (m saveMode) pdf() bool  { return m == savePDF || m == saveBoth }

type analysisFlags struct {
	audit  string
	render bool
	save   string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.audit, "audit", "a", "", "audit type: cro, ux or both")
	cmd.Flags().BoolVar(&f.render, "render", false, "render pages in a headless browser before extraction")
	cmd.Flags().StringVar(&f.save, "save", string(saveBoth), "what to write: json, pdf, both or none")
	_ = cmd.MarkFlagRequired("audit")
}

func (f *analysisFlags) parse() (ai.AuditType, saveMode, error) {
	audit, err := ai.ParseAuditType(f.audit)
	if err != nil {
		return "", "", err
	}
	mode, err := parseSaveMode(f.save)
	if err != nil {
		return "", "", err
	}
	return audit, mode, nil
}

func writeReport(st *store.Store, doc report.Document, prefix string) (string, error) {
	path, err := st.ReportPath(prefix)
	if err != nil {
		return "", err
	}
	if err := report.SavePDF(doc, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func newAnalyzeCmd() *cobra.Command {
	var flags analysisFlags
	cmd := &cobra.Command{
		Use:   "analyze URL",
		Short: "Audit a single page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audit, mode, err := flags.parse()
			if err != nil {
				return err
			}
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			p := printer{out: cmd.OutOrStdout()}
			result, err := a.analyzer.AnalyzePage(ctx, args[0], flags.render, audit)
			if err != nil {
				p.fetchHint(err)
				return err
			}
			p.result(result)

			if mode.json() {
				path, err := a.store.SaveJSON(result, "cro_analysis")
				if err != nil {
					return err
				}
				p.saved("JSON", path)
			}
			if mode.pdf() {
				path, err := writeReport(a.store, report.PageReport(result), "cro_report")
				if err != nil {
					return err
				}
				p.saved("PDF report", path)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPagesCmd() *cobra.Command {
	var flags analysisFlags
	cmd := &cobra.Command{
		Use:   "pages URL...",
		Short: "Audit several pages one after another",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audit, mode, err := flags.parse()
			if err != nil {
				return err
			}
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signalContext()
			defer cancel()

			p := printer{out: cmd.OutOrStdout()}
			outcomes := a.analyzer.WithProgress(p.progress).AnalyzePages(ctx, args, flags.render, audit)
			fmt.Fprintln(p.out)
			p.outcomes(outcomes)

			if mode.json() {
				path, err := a.store.SaveJSON(outcomes, "cro_analysis")
				if err != nil {
					return err
				}
				p.saved("JSON", path)
			}
			if mode.pdf() {
				for i, o := range outcomes {
					if o.Failed() {
						continue
					}
					path, err := writeReport(a.store, report.PageReport(o.Result), fmt.Sprintf("cro_report_page%d", i+1))
					if err != nil {
						a.logger.WithError(err).WithField("url", o.URL).Error("could not write PDF report")
						continue
					}
					p.saved("PDF report", path)
				}
			}
			return ctx.Err()
		},
	}
	flags.register(cmd)
	return cmd
}

func newSiteCmd() *cobra.Command {
	var (
		flags    analysisFlags
		maxPages int
	)
	cmd := &cobra.Command{
		Use:   "site URL",
		Short: "Crawl a website and audit every discovered page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audit, mode, err := flags.parse()
			if err != nil {
				return err
			}
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if !cmd.Flags().Changed("max-pages") {
				maxPages = a.settings.Crawl.MaxPages
			}

			ctx, cancel := signalContext()
			defer cancel()

			p := printer{out: cmd.OutOrStdout()}
			site, err := a.analyzer.WithProgress(p.progress).AnalyzeWebsite(ctx, args[0], maxPages, flags.render, audit)
			return finishSite(p, a.store, site, mode, err)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&maxPages, "max-pages", "n", 10, "maximum number of pages to crawl")
	return cmd
}

// finishSite prints and saves site, which may be a partial summary when the
// run was interrupted, and then returns runErr.
func finishSite(p printer, st *store.Store, site *analyzer.WebsiteAnalysis, mode saveMode, runErr error) error {
	if site == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(p.out, "%s %v\n", warnFmt("interrupted:"), runErr)
	}
	p.website(site)

	if mode.json() {
		path, err := st.SaveJSON(site, "cro_analysis")
		if err != nil {
			return err
		}
		p.saved("JSON", path)
	}
	if mode.pdf() {
		path, err := writeReport(st, report.WebsiteReport(site), "website_cro_report")
		if err != nil {
			return err
		}
		p.saved("PDF report", path)
	}
	return runErr
}
