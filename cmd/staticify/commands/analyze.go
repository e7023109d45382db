package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"martianoff/staticify/internal/parser"
	"martianoff/staticify/internal/refactor/staticmethod"
	"martianoff/staticify/staticerr"
)

type analyzeOptions struct {
	sourceOptions
	class string
	json  bool
}

// classReport is the JSON form of one analyzed class.
type classReport struct {
	File    string         `json:"file"`
	Class   string         `json:"class"`
	Passes  int            `json:"passes"`
	Methods []methodReport `json:"methods"`
}

type methodReport struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
	Pass     int    `json:"pass,omitempty"`
}

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Explain which methods of a class can become static",
		Long: `Analyze the target class and print one verdict per method with the
reason it can or cannot become static. Files are never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, o, args)
		},
	}
	o.sourceOptions.addFlags(cmd)
	cmd.Flags().StringVarP(&o.class, "class", "c", "", "Fully-qualified name of the target class")
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the verdicts as JSON")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globalOptions, o *analyzeOptions, args []string) error {
	release, err := g.release(cmd, "")
	if err != nil {
		return err
	}
	files, err := collectFiles(&o.sourceOptions, args)
	if err != nil {
		return err
	}

	p := parser.NewJavaParser()
	errs := &staticerr.MultiError{}
	reports := []classReport{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs.Errors = append(errs.Errors, err)
			continue
		}
		cu, err := p.Parse(string(data), path)
		if err != nil {
			g.log.Error("parse failed", "file", path, "error", err)
			errs.Errors = append(errs.Errors, err)
			continue
		}
		results := staticmethod.Analyze(cu, o.class,
			staticmethod.WithLogger(g.log.With("file", path)),
			staticmethod.WithJavaRelease(release),
		)
		for _, r := range results {
			reports = append(reports, newClassReport(path, r))
		}
	}

	if o.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else if err := printReports(cmd, reports); err != nil {
		return err
	}
	if len(reports) == 0 {
		g.log.Warn("class not found", "class", o.class, "files", len(files))
	}
	return errs.ErrOrNil()
}

func newClassReport(path string, r *staticmethod.Result) classReport {
	rep := classReport{File: path, Class: r.Class, Passes: r.Passes, Methods: []methodReport{}}
	for _, v := range r.Verdicts {
		line := 0
		if v.Method.Name != nil {
			line = v.Method.Name.Line
		}
		rep.Methods = append(rep.Methods, methodReport{
			Name:     v.Name,
			Line:     line,
			Eligible: v.Eligible,
			Reason:   string(v.Reason),
			Pass:     v.Pass,
		})
	}
	return rep
}

func printReports(cmd *cobra.Command, reports []classReport) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, rep := range reports {
		fmt.Fprintf(tw, "%s (%s)\n", rep.Class, rep.File)
		for _, m := range rep.Methods {
			verdict := "keep"
			if m.Eligible {
				verdict = "static"
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", m.Line, m.Name, verdict, m.Reason)
		}
	}
	return tw.Flush()
}
