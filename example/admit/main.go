package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/genomisc/prsqc"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:            "admit",
		Usage:           "Filter GWAS summary statistics and genotype samples ahead of polygenic scoring",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file (YAML or TOML) describing the base file, genotypes and filters",
				Required: true,
				Category: "Required",
			},
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Log debug messages",
				Category: "Optional",
			},
		},
		Action: func(Cctx *cli.Context) error {
			logger := logrus.New()
			logger.SetOutput(os.Stderr)
			if Cctx.Bool("verbose") {
				logger.SetLevel(logrus.DebugLevel)
			}

			config, err := prsqc.LoadConfig(Cctx.String("config"))
			if err != nil {
				return err
			}

			report, err := prsqc.Run(context.Background(), config, logger)
			if err != nil {
				return err
			}

			printSummary(report)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}

func printSummary(report *prsqc.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "lines read\t%d\n", report.Counts[prsqc.CountLines])
	for _, class := range report.Counts.Classes() {
		fmt.Fprintf(w, "%s\t%d\n", class, report.Counts[class])
	}
	fmt.Fprintf(w, "duplicated\t%d\n", len(report.Duplicates))
	if report.TargetDropped > 0 {
		fmt.Fprintf(w, "absent from or mismatched with target\t%d\n", report.TargetDropped)
	}
	fmt.Fprintf(w, "retained\t%d\n", len(report.Session.Variants))

	if report.Samples != nil {
		counts := report.Session.SampleCounts
		fmt.Fprintf(w, "samples\t%d (%d males, %d females, %d ambiguous)\n", counts.Samples, counts.Male, counts.Female, counts.AmbigSex)
		fmt.Fprintf(w, "founders\t%d\n", counts.Founder)
		fmt.Fprintf(w, "non-founders\t%d\n", counts.NonFounder)
	}
}
