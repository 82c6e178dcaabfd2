package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/aarosystems/jira-stats/internal/config"
	"github.com/aarosystems/jira-stats/internal/credential"
	"github.com/aarosystems/jira-stats/internal/flagutil"
	"github.com/aarosystems/jira-stats/internal/jirastats/jira"
	"github.com/aarosystems/jira-stats/internal/jirastats/report"
	"github.com/aarosystems/jira-stats/internal/jirastats/service"
	"github.com/aarosystems/jira-stats/internal/jirastats/ui"
)

const statsCreatorName = "AARO Stats creator"

type options struct {
	jira flagutil.JiraOptions

	jql               string
	workStartedStatus string
	output            string
	format            string
	progress          string
	logLevel          string
}

func (o *options) validate() error {
	var errs []error
	if o.jql == "" {
		errs = append(errs, fmt.Errorf("--jql must be specified and nonempty"))
	}
	if o.workStartedStatus == "" {
		errs = append(errs, fmt.Errorf("--workstartedstatus must be specified and nonempty"))
	}
	if _, err := report.ParseFormat(o.format); err != nil {
		errs = append(errs, err)
	}
	if err := o.jira.Validate(); err != nil {
		errs = append(errs, err)
	}
	return utilerrors.NewAggregate(errs)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("cannot load config")
	}

	var o options
	rootCmd := &cobra.Command{
		Use:   "jira-stats-export",
		Short: "Export issue stats for a JQL query to a CSV file",
		Long: `Exports a CSV file for the given JQL with the first date each issue entered
the status passed with -s/--workstartedstatus.

Defaults for the Jira endpoint, username, status and format can be set in
` + config.Path() + ` (override the location with $` + config.PathEnv + `).`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(o.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), &o)
		},
	}

	o.jira.AddPFlags(rootCmd.PersistentFlags(), cfg)
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", logrus.InfoLevel.String(), "Logging level (debug, info, warn, error)")

	fs := rootCmd.Flags()
	fs.StringVarP(&o.jql, "jql", "j", "", "The JQL to get issues for")
	fs.StringVarP(&o.workStartedStatus, "workstartedstatus", "s", cfg.WorkStartedStatus, "The name of the status (case insensitive) that indicates that work has started. The first transition into it is reported")
	fs.StringVarP(&o.output, "output", "o", "", "Name of the file to write the output to. Defaults to ./jira-stats-export-<YYYY-MM-DD>.<format>. Existing files are overwritten")
	fs.StringVar(&o.format, "format", cfg.Format, "Report format: csv or yaml")
	fs.StringVar(&o.progress, "progress", ui.StyleLine, "Progress display: line, bar or none")

	rootCmd.AddCommand(newLoginCmd(&o))

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func newLoginCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the API token in the system keyring",
		Long: `Store the API token given with --token (or $` + flagutil.TokenEnv + `) in the system keyring
under --username. Later runs pick it up with --keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(&o.jira)
		},
	}
}

func runLogin(jiraOptions *flagutil.JiraOptions) error {
	if err := jiraOptions.ResolveToken(nil); err != nil {
		return err
	}
	if err := jiraOptions.Validate(); err != nil {
		return fmt.Errorf("invalid JIRA options: %w", err)
	}

	ring, err := credential.Open()
	if err != nil {
		return err
	}
	if err := credential.StoreToken(ring, jiraOptions.Username, jiraOptions.Token); err != nil {
		return err
	}

	logrus.Infof("Token for %s stored in the system keyring", jiraOptions.Username)
	return nil
}

func createService(jiraOptions flagutil.JiraOptions) (*service.Service, error) {
	jiraClient, err := jira.NewClient(jiraOptions, logrus.StandardLogger())
	if err != nil {
		return nil, fmt.Errorf("cannot create service: %w", err)
	}

	return service.NewService(jiraClient, logrus.StandardLogger()), nil
}

func runExport(ctx context.Context, o *options) error {
	logrus.Info(statsCreatorName)

	if err := o.jira.ResolveToken(credential.Open); err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	format, _ := report.ParseFormat(o.format)
	if o.output == "" {
		o.output = report.DefaultFileName(time.Now(), format)
	}

	progress, err := ui.New(o.progress, os.Stderr)
	if err != nil {
		return err
	}

	svc, err := createService(o.jira)
	if err != nil {
		return err
	}

	logrus.Info("- Arguments parsed")
	logrus.Infof("-     User name:           %s", o.jira.Username)
	logrus.Infof("-     JQL:                 %s", o.jql)
	logrus.Infof("-     Work started state:  %s", o.workStartedStatus)
	logrus.Infof("-     Output file:         %s", o.output)

	logrus.Infof("- Getting issues for '%s'", o.jql)
	stats, err := svc.Export(ctx, service.ExportOptions{
		CollectOptions: service.CollectOptions{
			JQL:               o.jql,
			WorkStartedStatus: o.workStartedStatus,
			Progress:          progress,
		},
		OutputPath: o.output,
		Format:     format,
	})
	if err != nil {
		return fmt.Errorf("cannot export issues: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"issues":             stats.Issues,
		"with-work-started":  stats.WithWorkStarted,
		"changelog-failures": stats.ChangelogFailures,
	}).Infof("Wrote %s", o.output)

	return nil
}
