// Command domainreport prints a report about a domain (WHOIS with server
// fallback, RDAP, DNS, certificate, hosting, blacklists, reachability and web
// stack) or serves the same lookups over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vit0-9/domain_report/config"
	"github.com/vit0-9/domain_report/pkg/metrics"
	"github.com/vit0-9/domain_report/pkg/report"
	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

const (
	exitFailure       = 1
	exitInvalidDomain = 2
)

// exitError carries the process exit status out of a command. err may be nil
// when the command already printed everything the user needs.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

type cliOptions struct {
	configPath string
	debug      bool
	noColor    bool
	jsonOutput bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "domainreport",
		Short:         "domainreport - WHOIS with server fallback and a full domain report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of text")

	root.AddCommand(newWhoisCmd(opts), newReportCmd(opts), newServeCmd(opts))
	return root
}

// setup loads .env and the configuration and configures logging.
func (o *cliOptions) setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Error loading .env file, using environment variables from system if set: %v", err)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if o.debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if o.noColor {
		color.NoColor = true
	}
	return nil
}

// builder wires the configuration into a report builder. GeoIP databases are
// opened only when withGeoIP is set; the caller closes them.
func (o *cliOptions) builder(m *metrics.Metrics, withGeoIP bool) *report.Builder {
	cfg := o.cfg
	b := &report.Builder{
		WhoisServers: cfg.Whois.Servers,
		WhoisOptions: []domain.ResolverOption{
			domain.WithTimeout(cfg.Whois.Timeout),
			domain.WithQuerier(cfg.WhoisQuerier()),
			domain.WithObserver(m),
		},
		RDAP:        domain.NewRDAPClient(cfg.Whois.RDAPTimeout),
		DNS:         utils.NewDNSResolver(cfg.DNS.Resolver, cfg.DNS.Timeout),
		RecordTypes: cfg.DNS.RecordTypes,
		DNSBLZones:  cfg.DNS.DNSBLZones,
		Ping: utils.PingOptions{
			Backend: cfg.Ping.Backend,
			Count:   cfg.Ping.Count,
			Port:    cfg.Ping.Port,
			Timeout: cfg.Ping.Timeout,
		},
		PublicIPURL: cfg.PublicIPURL,
		Observer:    m,
		Log:         logrus.StandardLogger(),
	}
	if withGeoIP {
		b.GeoIP = utils.OpenGeoIP(cfg.GeoIP.CityDB, cfg.GeoIP.ASNDB)
	}
	return b
}

func parseDomainArg(raw string) (domain.Domain, error) {
	d, err := domain.ParseDomain(raw)
	if err != nil {
		return "", &exitError{code: exitInvalidDomain, err: err}
	}
	return d, nil
}

func newWhoisCmd(opts *cliOptions) *cobra.Command {
	var (
		servers []string
		timeout time.Duration
		backend string
	)
	cmd := &cobra.Command{
		Use:   "whois <domain>",
		Short: "Query WHOIS servers in order and print the first non-empty reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDomainArg(args[0])
			if err != nil {
				return err
			}
			if timeout > 0 {
				opts.cfg.Whois.Timeout = timeout
			}
			if backend != "" {
				opts.cfg.Whois.Backend = strings.ToLower(backend)
				if err := opts.cfg.Validate(); err != nil {
					return err
				}
			}

			res, err := opts.builder(metrics.Get(), false).Whois(cmd.Context(), d, servers...)
			if opts.jsonOutput {
				section := &report.WhoisSection{Result: res}
				if err != nil {
					section.Error = domain.FailureMessage
				}
				if werr := report.WriteJSON(cmd.OutOrStdout(), &report.Report{
					Domain:      d.String(),
					GeneratedAt: time.Now(),
					Whois:       section,
				}); werr != nil {
					return werr
				}
			}
			if err != nil {
				logrus.WithField("domain", d.String()).Debugf("whois: %v", err)
				if !opts.jsonOutput {
					fmt.Fprintln(cmd.OutOrStdout(), domain.FailureMessage)
				}
				return &exitError{code: exitFailure}
			}
			if opts.jsonOutput {
				return nil
			}
			return report.WriteWhoisLines(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringArrayVar(&servers, "server", nil, "WHOIS server to try, in order (repeatable, overrides the configured list)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-server timeout (overrides WHOIS_TIMEOUT)")
	cmd.Flags().StringVar(&backend, "backend", "", "Query backend: tcp or library")
	return cmd
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	var sections string
	cmd := &cobra.Command{
		Use:   "report <domain>",
		Short: "Print the full domain report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDomainArg(args[0])
			if err != nil {
				return err
			}
			b := opts.builder(metrics.Get(), true)
			defer b.GeoIP.Close()
			if sections != "" {
				if b.Sections, err = report.ParseSections(sections); err != nil {
					return err
				}
			}

			rep := b.Build(cmd.Context(), d)
			if opts.jsonOutput {
				return report.WriteJSON(cmd.OutOrStdout(), rep)
			}
			return report.WriteText(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&sections, "sections", "", "Comma separated sections to run ("+strings.Join(report.AllSections, ",")+")")
	return cmd
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if port == "" {
				port = cfg.Server.Port
			}
			if !opts.debug {
				gin.SetMode(gin.ReleaseMode)
			}

			m := metrics.Get()
			b := opts.builder(m, true)
			defer b.GeoIP.Close()

			app := NewApp(b, m, AppOptions{
				Addr:           ":" + port,
				RateLimitRPS:   cfg.Server.RateLimitRPS,
				RateLimitBurst: cfg.Server.RateLimitBurst,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- app.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			logrus.Error(ee.err)
		}
		os.Exit(ee.code)
	}
	logrus.Error(err)
	os.Exit(exitFailure)
}
