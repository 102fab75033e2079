package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"smart_email_generator/config"
	"smart_email_generator/generator"
	"smart_email_generator/internal/logger"
	"smart_email_generator/server"
)

type rootOptions struct {
	configPath string
	provider   string
	model      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "smart-email-generator",
		Short:         "Generate complete emails from a subject line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "llm provider ("+strings.Join(generator.SupportedProviders(), ", ")+")")
	cmd.PersistentFlags().StringVar(&opts.model, "model", "", "model identifier (overrides config)")

	cmd.AddCommand(newServeCmd(opts), newGenerateCmd(opts), newSamplesCmd())
	return cmd
}

// load reads the config and applies command-line overrides.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.provider != "" {
		cfg.LLM.Provider = strings.ToLower(o.provider)
		cfg.LLM.APIKeyEnv = generator.DefaultKeyEnv(cfg.LLM.Provider)
	}
	if o.model != "" {
		cfg.LLM.Model = o.model
	}
	return cfg, cfg.Validate()
}

func buildAgent(cfg config.Config) (*generator.Agent, error) {
	llm, err := generator.NewLLM(cfg.Settings())
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, cfg.Params())
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			agent, err := buildAgent(cfg)
			if err != nil {
				return err
			}
			store, err := buildStore(log, cfg.Store)
			if err != nil {
				return err
			}
			srv, err := server.New(agent, server.Options{
				Store:       store,
				Logger:      log.With("component", "http"),
				CORSOrigins: cfg.CORSOrigins,
			})
			if err != nil {
				return err
			}

			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			if listen == "" {
				listen = ":8080"
			}
			return serve(cmd.Context(), log, listen, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config.server_addr)")
	return cmd
}

func buildStore(log *logger.Logger, cfg config.StoreConfig) (server.SessionStore, error) {
	if cfg.Backend == config.StoreRedis {
		return server.NewRedisStore(log, cfg.RedisAddr, cfg.TTL)
	}
	return server.NewMemoryStore(cfg.TTL), nil
}

func serve(ctx context.Context, log *logger.Logger, addr string, h http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

type generateOptions struct {
	tone     string
	length   int
	ps       bool
	chain    bool
	raw      bool
	asJSON   bool
	followUp []string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <subject>",
		Short: "Generate one email and print it",
		Example: `  smart-email-generator generate "Quarterly Strategy Meeting - June 15th"
  smart-email-generator generate --tone urgent --length 2 --ps "Flash Sale Ends Tonight"
  smart-email-generator generate --chain --follow-up "Reminder: agenda attached" "Team Offsite"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg)
			if err != nil {
				return err
			}
			req := generator.Request{Subject: strings.Join(args, " "), Chain: opts.chain}
			if cmd.Flags().Changed("tone") || cmd.Flags().Changed("length") || opts.ps {
				req.Custom = &generator.CustomOptions{Tone: opts.tone, Length: opts.length, IncludePS: opts.ps}
			}

			// Each call is bounded by the provider client's own timeout.
			ctx := cmd.Context()
			sess := generator.NewSession("cli", req, agent)
			results := make([]generator.Result, 0, 1+len(opts.followUp))
			res, err := sess.Propose(ctx)
			if err != nil {
				return err
			}
			results = append(results, res)
			for _, subject := range opts.followUp {
				res, err := sess.FollowUp(ctx, subject)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			return printResults(cmd.OutOrStdout(), results, opts)
		},
	}
	cmd.Flags().StringVar(&opts.tone, "tone", generator.DefaultTone, "tone ("+strings.Join(generator.Tones, ", ")+")")
	cmd.Flags().IntVar(&opts.length, "length", generator.DefaultLength, "body length in paragraphs (1-5)")
	cmd.Flags().BoolVar(&opts.ps, "ps", false, "add a P.S. line")
	cmd.Flags().BoolVar(&opts.chain, "chain", false, "analyze the subject before drafting")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print model output without formatting")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringArrayVar(&opts.followUp, "follow-up", nil, "follow-up subject (repeatable)")
	return cmd
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func printResults(w io.Writer, results []generator.Result, opts *generateOptions) error {
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, res := range results {
		if opts.raw {
			fmt.Fprintln(w, res.Text)
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if res.Analysis != "" {
			fmt.Fprintln(w, labelStyle.Render("Analysis:"))
			fmt.Fprintln(w, labelStyle.Render(res.Analysis))
			fmt.Fprintln(w)
		}
		if res.Email.SubjectLine != "" {
			fmt.Fprintln(w, headingStyle.Render(res.Email.SubjectLine))
		}
		fmt.Fprintln(w, boxStyle.Render(res.Text))
	}
	return nil
}

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List sample subjects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, s := range generator.SampleSubjects {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
		},
	}
}
