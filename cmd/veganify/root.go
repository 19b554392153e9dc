package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/veganify"
	asynchook "github.com/unkn0wn-root/veganify/hooks/async"
	promhooks "github.com/unkn0wn-root/veganify/hooks/prometheus"
	zaplog "github.com/unkn0wn-root/veganify/log/zap"
	"github.com/unkn0wn-root/veganify/provider"
	"github.com/unkn0wn-root/veganify/provider/bigcache"
	"github.com/unkn0wn-root/veganify/provider/memory"
	"github.com/unkn0wn-root/veganify/provider/ristretto"
	"github.com/unkn0wn-root/veganify/sloghooks"
)

type options struct {
	baseURL  string
	staging  bool
	cacheTTL time.Duration
	backend  string
	codec    string
	timeout  time.Duration
	debug    bool
	metrics  bool
}

// envFlags maps persistent flags to the environment variables read when the
// flag is not given on the command line.
var envFlags = map[string]string{
	"base-url":  "VEGANIFY_BASE_URL",
	"staging":   "VEGANIFY_STAGING",
	"cache-ttl": "VEGANIFY_CACHE_TTL",
	"backend":   "VEGANIFY_BACKEND",
	"codec":     "VEGANIFY_CODEC",
	"timeout":   "VEGANIFY_TIMEOUT",
	"debug":     "VEGANIFY_DEBUG",
}

// session is the client plus everything built for it by one invocation.
type session struct {
	client *veganify.Client
	log    *zap.Logger
	async  *asynchook.Hooks
	reg    *prometheus.Registry
	stderr io.Writer
}

func (s *session) close() {
	_ = s.client.Close(context.Background())
	if s.async != nil {
		s.async.Close()
	}
	if s.reg != nil {
		if err := writeMetrics(s.stderr, s.reg); err != nil {
			s.log.Warn("write metrics", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "veganify",
		Short:         "Query the Veganify API",
		Long:          "Look up products by barcode, classify ingredient lists and list PETA cruelty-free brands.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd.Flags())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides --staging)")
	pf.BoolVar(&opts.staging, "staging", false, "Use the staging API")
	pf.DurationVar(&opts.cacheTTL, "cache-ttl", 0, "Response cache TTL (0 = default, negative disables)")
	pf.StringVar(&opts.backend, "backend", "memory", "Cache backend: memory, ristretto or bigcache")
	pf.StringVar(&opts.codec, "codec", "json", "Cache value codec: json, msgpack or cbor")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout")
	pf.BoolVar(&opts.debug, "debug", false, "Log requests and cache events to stderr")
	pf.BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics to stderr on exit")

	root.AddCommand(
		productCmd(opts, stdout, stderr),
		ingredientsCmd(opts, stdout, stderr),
		petaCmd(opts, stdout, stderr),
	)
	return root
}

func productCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "product <barcode>",
		Short: "Look up a product by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(stderr)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			res, err := s.client.GetProductByBarcode(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(stdout, res)
		},
	}
}

func ingredientsCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var raw, v0 bool
	cmd := &cobra.Command{
		Use:   "ingredients <list>",
		Short: "Classify a comma separated ingredient list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(stderr)
			if err != nil {
				return err
			}
			defer s.close()

			var checkOpts []veganify.CheckOption
			if raw {
				checkOpts = append(checkOpts, veganify.WithoutPreprocessing())
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var res any
			if v0 {
				res, err = s.client.CheckIngredientsListV0(ctx, args[0], checkOpts...)
			} else {
				res, err = s.client.CheckIngredientsList(ctx, args[0], checkOpts...)
			}
			if err != nil {
				return err
			}
			return printJSON(stdout, res)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Split on commas only; skip normalization")
	cmd.Flags().BoolVar(&v0, "v0", false, "Use the legacy v0 endpoint")
	return cmd
}

func petaCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "peta",
		Short: "List brands PETA reports as cruelty-free",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(stderr)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			res, err := s.client.GetPetaCrueltyFreeBrands(ctx)
			if err != nil {
				return err
			}
			return printJSON(stdout, res)
		},
	}
}

// lockedWriter serializes writes from the logger and the async hook worker.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (o *options) open(w io.Writer) (*session, error) {
	stderr := &lockedWriter{w: w}
	level := zapcore.WarnLevel
	if o.debug {
		level = zapcore.DebugLevel
	}
	zl := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		level,
	))

	factory, err := providerFactory(o.backend)
	if err != nil {
		return nil, err
	}

	s := &session{log: zl, stderr: stderr}
	if o.metrics {
		s.reg = prometheus.NewRegistry()
	}
	hooks, async, err := o.buildHooks(stderr, s.reg)
	if err != nil {
		return nil, err
	}
	s.async = async

	cfg := veganify.Config{
		BaseURL:   o.baseURL,
		Staging:   o.staging,
		CacheTTL:  o.cacheTTL,
		Providers: factory,
		Backend:   o.backend,
		Codec:     o.codec,
		Logger:    zaplog.New(zl),
		Hooks:     fanout(hooks),
	}
	cl, err := veganify.New(cfg)
	if err != nil {
		if s.async != nil {
			s.async.Close()
		}
		return nil, err
	}
	s.client = cl
	return s, nil
}

// buildHooks assembles the debug and metrics hooks. Collectors are registered
// on reg before the async worker starts, so a failed registration leaves no
// goroutine behind. reg may be nil when metrics are off.
func (o *options) buildHooks(w io.Writer, reg prometheus.Registerer) ([]veganify.Hooks, *asynchook.Hooks, error) {
	var hooks []veganify.Hooks
	if o.metrics {
		ph := promhooks.New(promhooks.Options{})
		if err := ph.Register(reg); err != nil {
			return nil, nil, fmt.Errorf("register metrics: %w", err)
		}
		hooks = append(hooks, ph)
	}
	var async *asynchook.Hooks
	if o.debug {
		sl := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		async = asynchook.New(sloghooks.New(sl, sloghooks.Options{LogCacheHits: true}), 1, 256)
		hooks = append(hooks, async)
	}
	return hooks, async, nil
}

func providerFactory(backend string) (provider.Factory, error) {
	switch backend {
	case "", "memory":
		return memory.Factory, nil
	case "ristretto":
		return ristretto.Factory(ristretto.DefaultConfig()), nil
	case "bigcache":
		return bigcache.Factory(bigcache.Config{HardMaxCacheSizeMB: 64}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want memory, ristretto or bigcache)", backend)
	}
}

// applyEnv fills flags not set on the command line from envFlags.
func applyEnv(fs *pflag.FlagSet) error {
	for name, env := range envFlags {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
