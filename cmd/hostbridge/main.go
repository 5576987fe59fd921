package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/corehost-labs/hostbridge/internal/adapters/log"
	"github.com/corehost-labs/hostbridge/internal/adapters/socket"
	"github.com/corehost-labs/hostbridge/internal/cliconfig"
	"github.com/corehost-labs/hostbridge/pkg/bridge"
)

const helpDescription = `
Route HTTP-shaped calls over a native command channel instead of the network.

Highlights:
  - Classifies each request by path: bridged routes go to the native backend,
    everything else passes through untouched.
  - Degrades safely: bridge failures replay over the fallback address.
  - Configure via file, env (HOSTBRIDGE_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  hostbridge probe --socket-address 127.0.0.1:14200
  hostbridge request GET /api/config
  hostbridge request POST /api/chat/completions --data '{"model":"small"}' --header content-type:application/json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	// mergeConfig resolves the final configuration: file, then env, then
	// explicitly set flags.
	mergeConfig := func(cmd *cobra.Command) error {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
		cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}

		return cfg.Validate()
	}

	newBridge := func() (*bridge.Bridge, error) {
		invoker := socket.NewInvoker(cfg.SocketNetwork, cfg.SocketAddress, cfg.DialTimeout,
			logAdapter.NewZerologAdapterWithLogger(log))

		return bridge.New(bridge.Config{
			Include:        cfg.Include,
			Exclude:        cfg.Exclude,
			Command:        cfg.Command,
			Origin:         cfg.Origin,
			FallbackURL:    cfg.Fallback,
			ProbePath:      cfg.ProbePath,
			ConnectTimeout: cfg.ConnectTimeout,
			ProbeInterval:  cfg.ProbeInterval,
			StartupTimeout: cfg.StartupTimeout,
			RetryAttempts:  cfg.RetryAttempts,
			Debug:          cfg.Debug,
		},
			bridge.WithInvoker(invoker),
			bridge.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
		)
	}

	root := &cobra.Command{
		Use:     "hostbridge",
		Short:   "Route HTTP-shaped calls over a native command channel",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
	}

	probe := &cobra.Command{
		Use:   "probe",
		Short: "Wait for the native backend to answer its readiness probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mergeConfig(cmd); err != nil {
				return err
			}
			b, err := newBridge()
			if err != nil {
				return fmt.Errorf("create bridge: %w", err)
			}

			started := time.Now()
			if err := b.Start(cmd.Context()); err != nil {
				log.Error().Err(err).Int("attempts", b.ReadinessAttempts()).Msg("backend not ready")
				return err
			}
			log.Info().
				Dur("elapsed", time.Since(started)).
				Int("attempts", b.ReadinessAttempts()).
				Msg("backend ready")
			return nil
		},
	}

	var data string
	var headers []string

	request := &cobra.Command{
		Use:   "request METHOD URI",
		Short: "Send one request through the bridge and print the response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mergeConfig(cmd); err != nil {
				return err
			}
			b, err := newBridge()
			if err != nil {
				return fmt.Errorf("create bridge: %w", err)
			}

			method := strings.ToUpper(args[0])
			var body io.Reader
			if data != "" {
				body = strings.NewReader(data)
			}
			req, err := http.NewRequest(method, args[1], body)
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			for _, h := range headers {
				name, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("header %q must be name:value", h)
				}
				req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ConnectTimeout)
			defer cancel()

			resp, err := b.Do(ctx, req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
			for name, values := range resp.Header {
				for _, v := range values {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, v)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout())
			io.Copy(cmd.OutOrStdout(), resp.Body)
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	request.Flags().StringVar(&data, "data", "", "request body")
	request.Flags().StringArrayVar(&headers, "header", nil, "request header as name:value (repeatable)")

	// Flags
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.hostbridge/config.toml)")
	pf.StringVar(&cfg.SocketNetwork, "socket-network", cfg.SocketNetwork, "native channel network (tcp or unix)")
	pf.StringVar(&cfg.SocketAddress, "socket-address", cfg.SocketAddress, "native channel address")
	pf.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "native channel dial timeout")

	pf.StringVar(&cfg.Command, "command", cfg.Command, "native invocation name")
	pf.StringVar(&cfg.Origin, "origin", cfg.Origin, "application origin (scheme://host)")
	pf.StringVar(&cfg.Fallback, "fallback-url", cfg.Fallback, "real-network base address for degraded traffic")
	pf.StringVar(&cfg.ProbePath, "probe-path", cfg.ProbePath, "readiness probe path")

	pf.StringSliceVar(&cfg.Include, "include", cfg.Include, "path prefixes routed over the bridge")
	pf.StringSliceVar(&cfg.Exclude, "exclude", cfg.Exclude, "path prefixes that always pass through")

	pf.DurationVar(&cfg.ConnectTimeout, "timeout", cfg.ConnectTimeout, "per-call timeout, redirects included")
	pf.DurationVar(&cfg.ProbeInterval, "probe-interval", cfg.ProbeInterval, "base delay between readiness probes")
	pf.DurationVar(&cfg.StartupTimeout, "startup-timeout", cfg.StartupTimeout, "readiness gate timeout per attempt")
	pf.IntVar(&cfg.RetryAttempts, "retry-attempts", cfg.RetryAttempts, "readiness gate attempts before giving up")
	pf.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log routing decisions")

	root.AddCommand(probe, request)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("hostbridge")
		os.Exit(1)
	}
}
