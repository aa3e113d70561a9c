// Command arenad hosts the faction arena on a local ledger.
//
//	arenad serve -config arena.yaml
//	arenad call -target arena -method fp_select -payload 1 -sender hive:alice
//
// call runs against the ledger directly, so stop serve first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/internal/config"
	"okinoko-faction_arena/internal/journal"
	"okinoko-faction_arena/internal/ledger"
	"okinoko-faction_arena/internal/metrics"
	"okinoko-faction_arena/internal/node"
	"okinoko-faction_arena/sdk"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(ctx, os.Args[2:])
	case "call":
		err = call(ctx, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("arenad %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: arenad serve|call [flags]")
	os.Exit(2)
}

// app is an opened node with everything it needs closed on exit.
type app struct {
	node    *node.Node
	log     *zap.Logger
	closers []func() error
}

func (r *app) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.log.Warn("close", zap.Error(err))
		}
	}
	_ = r.log.Sync()
}

func open(ctx context.Context, path string) (*app, config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, cfg, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, cfg, err
	}
	rt := &app{log: logger}

	store, err := ledger.Open(cfg.DataDir, logger.Named("ledger"))
	if err != nil {
		return nil, cfg, err
	}
	rt.closers = append(rt.closers, store.Close)

	if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0o755); err != nil {
		rt.close()
		return nil, cfg, err
	}
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		rt.close()
		return nil, cfg, err
	}
	rt.closers = append(rt.closers, j.Close)

	rt.node = node.New(cfg, store, j, metrics.New(), logger)
	if err := rt.node.Bootstrap(ctx); err != nil {
		rt.close()
		return nil, cfg, err
	}
	return rt, cfg, nil
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("ARENA_CONFIG"), "path to the YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, cfg, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if cfg.CycleSchedule != "" {
		keeper, err := rt.node.StartKeeper(ctx)
		if err != nil {
			return err
		}
		defer func() { <-keeper.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           rt.node.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		rt.log.Info("listening", zap.String("addr", cfg.MetricsAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// intents collects repeated -intent flags of the form
// transfer.allow:token=usdc,limit=10.
type intents []sdk.Intent

func (i *intents) String() string { return fmt.Sprint(len(*i)) }

func (i *intents) Set(s string) error {
	typ, rest, ok := strings.Cut(s, ":")
	if !ok || typ == "" {
		return fmt.Errorf("intent %q: want type:key=value,...", s)
	}
	in := sdk.Intent{Type: typ, Args: map[string]string{}}
	for _, kv := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("intent %q: bad arg %q", s, kv)
		}
		in.Args[k] = v
	}
	*i = append(*i, in)
	return nil
}

func call(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	var (
		configPath = fs.String("config", os.Getenv("ARENA_CONFIG"), "path to the YAML config")
		target     = fs.String("target", node.TargetArena, "arena|inarow|vault|router|token")
		method     = fs.String("method", "", "method name")
		payload    = fs.String("payload", "", "raw payload")
		sender     = fs.String("sender", "", "signing account")
		in         intents
	)
	fs.Var(&in, "intent", "attached intent, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *method == "" || *sender == "" {
		return errors.New("-method and -sender are required")
	}

	rt, _, err := open(ctx, *configPath)
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := rt.node.Call(ctx, node.Call{
		Target:  *target,
		Method:  *method,
		Payload: *payload,
		Sender:  sdk.Address(*sender),
		Intents: in,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, contract.AbortMessage(err))
		return errors.New("call aborted")
	}
	for _, ev := range res.Events {
		fmt.Fprintln(os.Stderr, ev)
	}
	if res.Output != nil {
		fmt.Println(*res.Output)
	}
	return nil
}
