// Package main is the entry point for the conmirror console mirror.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cvasquez/conmirror/internal/cdp"
	"github.com/cvasquez/conmirror/internal/config"
	"github.com/cvasquez/conmirror/internal/event"
	"github.com/cvasquez/conmirror/internal/loader"
	"github.com/cvasquez/conmirror/internal/mirror"
	"github.com/cvasquez/conmirror/internal/sourcemap"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		endpoint    string
		targetURL   string
		ignoreTypes string
		expand      bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&endpoint, "endpoint", "", "Browser HTTP debugging endpoint (overrides config)")
	flag.StringVar(&targetURL, "page", "", "Substring of the page URL to attach to")
	flag.StringVar(&ignoreTypes, "ignore", "", "Comma-separated resource types to abort")
	flag.BoolVar(&expand, "expand", false, "Expand object arguments one level when printing")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("conmirror %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if endpoint != "" {
		cfg.DebuggerURL = endpoint
	}
	if targetURL != "" {
		cfg.TargetURL = targetURL
	}
	if ignoreTypes != "" {
		cfg.IgnoreResourceTypes = strings.Split(ignoreTypes, ",")
	}
	if expand {
		cfg.ExpandPreviews = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if err := mirrorPage(ctx, cfg, configPath); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// mirrorPage attaches to a page target and mirrors its console until the
// context is cancelled or the session drops.
func mirrorPage(ctx context.Context, cfg config.Config, configPath string) error {
	targets, err := cdp.ListTargets(ctx, cfg.DebuggerURL)
	if err != nil {
		return err
	}
	target, err := cdp.FindPage(targets, cfg.TargetURL)
	if err != nil {
		return err
	}

	transport, err := cdp.NewWebSocketTransport(target.WebSocketDebuggerURL)
	if err != nil {
		return err
	}
	client := cdp.NewClient(transport)
	defer client.Close()

	registry := sourcemap.NewRegistry()
	notifier := event.NewNotifier()
	expander := mirror.NewExpander(client)

	router := mirror.NewRouter(client, registry, loader.NewHTTPLoader(nil), notifier,
		mirror.WithIgnoreResourceTypes(cfg.IgnoreResourceTypes),
		mirror.WithKindFilter(cfg.KindFilter),
	)
	router.Attach(ctx)

	notifier.SubscribeLog(func(rec mirror.Record) {
		printRecord(ctx, rec, cfg.ExpandPreviews, expander)
	})
	notifier.SubscribeUpdate(func(bool) {
		fmt.Println(updateStyle.Render("page updated"))
	})

	// Live-reload the runtime filters when the config file changes.
	if configPath != "" {
		watcher, err := config.Watch(configPath, func(next config.Config, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "config reload: %v\n", err)
				return
			}
			router.SetIgnoreResourceTypes(next.IgnoreResourceTypes)
			router.SetKindFilter(next.KindFilter)
		})
		if err == nil {
			defer watcher.Close()
		}
	}

	if err := client.RuntimeEnable(ctx); err != nil {
		return err
	}
	if err := client.NetworkEnable(ctx); err != nil {
		return err
	}
	if err := client.PageEnable(ctx); err != nil {
		return err
	}
	patterns := []cdp.RequestPattern{{URLPattern: "*", RequestStage: "Request"}}
	if err := client.FetchEnable(ctx, patterns); err != nil {
		return err
	}

	fmt.Printf("mirroring %s (%s)\n", target.Title, target.URL)

	<-ctx.Done()
	router.Wait()
	return client.Error()
}

// printRecord writes one mirrored log line, optionally expanding object
// arguments one level.
func printRecord(ctx context.Context, rec mirror.Record, expand bool, expander *mirror.Expander) {
	position := fmt.Sprintf("%s:%d:%d", rec.Original.Source, rec.Original.Line, rec.Original.Column)

	titles := make([]string, 0, len(rec.Previews))
	for _, p := range rec.Previews {
		titles = append(titles, p.Title)
	}

	fmt.Printf("%s %s %s\n",
		styleForKind(rec.Kind).Render(rec.Kind),
		positionStyle.Render(position),
		strings.Join(titles, " "),
	)

	if !expand {
		return
	}
	for _, p := range rec.Previews {
		if p.ObjectID == "" {
			continue
		}
		properties, err := expander.Expand(ctx, p)
		if err != nil {
			continue
		}
		for _, prop := range properties {
			fmt.Printf("    %s\n", propertyStyle.Render(prop.Name+": "+prop.Preview.Title))
		}
	}
}
