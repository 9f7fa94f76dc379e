// Command vouch verifies that command-line tools are correctly installed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/vouch"
	"github.com/deixis/vouch/internal/history"
	"github.com/deixis/vouch/internal/manifest"
	vouchmcp "github.com/deixis/vouch/internal/mcp"
	"github.com/deixis/vouch/internal/report"
	"github.com/deixis/vouch/internal/runner"
	"github.com/deixis/vouch/internal/verify"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("vouch: ")

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "verify":
		err = verifyMain(args)
	case "suite":
		err = suiteMain(args)
	case "history":
		err = historyMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(vouch.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "vouch: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: vouch <command> [flags]

Commands:
  verify      Verify one executable: vouch verify <executable> <marker> [args...]
  suite       Verify every tool in the .vouch manifest
  history     Show recorded verification history
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Exit status is 0 when verification passes, 1 when it does not,
and 2 on usage errors.

Use "vouch <command> -h" for command-specific flags.`)
}

// --- verify ---

func verifyMain(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output results as JSON")
	verboseFlag := fs.Bool("v", false, "verbose output")
	timeoutFlag := fs.Duration("timeout", 0, "override the configured timeout (e.g. 30s)")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vouch verify [flags] <executable> <marker> [args...]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine(0)
	if err != nil {
		return err
	}

	chk := verify.Check{
		Executable: rest[0],
		Marker:     rest[1],
		Args:       rest[2:],
		Timeout:    *timeoutFlag,
	}

	rr, err := eng.Verify(ctx, chk)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	record(rr)

	return emit(rr, *jsonFlag, *verboseFlag)
}

// --- suite ---

func suiteMain(args []string) error {
	fs := flag.NewFlagSet("suite", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output results as JSON")
	verboseFlag := fs.Bool("v", false, "verbose output")
	timeoutFlag := fs.Duration("timeout", 0, "override the manifest-level timeout (e.g. 30s)")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine(*timeoutFlag)
	if err != nil {
		return err
	}
	if eng.Manifest == nil || len(eng.Manifest.Tools) == 0 {
		return fmt.Errorf("no .vouch manifest found, or it lists no tools")
	}

	rr, err := eng.Suite(ctx)
	if err != nil {
		return fmt.Errorf("suite: %w", err)
	}
	record(rr)

	return emit(rr, *jsonFlag, *verboseFlag)
}

// emit prints the run and exits 1 when verification failed.
func emit(rr *report.RunResult, asJSON, verbose bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rr); err != nil {
			return err
		}
	} else {
		fmt.Print(formatRunCLI(rr, verbose))
	}

	if !rr.Verified() {
		os.Exit(1)
	}
	return nil
}

// record stores the run and folds it into the history state. Both are
// best-effort: a storage failure never changes the verification outcome.
func record(rr *report.RunResult) {
	_ = report.NewDiskStore().Save(rr)
	if hist, err := history.NewStore(""); err == nil {
		if _, err := hist.Record(rr); err != nil {
			log.Printf("recording history: %v", err)
		}
	}
}

// --- history ---

func historyMain(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output history as JSON")
	_ = fs.Parse(args)

	store, err := history.NewStore("")
	if err != nil {
		return err
	}
	state, err := store.Load()
	if err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		if *jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		}
		fmt.Print(formatStateCLI(state))
		return nil
	}

	name := rest[0]
	h, ok := state.Tools[name]
	if !ok {
		return fmt.Errorf("no history for %q", name)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}
	fmt.Print(formatHistoryCLI(name, h))
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(vouchmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := manifest.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	m := loaded.Manifest

	disk := report.NewDiskStore()
	store := report.NewLRUStore(5, disk)

	hist, err := history.NewStore("")
	if err != nil {
		log.Printf("history disabled: %v", err)
		hist = nil
	}

	r := &runner.Runner{
		MaxOutput: m.MaxOutputBytes(),
	}

	server := vouchmcp.NewServer(m, r, store, hist, loaded.Root)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func newEngine(timeoutOverride time.Duration) (*verify.Engine, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := manifest.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	m := loaded.Manifest

	if timeoutOverride > 0 {
		m.RawTimeout = timeoutOverride.String()
		for i := range m.Tools {
			m.Tools[i].RawTimeout = ""
		}
	}

	r := &runner.Runner{
		MaxOutput: m.MaxOutputBytes(),
	}

	return &verify.Engine{
		Manifest: m,
		Runner:   r,
		Dir:      loaded.Root,
	}, nil
}
