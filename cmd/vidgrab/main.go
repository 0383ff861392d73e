// Command vidgrab is the headless host of the download engine: it prints
// video metadata or downloads one video, cancelling cleanly on Ctrl-C.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ytget/vidgrab/internal/config"
	"github.com/ytget/vidgrab/internal/engine"
	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/metadata"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/platform"
	"github.com/ytget/vidgrab/internal/process"
)

// Exit codes
const (
	exitOK        = 0
	exitFailed    = 1
	exitUsage     = 2
	exitCancelled = 130
)

const (
	shutdownTimeout = 10 * time.Second
	infoTimeout     = 60 * time.Second
)

// deps are the pieces tests replace
type deps struct {
	runner  process.Runner
	resolve func(override string) (string, error)
	env     config.Env
}

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		logger.Warn("Failed to load .env", "error", err)
	}
	logger.SetLevel(env.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, deps{
		resolve: platform.FindYTDLP,
		env:     env,
	})
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  vidgrab info [-ytdlp path] <url>")
	fmt.Fprintln(w, "  vidgrab download [-f format] [-o dir] [-t template] [-ytdlp path] <url>")
	fmt.Fprintln(w, "\nExample:")
	fmt.Fprintln(w, "  vidgrab download -f 137 https://www.youtube.com/watch?v=dQw4w9WgXcQ")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "info":
		return runInfo(ctx, args[1:], stdout, stderr, d)
	case "download":
		return runDownload(ctx, args[1:], stdout, stderr, d)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "invalid command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

// newEngine resolves yt-dlp and builds the engine
func newEngine(override, template string, d deps) (*engine.Engine, error) {
	if override == "" {
		override = d.env.YTDLPPath
	}
	binary, err := d.resolve(override)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using yt-dlp", "path", binary)
	return engine.New(engine.Options{Binary: binary, Runner: d.runner, OutputTemplate: template}), nil
}

// parseURLArgs parses flags and requires exactly one URL argument
func parseURLArgs(fs *flag.FlagSet, args []string) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(fs.Output(), "expected exactly one URL")
		return "", false
	}
	return strings.TrimSpace(fs.Arg(0)), true
}

func runInfo(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ytdlp := fs.String("ytdlp", "", "path to the yt-dlp executable")
	timeout := fs.Duration("timeout", infoTimeout, "metadata lookup timeout, 0 for none")
	rawURL, ok := parseURLArgs(fs, args)
	if !ok {
		return exitUsage
	}

	eng, err := newEngine(*ytdlp, "", d)
	if err != nil {
		return report(stderr, err)
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	info, err := eng.FetchInfo(ctx, rawURL)
	if err != nil {
		return report(stderr, err)
	}
	printInfo(stdout, info)
	return exitOK
}

func printInfo(w io.Writer, info *model.VideoInfo) {
	fmt.Fprintf(w, "Title:    %s\n", info.Title)
	fmt.Fprintf(w, "Platform: %s\n", info.Platform.DisplayName())
	if info.Author != "" {
		fmt.Fprintf(w, "Author:   %s\n", info.Author)
	}
	fmt.Fprintf(w, "Duration: %s\n", info.DurationDisplay)
	if info.ThumbnailURL != "" {
		fmt.Fprintf(w, "Thumb:    %s\n", info.ThumbnailURL)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUALITY\tEXT\tSIZE")
	for _, f := range info.Formats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.FormatID, f.Quality, f.Extension, f.SizeDisplay())
	}
	tw.Flush()
}

func runDownload(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatID := fs.String("f", "", "format ID listed by the info command (default best)")
	outDir := fs.String("o", "", "destination directory (default "+config.EnvDownloadDir+" or ~/Downloads)")
	template := fs.String("t", "", "yt-dlp output template (default %(title)s.%(ext)s)")
	ytdlp := fs.String("ytdlp", "", "path to the yt-dlp executable")
	rawURL, ok := parseURLArgs(fs, args)
	if !ok {
		return exitUsage
	}

	target, _, err := metadata.ValidateURL(rawURL)
	if err != nil {
		return report(stderr, err)
	}

	dir, err := downloadDir(*outDir, d.env)
	if err != nil {
		return report(stderr, err)
	}

	eng, err := newEngine(*ytdlp, *template, d)
	if err != nil {
		return report(stderr, err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := eng.Shutdown(sctx); err != nil {
			logger.Error("Engine shutdown failed", "error", err)
		}
	}()

	// ctx ends on SIGINT/SIGTERM, which cancels the download
	transfer := eng.StartDownload(ctx, target.String(), *formatID, dir)
	for p := range transfer.Progress() {
		fmt.Fprintf(stdout, "\r%s", p.String())
	}

	res, err := transfer.Result()
	fmt.Fprintln(stdout)
	if err != nil {
		return report(stderr, err)
	}

	switch res.Outcome {
	case model.OutcomeCompleted:
		path := res.OutputPath
		if found, ferr := platform.FindFileWithFallback(path); ferr == nil {
			path = found
		}
		fmt.Fprintf(stdout, "Saved %s (%s)\n", path, res.Duration.Round(time.Second))
		return exitOK
	case model.OutcomeCancelled:
		fmt.Fprintln(stderr, "Download cancelled")
		return exitCancelled
	default:
		fmt.Fprintln(stderr, "Download failed")
		return exitFailed
	}
}

// downloadDir picks the -o flag, then the environment, then ~/Downloads
func downloadDir(flagValue string, env config.Env) (string, error) {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		return dir, nil
	}
	if env.DownloadDir != "" {
		return env.DownloadDir, nil
	}
	return platform.GetHomeDownloadsDir()
}

// report prints err with a hint for the common cases and returns the exit code
func report(w io.Writer, err error) int {
	var (
		unsupported *metadata.UnsupportedURLError
		spawnErr    *process.SpawnError
		exitErr     *process.ExitError
	)

	fmt.Fprintf(w, "Error: %v\n", err)
	switch {
	case errors.As(err, &unsupported):
		fmt.Fprintln(w, "Supported sites: TikTok, Instagram, Facebook, YouTube, X (Twitter)")
	case errors.Is(err, platform.ErrYTDLPNotFound), errors.As(err, &spawnErr):
		fmt.Fprintf(w, "Install yt-dlp or point %s at it\n", config.EnvYTDLPPath)
	case errors.As(err, &exitErr):
		if line := exitErr.LastStderrLine(); line != "" {
			fmt.Fprintln(w, line)
		}
	}

	if errors.Is(err, context.Canceled) {
		return exitCancelled
	}
	return exitFailed
}
