// Command cornermark picks a black or white watermark for every image in a
// folder based on its bottom-right corner and uploads it to Cloudinary with
// the matching transformation.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dixieflatline76/Cornermark/config"
	"github.com/dixieflatline76/Cornermark/pkg/analyzer"
	"github.com/dixieflatline76/Cornermark/pkg/batch"
	"github.com/dixieflatline76/Cornermark/pkg/cloud"
	"github.com/dixieflatline76/Cornermark/util"
	"github.com/dixieflatline76/Cornermark/util/log"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const usageHeader = `Iterate through images, decide if the watermark should be white or black and
upload the image to cloudinary with the correct transformation.
Supports .jpg and .png images.

Usage: cornermark [flags] <config>
`

type options struct {
	download    bool
	dryRun      bool
	workers     int
	strategy    string
	verbose     bool
	storeSecret bool
	checkUpdate bool
	version     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("cornermark", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&opts.download, "download", "d", false, "Download the created photos locally")
	fs.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Analyze images and print the decisions without uploading")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "Number of images processed in parallel (default from config, else CPU count)")
	fs.StringVar(&opts.strategy, "strategy", "", "Dominant color strategy: histogram or kmeans (default from config)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&opts.storeSecret, "store-secret", false, "Read the API secret from stdin and save it in the OS keyring")
	fs.BoolVar(&opts.checkUpdate, "check-update", false, "Check GitHub for a newer release and exit")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}
	log.SetDebug(opts.verbose)

	userAgent := config.AppName + "/" + config.AppVersion

	switch {
	case opts.version:
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, config.AppVersion)
		return 0
	case opts.checkUpdate:
		return checkUpdate(ctx, stdout, stderr, userAgent)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	configPath := fs.Arg(0)

	if opts.storeSecret {
		return storeSecret(configPath, stdin, stdout, stderr)
	}

	var loadOpts []config.LoadOption
	if opts.dryRun {
		loadOpts = append(loadOpts, config.WithoutSecret())
	}
	cfg, err := config.Load(configPath, loadOpts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, key := range cfg.UnknownKeys() {
		log.Printf("Ignoring unknown configuration key: %s", key)
	}

	strategyName := cfg.Script.Strategy
	if opts.strategy != "" {
		strategyName = opts.strategy
	}
	strategy, err := analyzer.ParseStrategy(strategyName)
	if err != nil {
		fmt.Fprintln(stderr, fmt.Errorf("invalid strategy: %w", err))
		return 2
	}
	workers := cfg.Script.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	fmt.Fprintf(stdout, "Input folder: %s\n", cfg.Script.InputFolder)
	fmt.Fprintf(stdout, "Output folder: %s\n", cfg.Script.OutputFolder)

	fm := batch.NewFileManager(cfg.Script.InputFolder, cfg.Script.OutputFolder)
	if opts.download && !opts.dryRun {
		if err := fm.Validate(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := fm.EnsureDir(fm.OutputDir()); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	var skip []string
	if fm.NestedOutput() {
		skip = append(skip, fm.OutputDir())
	}

	runID := uuid.New().String()
	var client batch.CloudClient
	if !opts.dryRun {
		client = cloud.NewClient(cloud.Credentials{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		},
			cloud.WithHTTPClient(cloud.NewHTTPClient(userAgent)),
			cloud.WithTags(strings.ToLower(config.AppName), runID),
		)
	}

	aopts := analyzer.DefaultOptions()
	aopts.Strategy = strategy
	processor := batch.NewProcessor(
		analyzer.NewAnalyzer(aopts),
		client,
		fm,
		batch.Transformations{
			Black: cfg.Transformation(analyzer.Black),
			White: cfg.Transformation(analyzer.White),
		},
		batch.ProcessorOptions{Download: opts.download, DryRun: opts.dryRun},
	)

	log.Printf("Run %s: %d workers, strategy %s", runID, workers, strategy)
	report, err := batch.NewPipeline(workers, processor.Process, skip...).Run(ctx, cfg.Script.InputFolder)
	if report != nil {
		report.RunID = runID
		for _, res := range report.Results {
			if !res.Failed() {
				fmt.Fprintf(stdout, "%s: %s watermark (corner %s)\n", res.Path, res.Watermark, res.Corner.Hex())
			}
		}
		report.Write(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Batch aborted: %v\n", err)
		return 1
	}
	return 0
}

func storeSecret(configPath string, stdin io.Reader, stdout, stderr io.Writer) int {
	cloudName, err := config.ReadCloudName(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "API secret for %s: ", cloudName)
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		fmt.Fprintln(stderr, "no secret provided")
		return 1
	}
	if err := config.StoreSecret(cloudName, strings.TrimSpace(scanner.Text())); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, "\nSecret saved to keyring.")
	return 0
}

func checkUpdate(ctx context.Context, stdout, stderr io.Writer, userAgent string) int {
	result, err := util.CheckForUpdates(ctx, cloud.NewHTTPClient(userAgent), config.AppVersion)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if result.UpdateAvailable {
		fmt.Fprintf(stdout, "Update available: %s -> %s\n%s\n", result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
		return 0
	}
	fmt.Fprintf(stdout, "%s %s is up to date\n", config.AppName, result.CurrentVersion)
	return 0
}
