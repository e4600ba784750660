package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/ironsheep/image-variants/internal/config"
	"github.com/ironsheep/image-variants/internal/imaging"
	"github.com/ironsheep/image-variants/internal/logging"
	"github.com/ironsheep/image-variants/internal/server"
	"github.com/ironsheep/image-variants/internal/sizes"
	"github.com/ironsheep/image-variants/internal/storage"
	"github.com/ironsheep/image-variants/internal/variants"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	cmd := "serve"
	var args []string
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	var err error
	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("image-variants %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	case "serve":
		err = serve()
	case "generate":
		err = generate(args)
	case "plan":
		err = plan(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "image-variants: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("image-variants - multi-size image variant generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-variants [serve]                       Run the MCP server on stdin/stdout")
	fmt.Println("  image-variants generate <image>              Write every catalog size of <image>")
	fmt.Println("  image-variants plan <w> <h> <dw> <dh> [crop] Print the resize plan")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("crop is false, true, or an anchor pair such as left,top.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_VARIANTS_CONFIG=<file>         YAML configuration file")
	fmt.Println("  IMAGE_VARIANTS_LOG_LEVEL=debug       Enable debug logging")
	fmt.Println("  IMAGE_VARIANTS_CATALOG=<file>        Size catalog")
	fmt.Println("  IMAGE_VARIANTS_OUTPUT_DIR=<dir>      Output directory for the local backend")
	fmt.Println()
	fmt.Println("In serve mode the server communicates via MCP protocol over stdin/stdout.")
}

// app holds the collaborators shared by serve and generate.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *sizes.Registry
	catalog  sizes.Catalog
	sampler  imaging.Sampler
	saver    storage.Saver
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(os.Getenv("IMAGE_VARIANTS_CONFIG"))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	sampler, err := imaging.NewSampler(cfg.Resize.Engine)
	if err != nil {
		return nil, err
	}

	registry := sizes.NewRegistry()
	var catalog sizes.Catalog
	if cfg.Catalog != "" {
		catalog, err = sizes.LoadCatalog(cfg.Catalog, registry)
		if err != nil {
			return nil, err
		}
	}

	var saver storage.Saver
	switch cfg.Output.Backend {
	case config.BackendMinio:
		m := cfg.Output.Minio
		saver, err = storage.NewMinioSaver(ctx, storage.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			Location:  m.Location,
			Prefix:    m.Prefix,
			UseSSL:    m.UseSSL,
		})
	default:
		saver, err = storage.NewLocalSaver(cfg.Output.Dir)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		zap.String("version", Version),
		zap.String("engine", cfg.Resize.Engine),
		zap.String("backend", cfg.Output.Backend),
		zap.Strings("sizes", catalog.Names()),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		catalog:  catalog,
		sampler:  sampler,
		saver:    saver,
	}, nil
}

func serve() error {
	a, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	a.logger.Info("image-variants server starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
	)

	server.Version = Version
	srv := server.New(server.Options{
		Registry: a.registry,
		Catalog:  a.catalog,
		Sampler:  a.sampler,
		Saver:    a.saver,
		Quality:  a.cfg.Resize.Quality,
		Logger:   a.logger,
	})
	return srv.Run()
}

func generate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: image-variants generate <image>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	if len(a.catalog) == 0 {
		return fmt.Errorf("no sizes configured: set catalog or IMAGE_VARIANTS_CATALOG")
	}

	editor, err := imaging.OpenEditor(args[0], imaging.EditorOptions{
		Sampler: a.sampler,
		Saver:   a.saver,
		Logger:  a.logger,
		Quality: a.cfg.Resize.Quality,
	})
	if err != nil {
		return err
	}

	produced := variants.New(a.registry, a.logger).MultiResize(ctx, editor, a.catalog)
	return printJSON(produced)
}

func plan(args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return fmt.Errorf("usage: image-variants plan <width> <height> <dest-width> <dest-height> [crop]")
	}

	dims := make([]int, 4)
	for i := range dims {
		n, err := strconv.Atoi(args[i])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid dimension %q", args[i])
		}
		dims[i] = n
	}

	crop := imaging.NoCrop()
	if len(args) == 5 {
		c, err := imaging.ParseCrop(args[4])
		if err != nil {
			return err
		}
		crop = c
	}

	p, ok := imaging.ResolveDimensions(dims[0], dims[1], dims[2], dims[3], crop, 1)
	if !ok {
		return printJSON(map[string]bool{"skip": true})
	}
	return printJSON(map[string]interface{}{"skip": false, "plan": p})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
