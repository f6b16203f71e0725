// Command geokdtree answers nearest-neighbour queries against a SQLite
// database: the nearest place in a places table for -lat/-lon, or the
// nearest point in the points table for -point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/viant/geokdtree"
	"github.com/viant/geokdtree/engine"
	"github.com/viant/geokdtree/geoutil"
	"github.com/viant/geokdtree/kdtree"
	"github.com/viant/geokdtree/vector"
)

func main() {
	_ = godotenv.Load()
	logger := geokdtree.LoggerFromEnv()
	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	db    string
	table string
	lat   float64
	lon   float64
	point string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{
		db:    envOr("GEOKDTREE_DB", "geokdtree.sqlite"),
		table: envOr("GEOKDTREE_TABLE", "places"),
	}
	fs := flag.NewFlagSet("geokdtree", flag.ContinueOnError)
	fs.StringVar(&cfg.db, "db", cfg.db, "SQLite database file")
	fs.StringVar(&cfg.table, "table", cfg.table, "places table name")
	fs.Float64Var(&cfg.lat, "lat", 0, "query latitude in degrees")
	fs.Float64Var(&cfg.lon, "lon", 0, "query longitude in degrees")
	fs.StringVar(&cfg.point, "point", "", "comma-separated query point against the points table")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	db, err := engine.Open(cfg.db)
	if err != nil {
		return err
	}
	defer db.Close()
	opts := []kdtree.Option{kdtree.WithLogger(logger)}

	if cfg.point != "" {
		query, err := parsePoint(cfg.point)
		if err != nil {
			return err
		}
		store, err := vector.NewPointStore(ctx, db, opts...)
		if err != nil {
			return err
		}
		m, err := store.Nearest(ctx, query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\t%g\n", m.ID, m.Distance)
		return err
	}

	ix, err := geoutil.NewIndex(db, cfg.table, opts...)
	if err != nil {
		return err
	}
	m, err := ix.Nearest(ctx, cfg.lat, cfg.lon)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\t%s\t%g\t%.3f\n", m.ID, m.Name, m.Distance, m.Km)
	return err
}

func parsePoint(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid -point component %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
