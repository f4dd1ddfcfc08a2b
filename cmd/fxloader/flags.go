package main

import (
	"flag"
	"io"

	"github.com/rickgao/fx-ticks/internal/config"
)

// options holds the command line. Only flags that were set override the
// config file.
type options struct {
	configPath string
	pair       string
	start      string
	end        string
	pipeline   string
	opath      string
	sep        string
	db         string
	table      string
	processes  int
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("fxloader", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to YAML config file (optional)")
	fs.StringVar(&o.pair, "pair", "", "currency pair, e.g. EURUSD")
	fs.StringVar(&o.start, "start", "", "first date to load")
	fs.StringVar(&o.end, "end", "", "end date, exclusive (default: today)")
	fs.StringVar(&o.pipeline, "pipeline", "", "sink: tabular, sqlite or postgres")
	fs.StringVar(&o.opath, "opath", "", "output directory for the tabular sink")
	fs.StringVar(&o.sep, "sep", "", "field separator for the tabular sink")
	fs.StringVar(&o.db, "db", "", "database path for the sqlite sink")
	fs.StringVar(&o.table, "table", "", "table name for relational sinks")
	fs.IntVar(&o.processes, "processes", 0, "number of concurrent workers")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return o, fs, nil
}

// apply copies every explicitly set flag into cfg.
func (o *options) apply(fs *flag.FlagSet, cfg *config.LoaderConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pair":
			cfg.Job.Pair = o.pair
		case "start":
			cfg.Job.Start = o.start
		case "end":
			cfg.Job.End = o.end
		case "pipeline":
			cfg.Sink.Kind = o.pipeline
		case "opath":
			cfg.Sink.Tabular.OutputDir = o.opath
		case "sep":
			cfg.Sink.Tabular.Separator = o.sep
		case "db":
			cfg.Sink.SQLite.Path = o.db
		case "table":
			cfg.Sink.SQLite.Table = o.table
			cfg.Sink.Postgres.Table = o.table
		case "processes":
			cfg.Runner.Workers = o.processes
		}
	})
}
