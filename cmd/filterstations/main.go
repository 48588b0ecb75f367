// Command filterstations extracts the weather stations of one country from
// a full station list.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/couchcryptid/energy-load-etl/internal/adapter/corpus"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	in := flag.String("in", "../energy/weather_stations.json", "full weather station list")
	out := flag.String("out", "../energy/weather_stations_us.json", "filtered output file")
	country := flag.String("country", "US", "ISO country code to keep")
	flag.Parse()

	logger := sharedobs.NewLogger(os.Getenv("LOG_LEVEL"), "text")

	if err := run(*in, *out, *country, logger); err != nil {
		logger.Error("filter stations failed", "error", err)
		os.Exit(1)
	}
}

func run(in, out, country string, logger *slog.Logger) error {
	kept, total, err := corpus.FilterStations(in, out, country)
	if err != nil {
		return err
	}
	logger.Info("stations filtered", "country", country, "kept", kept, "total", total, "out", out)
	return nil
}
