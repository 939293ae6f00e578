// cups-sub001 - a capability engine for PPD printer description files
// Copyright (C) 2026  The cups-sub001 developers
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Ppdinfo parses a PPD file, reports its capabilities, and optionally
// builds and persists the translation cache.
//
// Usage:
//
//	ppdinfo [-config ppdinfo.toml] [-cache out.cache] printer.ppd
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	ppd "github.com/OpenPrinting/cups-sub001"
	"github.com/OpenPrinting/cups-sub001/cache"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	cachePath := flag.String("cache", "", "write the translation cache to this file")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	initLogger(*verbose)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ppdinfo [options] printer.ppd")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	fileName := flag.Arg(0)
	doc, err := open(fileName, cfg.Conformance)
	if err != nil {
		var pe *ppd.ParseError
		if errors.As(err, &pe) {
			log.Fatal().Str("file", fileName).Int("line", pe.Line).
				Str("status", pe.Status.String()).Msg("parse failed")
		}
		log.Fatal().Err(err).Str("file", fileName).Msg("parse failed")
	}

	report(doc)

	doc.MarkDefaults()
	if n := doc.ConflictCount(); n > 0 {
		log.Warn().Int("conflicts", n).Msg("default selections conflict")
	}

	c := cache.FromDocument(doc)
	log.Info().
		Int("sources", len(c.Sources)).
		Int("types", len(c.Types)).
		Int("bins", len(c.Bins)).
		Int("sizes", len(c.Sizes)).
		Int("finishings", len(c.Finishings)).
		Msg("cache built")

	if c.Password != "" {
		if err := promptPassword(c.Password); err != nil {
			log.Fatal().Err(err).Msg("failed to read job password")
		}
	}

	if cfg.CachePath != "" {
		if err := c.Save(cfg.CachePath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.CachePath).Msg("failed to write cache")
		}
		log.Info().Str("path", cfg.CachePath).Msg("cache written")
	}
}

func initLogger(verbose bool) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", "ppdinfo").Logger()
	if !verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}
	log.Logger = logger
}

func open(fileName string, conformance ppd.Conformance) (*ppd.Document, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ppd.Read(fd, &ppd.ReaderOptions{Conformance: conformance})
}

func report(doc *ppd.Document) {
	log.Info().
		Str("manufacturer", doc.Manufacturer).
		Str("model", doc.ModelName).
		Bool("color", doc.ColorDevice).
		Int("language_level", doc.LanguageLevel).
		Msg(doc.NickName)

	log.Info().
		Int("options", doc.NumOptions()).
		Int("sizes", len(doc.Sizes)).
		Int("constraints", len(doc.Constraints)).
		Int("fonts", len(doc.Fonts)).
		Msg("document summary")

	for _, opt := range doc.Options() {
		ev := log.Debug().
			Str("keyword", opt.Keyword).
			Str("section", opt.Section.String()).
			Float64("order", opt.Order).
			Str("default", opt.DefaultChoice).
			Int("choices", len(opt.Choices))
		ev.Msg(opt.Text)
	}
}

// promptPassword reads a job password from the terminal without echo.
// The format string from the PPD describes the accepted pattern; the
// value itself is only validated downstream, during emission.
func promptPassword(format string) error {
	fmt.Fprintf(os.Stderr, "Job password (format %q): ", format)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	if len(pw) == 0 {
		log.Warn().Msg("empty job password, printer may reject the job")
	}
	return nil
}
