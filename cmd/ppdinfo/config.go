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

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	ppd "github.com/OpenPrinting/cups-sub001"
)

type config struct {
	Conformance ppd.Conformance
	CachePath   string
	Locale      string
}

func defaultConfig() config {
	return config{
		Conformance: ppd.ConformRelaxed,
		Locale:      "en",
	}
}

type fileConfig struct {
	Conformance string `toml:"conformance"`
	CachePath   string `toml:"cache_path"`
	Locale      string `toml:"locale"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("conformance") {
		switch strings.TrimSpace(raw.Conformance) {
		case "strict":
			cfg.Conformance = ppd.ConformStrict
		case "relaxed", "":
			cfg.Conformance = ppd.ConformRelaxed
		default:
			return config{}, fmt.Errorf("parse conformance: unknown mode %q", raw.Conformance)
		}
	}

	if meta.IsDefined("cache_path") {
		cfg.CachePath = strings.TrimSpace(raw.CachePath)
	}

	if meta.IsDefined("locale") {
		locale := strings.TrimSpace(raw.Locale)
		if locale != "" {
			cfg.Locale = locale
		}
	}

	return cfg, nil
}
