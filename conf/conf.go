/*
 * conf.go, part of oxima.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * oxima is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package conf holds the runtime configuration of the oxima pipeline and
//its service front ends. Values come from an optional oxima.yaml file,
//overridden by OXIMA_* environment variables, on top of the defaults
//below.
package conf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	//MaxNumberOfAtoms is the ceiling on the atom count of an input
	//structure; larger structures are rejected before any computation.
	MaxNumberOfAtoms int `mapstructure:"max_number_of_atoms"`
	//OverlapTolerance is the minimum allowed interatomic distance, in
	//Angstrom, counting periodic images.
	OverlapTolerance float64 `mapstructure:"overlap_tolerance"`
	//SymPrec is the fractional-coordinate tolerance of the primitive
	//reduction.
	SymPrec float64 `mapstructure:"symprec"`
	//ModelVersion is echoed in every output bundle.
	ModelVersion string `mapstructure:"model_version"`
	//Approximate maps named fidelity presets to the Monte-Carlo sample
	//count of the explanation stage.
	Approximate map[string]int `mapstructure:"approximate"`
	//DefaultApproximate is the preset used when none is requested.
	DefaultApproximate string `mapstructure:"default_approximate"`
	//Examples maps example names to structure names in the store.
	Examples map[string]string `mapstructure:"examples"`
	Store    StoreConfig       `mapstructure:"store"`
	Server   ServerConfig      `mapstructure:"server"`
	Debug    bool              `mapstructure:"debug"`
}

type StoreConfig struct {
	//Dir is the root of the content store; structures live under
	//structures/ and precomputed payloads under precomputed/.
	Dir string `mapstructure:"dir"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_number_of_atoms", 500)
	v.SetDefault("overlap_tolerance", 0.5)
	v.SetDefault("symprec", 1e-3)
	v.SetDefault("model_version", "0.3.1")
	v.SetDefault("approximate", map[string]int{
		"very_rough": 10,
		"rough":      25,
		"default":    50,
		"fine":       100,
		"very_fine":  200,
	})
	v.SetDefault("default_approximate", "default")
	v.SetDefault("examples", map[string]string{
		"MAHSUK": "MAHSUK",
		"BaO2":   "BaO2_mp-1105Y1_computed",
	})
	v.SetDefault("store.dir", "store")
	v.SetDefault("server.addr", ":8091")
	v.SetDefault("debug", false)
}

//Load reads the configuration, optionally from an explicit file path.
//A missing configuration file is not an error; the defaults and the
//environment cover everything.
func Load(override string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("OXIMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if override != "" {
		v.SetConfigFile(override)
	} else {
		v.SetConfigName("oxima")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.oxima")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

//Samples resolves a fidelity preset name to its explanation sample
//count. The empty string means the configured default preset.
func (c *Config) Samples(preset string) (int, error) {
	if preset == "" {
		preset = c.DefaultApproximate
	}
	n, ok := c.Approximate[preset]
	if !ok {
		return 0, fmt.Errorf("conf: unknown approximation preset %q, have %s",
			preset, strings.Join(c.Presets(), ", "))
	}
	return n, nil
}

//Presets returns the known fidelity preset names, sorted.
func (c *Config) Presets() []string {
	ps := make([]string, 0, len(c.Approximate))
	for p := range c.Approximate {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}
