/*
 * conf_test.go, part of oxima.
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

package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxNumberOfAtoms)
	assert.Equal(t, 0.5, cfg.OverlapTolerance)
	assert.Equal(t, 1e-3, cfg.SymPrec)
	assert.Equal(t, "default", cfg.DefaultApproximate)
	assert.Equal(t, 50, cfg.Approximate["default"])
	assert.Equal(t, 200, cfg.Approximate["very_fine"])
	assert.NotEmpty(t, cfg.Server.Addr)
}

func TestSamples(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	n, err := cfg.Samples("rough")
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	//empty preset means the configured default
	n, err = cfg.Samples("")
	require.NoError(t, err)
	assert.Equal(t, 50, n)
	_, err = cfg.Samples("ludicrous")
	assert.Error(t, err)
}

func TestPresetsSorted(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	ps := cfg.Presets()
	assert.Equal(t, []string{"default", "fine", "rough", "very_fine", "very_rough"}, ps)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxima.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_number_of_atoms: 64\nserver:\n  addr: \":9999\"\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxNumberOfAtoms)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	//untouched keys keep their defaults
	assert.Equal(t, 0.5, cfg.OverlapTolerance)
}

func TestMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxima.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_number_of_atoms: [unclosed\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
	//a broken file on the search path must surface too, not fall back
	//to the defaults without a word
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)
	_, err = Load("")
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OXIMA_MODEL_VERSION", "9.9.9")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", cfg.ModelVersion)
}
