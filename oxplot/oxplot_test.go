/*
 * oxplot_test.go, part of oxima.
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

package oxplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/oxima"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidence(t *testing.T) {
	pred := &oxima.PredictionBundle{
		Predictions: []oxima.PredictionRow{
			{Site: "Fe1", State: "II", MaxProba: 0.92, Agreement: 100, Band: "success"},
			{Site: "Fe2", State: "III", MaxProba: 0.55, Agreement: 75, Band: "warning"},
			{Site: "Cu1", State: "I", MaxProba: 0.40, Agreement: 50, Band: "danger"},
		},
		Labels: []string{"Fe1 (II)", "Fe2 (III)", "Cu1 (I)"},
	}
	base := filepath.Join(t.TempDir(), "confidence")
	require.NoError(t, Confidence(pred, "test", base))
	info, err := os.Stat(base + ".png")
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestConfidenceEmpty(t *testing.T) {
	err := Confidence(&oxima.PredictionBundle{}, "test", "nope")
	assert.Error(t, err)
}
