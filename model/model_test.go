/*
 * model_test.go, part of oxima.
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

package model

import (
	"testing"

	"github.com/rmera/oxima"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//rockSalt is an idealized FeO rock-salt cell, slightly expanded so the
//Fe atoms bond to their oxygen octahedron but not to each other.
func rockSalt(t *testing.T) *oxima.Structure {
	t.Helper()
	lat := mat.NewDense(3, 3, []float64{5.0, 0, 0, 0, 5.0, 0, 0, 0, 5.0})
	frac := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0.5, 0.5, 0,
		0.5, 0, 0.5,
		0, 0.5, 0.5,
		0.5, 0, 0,
		0, 0.5, 0,
		0, 0, 0.5,
		0.5, 0.5, 0.5,
	})
	s, err := oxima.NewStructure(lat, frac, []int{26, 26, 26, 26, 8, 8, 8, 8})
	require.NoError(t, err)
	return s
}

func TestFeaturize(t *testing.T) {
	f, err := NewFeaturizer().Featurize(rockSalt(t))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, f.MetalIndices, "the four Fe atoms are the metal sites")
	assert.Equal(t, []string{"Fe1", "Fe2", "Fe3", "Fe4"}, f.SiteNames)
	rows, cols := f.FeatureArray.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, len(FeatureNames), cols)
	require.Contains(t, f.FeatureValues, "Fe1")
	vals := f.FeatureValues["Fe1"]
	assert.Equal(t, 8.0, vals["column"], "Fe sits in group 8")
	assert.Equal(t, 4.0, vals["row"])
	assert.Equal(t, 6.0, vals["coordination_number"], "rock salt is octahedral")
	assert.InDelta(t, 2.5, vals["mean_neighbor_distance"], 1e-6)
	assert.InDelta(t, oxima.Electronegativity(8), vals["mean_neighbor_electronegativity"], 1e-6,
		"every neighbor of Fe is oxygen")
	assert.Equal(t, 0.0, vals["metal_neighbor_fraction"])
}

func TestFeaturizeNoMetal(t *testing.T) {
	lat := mat.NewDense(3, 3, []float64{5, 0, 0, 0, 5, 0, 0, 0, 5})
	frac := mat.NewDense(2, 3, []float64{0, 0, 0, 0.3, 0, 0})
	s, err := oxima.NewStructure(lat, frac, []int{8, 8})
	require.NoError(t, err)
	_, err = NewFeaturizer().Featurize(s)
	assert.Error(t, err, "a structure without metal sites can not be featurized")
}

//An isolated atom still featurizes, against its nearest periodic image.
func TestFeaturizeIsolated(t *testing.T) {
	lat := mat.NewDense(3, 3, []float64{8, 0, 0, 0, 8, 0, 0, 0, 8})
	frac := mat.NewDense(1, 3, []float64{0, 0, 0})
	s, err := oxima.NewStructure(lat, frac, []int{26})
	require.NoError(t, err)
	f, err := NewFeaturizer().Featurize(s)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, f.FeatureValues["Fe1"]["min_neighbor_distance"], 1e-6)
}

func TestPredict(t *testing.T) {
	m := DefaultModel()
	f, err := NewFeaturizer().Featurize(rockSalt(t))
	require.NoError(t, err)
	p, err := m.Predict(f)
	require.NoError(t, err)
	require.Len(t, p.Predictions, 4)
	for i, row := range p.Predictions {
		assert.Equal(t, f.SiteNames[i], row.Site)
		assert.Len(t, row.Votes, len(m.Voters))
		assert.Greater(t, row.MaxProba, 0.0)
		assert.LessOrEqual(t, row.MaxProba, 1.0)
		assert.Contains(t, []string{"success", "warning", "danger"}, row.Band)
		assert.Equal(t, "Fe", row.Site[:2])
		assert.Equal(t, row.Site+" ("+row.State+")", p.Labels[i])
		assert.Equal(t, row.State, Roman(p.ClassIdx[i]+1))
	}
	//equivalent sites get identical predictions
	assert.Equal(t, p.Predictions[0].State, p.Predictions[1].State)
	assert.Equal(t, p.Predictions[0].MaxProba, p.Predictions[1].MaxProba)
}

func TestPredictDeterministic(t *testing.T) {
	m := DefaultModel()
	f, err := NewFeaturizer().Featurize(rockSalt(t))
	require.NoError(t, err)
	a, err := m.Predict(f)
	require.NoError(t, err)
	b, err := m.Predict(f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPredictShapeMismatch(t *testing.T) {
	m := DefaultModel()
	f := &oxima.FeatureBundle{
		FeatureArray: mat.NewDense(1, 3, []float64{1, 2, 3}),
		MetalIndices: []int{0},
		SiteNames:    []string{"Fe1"},
		FeatureNames: []string{"a", "b", "c"},
	}
	_, err := m.Predict(f)
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	m := DefaultModel()
	f, err := NewFeaturizer().Featurize(rockSalt(t))
	require.NoError(t, err)
	p, err := m.Predict(f)
	require.NoError(t, err)
	expl, err := m.Explain(f, p, 25)
	require.NoError(t, err)
	require.Len(t, expl, 4)
	for i, se := range expl {
		assert.Equal(t, f.SiteNames[i], se.Site)
		require.Len(t, se.Contributions, len(FeatureNames))
		//sorted by absolute contribution, strongest first
		for k := 1; k < len(se.Contributions); k++ {
			prev := se.Contributions[k-1].Contribution
			cur := se.Contributions[k].Contribution
			if prev < 0 {
				prev = -prev
			}
			if cur < 0 {
				cur = -cur
			}
			assert.GreaterOrEqual(t, prev, cur)
		}
	}
	//reproducible for the same inputs
	again, err := m.Explain(f, p, 25)
	require.NoError(t, err)
	assert.Equal(t, expl, again)
}

func TestRoman(t *testing.T) {
	cases := map[int]string{1: "I", 2: "II", 3: "III", 4: "IV", 5: "V", 6: "VI", 7: "VII", 9: "IX", 0: "0"}
	for n, want := range cases {
		assert.Equal(t, want, Roman(n))
	}
}
