/*
 * pipeline_test.go, part of oxima.
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

package oxima

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

//fakeBackend counts stage invocations and can be told to fail at any
//stage.
type fakeBackend struct {
	featurized, predicted, explained int
	lastSamples                      int
	failFeaturize, failPredict       bool
	failExplain                      bool
}

func (f *fakeBackend) Featurize(s *Structure) (*FeatureBundle, error) {
	f.featurized++
	if f.failFeaturize {
		return nil, fmt.Errorf("bad geometry")
	}
	return &FeatureBundle{
		MetalIndices:  []int{0},
		SiteNames:     []string{"Fe1"},
		FeatureNames:  []string{"column"},
		FeatureValues: map[string]map[string]float64{"Fe1": {"column": 8}},
	}, nil
}

func (f *fakeBackend) Predict(fb *FeatureBundle) (*PredictionBundle, error) {
	f.predicted++
	if f.failPredict {
		return nil, fmt.Errorf("model choked")
	}
	return &PredictionBundle{
		Predictions: []PredictionRow{{Site: "Fe1", State: "II", MaxProba: 0.9, Agreement: 100, Band: "success"}},
		Labels:      []string{"Fe1 (II)"},
		ClassIdx:    []int{1},
	}, nil
}

func (f *fakeBackend) Explain(fb *FeatureBundle, pb *PredictionBundle, samples int) ([]SiteExplanation, error) {
	f.explained++
	f.lastSamples = samples
	if f.failExplain {
		return nil, fmt.Errorf("sampling diverged")
	}
	return []SiteExplanation{{Site: "Fe1"}}, nil
}

func testPipeline(fb *fakeBackend) *Pipeline {
	return &Pipeline{
		Adapter:      NewAdapter(fb, fb, fb, 50),
		Log:          zap.NewNop(),
		MaxAtoms:     500,
		OverlapTol:   0.5,
		SymPrec:      1e-3,
		ModelVersion: "test",
	}
}

func TestProcessHappyPath(t *testing.T) {
	fb := &fakeBackend{}
	out, err := testPipeline(fb).Process(bccFeCIF, "cif")
	require.NoError(t, err)
	assert.Equal(t, 1, fb.featurized)
	assert.Equal(t, 1, fb.predicted)
	assert.Equal(t, 1, fb.explained)
	assert.Equal(t, 50, fb.lastSamples)
	assert.Equal(t, "test", out.ModelVersion)
	assert.Equal(t, []string{"Fe1 (II)"}, out.PredictionLabels)
	assert.Len(t, out.Explanations, 1)
	assert.NotEmpty(t, out.XSFStructure)
	assert.Greater(t, out.ComputeTime, 0.0)
	//bcc iron halves under reduction
	assert.Len(t, out.InputAtomsScaled, 2)
	assert.Len(t, out.AtomsScaled, 1)
}

func TestProcessUnknownFormat(t *testing.T) {
	fb := &fakeBackend{}
	_, err := testPipeline(fb).Process("whatever", "xyz")
	var uf *UnknownFormatError
	require.ErrorAs(t, err, &uf)
	assert.Zero(t, fb.featurized, "featurization must not run on a rejected input")
}

//An overlapping structure is rejected before any computation stage.
func TestProcessOverlapShortCircuits(t *testing.T) {
	overlapping := `data_bad
_cell_length_a 10
_cell_length_b 10
_cell_length_c 10
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 0.10 0.10 0.10
Fe2 0.101 0.10 0.10
`
	fb := &fakeBackend{}
	_, err := testPipeline(fb).Process(overlapping, "cif")
	var ov *OverlapError
	require.ErrorAs(t, err, &ov)
	assert.Zero(t, fb.featurized)
	assert.Zero(t, fb.predicted)
}

func TestProcessFeaturizationFailure(t *testing.T) {
	fb := &fakeBackend{failFeaturize: true}
	_, err := testPipeline(fb).Process(bccFeCIF, "cif")
	var fe *FeaturizationError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fb.predicted, "prediction must not run after a featurization failure")
	assert.Equal(t, "featurizationexception", Reason(err))
}

func TestProcessPredictionFailure(t *testing.T) {
	fb := &fakeBackend{failPredict: true}
	_, err := testPipeline(fb).Process(bccFeCIF, "cif")
	var pe *PredictionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "predict", pe.Stage)
	assert.Equal(t, "predictionexception", Reason(err))
	assert.Zero(t, fb.explained)
}

func TestProcessExplainFailure(t *testing.T) {
	fb := &fakeBackend{failExplain: true}
	_, err := testPipeline(fb).Process(bccFeCIF, "cif")
	var pe *PredictionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "explain", pe.Stage)
}

//Changing the sample count on the adapter is visible to the very next
//run.
func TestAdapterSamplesTakeEffect(t *testing.T) {
	fb := &fakeBackend{}
	p := testPipeline(fb)
	p.Adapter.SetSamples(200)
	_, err := p.Process(bccFeCIF, "cif")
	require.NoError(t, err)
	assert.Equal(t, 200, fb.lastSamples)
}

type fakeLoader struct {
	s    *Structure
	feat *FeatureBundle
	pred *PredictionBundle
	err  error
}

func (f *fakeLoader) Load(name string) (*Structure, *FeatureBundle, *PredictionBundle, error) {
	if f.err != nil {
		return nil, nil, nil, f.err
	}
	return f.s, f.feat, f.pred, nil
}

func TestFromPrecomputed(t *testing.T) {
	fb := &fakeBackend{}
	feat, _ := fb.Featurize(nil)
	pred, _ := fb.Predict(feat)
	s, err := Read(bccFeCIF, "cif")
	require.NoError(t, err)
	p := testPipeline(&fakeBackend{})
	p.Records = &fakeLoader{s: s, feat: feat, pred: pred}
	out, err := p.FromPrecomputed("whatever")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fe1 (II)"}, out.PredictionLabels)
	assert.Len(t, out.AtomsScaled, 1, "the precomputed path also reduces to the primitive cell")
}

func TestFromPrecomputedMissing(t *testing.T) {
	p := testPipeline(&fakeBackend{})
	p.Records = &fakeLoader{err: &PrecomputedLoadError{Name: "nope", Reason: errors.New("no such file")}}
	_, err := p.FromPrecomputed("nope")
	var pl *PrecomputedLoadError
	require.ErrorAs(t, err, &pl)
	assert.Equal(t, "nope", pl.Name)
	assert.Equal(t, "precomputed", Reason(err))
}
