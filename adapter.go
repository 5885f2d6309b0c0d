/*
 * adapter.go, part of oxima.
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
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

//FeatureBundle is the output of the featurization stage: one feature row
//per metal site of the structure, plus the bookkeeping needed to map rows
//back to atoms. MetalIndices are atom indexes into the structure the
//features were computed from, SiteNames are display names ("Fe1") for the
//same sites, and FeatureValues maps each site name to its named feature
//values. Rows of FeatureArray, MetalIndices and SiteNames run in parallel.
type FeatureBundle struct {
	FeatureArray  *mat.Dense                    `json:"-"`
	FeatureValues map[string]map[string]float64 `json:"feature_values"`
	MetalIndices  []int                         `json:"metal_indices"`
	FeatureNames  []string                      `json:"feature_names"`
	SiteNames     []string                      `json:"site_names"`
}

//Sites returns the number of metal sites in the bundle.
func (f *FeatureBundle) Sites() int {
	return len(f.MetalIndices)
}

//PredictionRow is the prediction for one metal site: the winning
//oxidation state as a roman numeral, the winning class probability, the
//state each ensemble member voted for, the fraction of members that
//agree with the winner (in percent) and a confidence band derived from
//that agreement ("success" above 80, "danger" below 60, "warning" in
//between).
type PredictionRow struct {
	Site      string   `json:"site"`
	State     string   `json:"state"`
	MaxProba  float64  `json:"max_proba"`
	Votes     []string `json:"votes"`
	Agreement float64  `json:"agreement"`
	Band      string   `json:"band"`
}

//FeatureContribution is the weight of one named feature in the
//explanation of a site prediction.
type FeatureContribution struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

//SiteExplanation ranks the feature contributions behind the prediction
//for one site, most influential first.
type SiteExplanation struct {
	Site          string                `json:"site"`
	Contributions []FeatureContribution `json:"contributions"`
}

//PredictionBundle is the output of the prediction and explanation
//stages, indexed in parallel with the metal sites of the FeatureBundle
//it was derived from. Labels are display strings like "Fe1 (II)".
type PredictionBundle struct {
	Predictions  []PredictionRow   `json:"predictions"`
	Labels       []string          `json:"labels"`
	ClassIdx     []int             `json:"class_idx"`
	Explanations []SiteExplanation `json:"explanations"`
}

//Featurizer computes per-site features for the metal sites of a
//structure.
type Featurizer interface {
	Featurize(s *Structure) (*FeatureBundle, error)
}

//Predictor turns a feature bundle into per-site oxidation-state
//predictions.
type Predictor interface {
	Predict(f *FeatureBundle) (*PredictionBundle, error)
}

//Explainer attributes each site prediction to the features behind it.
//samples controls the cost/accuracy trade-off of the attribution.
type Explainer interface {
	Explain(f *FeatureBundle, p *PredictionBundle, samples int) ([]SiteExplanation, error)
}

//Adapter sequences the three external computation stages around a
//structure: featurize, then predict, then explain. Each stage runs only
//after the previous one fully succeeded, and each failure is reported
//with its own error type so the caller can tell the stages apart. The
//explanation sample count is process-wide mutable state; it is read and
//written atomically so concurrent requests never observe a torn value.
type Adapter struct {
	F       Featurizer
	P       Predictor
	E       Explainer
	samples atomic.Int64
}

//NewAdapter returns an adapter over the given collaborators with the
//given starting explanation sample count.
func NewAdapter(f Featurizer, p Predictor, e Explainer, samples int) *Adapter {
	a := &Adapter{F: f, P: p, E: e}
	a.samples.Store(int64(samples))
	return a
}

//Samples returns the current explanation sample count.
func (a *Adapter) Samples() int {
	return int(a.samples.Load())
}

//SetSamples changes the explanation sample count for every subsequent
//call, across all goroutines.
func (a *Adapter) SetSamples(n int) {
	a.samples.Store(int64(n))
}

//Run takes a structure through featurization, prediction and
//explanation. A featurization failure returns a *FeaturizationError
//before prediction is attempted. A prediction or explanation failure
//returns the successful feature bundle alongside a *PredictionError, so
//the caller can still log what was featurized.
func (a *Adapter) Run(s *Structure) (*FeatureBundle, *PredictionBundle, error) {
	feat, err := a.F.Featurize(s)
	if err != nil {
		return nil, nil, &FeaturizationError{Reason: err}
	}
	pred, err := a.P.Predict(feat)
	if err != nil {
		return feat, nil, &PredictionError{Stage: "predict", Reason: err}
	}
	expl, err := a.E.Explain(feat, pred, a.Samples())
	if err != nil {
		return feat, nil, &PredictionError{Stage: "explain", Reason: err}
	}
	pred.Explanations = expl
	return feat, pred, nil
}
