/*
 * model.go, part of oxima.
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

import "math"

//Voter is one member of the ensemble: a linear estimator of the
//oxidation state over scaled features, turned into class probabilities
//by softmax over the distance of the estimate to each integer state.
//Temperature controls how sharply the probability mass concentrates on
//the nearest states.
type Voter struct {
	Name        string
	Coeffs      []float64
	Bias        float64
	Temperature float64
}

//Model is the deterministic voting ensemble plus the feature scaler its
//members were fit against. Oxidation states run from I to MaxState.
type Model struct {
	Means, Stds []float64
	Voters      []Voter
	MaxState    int
}

//DefaultModel returns the ensemble shipped with the package, four
//voters over the twelve descriptors of FeatureNames.
func DefaultModel() *Model {
	return &Model{
		Means: []float64{8, 4, 7, 11, 1.8, 5, 2.2, 2.0, 3.0, 2.5, 3.3, 0.1},
		Stds:  []float64{4, 1, 4, 4, 0.4, 2, 0.4, 0.4, 0.5, 0.6, 0.5, 0.2},
		Voters: []Voter{
			{
				Name:        "valence",
				Coeffs:      []float64{0.10, 0.12, 0.62, -0.20, -0.38, 0.46, -0.18, -0.30, 0.48, 0.20, 0.28, -0.40},
				Bias:        2.05,
				Temperature: 0.50,
			},
			{
				Name:        "environment",
				Coeffs:      []float64{0.06, 0.08, 0.40, -0.14, -0.30, 0.66, -0.26, -0.42, 0.58, 0.26, 0.34, -0.52},
				Bias:        2.10,
				Temperature: 0.55,
			},
			{
				Name:        "electronegativity",
				Coeffs:      []float64{0.08, 0.10, 0.48, -0.16, -0.52, 0.38, -0.14, -0.24, 0.70, 0.34, 0.42, -0.36},
				Bias:        1.95,
				Temperature: 0.45,
			},
			{
				Name:        "geometry",
				Coeffs:      []float64{0.12, 0.14, 0.52, -0.22, -0.34, 0.54, -0.36, -0.52, 0.44, 0.18, 0.24, -0.44},
				Bias:        2.00,
				Temperature: 0.60,
			},
		},
		MaxState: 7,
	}
}

//scale centers and reduces a raw feature vector.
func (m *Model) scale(x []float64) []float64 {
	out := make([]float64, len(x))
	for k := range x {
		out[k] = (x[k] - m.Means[k]) / m.Stds[k]
	}
	return out
}

//estimate is the voter's raw oxidation-state estimate over scaled
//features.
func (v *Voter) estimate(scaled []float64) float64 {
	e := v.Bias
	for k, c := range v.Coeffs {
		e += c * scaled[k]
	}
	return e
}

//probs turns the estimate into a probability over states 1..maxState.
func (v *Voter) probs(scaled []float64, maxState int) []float64 {
	est := v.estimate(scaled)
	p := make([]float64, maxState)
	sum := 0.0
	for c := 0; c < maxState; c++ {
		p[c] = math.Exp(-math.Abs(est-float64(c+1)) / v.Temperature)
		sum += p[c]
	}
	for c := range p {
		p[c] /= sum
	}
	return p
}

//ensemble averages the member probabilities for one scaled feature
//vector and returns the mean distribution plus each member's own
//winning state (1-based).
func (m *Model) ensemble(scaled []float64) (mean []float64, votes []int) {
	mean = make([]float64, m.MaxState)
	votes = make([]int, len(m.Voters))
	for vi := range m.Voters {
		p := m.Voters[vi].probs(scaled, m.MaxState)
		best := 0
		for c := range p {
			mean[c] += p[c] / float64(len(m.Voters))
			if p[c] > p[best] {
				best = c
			}
		}
		votes[vi] = best + 1
	}
	return mean, votes
}
