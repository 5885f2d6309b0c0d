/*
 * explain.go, part of oxima.
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
	"fmt"
	"math/rand"
	"sort"

	"github.com/rmera/oxima"
)

//explainSeed fixes the baseline sampling so explanations of the same
//bundle are reproducible.
const explainSeed = 42

//winnerProba is the ensemble probability of the given state (0-based
//class index) for a raw feature vector.
func (m *Model) winnerProba(x []float64, class int) float64 {
	mean, _ := m.ensemble(m.scale(x))
	return mean[class]
}

//Explain attributes each site's winning-state probability to the
//individual features. The contribution of a feature is the mean drop of
//that probability when the feature is replaced by a baseline value
//drawn from the scaler's distribution, over samples draws. Features
//come back sorted by absolute contribution, strongest first.
func (m *Model) Explain(f *oxima.FeatureBundle, p *oxima.PredictionBundle, samples int) ([]oxima.SiteExplanation, error) {
	if len(p.ClassIdx) != f.Sites() {
		return nil, fmt.Errorf("model: %d predictions for %d metal sites", len(p.ClassIdx), f.Sites())
	}
	if samples < 1 {
		samples = 1
	}
	rng := rand.New(rand.NewSource(explainSeed))
	out := make([]oxima.SiteExplanation, f.Sites())
	for r := 0; r < f.Sites(); r++ {
		x := f.FeatureArray.RawRowView(r)
		base := m.winnerProba(x, p.ClassIdx[r])
		contribs := make([]oxima.FeatureContribution, len(f.FeatureNames))
		perturbed := make([]float64, len(x))
		for k := range x {
			drop := 0.0
			for s := 0; s < samples; s++ {
				copy(perturbed, x)
				perturbed[k] = m.Means[k] + m.Stds[k]*rng.NormFloat64()
				drop += base - m.winnerProba(perturbed, p.ClassIdx[r])
			}
			contribs[k] = oxima.FeatureContribution{
				Name:         f.FeatureNames[k],
				Value:        x[k],
				Contribution: drop / float64(samples),
			}
		}
		sort.SliceStable(contribs, func(i, j int) bool {
			ai, aj := contribs[i].Contribution, contribs[j].Contribution
			if ai < 0 {
				ai = -ai
			}
			if aj < 0 {
				aj = -aj
			}
			return ai > aj
		})
		out[r] = oxima.SiteExplanation{Site: f.SiteNames[r], Contributions: contribs}
	}
	return out, nil
}
