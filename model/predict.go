/*
 * predict.go, part of oxima.
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

	"github.com/rmera/oxima"
)

//band tags the agreement percentage with the display confidence class.
func band(agreement float64) string {
	switch {
	case agreement > 80:
		return "success"
	case agreement < 60:
		return "danger"
	default:
		return "warning"
	}
}

//Predict scores every metal site of the bundle through the ensemble.
//For each site it reports the winning state as a roman numeral, the
//ensemble probability of that state, each voter's own state, the
//percentage of voters agreeing with the winner and the confidence band.
//Labels pair the site name with the state, "Fe1 (II)".
func (m *Model) Predict(f *oxima.FeatureBundle) (*oxima.PredictionBundle, error) {
	if f.FeatureArray == nil {
		return nil, fmt.Errorf("model: nil feature array")
	}
	rows, cols := f.FeatureArray.Dims()
	if cols != len(m.Means) {
		return nil, fmt.Errorf("model: got %d features per site, want %d", cols, len(m.Means))
	}
	if rows != f.Sites() {
		return nil, fmt.Errorf("model: %d feature rows for %d metal sites", rows, f.Sites())
	}
	out := &oxima.PredictionBundle{
		Predictions: make([]oxima.PredictionRow, rows),
		Labels:      make([]string, rows),
		ClassIdx:    make([]int, rows),
	}
	for r := 0; r < rows; r++ {
		scaled := m.scale(f.FeatureArray.RawRowView(r))
		mean, votes := m.ensemble(scaled)
		best := 0
		for c := range mean {
			if mean[c] > mean[best] {
				best = c
			}
		}
		agree := 0
		romans := make([]string, len(votes))
		for vi, v := range votes {
			if v == best+1 {
				agree++
			}
			romans[vi] = Roman(v)
		}
		agreement := 100 * float64(agree) / float64(len(votes))
		state := Roman(best + 1)
		out.Predictions[r] = oxima.PredictionRow{
			Site:      f.SiteNames[r],
			State:     state,
			MaxProba:  mean[best],
			Votes:     romans,
			Agreement: agreement,
			Band:      band(agreement),
		}
		out.Labels[r] = fmt.Sprintf("%s (%s)", f.SiteNames[r], state)
		out.ClassIdx[r] = best
	}
	return out, nil
}
