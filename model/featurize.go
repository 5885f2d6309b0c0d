/*
 * featurize.go, part of oxima.
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

//Package model is the reference featurization, prediction and
//explanation backend of the oxima pipeline. It identifies the metal
//sites of a structure, describes each one by its element properties and
//local chemical environment, and scores oxidation states with a small
//deterministic voting ensemble.
package model

import (
	"fmt"
	"math"

	"github.com/rmera/oxima"
	"gonum.org/v1/gonum/mat"
)

//FeatureNames lists the per-site descriptors, in feature-vector order.
var FeatureNames = []string{
	"column",
	"row",
	"valence_electrons",
	"diff_to_18_electrons",
	"electronegativity",
	"coordination_number",
	"mean_neighbor_distance",
	"min_neighbor_distance",
	"mean_neighbor_electronegativity",
	"min_neighbor_electronegativity",
	"max_neighbor_electronegativity",
	"metal_neighbor_fraction",
}

//Featurizer computes the per-site descriptors of the metal sites of a
//structure. BondTolerance widens the covalent-radii sum used as the
//bonding cutoff, in Angstrom.
type Featurizer struct {
	BondTolerance float64
}

//NewFeaturizer returns a featurizer with the standard bonding cutoff.
func NewFeaturizer() *Featurizer {
	return &Featurizer{BondTolerance: 0.45}
}

type neighbor struct {
	z        int
	distance float64
}

//neighbors returns every periodic neighbor of atom i within the bonding
//cutoff, scanning the 27 surrounding images. Images of atom i itself
//count, except the zero displacement. If nothing falls within the
//cutoff the single nearest image is returned instead, so isolated atoms
//still have a defined environment.
func (ft *Featurizer) neighbors(s *oxima.Structure, cart *mat.Dense, i int) []neighbor {
	var ns []neighbor
	nearest := neighbor{distance: math.Inf(1)}
	zi := s.AtomicNumbers[i]
	xi := []float64{cart.At(i, 0), cart.At(i, 1), cart.At(i, 2)}
	for j := 0; j < s.Len(); j++ {
		zj := s.AtomicNumbers[j]
		cutoff := oxima.CovalentRadius(zi) + oxima.CovalentRadius(zj) + ft.BondTolerance
		for a := -1.0; a <= 1; a++ {
			for b := -1.0; b <= 1; b++ {
				for c := -1.0; c <= 1; c++ {
					var d float64
					for k := 0; k < 3; k++ {
						shift := a*s.Lattice.At(0, k) + b*s.Lattice.At(1, k) + c*s.Lattice.At(2, k)
						v := cart.At(j, k) + shift - xi[k]
						d += v * v
					}
					d = math.Sqrt(d)
					if d < 1e-8 { //the atom itself
						continue
					}
					if d <= cutoff {
						ns = append(ns, neighbor{z: zj, distance: d})
					} else if d < nearest.distance {
						nearest = neighbor{z: zj, distance: d}
					}
				}
			}
		}
	}
	if len(ns) == 0 {
		ns = append(ns, nearest)
	}
	return ns
}

//siteVector builds the descriptor vector for one metal site from its
//element properties and neighbor list.
func siteVector(z int, ns []neighbor) []float64 {
	col := float64(oxima.PeriodicColumn(z))
	row := float64(oxima.PeriodicRow(z))
	val := float64(oxima.ValenceElectrons(z))
	sumD, minD := 0.0, math.Inf(1)
	sumEN, minEN, maxEN := 0.0, math.Inf(1), math.Inf(-1)
	metals := 0
	for _, nb := range ns {
		sumD += nb.distance
		if nb.distance < minD {
			minD = nb.distance
		}
		en := oxima.Electronegativity(nb.z)
		sumEN += en
		if en < minEN {
			minEN = en
		}
		if en > maxEN {
			maxEN = en
		}
		if oxima.IsMetal(nb.z) {
			metals++
		}
	}
	fn := float64(len(ns))
	return []float64{
		col,
		row,
		val,
		18 - val,
		oxima.Electronegativity(z),
		fn,
		sumD / fn,
		minD,
		sumEN / fn,
		minEN,
		maxEN,
		float64(metals) / fn,
	}
}

//Featurize identifies the metal sites of s and computes one descriptor
//row per site. Site names are the chemical symbol plus a per-element
//ordinal ("Fe1", "Fe2", "Cu1") in atom order. A structure with no metal
//site can not be featurized.
func (ft *Featurizer) Featurize(s *oxima.Structure) (*oxima.FeatureBundle, error) {
	var indices []int
	for i, z := range s.AtomicNumbers {
		if oxima.IsMetal(z) {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("model: no metal site in structure (%d atoms)", s.Len())
	}
	cart := s.CartesianRefolded()
	arr := mat.NewDense(len(indices), len(FeatureNames), nil)
	names := make([]string, len(indices))
	values := make(map[string]map[string]float64, len(indices))
	ordinals := map[int]int{}
	for row, i := range indices {
		z := s.AtomicNumbers[i]
		ordinals[z]++
		names[row] = fmt.Sprintf("%s%d", oxima.SymbolFromZ(z), ordinals[z])
		vec := siteVector(z, ft.neighbors(s, cart, i))
		arr.SetRow(row, vec)
		vm := make(map[string]float64, len(FeatureNames))
		for k, name := range FeatureNames {
			vm[name] = vec[k]
		}
		values[names[row]] = vm
	}
	return &oxima.FeatureBundle{
		FeatureArray:  arr,
		FeatureValues: values,
		MetalIndices:  indices,
		FeatureNames:  append([]string{}, FeatureNames...),
		SiteNames:     names,
	}, nil
}
