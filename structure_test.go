/*
 * structure_test.go, part of oxima.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//mkStructure builds a structure or fails the test.
func mkStructure(Te *testing.T, lattice []float64, frac []float64, numbers []int) *Structure {
	Te.Helper()
	s, err := NewStructure(mat.NewDense(3, 3, lattice), mat.NewDense(len(numbers), 3, frac), numbers)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

func cubic(Te *testing.T, a float64, frac []float64, numbers []int) *Structure {
	return mkStructure(Te, []float64{a, 0, 0, 0, a, 0, 0, 0, a}, frac, numbers)
}

func TestStructureCardinality(Te *testing.T) {
	s := cubic(Te, 4.0, []float64{0, 0, 0, 0.5, 0.5, 0.5}, []int{26, 8})
	if s.Len() != 2 {
		Te.Errorf("got %d atoms, want 2", s.Len())
	}
	for _, coords := range []*mat.Dense{s.FracCoords, s.Cartesian(), s.CartesianRefolded()} {
		r, c := coords.Dims()
		if r != s.Len() || c != 3 {
			Te.Errorf("coordinate view is %dx%d for %d atoms", r, c, s.Len())
		}
	}
	if len(s.Symbols()) != s.Len() {
		Te.Errorf("got %d symbols for %d atoms", len(s.Symbols()), s.Len())
	}
}

func TestStructureBadShapes(Te *testing.T) {
	lat := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	if _, err := NewStructure(lat, mat.NewDense(2, 3, make([]float64, 6)), []int{26}); err == nil {
		Te.Error("expected an error for mismatched atom counts")
	}
	degenerate := mat.NewDense(3, 3, []float64{1, 0, 0, 2, 0, 0, 0, 0, 1})
	if _, err := NewStructure(degenerate, mat.NewDense(1, 3, make([]float64, 3)), []int{26}); err == nil {
		Te.Error("expected an error for a degenerate lattice")
	}
}

func TestCartesian(Te *testing.T) {
	//non-orthogonal lattice so the matrix product actually mixes rows
	s := mkStructure(Te, []float64{2, 0, 0, 1, 2, 0, 0, 0, 3}, []float64{0.5, 0.5, 0.5}, []int{26})
	cart := s.Cartesian()
	want := []float64{1.5, 1.0, 1.5}
	for k := 0; k < 3; k++ {
		if math.Abs(cart.At(0, k)-want[k]) > appzero {
			Te.Errorf("cartesian component %d: got %f, want %f", k, cart.At(0, k), want[k])
		}
	}
}

func TestRefoldRange(Te *testing.T) {
	s := cubic(Te, 1.0, []float64{-0.25, 1.75, 0.999, -3.0, 2.0, 1.0}, []int{26, 8})
	folded := s.Refolded()
	for i := 0; i < folded.Len(); i++ {
		f := folded.Frac(i)
		for k := 0; k < 3; k++ {
			if f[k] < 0 || f[k] >= 1 {
				Te.Errorf("refolded component atom %d axis %d out of [0,1): %f", i, k, f[k])
			}
		}
	}
	//-0.25 mod 1 and 1.75 mod 1 land on the same point
	f := folded.Frac(0)
	if math.Abs(f[0]-0.75) > appzero || math.Abs(f[1]-0.75) > appzero {
		Te.Errorf("got %v, want (0.75, 0.75, 0.999)", f)
	}
}

func TestMinimumImageDistance(Te *testing.T) {
	//atoms at opposite corners are neighbors through the boundary
	s := cubic(Te, 10.0, []float64{0.05, 0, 0, 0.95, 0, 0}, []int{26, 8})
	d := s.Distance(0, 1)
	if math.Abs(d-1.0) > 1e-8 {
		Te.Errorf("got distance %f, want 1.0 through the periodic boundary", d)
	}
}

func TestCopyIsDeep(Te *testing.T) {
	s := cubic(Te, 4.0, []float64{0, 0, 0}, []int{26})
	c := s.Copy()
	c.FracCoords.Set(0, 0, 0.5)
	c.AtomicNumbers[0] = 8
	if s.FracCoords.At(0, 0) != 0 || s.AtomicNumbers[0] != 26 {
		Te.Error("mutating a copy changed the original structure")
	}
}

func TestVolume(Te *testing.T) {
	s := cubic(Te, 3.0, []float64{0, 0, 0}, []int{26})
	if math.Abs(s.Volume()-27.0) > 1e-8 {
		Te.Errorf("got volume %f, want 27", s.Volume())
	}
}
