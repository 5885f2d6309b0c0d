/*
 * structure.go, part of oxima.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//appzero is the tolerance under which a lattice determinant is considered
//zero, i.e. the lattice degenerate.
const appzero = 1e-10

//Structure holds a crystal structure as a lattice matrix (3x3, rows are
//the cell vectors in Angstrom), an Nx3 matrix of fractional coordinates
//and the N atomic numbers, in matching order. A Structure is never mutated
//after creation; every transformation works on a copy.
type Structure struct {
	Lattice       *mat.Dense
	FracCoords    *mat.Dense
	AtomicNumbers []int
}

//NewStructure builds a Structure after checking the shape consistency of
//its parts and that the lattice is not degenerate. The arguments are not
//copied; the caller gives up ownership.
func NewStructure(lattice, frac *mat.Dense, numbers []int) (*Structure, error) {
	lr, lc := lattice.Dims()
	if lr != 3 || lc != 3 {
		return nil, fmt.Errorf("oxima: lattice must be 3x3, got %dx%d", lr, lc)
	}
	fr, fc := frac.Dims()
	if fc != 3 {
		return nil, fmt.Errorf("oxima: fractional coordinates must have 3 columns, got %d", fc)
	}
	if fr != len(numbers) {
		return nil, fmt.Errorf("oxima: %d coordinate rows for %d atomic numbers", fr, len(numbers))
	}
	if math.Abs(mat.Det(lattice)) < appzero {
		return nil, fmt.Errorf("oxima: degenerate lattice (zero determinant)")
	}
	return &Structure{Lattice: lattice, FracCoords: frac, AtomicNumbers: numbers}, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.AtomicNumbers)
}

//Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	numbers := make([]int, len(S.AtomicNumbers))
	copy(numbers, S.AtomicNumbers)
	return &Structure{
		Lattice:       mat.DenseCopyOf(S.Lattice),
		FracCoords:    mat.DenseCopyOf(S.FracCoords),
		AtomicNumbers: numbers,
	}
}

//Symbols returns the chemical symbols of all atoms, in atom order.
func (S *Structure) Symbols() []string {
	syms := make([]string, S.Len())
	for i, z := range S.AtomicNumbers {
		syms[i] = SymbolFromZ(z)
	}
	return syms
}

//Frac returns the fractional coordinates of atom i.
//Panics if out of range, as this is a fundamental accessor.
func (S *Structure) Frac(i int) [3]float64 {
	if i < 0 || i >= S.Len() {
		panic(fmt.Sprintf("oxima: atom %d out of range", i))
	}
	return [3]float64{S.FracCoords.At(i, 0), S.FracCoords.At(i, 1), S.FracCoords.At(i, 2)}
}

//Cartesian returns the Cartesian positions of every atom as an Nx3 matrix,
//computed as frac x lattice.
func (S *Structure) Cartesian() *mat.Dense {
	cart := mat.NewDense(S.Len(), 3, nil)
	cart.Mul(S.FracCoords, S.Lattice)
	return cart
}

//refold maps x into [0,1). The result is never negative and never exactly
//1, so downstream consumers can assume the [0,1) domain.
func refold(x float64) float64 {
	r := math.Mod(x, 1.0)
	if r < 0 {
		r++
	}
	if r >= 1.0 { //mod can return 1.0 for tiny negative inputs
		r = 0
	}
	return r
}

//Refolded returns a copy of the structure with every fractional coordinate
//mapped into the principal [0,1) cell.
func (S *Structure) Refolded() *Structure {
	out := S.Copy()
	n := out.Len()
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			out.FracCoords.Set(i, j, refold(out.FracCoords.At(i, j)))
		}
	}
	return out
}

//CartesianRefolded returns the Cartesian positions computed after
//refolding the fractional coordinates into the principal cell, as needed
//for the XSF crystal block.
func (S *Structure) CartesianRefolded() *mat.Dense {
	return S.Refolded().Cartesian()
}

//Volume returns the cell volume in Angstrom^3.
func (S *Structure) Volume() float64 {
	return math.Abs(mat.Det(S.Lattice))
}

//Distance returns the minimum-image Cartesian distance between atoms i and
//j, scanning the 27 neighboring cells. For i == j it returns the distance
//to the closest periodic image of the atom.
func (S *Structure) Distance(i, j int) float64 {
	fi := S.Frac(i)
	fj := S.Frac(j)
	min := math.Inf(1)
	d := make([]float64, 3)
	for a := -1; a <= 1; a++ {
		for b := -1; b <= 1; b++ {
			for c := -1; c <= 1; c++ {
				if i == j && a == 0 && b == 0 && c == 0 {
					continue
				}
				df := []float64{fi[0] - fj[0] + float64(a), fi[1] - fj[1] + float64(b), fi[2] - fj[2] + float64(c)}
				for k := 0; k < 3; k++ {
					d[k] = df[0]*S.Lattice.At(0, k) + df[1]*S.Lattice.At(1, k) + df[2]*S.Lattice.At(2, k)
				}
				r := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
				if r < min {
					min = r
				}
			}
		}
	}
	return min
}

//fracNear reports whether two fractional positions coincide modulo 1
//within tol, componentwise.
func fracNear(a, b [3]float64, tol float64) bool {
	for k := 0; k < 3; k++ {
		d := a[k] - b[k]
		d -= math.Round(d)
		if math.Abs(d) > tol {
			return false
		}
	}
	return true
}
