/*
 * primitive.go, part of oxima.
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
	"sort"

	"gonum.org/v1/gonum/mat"
)

//Primitive reduces a structure to its primitive cell by searching for the
//pure translations that map the atom set onto itself. The result is
//deterministic for a given structure and tolerance: the primitive lattice
//vectors are the volume-minimal triple among the found translations (plus
//the original cell vectors), tie-broken by Cartesian length and then
//lexicographically, and the reduced atoms come out refolded into [0,1) and
//sorted by atomic number and position. Applying Primitive to its own
//output returns an identical structure.
func Primitive(s *Structure, tol float64) (*Structure, error) {
	if tol <= 0 {
		tol = symTol
	}
	trans := pureTranslations(s, tol)
	g := len(trans) //includes the zero translation
	if s.Len()%g != 0 {
		return nil, fmt.Errorf("oxima: %d pure translations do not divide %d atoms", g, s.Len())
	}
	t1, t2, t3, err := bestCellTriple(s, trans, g)
	if err != nil {
		return nil, err
	}
	//T expresses the primitive vectors in fractional coordinates of the
	//conventional cell, so L' = T L and f' = f T^-1.
	T := mat.NewDense(3, 3, []float64{
		t1[0], t1[1], t1[2],
		t2[0], t2[1], t2[2],
		t3[0], t3[1], t3[2],
	})
	if mat.Det(T) < 0 { //keep the new lattice right-handed
		T = mat.NewDense(3, 3, []float64{
			t2[0], t2[1], t2[2],
			t1[0], t1[1], t1[2],
			t3[0], t3[1], t3[2],
		})
	}
	newLattice := mat.NewDense(3, 3, nil)
	newLattice.Mul(T, s.Lattice)
	var invT mat.Dense
	if err := invT.Inverse(T); err != nil {
		return nil, fmt.Errorf("oxima: singular cell transform: %w", err)
	}
	newFrac := mat.NewDense(s.Len(), 3, nil)
	newFrac.Mul(s.FracCoords, &invT)

	//Map every atom into the primitive cell and drop the copies that the
	//removed translations generated.
	type patom struct {
		z    int
		frac [3]float64
	}
	var kept []patom
	for i := 0; i < s.Len(); i++ {
		f := [3]float64{refold(newFrac.At(i, 0)), refold(newFrac.At(i, 1)), refold(newFrac.At(i, 2))}
		dup := false
		for _, p := range kept {
			if p.z == s.AtomicNumbers[i] && fracNear(p.frac, f, tol) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, patom{z: s.AtomicNumbers[i], frac: f})
		}
	}
	if want := s.Len() / g; len(kept) != want {
		return nil, fmt.Errorf("oxima: primitive reduction kept %d atoms, expected %d", len(kept), want)
	}
	//rounding to the tolerance grid keeps the comparison transitive, so
	//the final ordering cannot depend on the input order of near-ties
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.z != b.z {
			return a.z < b.z
		}
		for k := 0; k < 3; k++ {
			ra, rb := math.Round(a.frac[k]/tol), math.Round(b.frac[k]/tol)
			if ra != rb {
				return ra < rb
			}
		}
		return false
	})
	frac := mat.NewDense(len(kept), 3, nil)
	numbers := make([]int, len(kept))
	for i, p := range kept {
		frac.Set(i, 0, p.frac[0])
		frac.Set(i, 1, p.frac[1])
		frac.Set(i, 2, p.frac[2])
		numbers[i] = p.z
	}
	return NewStructure(newLattice, frac, numbers)
}

//pureTranslations returns the fractional translations (zero included)
//that map every atom onto an atom of the same element modulo 1, within
//tol. Candidates are taken from the displacement of the least-populous
//element's first atom to its other atoms, which bounds the search.
func pureTranslations(s *Structure, tol float64) [][3]float64 {
	counts := make(map[int]int)
	for _, z := range s.AtomicNumbers {
		counts[z]++
	}
	rare, best := 0, s.Len()+1
	for z, c := range counts {
		if c < best || (c == best && z < rare) {
			rare, best = z, c
		}
	}
	ref := -1
	for i, z := range s.AtomicNumbers {
		if z == rare {
			ref = i
			break
		}
	}
	trans := [][3]float64{{0, 0, 0}}
	fref := s.Frac(ref)
	for i, z := range s.AtomicNumbers {
		if z != rare || i == ref {
			continue
		}
		fi := s.Frac(i)
		t := [3]float64{refold(fi[0] - fref[0]), refold(fi[1] - fref[1]), refold(fi[2] - fref[2])}
		if isPureTranslation(s, t, tol) {
			trans = append(trans, t)
		}
	}
	return trans
}

//isPureTranslation checks that shifting every atom by t lands on an atom
//of the same element modulo 1.
func isPureTranslation(s *Structure, t [3]float64, tol float64) bool {
	n := s.Len()
	for i := 0; i < n; i++ {
		fi := s.Frac(i)
		shifted := [3]float64{fi[0] + t[0], fi[1] + t[1], fi[2] + t[2]}
		found := false
		for j := 0; j < n; j++ {
			if s.AtomicNumbers[j] != s.AtomicNumbers[i] {
				continue
			}
			if fracNear(shifted, s.Frac(j), tol) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

//bestCellTriple picks the primitive cell vectors: the triple with minimal
//fractional volume 1/g, chosen among the pure translations plus the unit
//vectors, preferring short Cartesian vectors and breaking the remaining
//ties lexicographically so the choice is deterministic.
func bestCellTriple(s *Structure, trans [][3]float64, g int) (t1, t2, t3 [3]float64, err error) {
	cands := make([][3]float64, 0, len(trans)+2)
	cands = append(cands, [3]float64{1, 0, 0}, [3]float64{0, 1, 0}, [3]float64{0, 0, 1})
	for _, t := range trans {
		if t[0] == 0 && t[1] == 0 && t[2] == 0 {
			continue
		}
		cands = append(cands, t)
	}
	target := 1.0 / float64(g)
	//translations extracted from noisy coordinates carry up to tol of
	//error per component, which propagates into the determinant
	voltol := math.Max(target*1e-4, 3*symTol)
	found := false
	var bestNorm float64
	var best [3][3]float64
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			for k := j + 1; k < len(cands); k++ {
				v := math.Abs(det3(cands[i], cands[j], cands[k]))
				if math.Abs(v-target) > voltol {
					continue
				}
				norm := cartNorm(s, cands[i]) + cartNorm(s, cands[j]) + cartNorm(s, cands[k])
				triple := [3][3]float64{cands[i], cands[j], cands[k]}
				if !found || norm < bestNorm-appzero ||
					(math.Abs(norm-bestNorm) <= appzero && lessTriple(triple, best)) {
					found = true
					bestNorm = norm
					best = triple
				}
			}
		}
	}
	if !found {
		return t1, t2, t3, fmt.Errorf("oxima: no cell triple with volume 1/%d found", g)
	}
	return best[0], best[1], best[2], nil
}

func det3(a, b, c [3]float64) float64 {
	return a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0])
}

//cartNorm returns the Cartesian length of a fractional vector.
func cartNorm(s *Structure, t [3]float64) float64 {
	var d [3]float64
	for k := 0; k < 3; k++ {
		d[k] = t[0]*s.Lattice.At(0, k) + t[1]*s.Lattice.At(1, k) + t[2]*s.Lattice.At(2, k)
	}
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

func lessTriple(a, b [3][3]float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if a[i][j] != b[i][j] {
				return a[i][j] < b[i][j]
			}
		}
	}
	return false
}
