/*
 * views.go, part of oxima.
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

import "gonum.org/v1/gonum/mat"

//AtomRow is one labeled atomic position in some coordinate system. The
//label is the chemical symbol of the atom; rows are always produced in
//the same order as the atoms of the structure they were derived from.
type AtomRow struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

//CellRow is one lattice vector, with its 1-based index.
type CellRow struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

//Views collects every coordinate representation derived from an input
//structure and its primitive reduction: fractional and Cartesian atom
//tables for both cells, the refolded primitive Cartesian positions used
//by the XSF block, and the lattice vectors of both cells. All atom
//tables of a given cell share the same atom ordering, so the i-th row
//of each refers to the same atom.
type Views struct {
	ConvFrac []AtomRow `json:"conv_frac"`
	ConvCart []AtomRow `json:"conv_cart"`
	PrimFrac []AtomRow `json:"prim_frac"`
	PrimCart []AtomRow `json:"prim_cart"`
	//PrimCartRefolded maps every primitive atom into the principal
	//cell before the lattice product, so each row lies inside the
	//unit cell.
	PrimCartRefolded []AtomRow `json:"prim_cart_refolded"`
	ConvCell         []CellRow `json:"conv_cell"`
	PrimCell         []CellRow `json:"prim_cell"`
}

//atomRows zips the chemical symbols of s with the rows of the given
//coordinate matrix, preserving atom order.
func atomRows(s *Structure, coords *mat.Dense) []AtomRow {
	n := s.Len()
	rows := make([]AtomRow, n)
	for i := 0; i < n; i++ {
		rows[i] = AtomRow{
			Label: SymbolFromZ(s.AtomicNumbers[i]),
			X:     coords.At(i, 0),
			Y:     coords.At(i, 1),
			Z:     coords.At(i, 2),
		}
	}
	return rows
}

//cellRows returns the rows of a 3x3 lattice as 1-indexed vectors.
func cellRows(lattice *mat.Dense) []CellRow {
	rows := make([]CellRow, 3)
	for i := 0; i < 3; i++ {
		rows[i] = CellRow{
			Index: i + 1,
			X:     lattice.At(i, 0),
			Y:     lattice.At(i, 1),
			Z:     lattice.At(i, 2),
		}
	}
	return rows
}

//BuildViews derives every coordinate view of the given conventional
//structure and its primitive reduction. The input structures are read
//but never modified.
func BuildViews(conv, prim *Structure) *Views {
	return &Views{
		ConvFrac:         atomRows(conv, conv.FracCoords),
		ConvCart:         atomRows(conv, conv.Cartesian()),
		PrimFrac:         atomRows(prim, prim.FracCoords),
		PrimCart:         atomRows(prim, prim.Cartesian()),
		PrimCartRefolded: atomRows(prim, prim.CartesianRefolded()),
		ConvCell:         cellRows(conv.Lattice),
		PrimCell:         cellRows(prim.Lattice),
	}
}
