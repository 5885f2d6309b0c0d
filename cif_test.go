/*
 * cif_test.go, part of oxima.
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
	"math"
	"strings"
	"testing"
)

const bccFeCIF = `data_Fe
# body-centered iron, conventional cell via symmetry
_cell_length_a 2.8665(2)
_cell_length_b 2.8665(2)
_cell_length_c 2.8665(2)
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_symmetry_equiv_pos_as_xyz
'x, y, z'
'1/2+x, 1/2+y, 1/2+z'
loop_
_atom_site_label
_atom_site_type_symbol
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
_atom_site_occupancy
Fe1 Fe 0.0 0.0 0.0 1.0
`

func TestReadCIF(Te *testing.T) {
	s, err := Read(bccFeCIF, "cif")
	if err != nil {
		Te.Fatal(err)
	}
	if s.Len() != 2 {
		Te.Fatalf("got %d atoms after symmetry expansion, want 2", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		if s.AtomicNumbers[i] != 26 {
			Te.Errorf("atom %d has Z=%d, want 26", i, s.AtomicNumbers[i])
		}
	}
	if math.Abs(s.Lattice.At(0, 0)-2.8665) > 1e-6 {
		Te.Errorf("got a=%f, want 2.8665 (uncertainty suffix dropped)", s.Lattice.At(0, 0))
	}
	//the center atom comes from the 1/2+x operator
	found := false
	for i := 0; i < s.Len(); i++ {
		if fracNear(s.Frac(i), [3]float64{0.5, 0.5, 0.5}, symTol) {
			found = true
		}
	}
	if !found {
		Te.Error("symmetry expansion did not generate the body-centered atom")
	}
}

func TestReadCIFCharged(Te *testing.T) {
	content := `data_FeO
_cell_length_a 4.3
_cell_length_b 4.3
_cell_length_c 4.3
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_atom_site_label
_atom_site_type_symbol
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 Fe2+ 0.0 0.0 0.0
O1 O2- 0.5 0.5 0.5
`
	s, err := Read(content, "cif")
	if err != nil {
		Te.Fatal(err)
	}
	if s.Len() != 2 || s.AtomicNumbers[0] != 26 || s.AtomicNumbers[1] != 8 {
		Te.Errorf("charged species parsed wrong: %v", s.AtomicNumbers)
	}
}

func TestReadUnknownFormat(Te *testing.T) {
	_, err := Read("whatever", "xyz")
	if err == nil {
		Te.Fatal("expected an error for an unregistered format")
	}
	var uf *UnknownFormatError
	if !errors.As(err, &uf) {
		Te.Fatalf("got %T, want *UnknownFormatError", err)
	}
	if uf.Format != "xyz" {
		Te.Errorf("error carries format %q, want \"xyz\"", uf.Format)
	}
}

func TestReadCIFMissingCell(Te *testing.T) {
	content := `data_broken
_cell_length_a 4.3
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 0.0 0.0 0.0
`
	if _, err := Read(content, "cif"); err == nil {
		Te.Error("expected an error for missing cell parameters")
	}
}

func TestReadCIFTruncatedLoop(Te *testing.T) {
	//the last data line stops mid-row; dropping the atom silently
	//would corrupt the structure, so this must fail
	content := `data_broken
_cell_length_a 4.3
_cell_length_b 4.3
_cell_length_c 4.3
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Fe1 0.0 0.0 0.0
Fe2 0.5 0.5
`
	_, err := Read(content, "cif")
	if err == nil {
		Te.Fatal("expected an error for a truncated atom_site loop")
	}
	if !strings.Contains(err.Error(), "truncated") {
		Te.Errorf("unexpected error for truncated loop: %v", err)
	}
}

func TestParseSymOp(Te *testing.T) {
	rot, trans, err := parseSymOp("-x,1/2+y,-z")
	if err != nil {
		Te.Fatal(err)
	}
	if rot[0][0] != -1 || rot[1][1] != 1 || rot[2][2] != -1 {
		Te.Errorf("bad rotation: %v", rot)
	}
	if math.Abs(trans[1]-0.5) > appzero || trans[0] != 0 || trans[2] != 0 {
		Te.Errorf("bad translation: %v", trans)
	}
	if _, _, err := parseSymOp("x,y"); err == nil {
		Te.Error("expected an error for a 2-component operator")
	}
}

func TestLatticeFromParams(Te *testing.T) {
	//hexagonal cell: gamma=120 puts b off-axis
	lat := latticeFromParams(3, 3, 5, 90, 90, 120)
	if math.Abs(lat.At(1, 0)+1.5) > 1e-9 || math.Abs(lat.At(1, 1)-3*math.Sin(2*math.Pi/3)) > 1e-9 {
		Te.Errorf("hexagonal b vector wrong: (%f, %f)", lat.At(1, 0), lat.At(1, 1))
	}
	if math.Abs(lat.At(2, 2)-5) > 1e-9 {
		Te.Errorf("c vector should stay on z for orthogonal angles, got %f", lat.At(2, 2))
	}
}
