/*
 * atomicdata.go, part of oxima.
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

import "strings"

//chemicalSymbols maps atomic numbers to element symbols. Index 0 is the
//dummy element "X".
var chemicalSymbols = [119]string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var symbol2Z = make(map[string]int, len(chemicalSymbols))

func init() {
	for z, sym := range chemicalSymbols {
		if z == 0 {
			continue
		}
		symbol2Z[sym] = z
	}
}

//SymbolFromZ returns the chemical symbol for the atomic number z, or the
//empty string if z is out of range.
func SymbolFromZ(z int) string {
	if z < 1 || z >= len(chemicalSymbols) {
		return ""
	}
	return chemicalSymbols[z]
}

//ZFromSymbol returns the atomic number for the given chemical symbol, or 0
//if the symbol is not recognized. The symbol may carry trailing digits or
//charge annotations, as found in CIF site labels ("Fe2+", "O1").
func ZFromSymbol(sym string) int {
	return symbol2Z[normalizeSymbol(sym)]
}

//normalizeSymbol strips ordinal and charge annotations from a site label
//("Fe2+", "O1", "ZN" -> "Fe", "O", "Zn") leaving at most two letters with
//canonical capitalization.
func normalizeSymbol(sym string) string {
	letters := make([]rune, 0, 2)
	for _, r := range sym {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters = append(letters, r)
			if len(letters) == 2 {
				break
			}
		} else {
			break //a digit or charge sign ends the element part
		}
	}
	if len(letters) == 0 {
		return ""
	}
	s := strings.ToUpper(string(letters[0]))
	if len(letters) == 2 {
		two := s + strings.ToLower(string(letters[1]))
		if _, ok := symbol2Z[two]; ok {
			return two
		}
	}
	return s
}

//period boundaries of the periodic table, by atomic number.
var periodEnds = [7]int{2, 10, 18, 36, 54, 86, 118}

//PeriodicRow returns the period (row of the periodic table) of atomic
//number z. Returns 0 for out-of-range input.
func PeriodicRow(z int) int {
	if z < 1 || z > 118 {
		return 0
	}
	for i, end := range periodEnds {
		if z <= end {
			return i + 1
		}
	}
	return 0
}

//PeriodicColumn returns the group (column of the periodic table, 1-18) of
//atomic number z. Lanthanides and actinides are reported as group 3.
func PeriodicColumn(z int) int {
	switch {
	case z < 1 || z > 118:
		return 0
	case z == 1:
		return 1
	case z == 2:
		return 18
	case z <= 18: //periods 2 and 3
		start := 2
		if z > 10 {
			start = 10
		}
		o := z - start
		if o <= 2 {
			return o
		}
		return o + 10
	case z <= 54: //periods 4 and 5
		start := 18
		if z > 36 {
			start = 36
		}
		return z - start
	case z <= 86: //period 6
		if z >= 57 && z <= 71 {
			return 3 //lanthanides
		}
		o := z - 54
		if o <= 2 {
			return o
		}
		return z - 68
	default: //period 7
		if z >= 89 && z <= 103 {
			return 3 //actinides
		}
		o := z - 86
		if o <= 2 {
			return o
		}
		return z - 100
	}
}

//ValenceElectrons returns the number of valence (s+p or s+d) electrons of
//atomic number z, in the simple counting used for the metal-center
//features. f-block elements count 3.
func ValenceElectrons(z int) int {
	col := PeriodicColumn(z)
	if col == 0 {
		return 0
	}
	if (z >= 57 && z <= 71) || (z >= 89 && z <= 103) {
		return 3
	}
	if col > 12 {
		return col - 10
	}
	return col
}

//nonMetals are the atomic numbers that never count as a metal site.
//Metalloids that behave as covalent network formers (B, Si, As, Te...) are
//included here, everything else is treated as a metal.
var nonMetals = map[int]bool{
	1: true, 2: true, //H, He
	5: true, 6: true, 7: true, 8: true, 9: true, 10: true, //B-Ne
	14: true, 15: true, 16: true, 17: true, 18: true, //Si-Ar
	33: true, 34: true, 35: true, 36: true, //As-Kr
	52: true, 53: true, 54: true, //Te-Xe
	85: true, 86: true, //At, Rn
	118: true, //Og
}

//IsMetal reports whether atomic number z is treated as a metal site
//candidate for featurization.
func IsMetal(z int) bool {
	if z < 1 || z > 118 {
		return false
	}
	return !nonMetals[z]
}

//symbolElectronegativity contains Pauling electronegativities. Elements
//missing from the table get the neutral placeholder 1.60 (roughly the mean
//over the metals present).
var symbolElectronegativity = map[string]float64{
	"H": 2.20, "Li": 0.98, "Be": 1.57, "B": 2.04, "C": 2.55, "N": 3.04,
	"O": 3.44, "F": 3.98, "Na": 0.93, "Mg": 1.31, "Al": 1.61, "Si": 1.90,
	"P": 2.19, "S": 2.58, "Cl": 3.16, "K": 0.82, "Ca": 1.00, "Sc": 1.36,
	"Ti": 1.54, "V": 1.63, "Cr": 1.66, "Mn": 1.55, "Fe": 1.83, "Co": 1.88,
	"Ni": 1.91, "Cu": 1.90, "Zn": 1.65, "Ga": 1.81, "Ge": 2.01, "As": 2.18,
	"Se": 2.55, "Br": 2.96, "Rb": 0.82, "Sr": 0.95, "Y": 1.22, "Zr": 1.33,
	"Nb": 1.60, "Mo": 2.16, "Tc": 1.90, "Ru": 2.20, "Rh": 2.28, "Pd": 2.20,
	"Ag": 1.93, "Cd": 1.69, "In": 1.78, "Sn": 1.96, "Sb": 2.05, "Te": 2.10,
	"I": 2.66, "Cs": 0.79, "Ba": 0.89, "La": 1.10, "Ce": 1.12, "Pr": 1.13,
	"Nd": 1.14, "Sm": 1.17, "Eu": 1.20, "Gd": 1.20, "Tb": 1.20, "Dy": 1.22,
	"Ho": 1.23, "Er": 1.24, "Tm": 1.25, "Yb": 1.10, "Lu": 1.27, "Hf": 1.30,
	"Ta": 1.50, "W": 2.36, "Re": 1.90, "Os": 2.20, "Ir": 2.20, "Pt": 2.28,
	"Au": 2.54, "Hg": 2.00, "Tl": 1.62, "Pb": 2.33, "Bi": 2.02, "Th": 1.30,
	"U": 1.38,
}

//Electronegativity returns the Pauling electronegativity for atomic number
//z, with a neutral placeholder for elements not in the table.
func Electronegativity(z int) float64 {
	if en, ok := symbolElectronegativity[SymbolFromZ(z)]; ok {
		return en
	}
	return 1.60
}

//symbolCovrad assigns covalent radii (in Angstrom) to elements.
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J).
var symbolCovrad = map[string]float64{
	"H": 0.31, "He": 0.28, "Li": 1.28, "Be": 0.96, "B": 0.84, "C": 0.76,
	"N": 0.71, "O": 0.66, "F": 0.57, "Ne": 0.58, "Na": 1.66, "Mg": 1.41,
	"Al": 1.21, "Si": 1.11, "P": 1.07, "S": 1.05, "Cl": 1.02, "Ar": 1.06,
	"K": 2.03, "Ca": 1.76, "Sc": 1.70, "Ti": 1.60, "V": 1.53, "Cr": 1.39,
	"Mn": 1.61, "Fe": 1.52, "Co": 1.50, "Ni": 1.24, "Cu": 1.32, "Zn": 1.22,
	"Ga": 1.22, "Ge": 1.20, "As": 1.19, "Se": 1.20, "Br": 1.20, "Kr": 1.16,
	"Rb": 2.20, "Sr": 1.95, "Y": 1.90, "Zr": 1.75, "Nb": 1.64, "Mo": 1.54,
	"Tc": 1.47, "Ru": 1.46, "Rh": 1.42, "Pd": 1.39, "Ag": 1.45, "Cd": 1.44,
	"In": 1.42, "Sn": 1.39, "Sb": 1.39, "Te": 1.38, "I": 1.39, "Xe": 1.40,
	"Cs": 2.44, "Ba": 2.15, "La": 2.07, "Ce": 2.04, "Pr": 2.03, "Nd": 2.01,
	"Sm": 1.98, "Eu": 1.98, "Gd": 1.96, "Tb": 1.94, "Dy": 1.92, "Ho": 1.92,
	"Er": 1.89, "Tm": 1.90, "Yb": 1.87, "Lu": 1.87, "Hf": 1.75, "Ta": 1.70,
	"W": 1.62, "Re": 1.51, "Os": 1.44, "Ir": 1.41, "Pt": 1.36, "Au": 1.36,
	"Hg": 1.32, "Tl": 1.45, "Pb": 1.46, "Bi": 1.48, "Th": 2.06, "U": 1.96,
}

//CovalentRadius returns the covalent radius in Angstrom for atomic number
//z, with a generic 1.50 A fallback for elements not in the table.
func CovalentRadius(z int) float64 {
	if r, ok := symbolCovrad[SymbolFromZ(z)]; ok {
		return r
	}
	return 1.50
}
