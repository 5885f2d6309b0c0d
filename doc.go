/*
 * doc.go, part of oxima.
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

//Package oxima implements a pipeline that takes a crystal structure,
//reduces it to its primitive cell, computes per-site chemical features for
//the metal centers, obtains oxidation-state predictions over those features
//and assembles several consistent coordinate and text representations
//(fractional and Cartesian, conventional and primitive, plus an XSF-style
//crystal block) for visualization and display.
//
//The package keeps a strict one-to-one correspondence between atomic
//numbers, chemical symbols and positions across every representation it
//produces. Structures are represented as a 3x3 lattice matrix, an Nx3
//matrix of fractional coordinates and a slice of N atomic numbers, all
//backed by gonum dense matrices.
package oxima
