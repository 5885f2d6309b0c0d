/*
 * errors.go, part of oxima.
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

import "fmt"

//Error is the interface implemented by every typed error in the package.
//The Decorate method adds information to the error as it goes up the call
//stack without changing its type. If passed an empty string it just
//returns the current decoration slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

//UnknownFormatError means the declared structure format is not in the
//closed set of supported formats.
type UnknownFormatError struct {
	Format string
	deco   []string
}

func (err *UnknownFormatError) Error() string {
	return fmt.Sprintf("oxima: unknown structure format %q", err.Format)
}

func (err *UnknownFormatError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//OverlapError means two atoms of the structure sit closer than the overlap
//tolerance, counting periodic images. I and J are the offending atom
//indexes and Distance their minimum-image Cartesian distance.
type OverlapError struct {
	I, J     int
	Distance float64
	deco     []string
}

func (err *OverlapError) Error() string {
	return fmt.Sprintf("oxima: atoms %d and %d overlap (distance %.4f A)", err.I, err.J, err.Distance)
}

func (err *OverlapError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//LargeStructureError means the structure has more atoms than the
//configured ceiling.
type LargeStructureError struct {
	Atoms int
	Limit int
	deco  []string
}

func (err *LargeStructureError) Error() string {
	return fmt.Sprintf("oxima: structure has %d atoms, the limit is %d", err.Atoms, err.Limit)
}

func (err *LargeStructureError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FeaturizationError means the featurization collaborator failed on an
//otherwise valid structure.
type FeaturizationError struct {
	Reason error
	deco   []string
}

func (err *FeaturizationError) Error() string {
	return fmt.Sprintf("oxima: featurization failed: %v", err.Reason)
}

func (err *FeaturizationError) Unwrap() error { return err.Reason }

func (err *FeaturizationError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//PredictionError means the prediction or explanation collaborator failed
//after a successful featurization. Stage is either "predict" or "explain".
type PredictionError struct {
	Stage  string
	Reason error
	deco   []string
}

func (err *PredictionError) Error() string {
	return fmt.Sprintf("oxima: %s stage failed: %v", err.Stage, err.Reason)
}

func (err *PredictionError) Unwrap() error { return err.Reason }

func (err *PredictionError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//PrecomputedLoadError means a precomputed structure or result payload
//could not be located or deserialized.
type PrecomputedLoadError struct {
	Name   string
	Reason error
	deco   []string
}

func (err *PrecomputedLoadError) Error() string {
	return fmt.Sprintf("oxima: can't load precomputed record %q: %v", err.Name, err.Reason)
}

func (err *PrecomputedLoadError) Unwrap() error { return err.Reason }

func (err *PrecomputedLoadError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
