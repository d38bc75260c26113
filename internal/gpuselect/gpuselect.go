// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpuselect ranks physical devices and picks the one a backend
// creates its logical device on.
//
// Scoring is deterministic: a device missing a mandatory capability scores
// 0 and is never selected; among the rest the highest score wins and ties
// go to the device enumerated first.
package gpuselect

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vireo"
)

// Score bonuses.
const (
	// PreferredTypeBonus is added for a discrete GPU, or for an
	// integrated GPU when low power is preferred.
	PreferredTypeBonus = 1000

	// SecondaryTypeBonus is added for the other hardware GPU type.
	SecondaryTypeBonus = 100
)

// Candidate describes one enumerated physical device.
type Candidate struct {
	Info   gputypes.AdapterInfo
	Limits gputypes.Limits

	// GeometryShader reports geometry shader support or its equivalent.
	GeometryShader bool

	// GraphicsQueue reports a queue able to run graphics work.
	GraphicsQueue bool

	// Extensions lists supported device extensions.
	Extensions []string

	// SwapChain reports that the device can present to the target surface
	// with at least one format and one present mode.
	SwapChain bool
}

// Requirements are the mandatory capabilities of a selectable device.
type Requirements struct {
	// Extensions must all be supported.
	Extensions []string

	// Present requires swap chain support. Headless instances leave it false.
	Present bool

	// PreferLowPower swaps the discrete and integrated bonuses.
	PreferLowPower bool
}

// Missing returns the mandatory capabilities c lacks, empty when c is
// suitable.
func Missing(c Candidate, req Requirements) []string {
	var missing []string
	if !c.GraphicsQueue {
		missing = append(missing, "graphics queue")
	}
	if !c.GeometryShader {
		missing = append(missing, "geometry shader")
	}
	for _, ext := range req.Extensions {
		if !hasExtension(c.Extensions, ext) {
			missing = append(missing, ext)
		}
	}
	if req.Present && !c.SwapChain {
		missing = append(missing, "swap chain support")
	}
	return missing
}

func hasExtension(list []string, name string) bool {
	for _, e := range list {
		if e == name {
			return true
		}
	}
	return false
}

// Score returns the suitability of c: 0 when a mandatory capability is
// missing, otherwise the device type bonus plus the maximum 2D image
// dimension.
func Score(c Candidate, req Requirements) uint32 {
	if len(Missing(c, req)) > 0 {
		return 0
	}
	preferred, secondary := gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU
	if req.PreferLowPower {
		preferred, secondary = secondary, preferred
	}
	score := c.Limits.MaxTextureDimension2D
	switch c.Info.DeviceType {
	case preferred:
		score += PreferredTypeBonus
	case secondary:
		score += SecondaryTypeBonus
	}
	// A zero limit must not disqualify an otherwise suitable device.
	return max(score, 1)
}

// Select returns the index and score of the best candidate. It fails with
// vireo.ErrNoSuitableDevice, listing what each device lacks, when every
// candidate scores 0.
func Select(candidates []Candidate, req Requirements) (int, uint32, error) {
	best, bestScore := -1, uint32(0)
	var reasons []string
	for i, c := range candidates {
		s := Score(c, req)
		vireo.Logger().Debug("vireo: adapter scored",
			"index", i, "name", c.Info.Name, "type", c.Info.DeviceType, "score", s)
		if s == 0 {
			reasons = append(reasons, fmt.Sprintf("%s: missing %s", c.Info.Name, strings.Join(Missing(c, req), ", ")))
			continue
		}
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		if len(candidates) == 0 {
			return -1, 0, fmt.Errorf("%w: no adapters enumerated", vireo.ErrNoSuitableDevice)
		}
		return -1, 0, fmt.Errorf("%w: %s", vireo.ErrNoSuitableDevice, strings.Join(reasons, "; "))
	}
	return best, bestScore, nil
}
