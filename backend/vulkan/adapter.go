//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/gpuselect"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// apiRequirement is listed as a device capability when the device supports
// Vulkan 1.3, which dynamic rendering and synchronization rely on.
const apiRequirement = "Vulkan 1.3"

const swapchainExtension = "VK_KHR_swapchain"

// PhysicalDevice is the selected Vulkan physical device.
type PhysicalDevice struct {
	handle   vk.PhysicalDevice
	props    vk.PhysicalDeviceProperties
	features vk.PhysicalDeviceFeatures
	families []vk.QueueFamilyProperties
	info     gputypes.AdapterInfo
	limits   gputypes.Limits
	score    uint32
}

func (p *PhysicalDevice) Info() gputypes.AdapterInfo { return p.info }
func (p *PhysicalDevice) Limits() gputypes.Limits    { return p.limits }
func (p *PhysicalDevice) Score() uint32              { return p.score }

// selectPhysicalDevice enumerates the devices of inst and returns the
// best scoring one.
func selectPhysicalDevice(inst *Instance, preferLowPower bool) (*PhysicalDevice, error) {
	var count uint32
	if r := inst.cmds.EnumeratePhysicalDevices(inst.handle, &count, nil); r != vk.Success {
		return nil, resultError("vkEnumeratePhysicalDevices", r)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no Vulkan devices", vireo.ErrNoSuitableDevice)
	}
	handles := make([]vk.PhysicalDevice, count)
	inst.cmds.EnumeratePhysicalDevices(inst.handle, &count, &handles[0])

	devices := make([]*PhysicalDevice, 0, count)
	candidates := make([]gpuselect.Candidate, 0, count)
	for _, h := range handles[:count] {
		d, c := inst.describe(h)
		devices = append(devices, d)
		candidates = append(candidates, c)
	}

	req := gpuselect.Requirements{
		Extensions:     []string{apiRequirement},
		Present:        inst.surface != 0,
		PreferLowPower: preferLowPower,
	}
	if inst.surface != 0 {
		req.Extensions = append(req.Extensions, swapchainExtension)
	}
	idx, score, err := gpuselect.Select(candidates, req)
	if err != nil {
		return nil, err
	}
	d := devices[idx]
	d.score = score
	vireo.Logger().Info("vulkan: device selected",
		"name", d.info.Name,
		"type", d.info.DeviceType,
		"vendor", d.info.Vendor,
		"api", versionString(d.props.ApiVersion),
		"score", score,
	)
	return d, nil
}

// describe queries one physical device.
func (i *Instance) describe(h vk.PhysicalDevice) (*PhysicalDevice, gpuselect.Candidate) {
	d := &PhysicalDevice{handle: h}
	i.cmds.GetPhysicalDeviceProperties(h, &d.props)
	i.cmds.GetPhysicalDeviceFeatures(h, &d.features)

	var n uint32
	i.cmds.GetPhysicalDeviceQueueFamilyProperties(h, &n, nil)
	if n > 0 {
		d.families = make([]vk.QueueFamilyProperties, n)
		i.cmds.GetPhysicalDeviceQueueFamilyProperties(h, &n, &d.families[0])
	}

	d.info = gputypes.AdapterInfo{
		Name:       cStringToGo(d.props.DeviceName[:]),
		Vendor:     vendorName(d.props.VendorID),
		VendorID:   d.props.VendorID,
		DeviceID:   d.props.DeviceID,
		DeviceType: deviceType(d.props.DeviceType),
		Driver:     "Vulkan",
		DriverInfo: "Vulkan " + versionString(d.props.ApiVersion),
		Backend:    gputypes.BackendVulkan,
	}
	d.limits = limitsFromProps(&d.props)

	c := gpuselect.Candidate{
		Info:           d.info,
		Limits:         d.limits,
		GeometryShader: d.features.GeometryShader != 0,
		Extensions:     i.deviceExtensions(h),
	}
	if d.props.ApiVersion >= vkMakeVersion(1, 3, 0) {
		c.Extensions = append(c.Extensions, apiRequirement)
	}
	for _, f := range d.families {
		if f.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			c.GraphicsQueue = true
		}
	}
	if i.surface != 0 {
		c.SwapChain = i.canPresent(d)
	}
	return d, c
}

func (i *Instance) deviceExtensions(h vk.PhysicalDevice) []string {
	var n uint32
	i.cmds.EnumerateDeviceExtensionProperties(h, 0, &n, nil)
	if n == 0 {
		return nil
	}
	props := make([]vk.ExtensionProperties, n)
	i.cmds.EnumerateDeviceExtensionProperties(h, 0, &n, &props[0])
	out := make([]string, 0, n)
	for k := range props[:n] {
		out = append(out, cStringToGo(props[k].ExtensionName[:]))
	}
	return out
}

// supportsPresent reports whether queue family f of d can present to the
// instance surface.
func (i *Instance) supportsPresent(d *PhysicalDevice, f uint32) bool {
	if i.surface == 0 {
		return false
	}
	var ok vk.Bool32
	i.cmds.GetPhysicalDeviceSurfaceSupportKHR(d.handle, f, i.surface, &ok)
	return ok != 0
}

// canPresent reports whether d can build a swap chain for the instance
// surface: a family presents to it and it reports at least one format
// and one present mode.
func (i *Instance) canPresent(d *PhysicalDevice) bool {
	present := false
	for f := range d.families {
		if i.supportsPresent(d, uint32(f)) {
			present = true
			break
		}
	}
	if !present {
		return false
	}
	var formats, modes uint32
	i.cmds.GetPhysicalDeviceSurfaceFormatsKHR(d.handle, i.surface, &formats, nil)
	i.cmds.GetPhysicalDeviceSurfacePresentModesKHR(d.handle, i.surface, &modes, nil)
	return formats > 0 && modes > 0
}

// queueFamilies holds the family index serving each kind of work.
type queueFamilies struct {
	graphics uint32
	compute  uint32
	transfer uint32
	present  uint32
}

// forType returns the family of a command type.
func (q queueFamilies) forType(t vireo.CommandType) uint32 {
	switch t {
	case vireo.CommandTypeCompute:
		return q.compute
	case vireo.CommandTypeTransfer:
		return q.transfer
	default:
		return q.graphics
	}
}

// unique returns the distinct family indices in ascending order.
func (q queueFamilies) unique() []uint32 {
	seen := map[uint32]bool{}
	var out []uint32
	for _, f := range []uint32{q.graphics, q.compute, q.transfer, q.present} {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// pickQueueFamilies selects distinct graphics, compute, transfer and
// present families where the device offers them, falling back to the
// graphics family. canPresent is nil for headless devices, whose present
// family is the graphics family.
func pickQueueFamilies(flags []vk.QueueFlags, canPresent func(uint32) bool) (queueFamilies, error) {
	has := func(f vk.QueueFlags, bit vk.QueueFlagBits) bool { return f&vk.QueueFlags(bit) != 0 }

	graphics := -1
	for i, f := range flags {
		if !has(f, vk.QueueGraphicsBit) {
			continue
		}
		if graphics < 0 {
			graphics = i
		}
		if canPresent != nil && canPresent(uint32(i)) {
			graphics = i
			break
		}
	}
	if graphics < 0 {
		return queueFamilies{}, fmt.Errorf("%w: no graphics queue family", vireo.ErrNoSuitableDevice)
	}
	q := queueFamilies{
		graphics: uint32(graphics),
		compute:  uint32(graphics),
		transfer: uint32(graphics),
		present:  uint32(graphics),
	}

	for i, f := range flags {
		if has(f, vk.QueueComputeBit) && !has(f, vk.QueueGraphicsBit) {
			q.compute = uint32(i)
			break
		}
	}
	transfer := -1
	for i, f := range flags {
		if has(f, vk.QueueTransferBit) && !has(f, vk.QueueGraphicsBit) && !has(f, vk.QueueComputeBit) {
			transfer = i
			break
		}
	}
	switch {
	case transfer >= 0:
		q.transfer = uint32(transfer)
	case q.compute != q.graphics:
		q.transfer = q.compute
	}

	if canPresent != nil && !canPresent(q.graphics) {
		found := false
		for i := range flags {
			if canPresent(uint32(i)) {
				q.present = uint32(i)
				found = true
				break
			}
		}
		if !found {
			return queueFamilies{}, fmt.Errorf("%w: no queue family presents to the surface", vireo.ErrNoSuitableDevice)
		}
	}
	return q, nil
}

func deviceType(t vk.PhysicalDeviceType) gputypes.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return gputypes.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return gputypes.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return gputypes.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}

func vendorName(id uint32) string {
	switch id {
	case 0x1002:
		return "AMD"
	case 0x10DE:
		return "NVIDIA"
	case 0x8086:
		return "Intel"
	case 0x13B5:
		return "ARM"
	case 0x5143:
		return "Qualcomm"
	case 0x1010:
		return "ImgTec"
	default:
		return fmt.Sprintf("0x%04X", id)
	}
}

func limitsFromProps(props *vk.PhysicalDeviceProperties) gputypes.Limits {
	l := props.Limits
	out := gputypes.DefaultLimits()
	out.MaxTextureDimension1D = l.MaxImageDimension1D
	out.MaxTextureDimension2D = l.MaxImageDimension2D
	out.MaxTextureDimension3D = l.MaxImageDimension3D
	out.MaxTextureArrayLayers = l.MaxImageArrayLayers
	out.MaxBindGroups = l.MaxBoundDescriptorSets
	out.MaxSampledTexturesPerShaderStage = l.MaxPerStageDescriptorSampledImages
	out.MaxSamplersPerShaderStage = l.MaxPerStageDescriptorSamplers
	out.MaxStorageBuffersPerShaderStage = l.MaxPerStageDescriptorStorageBuffers
	out.MaxStorageTexturesPerShaderStage = l.MaxPerStageDescriptorStorageImages
	out.MaxUniformBuffersPerShaderStage = l.MaxPerStageDescriptorUniformBuffers
	out.MaxUniformBufferBindingSize = uint64(l.MaxUniformBufferRange)
	out.MaxStorageBufferBindingSize = uint64(l.MaxStorageBufferRange)
	out.MinUniformBufferOffsetAlignment = uint32(l.MinUniformBufferOffsetAlignment)
	out.MinStorageBufferOffsetAlignment = uint32(l.MinStorageBufferOffsetAlignment)
	out.MaxVertexAttributes = l.MaxVertexInputAttributes
	out.MaxVertexBufferArrayStride = l.MaxVertexInputBindingStride
	out.MaxColorAttachments = l.MaxColorAttachments
	out.MaxComputeWorkgroupStorageSize = l.MaxComputeSharedMemorySize
	out.MaxComputeInvocationsPerWorkgroup = l.MaxComputeWorkGroupInvocations
	out.MaxComputeWorkgroupSizeX = l.MaxComputeWorkGroupSize[0]
	out.MaxComputeWorkgroupSizeY = l.MaxComputeWorkGroupSize[1]
	out.MaxComputeWorkgroupSizeZ = l.MaxComputeWorkGroupSize[2]
	out.MaxComputeWorkgroupsPerDimension = l.MaxComputeWorkGroupCount[0]
	out.MaxPushConstantSize = l.MaxPushConstantsSize
	return out
}
