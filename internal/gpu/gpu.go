// Package gpu enumerates compute devices through WebGPU adapters.
package gpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoLibrary is returned when the native WebGPU library cannot create an instance.
	ErrNoLibrary = errors.New("gpu: WebGPU library not found")
	// ErrNoAdapter is returned when no adapter is enumerated or answers a request.
	ErrNoAdapter = errors.New("gpu: no adapter available")
)

// Adapter types.
const (
	TypeDiscrete   = "DiscreteGPU"
	TypeIntegrated = "IntegratedGPU"
	TypeCPU        = "CPU"
	TypeUnknown    = "Unknown"
)

// Device is one enumerated adapter. Use marks it enabled for rendering.
type Device struct {
	Name     string
	Vendor   string
	Backend  string
	Type     string
	VendorID uint32
	DeviceID uint32
	Use      bool
}

// IsGPU reports whether d is a named hardware adapter rather than a software one.
func (d Device) IsGPU() bool {
	return d.Name != "" && d.Type != TypeCPU
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s, %s, use=%t)", d.Name, d.Backend, d.Type, d.Use)
}

// Lister enumerates devices.
type Lister interface {
	Devices(ctx context.Context) ([]Device, error)
}

// WebGPU lists adapters through the native wgpu library.
type WebGPU struct{}

// Devices enumerates every adapter the instance exposes. When enumeration comes
// back empty it falls back to requesting a high-performance adapter and then a
// default one. Each distinct adapter is returned once.
func (WebGPU) Devices(ctx context.Context) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	instance, err := newInstance()
	if err != nil {
		return nil, err
	}
	defer instance.Release()

	var out []Device
	for _, a := range instance.EnumerateAdapters(nil) {
		out = appendUnique(out, fromInfo(a.GetInfo()))
		a.Release()
	}
	if len(out) > 0 {
		return out, nil
	}

	requests := []*wgpu.RequestAdapterOptions{
		{PowerPreference: wgpu.PowerPreferenceHighPerformance},
		{},
	}
	for _, opts := range requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		adapter, err := instance.RequestAdapter(opts)
		if err != nil {
			slog.Debug("gpu: adapter request failed", "power", opts.PowerPreference.String(), "err", err)
			continue
		}
		out = appendUnique(out, fromInfo(adapter.GetInfo()))
		adapter.Release()
	}
	if len(out) == 0 {
		return nil, ErrNoAdapter
	}
	return out, nil
}

// newInstance creates a wgpu instance. The binding panics when the native
// library cannot create one; that is reported as ErrNoLibrary.
func newInstance() (inst *wgpu.Instance, err error) {
	defer func() {
		if p := recover(); p != nil {
			inst, err = nil, fmt.Errorf("%w: %v", ErrNoLibrary, p)
		}
	}()
	return wgpu.CreateInstance(nil), nil
}

// fromInfo converts adapter info. Adapters without a device name use the driver
// description.
func fromInfo(info wgpu.AdapterInfo) Device {
	name := info.Name
	if name == "" {
		name = info.DriverDescription
	}
	return Device{
		Name:     name,
		Vendor:   info.VendorName,
		Backend:  backendName(info.BackendType),
		Type:     adapterTypeName(info.AdapterType),
		VendorID: info.VendorId,
		DeviceID: info.DeviceId,
	}
}

// appendUnique adds d unless an adapter with the same identity is already listed.
func appendUnique(devs []Device, d Device) []Device {
	for _, x := range devs {
		if x.Name == d.Name && x.VendorID == d.VendorID && x.DeviceID == d.DeviceID && x.Backend == d.Backend {
			return devs
		}
	}
	return append(devs, d)
}

// Select enables every device for rendering and returns the enabled list.
func Select(devs []Device) []Device {
	out := make([]Device, len(devs))
	for i, d := range devs {
		d.Use = true
		out[i] = d
	}
	return out
}

// GPUs filters devs down to hardware adapters.
func GPUs(devs []Device) []Device {
	var out []Device
	for _, d := range devs {
		if d.IsGPU() {
			out = append(out, d)
		}
	}
	return out
}

// Names returns device names in order.
func Names(devs []Device) []string {
	out := make([]string, len(devs))
	for i, d := range devs {
		out[i] = d.Name
	}
	return out
}

func backendName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "Null"
	case wgpu.BackendTypeWebGPU:
		return "WebGPU"
	case wgpu.BackendTypeD3D11:
		return "D3D11"
	case wgpu.BackendTypeD3D12:
		return "D3D12"
	case wgpu.BackendTypeMetal:
		return "Metal"
	case wgpu.BackendTypeVulkan:
		return "Vulkan"
	case wgpu.BackendTypeOpenGL:
		return "OpenGL"
	case wgpu.BackendTypeOpenGLES:
		return "OpenGLES"
	default:
		return "Unknown"
	}
}

func adapterTypeName(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return TypeDiscrete
	case wgpu.AdapterTypeIntegratedGPU:
		return TypeIntegrated
	case wgpu.AdapterTypeCPU:
		return TypeCPU
	default:
		return TypeUnknown
	}
}

// Static is a fixed device list, for machines configured without probing and for tests.
type Static struct {
	List []Device
	Err  error
}

// Devices returns the fixed list or error.
func (s Static) Devices(ctx context.Context) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Device(nil), s.List...), nil
}
