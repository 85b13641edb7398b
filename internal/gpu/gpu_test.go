package gpu

import (
	"context"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEnablesAll(t *testing.T) {
	devs := []Device{{Name: "A"}, {Name: "B"}}
	sel := Select(devs)
	require.Len(t, sel, 2)
	for _, d := range sel {
		assert.True(t, d.Use)
	}
	assert.False(t, devs[0].Use, "input is not mutated")
}

func TestGPUsFiltersSoftwareAdapters(t *testing.T) {
	devs := []Device{
		{Name: "llvmpipe", Type: TypeCPU},
		{Name: "", Type: TypeDiscrete},
		{Name: "NVIDIA GB10", Type: TypeIntegrated},
	}
	assert.Equal(t, []string{"NVIDIA GB10"}, Names(GPUs(devs)))
}

func TestAppendUnique(t *testing.T) {
	d := Device{Name: "GPU", VendorID: 0x10de, DeviceID: 1, Backend: "Vulkan"}
	devs := appendUnique(nil, d)
	devs = appendUnique(devs, d)
	assert.Len(t, devs, 1)
	d.Backend = "OpenGL"
	assert.Len(t, appendUnique(devs, d), 2)
}

func TestStatic(t *testing.T) {
	s := Static{List: []Device{{Name: "X"}}}
	devs, err := s.Devices(context.Background())
	require.NoError(t, err)
	devs[0].Name = "changed"
	assert.Equal(t, "X", s.List[0].Name)

	_, err = Static{Err: ErrNoAdapter}.Devices(context.Background())
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "Vulkan", backendName(wgpu.BackendTypeVulkan))
	assert.Equal(t, "Metal", backendName(wgpu.BackendTypeMetal))
	assert.Equal(t, TypeDiscrete, adapterTypeName(wgpu.AdapterTypeDiscreteGPU))
	assert.Equal(t, TypeCPU, adapterTypeName(wgpu.AdapterTypeCPU))
}

func TestDeviceString(t *testing.T) {
	d := Device{Name: "GB10", Backend: "Vulkan", Type: TypeIntegrated, Use: true}
	assert.Equal(t, "GB10 (Vulkan, IntegratedGPU, use=true)", d.String())
}

func TestFromInfo(t *testing.T) {
	d := fromInfo(wgpu.AdapterInfo{
		VendorId:    0x10de,
		VendorName:  "NVIDIA",
		DeviceId:    0x2b85,
		Name:        "NVIDIA GB10",
		AdapterType: wgpu.AdapterTypeIntegratedGPU,
		BackendType: wgpu.BackendTypeVulkan,
	})
	assert.Equal(t, Device{
		Name:     "NVIDIA GB10",
		Vendor:   "NVIDIA",
		Backend:  "Vulkan",
		Type:     TypeIntegrated,
		VendorID: 0x10de,
		DeviceID: 0x2b85,
	}, d)
	assert.True(t, d.IsGPU())

	sw := fromInfo(wgpu.AdapterInfo{DriverDescription: "llvmpipe (LLVM 17)", AdapterType: wgpu.AdapterTypeCPU})
	assert.Equal(t, "llvmpipe (LLVM 17)", sw.Name)
	assert.False(t, sw.IsGPU())
}
