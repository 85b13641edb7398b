package scene

// Device is the compute device a render runs on.
type Device string

const (
	DeviceGPU Device = "GPU"
	DeviceCPU Device = "CPU"
)

// RenderSettings mirrors the render configuration the scripts set before rendering.
type RenderSettings struct {
	Engine  string `yaml:"engine"`
	Device  Device `yaml:"device"`
	Samples int    `yaml:"samples"`
	Denoise bool   `yaml:"denoise"`
	Seed    int64  `yaml:"seed"`

	MaxBounces          int `yaml:"max_bounces"`
	DiffuseBounces      int `yaml:"diffuse_bounces"`
	GlossyBounces       int `yaml:"glossy_bounces"`
	TransmissionBounces int `yaml:"transmission_bounces"`
	VolumeBounces       int `yaml:"volume_bounces"`

	ResolutionX          int `yaml:"resolution_x"`
	ResolutionY          int `yaml:"resolution_y"`
	ResolutionPercentage int `yaml:"resolution_percentage"`

	FilmTransparent bool   `yaml:"film_transparent"`
	FileFormat      string `yaml:"file_format"`
	ColorDepth      int    `yaml:"color_depth"`
	FilePath        string `yaml:"filepath"`

	// Compositor names a compositor node group applied after rendering.
	Compositor string `yaml:"compositor,omitempty"`
}

// DefaultRenderSettings returns the settings of a fresh scene.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Engine:               "CYCLES",
		Device:               DeviceCPU,
		Samples:              128,
		Denoise:              true,
		MaxBounces:           12,
		DiffuseBounces:       4,
		GlossyBounces:        4,
		TransmissionBounces:  12,
		VolumeBounces:        0,
		ResolutionX:          1920,
		ResolutionY:          1080,
		ResolutionPercentage: 100,
		FileFormat:           "PNG",
		ColorDepth:           8,
	}
}

// Size returns the output resolution after the percentage scale, at least 1x1.
func (r RenderSettings) Size() (w, h int) {
	pct := r.ResolutionPercentage
	if pct <= 0 {
		pct = 100
	}
	w = r.ResolutionX * pct / 100
	h = r.ResolutionY * pct / 100
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
