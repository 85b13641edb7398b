package scene

import "fractal-bench/internal/geom"

// LightKind names a light type.
type LightKind string

const (
	LightArea  LightKind = "AREA"
	LightPoint LightKind = "POINT"
)

// Light is light data. Energy is in watts. Area lights are square with edge Size and
// emit from their -Z side; point lights use ShadowSoftSize as their radius.
type Light struct {
	Kind           LightKind `yaml:"kind"`
	Energy         float64   `yaml:"energy"`
	Color          geom.RGB  `yaml:"color"`
	Size           float64   `yaml:"size,omitempty"`
	ShadowSoftSize float64   `yaml:"shadow_soft_size,omitempty"`
}

// DefaultLight returns a light of kind with the usual defaults.
func DefaultLight(kind LightKind) Light {
	l := Light{Kind: kind, Color: geom.RGB{R: 1, G: 1, B: 1}}
	switch kind {
	case LightArea:
		l.Energy = 10
		l.Size = 1
	default:
		l.Energy = 10
		l.ShadowSoftSize = 0.25
	}
	return l
}

func (l Light) displayName() string {
	if l.Kind == LightArea {
		return "Area"
	}
	return "Point"
}

// DOF is camera depth-of-field settings. FocusObject wins over FocusDistance.
type DOF struct {
	Use           bool    `yaml:"use"`
	FocusObject   string  `yaml:"focus_object,omitempty"`
	FocusDistance float64 `yaml:"focus_distance"`
	FStop         float64 `yaml:"fstop"`
}

// Camera is camera data. Lens and SensorWidth are in millimetres; the sensor is
// fitted to the wider image axis.
type Camera struct {
	Lens        float64 `yaml:"lens"`
	SensorWidth float64 `yaml:"sensor_width"`
	ClipStart   float64 `yaml:"clip_start"`
	ClipEnd     float64 `yaml:"clip_end"`
	DOF         DOF     `yaml:"dof"`
}

// DefaultCamera returns a 50 mm camera on a 36 mm sensor with DOF off.
func DefaultCamera() Camera {
	return Camera{
		Lens:        50,
		SensorWidth: 36,
		ClipStart:   0.1,
		ClipEnd:     100,
		DOF:         DOF{FocusDistance: 10, FStop: 2.8},
	}
}

// FocusDistance returns the camera's focus distance, measured to the focus object when set.
func (s *Scene) FocusDistance(cam *Object) float64 {
	if cam.Camera == nil {
		return 0
	}
	if name := cam.Camera.DOF.FocusObject; name != "" {
		if t := s.Object(name); t != nil {
			return t.Location.Sub(cam.Location).Len()
		}
	}
	return cam.Camera.DOF.FocusDistance
}
