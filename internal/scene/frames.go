package scene

// FramePlan is one frame of an expanded script.
type FramePlan struct {
	Index    int
	Step     int
	Pose     Pose
	Tracking string
	DropPose bool
	Actions  []Action // only on a step's first frame
}

// Frames expands the steps into individual frames. Each step contributes
// max(Frames, 1) frames that move the camera from the previous step's pose
// to the step's own, ending exactly on it. The first step holds its pose.
func (s *Scene) Frames() []FramePlan {
	var out []FramePlan
	prev := s.Steps[0].Camera
	for i, st := range s.Steps {
		n := max(st.Frames, 1)
		for k := 1; k <= n; k++ {
			fp := FramePlan{
				Index:    len(out),
				Step:     i,
				Pose:     lerpPose(prev, st.Camera, float64(k)/float64(n)),
				Tracking: st.Tracking,
				DropPose: st.DropPose,
			}
			if k == 1 {
				fp.Actions = st.Actions
			}
			out = append(out, fp)
		}
		prev = st.Camera
	}
	return out
}

// lerpPose interpolates between two poses. Poses that disagree on how
// they are aimed (look-at versus angles) snap to b.
func lerpPose(a, b Pose, t float64) Pose {
	if t >= 1 {
		return b
	}
	out := Pose{Position: lerp3(a.Position, b.Position, t)}
	switch {
	case a.LookAt != nil && b.LookAt != nil:
		target := lerp3(*a.LookAt, *b.LookAt, t)
		out.LookAt = &target
	case a.LookAt == nil && b.LookAt == nil:
		out.Yaw = a.Yaw + (b.Yaw-a.Yaw)*t
		out.Pitch = a.Pitch + (b.Pitch-a.Pitch)*t
	default:
		return b
	}
	return out
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
