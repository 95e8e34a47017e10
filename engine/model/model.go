package model

import (
	"errors"
	"fmt"
)

// ErrInvalidModel is returned by Model.Validate when clip data does not agree with itself or
// with the skeleton.
var ErrInvalidModel = errors.New("invalid model")

// model is the implementation of the Model interface.
type model struct {
	name       string
	skeleton   *Skeleton
	animations []*AnimationClip
	clipIndex  map[string]int
}

// Model is the compiled, resident resource set a graph definition evaluates against:
// an optional skeleton and the clips that clip nodes reference by index.
// A Model is read-only once built and may be shared by any number of graph instances.
type Model interface {
	// Name retrieves the model identifier.
	Name() string

	// Skinned reports whether the model carries bones to sample poses for.
	// Root-motion-only models return false.
	Skinned() bool

	// Skeleton retrieves the bone hierarchy, or nil for root-motion-only models.
	Skeleton() *Skeleton

	// Animation resolves a clip resource index.
	//
	// Parameters:
	//   - index: the clip index referenced by a clip node
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if the index is out of range
	Animation(index int) *AnimationClip

	// AnimationCount returns the number of clips.
	AnimationCount() int

	// AnimationNames returns the clip names in index order.
	AnimationNames() []string

	// GetAnimationIndex resolves a clip name into its resource index.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - int: the clip index, or -1 if no clip has that name
	GetAnimationIndex(name string) int

	// Validate checks that every clip is consistent: root motion holds one transform per
	// frame, channels target bones of the skeleton, and clip names are unique.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidModel, or nil
	Validate() error
}

var _ Model = &model{}

// NewModel creates a Model from the given options.
//
// Parameters:
//   - options: the ModelBuilderOption functions to apply
//
// Returns:
//   - Model: the built model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.clipIndex = make(map[string]int, len(m.animations))
	for i, clip := range m.animations {
		if clip == nil {
			continue
		}
		if _, dup := m.clipIndex[clip.Name]; !dup {
			m.clipIndex[clip.Name] = i
		}
	}
	return m
}

func (m *model) Name() string { return m.name }

func (m *model) Skinned() bool {
	return m.skeleton != nil && len(m.skeleton.Bones) > 0
}

func (m *model) Skeleton() *Skeleton { return m.skeleton }

func (m *model) Animation(index int) *AnimationClip {
	if index < 0 || index >= len(m.animations) {
		return nil
	}
	return m.animations[index]
}

func (m *model) AnimationCount() int { return len(m.animations) }

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		if clip != nil {
			names[i] = clip.Name
		}
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	if idx, ok := m.clipIndex[name]; ok {
		return idx
	}
	return -1
}

func (m *model) Validate() error {
	numBones := 0
	if m.skeleton != nil {
		numBones = len(m.skeleton.Bones)
	}
	seen := make(map[string]struct{}, len(m.animations))
	for i, clip := range m.animations {
		if clip == nil {
			return fmt.Errorf("%w: %q clip %d is nil", ErrInvalidModel, m.name, i)
		}
		if _, dup := seen[clip.Name]; dup {
			return fmt.Errorf("%w: %q has two clips named %q", ErrInvalidModel, m.name, clip.Name)
		}
		seen[clip.Name] = struct{}{}

		if clip.Duration < 0 || clip.FrameRate < 0 {
			return fmt.Errorf("%w: clip %q has a negative duration or frame rate", ErrInvalidModel, clip.Name)
		}
		if clip.RootMotion.IsValid() && clip.RootMotion.NumFrames() != int(clip.NumFrames()) {
			return fmt.Errorf("%w: clip %q has %d root motion frames, expected %d",
				ErrInvalidModel, clip.Name, clip.RootMotion.NumFrames(), clip.NumFrames())
		}
		for _, ch := range clip.Channels {
			if ch.BoneIndex < 0 || int(ch.BoneIndex) >= numBones {
				return fmt.Errorf("%w: clip %q animates bone %d, skeleton has %d bones",
					ErrInvalidModel, clip.Name, ch.BoneIndex, numBones)
			}
		}
	}
	return nil
}
