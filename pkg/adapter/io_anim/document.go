// 指示: miu200521358
package io_anim

import (
	"fmt"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/mmath"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
)

const documentVersion = 1

// clipDocument はクリップ文書のJSON表現を表す。
type clipDocument struct {
	Version         int                      `json:"version"`
	Name            string                   `json:"name"`
	FrameCount      int                      `json:"frame_count"`
	FrameRate       float64                  `json:"frame_rate"`
	Interpolation   string                   `json:"interpolation,omitempty"`
	Bones           []boneDocument           `json:"bones"`
	Sockets         []socketDocument         `json:"sockets,omitempty"`
	Tracks          []trackDocument          `json:"tracks,omitempty"`
	Curves          []curveDocument          `json:"curves,omitempty"`
	TransformCurves []transformCurveDocument `json:"transform_curves,omitempty"`
}

type boneDocument struct {
	Name          string             `json:"name"`
	Parent        int                `json:"parent"`
	ReferencePose transformDocument  `json:"reference_pose"`
	RetargetMode  model.RetargetMode `json:"retarget_mode,omitempty"`
}

type socketDocument struct {
	Name   string            `json:"name"`
	Bone   string            `json:"bone"`
	Offset transformDocument `json:"offset"`
}

// transformDocument は平行移動・回転(x,y,z,w)・スケールを配列で持つ。
type transformDocument struct {
	Translation [3]float64 `json:"t"`
	Rotation    [4]float64 `json:"r"`
	Scale       [3]float64 `json:"s"`
}

type trackDocument struct {
	Bone string              `json:"bone"`
	Keys []transformDocument `json:"keys"`
}

type curveDocument struct {
	Name string       `json:"name"`
	Keys [][2]float64 `json:"keys"`
}

type transformCurveKeyDocument struct {
	Time      float64           `json:"time"`
	Transform transformDocument `json:"transform"`
}

type transformCurveDocument struct {
	Name string                      `json:"name"`
	Keys []transformCurveKeyDocument `json:"keys"`
}

func newTransformDocument(t mmath.Transform) transformDocument {
	return transformDocument{
		Translation: [3]float64{t.Translation.X, t.Translation.Y, t.Translation.Z},
		Rotation:    [4]float64{t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), t.Rotation.W()},
		Scale:       [3]float64{t.Scale.X, t.Scale.Y, t.Scale.Z},
	}
}

func (d transformDocument) transform() mmath.Transform {
	rotation := mmath.QuaternionIdentity()
	if d.Rotation != [4]float64{} {
		rotation = mmath.NewQuaternion(d.Rotation[0], d.Rotation[1], d.Rotation[2], d.Rotation[3]).Normalized()
	}
	return mmath.NewTransform(
		mmath.NewVec3(d.Translation[0], d.Translation[1], d.Translation[2]),
		rotation,
		mmath.NewVec3(d.Scale[0], d.Scale[1], d.Scale[2]),
	)
}

// newClipDocument はクリップを文書へ変換する。
func newClipDocument(clip *model.AnimationClip) *clipDocument {
	skeleton := clip.Skeleton
	doc := &clipDocument{
		Version:       documentVersion,
		Name:          clip.Name,
		FrameCount:    clip.FrameCount,
		FrameRate:     clip.FrameRate,
		Interpolation: clip.Interpolation.String(),
		Bones:         make([]boneDocument, 0, skeleton.Len()),
	}
	for index := 0; index < skeleton.Len(); index++ {
		bone := skeleton.Bone(index)
		doc.Bones = append(doc.Bones, boneDocument{
			Name:          bone.Name,
			Parent:        bone.ParentIndex,
			ReferencePose: newTransformDocument(bone.ReferencePose),
			RetargetMode:  bone.RetargetMode,
		})
	}
	for _, socket := range skeleton.Sockets() {
		doc.Sockets = append(doc.Sockets, socketDocument{
			Name:   socket.Name,
			Bone:   socket.BoneName,
			Offset: newTransformDocument(socket.Offset),
		})
	}
	for _, name := range clip.TrackNames() {
		track, _ := clip.Track(name)
		keys := make([]transformDocument, track.Len())
		for frame := range keys {
			keys[frame] = newTransformDocument(track.Key(frame))
		}
		doc.Tracks = append(doc.Tracks, trackDocument{Bone: name, Keys: keys})
	}
	for _, name := range clip.FloatCurveNames() {
		curve, _ := clip.FloatCurve(name)
		keys := make([][2]float64, len(curve.Keys))
		for i, key := range curve.Keys {
			keys[i] = [2]float64{key.Time, key.Value}
		}
		doc.Curves = append(doc.Curves, curveDocument{Name: curve.Name, Keys: keys})
	}
	for _, name := range clip.TransformCurveNames() {
		curve, _ := clip.TransformCurve(name)
		keys := make([]transformCurveKeyDocument, len(curve.Keys))
		for i, key := range curve.Keys {
			keys[i] = transformCurveKeyDocument{Time: key.Time, Transform: newTransformDocument(key.Transform)}
		}
		doc.TransformCurves = append(doc.TransformCurves, transformCurveDocument{Name: curve.Name, Keys: keys})
	}
	return doc
}

// clip は文書からクリップを組み立てる。
func (d *clipDocument) clip() (*model.AnimationClip, error) {
	if d.Version != documentVersion {
		return nil, fmt.Errorf("%w: 文書バージョンが未対応です: %d", model.ErrInvalidClip, d.Version)
	}
	bones := make([]model.Bone, len(d.Bones))
	for i, bone := range d.Bones {
		bones[i] = model.Bone{
			Name:          bone.Name,
			ParentIndex:   bone.Parent,
			ReferencePose: bone.ReferencePose.transform(),
			RetargetMode:  bone.RetargetMode,
		}
	}
	sockets := make([]model.Socket, len(d.Sockets))
	for i, socket := range d.Sockets {
		sockets[i] = model.Socket{Name: socket.Name, BoneName: socket.Bone, Offset: socket.Offset.transform()}
	}
	skeleton, err := model.NewSkeleton(bones, sockets)
	if err != nil {
		return nil, err
	}

	clip, err := model.NewAnimationClip(d.Name, skeleton, d.FrameCount, d.FrameRate)
	if err != nil {
		return nil, err
	}
	interpolation, err := model.ParseInterpolation(d.Interpolation)
	if err != nil {
		return nil, err
	}
	clip.Interpolation = interpolation

	for _, trackDoc := range d.Tracks {
		track := model.NewTrack(len(trackDoc.Keys))
		for frame, key := range trackDoc.Keys {
			track.SetKey(frame, key.transform())
		}
		if err := clip.SetTrack(trackDoc.Bone, track); err != nil {
			return nil, err
		}
	}
	for _, curveDoc := range d.Curves {
		curve := model.NewFloatCurve(curveDoc.Name)
		for _, key := range curveDoc.Keys {
			curve.AddKey(key[0], key[1])
		}
		clip.SetFloatCurve(curve)
	}
	for _, curveDoc := range d.TransformCurves {
		curve := &model.TransformCurve{Name: curveDoc.Name}
		for _, key := range curveDoc.Keys {
			curve.AddKey(key.Time, key.Transform.transform())
		}
		clip.SetTransformCurve(curve)
	}
	if err := clip.Validate(); err != nil {
		return nil, err
	}
	return clip, nil
}
