// Package recording provides a headless Device that records every command it receives.
//
// Batches are stored as command lists and replayed by copying their commands into the
// frame log, so the log of a frame shows exactly what a real device would have drawn.
// Faults can be injected to exercise device error handling.
package recording

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	CmdSetMaterial CommandType = iota // Activate a material
	CmdDraw                           // Draw a primitive
	CmdCallBatch                      // Replay a batch
)

var commandTypeNames = [...]string{
	CmdSetMaterial: "SetMaterial",
	CmdDraw:        "Draw",
	CmdCallBatch:   "CallBatch",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return fmt.Sprintf("CommandType(%d)", c)
}

// Command is one recorded device call. Only the fields relevant to Type are set.
type Command struct {
	Type          CommandType
	Material      material.Material
	DrawType      primitive.DrawType
	Vertices      []common.Vec3
	Normals       []common.Vec3
	TexCoordLists [][]common.TexCoord
	// Batch is the replayed batch for CmdCallBatch, and the batch a command was replayed
	// from for commands expanded out of a batch. Zero for immediate commands.
	Batch renderer.BatchID
}

// Centroid returns the mean of the command's vertices.
func (c Command) Centroid() common.Vec3 {
	var sum common.Vec3
	if len(c.Vertices) == 0 {
		return sum
	}
	for _, v := range c.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float32(len(c.Vertices)))
}

var (
	// ErrUnknownBatch is returned by CallBatch for batches that were never finalized or were released.
	ErrUnknownBatch = errors.New("unknown batch")
	// ErrNestedBatch is returned by BeginBatch while another batch is being recorded.
	ErrNestedBatch = errors.New("batch already being recorded")
)

// Device is a headless renderer.FrameDevice recording all commands in memory.
type Device struct {
	nextID    renderer.BatchID
	recording *renderer.BatchID
	pending   []Command
	batches   map[renderer.BatchID][]Command

	log          []Command
	frames       int
	releaseCalls int
	viewProj     [16]float32
	eye          common.Vec3

	beginErr error
	endErr   error
	callErr  error
}

var _ renderer.FrameDevice = &Device{}

// NewDevice creates an empty recording device.
//
// Parameters:
//   - options: functional options to configure the device
//
// Returns:
//   - *Device: the new device
func NewDevice(options ...DeviceOption) *Device {
	d := &Device{
		nextID:  1,
		batches: make(map[renderer.BatchID][]Command),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *Device) BeginBatch() (renderer.BatchID, error) {
	if d.beginErr != nil {
		return 0, d.beginErr
	}
	if d.recording != nil {
		return 0, ErrNestedBatch
	}
	id := d.nextID
	d.nextID++
	d.recording = &id
	d.pending = nil
	return id, nil
}

func (d *Device) EndBatch(id renderer.BatchID) error {
	if d.recording == nil || *d.recording != id {
		return fmt.Errorf("%w: %d is not being recorded", ErrUnknownBatch, id)
	}
	d.recording = nil
	if d.endErr != nil {
		d.pending = nil
		return d.endErr
	}
	d.batches[id] = d.pending
	d.pending = nil
	return nil
}

func (d *Device) SetMaterial(m material.Material) {
	d.emit(Command{Type: CmdSetMaterial, Material: m})
}

func (d *Device) DrawPrimitive(t primitive.DrawType, vertices, normals []common.Vec3, texCoordLists [][]common.TexCoord) {
	lists := make([][]common.TexCoord, len(texCoordLists))
	for i, l := range texCoordLists {
		lists[i] = slices.Clone(l)
	}
	d.emit(Command{
		Type:          CmdDraw,
		DrawType:      t,
		Vertices:      slices.Clone(vertices),
		Normals:       slices.Clone(normals),
		TexCoordLists: lists,
	})
}

func (d *Device) CallBatch(id renderer.BatchID) error {
	if d.callErr != nil {
		return d.callErr
	}
	cmds, ok := d.batches[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, id)
	}
	d.log = append(d.log, Command{Type: CmdCallBatch, Batch: id})
	for _, c := range cmds {
		c.Batch = id
		d.log = append(d.log, c)
	}
	return nil
}

func (d *Device) ReleaseBatch(id renderer.BatchID) {
	d.releaseCalls++
	if _, ok := d.batches[id]; !ok {
		common.Logger().Warn("release of unknown batch", "batch", id)
		return
	}
	delete(d.batches, id)
}

func (d *Device) BeginFrame(viewProj [16]float32, eye common.Vec3) error {
	d.frames++
	d.viewProj = viewProj
	d.eye = eye
	d.log = d.log[:0]
	return nil
}

func (d *Device) EndFrame() error {
	return nil
}

// emit appends a command to the batch being recorded, or to the log otherwise.
func (d *Device) emit(c Command) {
	if d.recording != nil {
		d.pending = append(d.pending, c)
		return
	}
	d.log = append(d.log, c)
}

// Log returns the commands issued since the last BeginFrame or Reset, with replayed batches expanded.
func (d *Device) Log() []Command {
	return slices.Clone(d.log)
}

// Reset clears the command log.
func (d *Device) Reset() {
	d.log = d.log[:0]
}

// Batch returns the commands recorded into a live batch.
func (d *Device) Batch(id renderer.BatchID) ([]Command, bool) {
	cmds, ok := d.batches[id]
	return slices.Clone(cmds), ok
}

// LiveBatches returns the number of batches that are finalized and not released.
func (d *Device) LiveBatches() int {
	return len(d.batches)
}

// ReleaseCalls returns how many times ReleaseBatch was called.
func (d *Device) ReleaseCalls() int {
	return d.releaseCalls
}

// Frames returns how many frames were begun.
func (d *Device) Frames() int {
	return d.frames
}

// Eye returns the camera position passed to the last BeginFrame.
func (d *Device) Eye() common.Vec3 {
	return d.eye
}

// Immediate returns the commands of the log that were not replayed from a batch.
func (d *Device) Immediate() []Command {
	var out []Command
	for _, c := range d.log {
		if c.Type != CmdCallBatch && c.Batch == 0 {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns the immediate draw commands of the log, in submission order.
func (d *Device) Draws() []Command {
	var out []Command
	for _, c := range d.Immediate() {
		if c.Type == CmdDraw {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of commands of type t in the log.
func (d *Device) Count(t CommandType) int {
	n := 0
	for _, c := range d.log {
		if c.Type == t {
			n++
		}
	}
	return n
}
