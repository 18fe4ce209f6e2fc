package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(Point)

	assert.Equal(t, Point, l.Type())
	assert.Equal(t, [3]float32{0, 0, 0}, l.Position())
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.InDelta(t, 1.0, l.Intensity(), 1e-6)
	assert.InDelta(t, 10.0, l.Range(), 1e-6)
	assert.True(t, l.Enabled())
}

func TestLightDirectionNormalized(t *testing.T) {
	l := NewLight(Directional, WithDirection(3, 0, 4))

	dir := l.Direction()
	assert.InDelta(t, 0.6, dir[0], 1e-6)
	assert.InDelta(t, 0.0, dir[1], 1e-6)
	assert.InDelta(t, 0.8, dir[2], 1e-6)

	l.SetDirection(0, 0, 0)
	assert.Equal(t, [3]float32{0, 0, 0}, l.Direction())
}

func TestSpotConeStoredAsCosine(t *testing.T) {
	l := NewLight(Spot, WithSpotCone(30, 45))

	assert.InDelta(t, math.Cos(30*math.Pi/180), float64(l.InnerCone()), 1e-5)
	assert.InDelta(t, math.Cos(45*math.Pi/180), float64(l.OuterCone()), 1e-5)
}

func TestGPULightLayout(t *testing.T) {
	l := NewLight(Spot,
		WithPosition(1, 2, 3),
		WithColor(0.5, 0.25, 0.125),
		WithIntensity(2.0),
		WithRange(20.0),
	)

	gpu := ToGPULight(l)
	require.Equal(t, 64, gpu.Size())

	buf := gpu.Marshal()
	require.Len(t, buf, 64)

	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[4:8]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, uint32(Spot), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, math.Float32bits(0.5), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, math.Float32bits(2.0), binary.LittleEndian.Uint32(buf[28:32]))
	assert.Equal(t, math.Float32bits(20.0), binary.LittleEndian.Uint32(buf[44:48]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[56:60]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[60:64]))
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	lights := []Light{
		NewLight(Point, WithPosition(1, 0, 0)),
		NewLight(Point, WithEnabled(false)),
		NewLight(Point, WithPosition(-1, 0, 0)),
	}

	buf := MarshalLightBuffer(lights, [3]float32{0.1, 0.2, 0.3})
	require.Len(t, buf, 16+2*64)

	assert.Equal(t, math.Float32bits(0.1), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, math.Float32bits(0.3), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:16]))

	// First light entry starts at the header boundary.
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[16:20]))
	// Second entry is the third input light; the disabled one was skipped.
	assert.Equal(t, math.Float32bits(-1), binary.LittleEndian.Uint32(buf[80:84]))
}

func TestMarshalLightBufferCapsAtBudget(t *testing.T) {
	lights := make([]Light, 0, MaxGPULights+16)
	for range MaxGPULights + 16 {
		lights = append(lights, NewLight(Point))
	}

	buf := MarshalLightBuffer(lights, [3]float32{})
	require.Len(t, buf, 16+MaxGPULights*64)
	assert.Equal(t, uint32(MaxGPULights), binary.LittleEndian.Uint32(buf[12:16]))
}

func TestMarshalLightBufferEmpty(t *testing.T) {
	buf := MarshalLightBuffer(nil, [3]float32{0.05, 0.05, 0.05})
	require.Len(t, buf, 16)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[12:16]))
}
