package schema

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitwire-protocol/fitwire-go/pkg/accumulate"
	"github.com/fitwire-protocol/fitwire-go/pkg/diag"
	"github.com/fitwire-protocol/fitwire-go/pkg/fields"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// recordRows is a small record message exercising every field variant:
// a plain numbered field, a dynamic field with sport-keyed overrides, a
// bit-packed composite, and an accumulated counter.
func recordRows() []profile.Row {
	return []profile.Row{
		{MessageName: "record", FieldNo: "0", FieldName: "sport", FieldType: "uint8"},
		{MessageName: "record", FieldNo: "1", FieldName: "cadence", FieldType: "uint8", Units: "rpm"},
		{MessageName: "record", FieldName: "running_cadence", FieldType: "uint8", Units: "spm", RefName: "sport", RefValue: "1"},
		{MessageName: "record", FieldName: "cycling_power", FieldType: "uint16", Units: "watts", RefName: "sport", RefValue: "2"},
		{MessageName: "record", FieldNo: "2", FieldName: "compressed_speed_distance", FieldType: "byte",
			Components: "speed,distance", Bits: "12,12", Scale: "100,16", Units: "m/s,m"},
		{MessageName: "record", FieldNo: "3", FieldName: "speed", FieldType: "uint16", Scale: "100", Units: "m/s"},
		{MessageName: "record", FieldNo: "4", FieldName: "distance", FieldType: "uint32", Scale: "16", Units: "m", Accumulate: "1"},
	}
}

func buildRecord(t *testing.T) *Message {
	t.Helper()
	msg, err := NewMessage("record", recordRows(), types.NewRegistry())
	require.NoError(t, err)
	return msg
}

func TestNewMessage(t *testing.T) {
	msg := buildRecord(t)

	assert.Equal(t, "record", msg.Name())
	require.Len(t, msg.Fields(), 6)

	// Declaration order survives
	assert.Equal(t, "sport", msg.Fields()[0].Name())
	assert.Equal(t, "cadence", msg.Fields()[1].Name())
	assert.Equal(t, fields.KindDynamic, msg.Fields()[1].Kind())
	assert.Equal(t, fields.KindComposite, msg.Fields()[2].Kind())

	// Override fields are reachable by name but carry no number
	_, ok := msg.FieldByName("running_cadence")
	assert.True(t, ok)
	_, ok = msg.FieldByName("cycling_power")
	assert.True(t, ok)

	byNo, ok := msg.FieldByNumber(3)
	require.True(t, ok)
	assert.Equal(t, "speed", byNo.Name())

	_, ok = msg.FieldByNumber(99)
	assert.False(t, ok)
	_, ok = msg.FieldByName("no_such_field")
	assert.False(t, ok)
}

func TestNewMessageSkipsBlankRows(t *testing.T) {
	rows := []profile.Row{
		{MessageName: "lap", FieldNo: "0", FieldName: "total_time", FieldType: "uint32"},
		{MessageName: "lap"},
		{MessageName: "lap", FieldNo: "1", FieldName: "total_distance", FieldType: "uint32"},
	}
	msg, err := NewMessage("lap", rows, types.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, msg.Fields(), 2)
}

func TestNewMessageStrayOverride(t *testing.T) {
	rows := []profile.Row{
		{MessageName: "bad", FieldName: "orphan", FieldType: "uint8", RefName: "sport", RefValue: "1"},
	}
	_, err := NewMessage("bad", rows, types.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStrayOverride))
}

func TestNewMessageDuplicateField(t *testing.T) {
	rows := []profile.Row{
		{MessageName: "bad", FieldNo: "0", FieldName: "speed", FieldType: "uint16"},
		{MessageName: "bad", FieldNo: "1", FieldName: "speed", FieldType: "uint32"},
	}
	_, err := NewMessage("bad", rows, types.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateField))
}

func TestNewMessageDuplicateOverrideName(t *testing.T) {
	rows := []profile.Row{
		{MessageName: "bad", FieldNo: "0", FieldName: "alt", FieldType: "uint8"},
		{MessageName: "bad", FieldNo: "1", FieldName: "value", FieldType: "uint8"},
		{MessageName: "bad", FieldName: "alt", FieldType: "uint8", RefName: "mode", RefValue: "1"},
	}
	_, err := NewMessage("bad", rows, types.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateField))
}

func TestBuildMessages(t *testing.T) {
	rows := append(recordRows(),
		profile.Row{MessageName: "lap", FieldNo: "0", FieldName: "total_time", FieldType: "uint32", Scale: "1000", Units: "s"},
	)
	messages, err := BuildMessages(rows, types.NewRegistry())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "record", messages["record"].Name())
	assert.Len(t, messages["lap"].Fields(), 1)
}

func TestBuildMessagesMissingName(t *testing.T) {
	rows := []profile.Row{
		{FieldNo: "0", FieldName: "speed", FieldType: "uint16"},
	}
	_, err := BuildMessages(rows, types.NewRegistry())
	require.Error(t, err)
}

// sink collects diagnostic events for inspection.
type sink struct {
	mu     sync.Mutex
	events []diag.Event
}

func (s *sink) Log(e diag.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestDecoderEndToEnd(t *testing.T) {
	msg := buildRecord(t)
	counter := accumulate.NewWithStream("t")
	diags := &sink{}

	dec := msg.NewDecoder(types.Little, counter, diags)

	// sport=1 (running) lands in the references map
	outputs, err := dec.DecodeField("sport", []byte{0x01}, 1)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, []types.Value{uint64(1)}, outputs[0].Values)

	ref, ok := dec.References()["sport"]
	require.True(t, ok)
	assert.Equal(t, []types.Value{uint64(1)}, ref.Values)

	// The dynamic field now resolves to running_cadence
	outputs, err = dec.DecodeField("cadence", []byte{0xb4}, 1)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "running_cadence", outputs[0].Name)
	assert.Equal(t, "spm", outputs[0].Units)
	assert.Equal(t, []types.Value{uint64(0xb4)}, outputs[0].Values)

	// Composite unpacks two 12-bit components from three bytes:
	// speed raw 500 -> 5 m/s, distance raw 160 -> 10 m
	packed := uint32(500) | uint32(160)<<12
	outputs, err = dec.DecodeField("compressed_speed_distance",
		[]byte{byte(packed), byte(packed >> 8), byte(packed >> 16)}, 1)
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, "speed", outputs[0].Name)
	assert.Equal(t, []types.Value{float64(5)}, outputs[0].Values)
	assert.Equal(t, "distance", outputs[1].Name)
	assert.Equal(t, []types.Value{float64(10)}, outputs[1].Values)

	// Accumulated counter: raw 800 -> 50 m, then a lower scaled value in
	// the next message is a wrap and gains one 32-bit span
	outputs, err = dec.DecodeField("distance", []byte{0x20, 0x03, 0x00, 0x00}, 1)
	require.NoError(t, err)
	assert.Equal(t, []types.Value{float64(50)}, outputs[0].Values)

	next := msg.NewDecoder(types.Little, counter, diags)
	outputs, err = next.DecodeField("distance", []byte{0xa0, 0x00, 0x00, 0x00}, 1)
	require.NoError(t, err)
	assert.Equal(t, []types.Value{float64(10) + float64(uint64(1)<<32)}, outputs[0].Values)
}

func TestDecoderDynamicFallback(t *testing.T) {
	msg := buildRecord(t)
	diags := &sink{}
	dec := msg.NewDecoder(types.Little, nil, diags)

	// Without a decoded sport the dynamic field degrades to its row type
	outputs, err := dec.DecodeField("cadence", []byte{0x55}, 1)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "cadence", outputs[0].Name)
	assert.Equal(t, "rpm", outputs[0].Units)

	require.Len(t, diags.events, 1)
	assert.Equal(t, diag.CategoryResolution, diags.events[0].Category)
	assert.Equal(t, diag.SeverityWarning, diags.events[0].Severity)
}

func TestDecoderUnknownField(t *testing.T) {
	msg := buildRecord(t)
	dec := msg.NewDecoder(types.Little, nil, nil)

	_, err := dec.DecodeField("heart_rate", []byte{0x60}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fields.ErrUnknownField))
}

func TestDecoderAbsentField(t *testing.T) {
	msg := buildRecord(t)
	diags := &sink{}
	dec := msg.NewDecoder(types.Little, nil, diags)

	// An all-invalid buffer yields no outputs and leaves no reference
	outputs, err := dec.DecodeField("sport", []byte{0xff}, 1)
	require.NoError(t, err)
	assert.Empty(t, outputs)
	_, ok := dec.References()["sport"]
	assert.False(t, ok)

	require.Len(t, diags.events, 1)
	assert.Equal(t, diag.CategoryAbsent, diags.events[0].Category)
}
