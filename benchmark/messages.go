// Package benchmark compares lingonberry encoding against Protocol Buffers
// wire encoding and JSON on representative robotics messages.
package benchmark

import (
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/blockberries/lingonberry/pkg/lingonberry"
	"github.com/blockberries/lingonberry/pkg/schema"
)

// benchmarkSchema defines the messages under test. Fingerprints are taken
// from the parsed definitions so the bindings below stay in sync with them.
const benchmarkSchema = `
package bench;

struct imu_t {
    int64_t utime;
    double accel[3];
    double gyro[3];
    float temperature;
}

struct laser_scan_t {
    int64_t utime;
    string frame;
    double pose[3];
    int32_t num_ranges;
    float ranges[num_ranges];
}
`

var (
	imuFingerprint       int64
	laserScanFingerprint int64
)

func init() {
	s := schema.NewSchema(schema.Options{})
	p := schema.NewParser(s, "benchmark.lingonberry", strings.NewReader(benchmarkSchema))
	if err := p.Parse(); err != nil {
		panic(err)
	}
	imuFingerprint = s.FindStruct("bench", "imu_t").Hash
	laserScanFingerprint = s.FindStruct("bench", "laser_scan_t").Hash
}

// ImuT mirrors the Go generator's output for bench.imu_t.
type ImuT struct {
	Utime       int64
	Accel       [3]float64
	Gyro        [3]float64
	Temperature float32
}

// Fingerprint returns the structural fingerprint.
func (m *ImuT) Fingerprint() int64 {
	return imuFingerprint
}

// EncodeTo appends the message body to e.
func (m *ImuT) EncodeTo(e *lingonberry.Encoder) {
	e.WriteInt64(m.Utime)
	for i0 := range m.Accel {
		e.WriteFloat64(m.Accel[i0])
	}
	for i0 := range m.Gyro {
		e.WriteFloat64(m.Gyro[i0])
	}
	e.WriteFloat32(m.Temperature)
}

// DecodeFrom reads the message body from d.
func (m *ImuT) DecodeFrom(d *lingonberry.Decoder) error {
	var err error
	if m.Utime, err = d.ReadInt64(); err != nil {
		return err
	}
	for i0 := range m.Accel {
		if m.Accel[i0], err = d.ReadFloat64(); err != nil {
			return err
		}
	}
	for i0 := range m.Gyro {
		if m.Gyro[i0], err = d.ReadFloat64(); err != nil {
			return err
		}
	}
	if m.Temperature, err = d.ReadFloat32(); err != nil {
		return err
	}
	return nil
}

// LaserScanT mirrors the Go generator's output for bench.laser_scan_t.
type LaserScanT struct {
	Utime     int64
	Frame     string
	Pose      [3]float64
	NumRanges int32
	Ranges    []float32
}

// Fingerprint returns the structural fingerprint.
func (m *LaserScanT) Fingerprint() int64 {
	return laserScanFingerprint
}

// EncodeTo appends the message body to e.
func (m *LaserScanT) EncodeTo(e *lingonberry.Encoder) {
	e.WriteInt64(m.Utime)
	e.WriteString(m.Frame)
	for i0 := range m.Pose {
		e.WriteFloat64(m.Pose[i0])
	}
	e.WriteInt32(m.NumRanges)
	for i0 := range m.Ranges {
		e.WriteFloat32(m.Ranges[i0])
	}
}

// DecodeFrom reads the message body from d.
func (m *LaserScanT) DecodeFrom(d *lingonberry.Decoder) error {
	var err error
	if m.Utime, err = d.ReadInt64(); err != nil {
		return err
	}
	if m.Frame, err = d.ReadString(); err != nil {
		return err
	}
	for i0 := range m.Pose {
		if m.Pose[i0], err = d.ReadFloat64(); err != nil {
			return err
		}
	}
	if m.NumRanges, err = d.ReadInt32(); err != nil {
		return err
	}
	if err = d.CheckLength(int64(m.NumRanges), 4); err != nil {
		return err
	}
	m.Ranges = make([]float32, m.NumRanges)
	for i0 := range m.Ranges {
		if m.Ranges[i0], err = d.ReadFloat32(); err != nil {
			return err
		}
	}
	return nil
}

// Protocol Buffers wire encoding of the same messages, written directly
// against protowire. Doubles are packed fixed64 fields, floats packed
// fixed32.

func appendImuProto(buf []byte, m *ImuT) []byte {
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(m.Utime))

	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(8*len(m.Accel)))
	for _, v := range m.Accel {
		buf = protowire.AppendFixed64(buf, math.Float64bits(v))
	}

	buf = protowire.AppendTag(buf, 3, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(8*len(m.Gyro)))
	for _, v := range m.Gyro {
		buf = protowire.AppendFixed64(buf, math.Float64bits(v))
	}

	buf = protowire.AppendTag(buf, 4, protowire.Fixed32Type)
	buf = protowire.AppendFixed32(buf, math.Float32bits(m.Temperature))
	return buf
}

func decodeImuProto(data []byte, m *ImuT) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Utime = int64(v)
			data = data[n:]
		case 2, 3:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			dst := &m.Accel
			if num == 3 {
				dst = &m.Gyro
			}
			for i := 0; i < len(dst); i++ {
				v, k := protowire.ConsumeFixed64(packed)
				if k < 0 {
					return protowire.ParseError(k)
				}
				dst[i] = math.Float64frombits(v)
				packed = packed[k:]
			}
		case 4:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Temperature = math.Float32frombits(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func appendLaserScanProto(buf []byte, m *LaserScanT) []byte {
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(m.Utime))

	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendString(buf, m.Frame)

	buf = protowire.AppendTag(buf, 3, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(8*len(m.Pose)))
	for _, v := range m.Pose {
		buf = protowire.AppendFixed64(buf, math.Float64bits(v))
	}

	buf = protowire.AppendTag(buf, 4, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(4*len(m.Ranges)))
	for _, v := range m.Ranges {
		buf = protowire.AppendFixed32(buf, math.Float32bits(v))
	}
	return buf
}

func decodeLaserScanProto(data []byte, m *LaserScanT) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Utime = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Frame = v
			data = data[n:]
		case 3:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			for i := 0; i < len(m.Pose); i++ {
				v, k := protowire.ConsumeFixed64(packed)
				if k < 0 {
					return protowire.ParseError(k)
				}
				m.Pose[i] = math.Float64frombits(v)
				packed = packed[k:]
			}
		case 4:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			m.Ranges = make([]float32, 0, len(packed)/4)
			for len(packed) > 0 {
				v, k := protowire.ConsumeFixed32(packed)
				if k < 0 {
					return protowire.ParseError(k)
				}
				m.Ranges = append(m.Ranges, math.Float32frombits(v))
				packed = packed[k:]
			}
			m.NumRanges = int32(len(m.Ranges))
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
