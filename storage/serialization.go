// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/colloquy/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) == 0 {
		return 0, ErrTruncatedData
	}
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// Passage layout:
//
//	varint id | string source | varint position | string text |
//	varint insertedAt (unix micros, 0 for zero time) | varint len | len x float32
func passageSize(p *core.Passage) int {
	size := varint.Uint64.Size(uint64(p.Id))
	size += ord.String.Size(p.Source)
	size += varint.Int.Size(p.Position)
	size += ord.String.Size(p.Text)
	size += varint.Int64.Size(timeToMicros(p.InsertedAt))
	size += varint.Int.Size(len(p.Vector))
	for _, f := range p.Vector {
		size += raw.Float32.Size(f)
	}
	return size
}

// MarshalPassage serializes a Passage to bytes.
func MarshalPassage(p *core.Passage) []byte {
	buf := make([]byte, passageSize(p))
	n := varint.Uint64.Marshal(uint64(p.Id), buf)
	n += ord.String.Marshal(p.Source, buf[n:])
	n += varint.Int.Marshal(p.Position, buf[n:])
	n += ord.String.Marshal(p.Text, buf[n:])
	n += varint.Int64.Marshal(timeToMicros(p.InsertedAt), buf[n:])
	n += varint.Int.Marshal(len(p.Vector), buf[n:])
	for _, f := range p.Vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalPassage deserializes a Passage from bytes.
func UnmarshalPassage(data []byte) (*core.Passage, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	var (
		p      core.Passage
		offset int
	)

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, wrapDecode("id", err)
	}
	p.Id = core.ID(id)
	offset += n

	if p.Source, n, err = ord.String.Unmarshal(data[offset:]); err != nil {
		return nil, wrapDecode("source", err)
	}
	offset += n

	if p.Position, n, err = varint.Int.Unmarshal(data[offset:]); err != nil {
		return nil, wrapDecode("position", err)
	}
	offset += n

	if p.Text, n, err = ord.String.Unmarshal(data[offset:]); err != nil {
		return nil, wrapDecode("text", err)
	}
	offset += n

	micros, n, err := varint.Int64.Unmarshal(data[offset:])
	if err != nil {
		return nil, wrapDecode("insertedAt", err)
	}
	p.InsertedAt = microsToTime(micros)
	offset += n

	length, n, err := varint.Int.Unmarshal(data[offset:])
	if err != nil {
		return nil, wrapDecode("vector length", err)
	}
	offset += n
	if length < 0 || length*4 > len(data)-offset {
		return nil, fmt.Errorf("%w: vector length %d exceeds remaining %d bytes", ErrTruncatedData, length, len(data)-offset)
	}

	if length > 0 {
		p.Vector = make([]float32, length)
		for i := range p.Vector {
			if p.Vector[i], n, err = raw.Float32.Unmarshal(data[offset:]); err != nil {
				return nil, wrapDecode("vector", err)
			}
			offset += n
		}
	}
	return &p, nil
}

func wrapDecode(field string, err error) error {
	return fmt.Errorf("%w: passage %s: %w", ErrSerializationFailed, field, err)
}

func timeToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microsToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
