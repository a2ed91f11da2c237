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

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/tenderidx/core"
)

// VectorEntryMUS serializes core.VectorEntry values for the vector store.
var VectorEntryMUS = vectorEntrySer{
	embedding: ord.NewSliceSer[float32](raw.Float32),
}

type vectorEntrySer struct {
	embedding mus.Serializer[[]float32]
}

func (s vectorEntrySer) Marshal(v core.VectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.FolderName, bs)
	n += s.embedding.Marshal(v.Embedding, bs[n:])
	return
}

func (s vectorEntrySer) Unmarshal(bs []byte) (v core.VectorEntry, n int, err error) {
	v.FolderName, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Embedding, n1, err = s.embedding.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorEntrySer) Size(v core.VectorEntry) (size int) {
	size = ord.String.Size(v.FolderName)
	size += s.embedding.Size(v.Embedding)
	return
}

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *core.VectorEntry) []byte {
	buf := make([]byte, VectorEntryMUS.Size(*entry))
	VectorEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*core.VectorEntry, error) {
	entry, n, err := VectorEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, ErrTruncatedData
	}
	return &entry, nil
}
