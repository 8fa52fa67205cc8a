package vectorindex

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// Vector blob layout (big endian):
//
//	magic "CLVX" | version u16 | reserved u16 | count u32 | dim u32
//	count x pgvector binary vector (dim u16 | unused u16 | dim x float32)
var blobMagic = []byte("CLVX")

const (
	blobVersion    = 1
	blobHeaderSize = 16
)

func encodeVectors(idx *Index) ([]byte, error) {
	buf := make([]byte, blobHeaderSize, blobHeaderSize+idx.Len()*(4+4*idx.dimension))
	copy(buf[0:4], blobMagic)
	binary.BigEndian.PutUint16(buf[4:6], blobVersion)
	binary.BigEndian.PutUint32(buf[8:12], uint32(idx.Len()))
	binary.BigEndian.PutUint32(buf[12:16], uint32(idx.dimension))

	var err error
	for _, v := range idx.vectors {
		buf, err = pgvector.NewVector(v).EncodeBinary(buf)
		if err != nil {
			return nil, fmt.Errorf("encode vector: %w", err)
		}
	}
	return buf, nil
}

func decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < blobHeaderSize || !bytes.Equal(data[0:4], blobMagic) {
		return nil, fmt.Errorf("%w: bad header", ErrCorruptArtifact)
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != blobVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptArtifact, v)
	}

	count := int(binary.BigEndian.Uint32(data[8:12]))
	dim := int(binary.BigEndian.Uint32(data[12:16]))
	if count == 0 || dim == 0 || dim > 0xFFFF {
		return nil, fmt.Errorf("%w: count %d, dim %d", ErrCorruptArtifact, count, dim)
	}

	stride := 4 + 4*dim
	if len(data)-blobHeaderSize != count*stride {
		return nil, fmt.Errorf("%w: expected %d payload bytes, found %d", ErrCorruptArtifact, count*stride, len(data)-blobHeaderSize)
	}

	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		off := blobHeaderSize + i*stride
		chunk := data[off : off+stride]
		if int(binary.BigEndian.Uint16(chunk[0:2])) != dim {
			return nil, fmt.Errorf("%w: vector %d has wrong dimension", ErrCorruptArtifact, i)
		}

		var v pgvector.Vector
		if err := v.DecodeBinary(chunk); err != nil {
			return nil, fmt.Errorf("%w: vector %d: %v", ErrCorruptArtifact, i, err)
		}
		vectors[i] = v.Slice()
	}
	return vectors, nil
}

func encodeChunks(chunks []string) ([]byte, error) {
	return json.Marshal(chunks)
}

func decodeChunks(data []byte) ([]string, error) {
	var chunks []string
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("%w: sentences: %v", ErrCorruptArtifact, err)
	}
	return chunks, nil
}
