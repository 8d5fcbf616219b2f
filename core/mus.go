package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the core types persisted by the storage layer.
// Timestamps are stored as Unix microseconds.
var (
	IDMUS    = idMUS{}
	PaperMUS = paperMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

type paperMUS struct{}

func (s paperMUS) Marshal(v Paper, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.ArxivID, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += marshalStrings(v.Authors, bs[n:])
	n += ord.String.Marshal(v.Abstract, bs[n:])
	n += marshalStrings(v.Categories, bs[n:])
	n += marshalTime(v.Published, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (s paperMUS) Unmarshal(bs []byte) (v Paper, n int, err error) {
	var n1 int

	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = ID(id)

	if v.ArxivID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Authors, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Abstract, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Categories, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Published, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (s paperMUS) Size(v Paper) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(v.ArxivID)
	size += ord.String.Size(v.Title)
	size += sizeStrings(v.Authors)
	size += ord.String.Size(v.Abstract)
	size += sizeStrings(v.Categories)
	size += sizeTime(v.Published)
	size += ord.String.Size(v.SourceURL)
	size += sizeVector(v.Vector)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeStrings(v []string) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
