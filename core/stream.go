package core

import (
	"fmt"

	"github.com/tsawler/slideua/internal/filters"
)

// Stream is a dictionary followed by binary data. Streams are always
// written as indirect objects; the writer sets /Length.
type Stream struct {
	Dict Dict
	Data []byte
}

// NewStream creates a stream holding data and the given dictionary
// entries. dict may be nil.
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	return &Stream{Dict: dict, Data: data}
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// Compress flate-encodes the data and records the filter. Compressing a
// stream twice is an error.
func (s *Stream) Compress() error {
	if s.Dict.Has("Filter") {
		return fmt.Errorf("stream already has filter %s", s.Dict.Get("Filter"))
	}
	enc, err := filters.FlateEncode(s.Data)
	if err != nil {
		return fmt.Errorf("compressing stream: %w", err)
	}
	s.Data = enc
	s.Dict.Set("Filter", Name("FlateDecode"))
	return nil
}

// Decode returns the stream data with its filter undone. Only FlateDecode
// and unfiltered streams are supported; DCTDecode data is returned as is.
func (s *Stream) Decode() ([]byte, error) {
	f, ok := s.Dict.GetName("Filter")
	if !ok {
		return s.Data, nil
	}
	switch f {
	case "FlateDecode":
		var params filters.Params
		if parms, ok := s.Dict.GetDict("DecodeParms"); ok {
			params = filters.Params{}
			for k, v := range parms {
				if i, ok := v.(Int); ok {
					params[k] = int(i)
				}
			}
		}
		return filters.FlateDecode(s.Data, params)
	case "DCTDecode":
		return s.Data, nil
	}
	return nil, fmt.Errorf("unsupported filter: %s", f)
}
