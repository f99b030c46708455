package xdr

// ElementCodec is the pair of codec functions for a single array element
// type T. It mirrors the primitive codec shape but specialized to T so
// DecodeArray/EncodeArray can be written once and reused for every
// fixed-width primitive array in a FieldDefinition table.
type ElementCodec[T any] struct {
	Decode func(src []byte, dst *T, max int) (used int, err error)
	Encode func(src *T, dst []byte, max int) (used int, err error)
}

// DecodeArray decodes count elements of T from src using codec,
// returning a freshly allocated owned slice. The array itself carries no
// length prefix on the wire: count comes from the
// companion length field the aggregate codec already read.
func DecodeArray[T any](src []byte, count int, max int, codec ElementCodec[T]) (out []T, used int, err error) {
	out = make([]T, count)
	offset := 0
	for i := 0; i < count; i++ {
		var n int
		n, err = codec.Decode(src[offset:], &out[i], max-offset)
		offset += n
		if err != nil {
			return out, offset, err
		}
	}
	return out, offset, nil
}

// EncodeArray encodes src using codec. dst may be nil for a dry run; the
// dry run still must walk every element so two-pass sizing is correct
// even when an early element's encoder would have failed.
func EncodeArray[T any](src []T, dst []byte, max int, codec ElementCodec[T]) (used int, err error) {
	offset := 0
	var firstErr error
	for i := range src {
		var sub []byte
		if dst != nil {
			sub = dst[offset:]
		}
		n, encErr := codec.Encode(&src[i], sub, max-offset)
		offset += n
		if encErr != nil && firstErr == nil {
			firstErr = encErr
		}
	}
	return offset, firstErr
}
