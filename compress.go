package pray

import (
	"bytes"
	"io"

	"github.com/bodgit/pray/errs"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

func inflate(b []byte, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(errs.DecompressionFailure, err.Error())
	}
	defer zr.Close()

	out := bytes.NewBuffer(make([]byte, 0, size))
	// Read one byte more than expected to spot oversized streams
	if _, err := io.CopyN(out, zr, int64(size)+1); err != nil && err != io.EOF {
		return nil, errors.Wrap(errs.DecompressionFailure, err.Error())
	}
	if out.Len() != int(size) {
		return nil, errors.Wrapf(errs.DecompressionFailure, "inflated to %d bytes, expected %d", out.Len(), size)
	}

	return out.Bytes(), nil
}

func deflate(b []byte) ([]byte, error) {
	out := new(bytes.Buffer)
	zw := zlib.NewWriter(out)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
