/*
Package errs defines the closed set of failures the PRAY, tag table and sprite
codecs can report.

Each Kind is itself an error so codecs can wrap it with context and callers
can still match it:

	if errors.Is(err, errs.TruncatedInput) {
		...
	}
*/
package errs

// Kind identifies one class of codec failure.
type Kind int

const (
	// InvalidMagic means the archive does not start with "PRAY".
	InvalidMagic Kind = iota + 1
	// TruncatedInput means the buffer ran out mid-header, mid-string,
	// mid-table-entry or mid-block.
	TruncatedInput
	// DecompressionFailure means a zlib stream could not be inflated.
	DecompressionFailure
	// InvalidImageDimensions means a BLK frame is not 128 by 128.
	InvalidImageDimensions
	// InvalidPixelData means a sprite did not have enough bytes for a
	// declared scanline or run, or a run overran its scanline.
	InvalidPixelData
	// UnsupportedFileType means a filename extension is not one the
	// codecs know how to handle.
	UnsupportedFileType
	// MissingFile means a tag refers to a script that is not in the file
	// pool being encoded.
	MissingFile
)

var names = map[Kind]string{
	InvalidMagic:           "invalid magic",
	TruncatedInput:         "truncated input",
	DecompressionFailure:   "decompression failure",
	InvalidImageDimensions: "invalid image dimensions",
	InvalidPixelData:       "invalid pixel data",
	UnsupportedFileType:    "unsupported file type",
	MissingFile:            "missing file",
}

func (k Kind) Error() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown error"
}
