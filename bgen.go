package prsqc

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
)

// MagicNumber contains the value required to confirm that a file is BGEN-conformant
const MagicNumber = "bgen"

const (
	offsetVariant        = 0
	offsetHeaderLength   = 4
	offsetNumberVariants = 8
	offsetNumberSamples  = 12
	offsetMagicNumber    = 16
)

// Compression indicates how (and whether) the genotype blocks are compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionZLIB
	CompressionZStandard
)

// Layout is the versioned variant block structure of the BGEN spec
type Layout uint32

const (
	Layout1 Layout = iota + 1
	Layout2
)

// BGEN holds the header of a BGEN genotype file. Only the header and the
// sample identifier block are read here; genotype blocks are left to the
// dosage reader.
type BGEN struct {
	FilePath         string
	File             *os.File
	NVariants        uint32
	NSamples         uint32
	FlagCompression  Compression
	FlagLayout       Layout
	FlagHasSampleIDs bool
	SamplesStart     uint32
	VariantsStart    uint32
}

// OpenBGEN reads the header of the bgen file at path.
func OpenBGEN(path string) (*BGEN, error) {
	b := &BGEN{
		FilePath: genomisc.ExpandHome(path),
	}

	file, err := os.Open(b.FilePath)
	if err != nil {
		return nil, pfx.Err(err)
	}
	b.File = file

	if err := populateBGENHeader(b); err != nil {
		file.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return b, nil
}

// Close releases the underlying file.
func (b *BGEN) Close() error {
	if b.File == nil {
		return nil
	}
	return b.File.Close()
}

func populateBGENHeader(b *BGEN) error {
	buffer := make([]byte, 4)

	if err := b.parseAtOffsetWithBuffer(offsetVariant, buffer); err != nil {
		return pfx.Err(err)
	}
	// The first variant block starts 4 bytes after the stored offset
	b.VariantsStart = binary.LittleEndian.Uint32(buffer) + 4

	if err := b.parseAtOffsetWithBuffer(offsetHeaderLength, buffer); err != nil {
		return pfx.Err(err)
	}
	headerLength := int64(binary.LittleEndian.Uint32(buffer))
	b.SamplesStart = uint32(headerLength + 4)

	if err := b.parseAtOffsetWithBuffer(offsetNumberVariants, buffer); err != nil {
		return pfx.Err(err)
	}
	b.NVariants = binary.LittleEndian.Uint32(buffer)

	if err := b.parseAtOffsetWithBuffer(offsetNumberSamples, buffer); err != nil {
		return pfx.Err(err)
	}
	b.NSamples = binary.LittleEndian.Uint32(buffer)

	if err := b.parseAtOffsetWithBuffer(offsetMagicNumber, buffer); err != nil {
		return pfx.Err(err)
	}
	// Older files may leave the magic number zeroed
	if string(buffer) != MagicNumber && binary.LittleEndian.Uint32(buffer) != 0 {
		return pfx.Err(fmt.Errorf("the header value at offset %d should be the magic number %q, found %v", offsetMagicNumber, MagicNumber, buffer))
	}

	// The flags are the last 4 bytes of the header block
	if err := b.parseAtOffsetWithBuffer(headerLength, buffer); err != nil {
		return pfx.Err(err)
	}
	flags := binary.LittleEndian.Uint32(buffer)
	b.FlagCompression = Compression(flags & 3)
	b.FlagLayout = Layout((flags & (15 << 2)) >> 2)
	b.FlagHasSampleIDs = (flags>>31)&1 == 1

	return nil
}

func (b *BGEN) parseAtOffsetWithBuffer(offset int64, buffer []byte) error {
	_, err := b.File.ReadAt(buffer, offset)
	if err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadSampleIDs returns the identifiers stored in the sample block.
func (b *BGEN) ReadSampleIDs() ([]string, error) {
	if b.File == nil {
		return nil, pfx.Err(fmt.Errorf("b.File is nil"))
	}

	if !b.FlagHasSampleIDs {
		return nil, pfx.Err(fmt.Errorf("%s does not store sample IDs; an external sample file is required", b.FilePath))
	}

	samples := make([]string, 0, b.NSamples)

	bufferLength := make([]byte, 2)
	bufferID := make([]byte, 2)
	// SamplesStart is at sample_block_length, and SamplesStart+4 is at number_samples
	offset := int64(b.SamplesStart + 8)

	for i := 0; i < int(b.NSamples); i++ {
		if err := b.parseAtOffsetWithBuffer(offset, bufferLength); err != nil {
			return nil, pfx.Err(err)
		}
		offset += 2

		size := int(binary.LittleEndian.Uint16(bufferLength))
		if size > cap(bufferID) {
			bufferID = make([]byte, size)
		}
		bufferID = bufferID[:size]
		if err := b.parseAtOffsetWithBuffer(offset, bufferID); err != nil {
			return nil, pfx.Err(err)
		}

		// Copy the buffer into a string so that the buffer can be reused
		samples = append(samples, string(bufferID))
		offset += int64(size)
	}

	return samples, nil
}
