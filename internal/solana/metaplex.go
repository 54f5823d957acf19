package solana

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// metadataKeyV1 is the account discriminator of Metaplex MetadataV1.
const metadataKeyV1 = 4

// Metadata is the decoded head of a Metaplex Token Metadata account.
type Metadata struct {
	Name      string
	Symbol    string
	URI       string
	IsMutable *bool // nil when the account ends before the flag
}

// ParseMetadata parses Metaplex Token Metadata account data.
// Layout:
// - key: u8 (4 for MetadataV1)
// - updateAuthority, mint: Pubkey (32 + 32)
// - name, symbol, uri: borsh String (u32 length + bytes, NUL padded)
// - sellerFeeBasisPoints: u16
// - creators: Option<Vec<Creator>> (Creator = 32 + 1 + 1)
// - primarySaleHappened, isMutable: bool
func ParseMetadata(data []byte) (*Metadata, error) {
	if len(data) < 65 {
		return nil, fmt.Errorf("metadata too short: %d", len(data))
	}
	if data[0] != metadataKeyV1 {
		return nil, fmt.Errorf("unexpected metadata key %d", data[0])
	}

	r := &borshReader{data: data, off: 65}
	m := &Metadata{}

	var err error
	if m.Name, err = r.string(200); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if m.Symbol, err = r.string(50); err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	if m.URI, err = r.string(1000); err != nil {
		return nil, fmt.Errorf("uri: %w", err)
	}

	// Trailing fields are optional for our purposes.
	if !r.skip(2) {
		return m, nil
	}
	hasCreators, ok := r.byte()
	if !ok {
		return m, nil
	}
	if hasCreators == 1 {
		n, ok := r.u32()
		if !ok || !r.skip(int(n)*34) {
			return m, nil
		}
	}
	if !r.skip(1) {
		return m, nil
	}
	if b, ok := r.byte(); ok {
		mutable := b != 0
		m.IsMutable = &mutable
	}

	return m, nil
}

type borshReader struct {
	data []byte
	off  int
}

func (r *borshReader) u32() (uint32, bool) {
	if r.off+4 > len(r.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, true
}

func (r *borshReader) byte() (byte, bool) {
	if r.off >= len(r.data) {
		return 0, false
	}
	b := r.data[r.off]
	r.off++
	return b, true
}

func (r *borshReader) skip(n int) bool {
	if n < 0 || r.off+n > len(r.data) {
		return false
	}
	r.off += n
	return true
}

func (r *borshReader) string(maxLen int) (string, error) {
	n, ok := r.u32()
	if !ok {
		return "", fmt.Errorf("truncated length at offset %d", r.off)
	}
	if int(n) > maxLen || r.off+int(n) > len(r.data) {
		return "", fmt.Errorf("invalid length %d at offset %d", n, r.off)
	}
	s := strings.TrimRight(string(r.data[r.off:r.off+int(n)]), "\x00")
	r.off += int(n)
	return s, nil
}
