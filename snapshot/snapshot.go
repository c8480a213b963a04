package snapshot

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/forestrie/go-pagetrie/pagetrie"
)

// VersionV1 is the only snapshot layout produced and accepted.
const VersionV1 = 1

var (
	ErrBadVersion    = errors.New("snapshot: version unsupported")
	ErrNotAscending  = errors.New("snapshot: mappings not in strictly ascending vpn order")
	ErrCodecNotReady = errors.New("snapshot: codec initialization failed")
)

// Mapping is one installed vpn -> ppn pair.
type Mapping struct {
	VPN uint64 `cbor:"1,keyasint"`
	PPN uint64 `cbor:"2,keyasint"`
}

// Snapshot is the portable form of a table's mappings. Intermediate nodes are
// not recorded, Restore recreates them on demand.
type Snapshot struct {
	Version  uint8     `cbor:"1,keyasint"`
	Mappings []Mapping `cbor:"2,keyasint"`
}

// Codec holds the cbor modes used for snapshots. Encoding is deterministic so
// two captures of equal tables produce identical bytes.
type Codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCodec() (Codec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %v", ErrCodecNotReady, err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %v", ErrCodecNotReady, err)
	}
	return Codec{enc: enc, dec: dec}, nil
}

// Capture records every mapping of t in ascending vpn order.
func Capture(t *pagetrie.Table) (Snapshot, error) {
	s := Snapshot{Version: VersionV1}
	err := t.Walk(func(vpn pagetrie.VPN, ppn pagetrie.PPN) error {
		s.Mappings = append(s.Mappings, Mapping{VPN: uint64(vpn), PPN: uint64(ppn)})
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (c Codec) Encode(s Snapshot) ([]byte, error) {
	return c.enc.Marshal(&s)
}

// Decode parses and checks data. Mappings must be strictly ascending by vpn,
// which is what Capture produces.
func (c Codec) Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := c.dec.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	if s.Version != VersionV1 {
		return Snapshot{}, fmt.Errorf("%d: %w", s.Version, ErrBadVersion)
	}
	for i := 1; i < len(s.Mappings); i++ {
		if s.Mappings[i].VPN <= s.Mappings[i-1].VPN {
			return Snapshot{}, fmt.Errorf("mapping %d: %w", i, ErrNotAscending)
		}
	}
	return s, nil
}

// Restore installs every mapping of s into t. Existing mappings of t that s
// does not mention are left alone. The first install error stops the restore
// and is returned, mappings before it stay installed.
func Restore(t *pagetrie.Table, s Snapshot) error {
	for i, m := range s.Mappings {
		if err := t.Install(pagetrie.VPN(m.VPN), pagetrie.PPN(m.PPN)); err != nil {
			return fmt.Errorf("mapping %d vpn %x: %w", i, m.VPN, err)
		}
	}
	return nil
}
