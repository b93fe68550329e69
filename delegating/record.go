package delegating

import "github.com/fxamacker/cbor/v2"

// escrowRecord is the payload carried through dpwe -> dune -> dpub: it
// never changes shape across transitions, only the queue it lives in
// and the side-table entries (aes, cdel) keyed off it.
type escrowRecord struct {
	DelPre string   `cbor:"delpre"`
	Sn     uint64   `cbor:"sn"`
	Evt    []byte   `cbor:"evt"`
	Aids   []string `cbor:"aids,omitempty"`
}

func encodeRecord(r escrowRecord) ([]byte, error) {
	b, err := cbor.Marshal(r)
	if err != nil {
		return nil, errDatabase("encode escrow record: " + err.Error())
	}
	return b, nil
}

func decodeRecord(raw []byte) (escrowRecord, error) {
	var r escrowRecord
	if err := cbor.Unmarshal(raw, &r); err != nil {
		return escrowRecord{}, errDatabase("decode escrow record: " + err.Error())
	}
	return r, nil
}
