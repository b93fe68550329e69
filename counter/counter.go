package counter

// Counter is a framing atom: a group-kind code plus the quadlet count
// of the payload it encloses.
type Counter struct {
	name  Codex
	count int
}

// Name returns the group kind this counter names.
func (c Counter) Name() Codex { return c.name }

// Count returns the enclosed payload's count, in quadlets (text
// domain) or triplets (binary domain) depending on how it was decoded.
func (c Counter) Count() int { return c.count }

// IsBig reports whether this counter uses the 4-char big selector.
func (c Counter) IsBig() bool {
	_, ok := bigCodes[c.name]
	return ok
}

// newCounter builds a Counter for a normal-family name and a count,
// switching to the big variant automatically once count exceeds what
// a normal (2-char) soft count field can hold.
func newCounter(name Codex, count int) (Counter, error) {
	if count < 0 {
		return Counter{}, errInvalidValue("negative counter count")
	}
	if _, ok := hardOf[name]; !ok {
		return Counter{}, errInvalidValue("unknown counter name")
	}
	if count > normalMaxCount {
		if big, ok := bigOf[name]; ok {
			name = big
		} else {
			return Counter{}, errInvalidValue("count too large and no big variant for this name")
		}
	}
	return Counter{name: name, count: count}, nil
}

// Qb64 renders the counter's text-domain form: hard selector followed
// by the soft base64 count.
func (c Counter) Qb64() (string, error) {
	var cd code
	var ok bool
	if cd, ok = normalCodes[c.name]; !ok {
		if cd, ok = bigCodes[c.name]; !ok {
			return "", errInvalidValue("unknown counter name")
		}
	}
	maxCount := 1<<(6*cd.ss) - 1
	if c.count > maxCount {
		return "", errInvalidValue("count exceeds this variant's capacity")
	}
	return hardOf[c.name] + encodeCount(c.count, cd.ss), nil
}

// Qb64b is Qb64 rendered as bytes.
func (c Counter) Qb64b() ([]byte, error) {
	s, err := c.Qb64()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// byteCount returns the byte length of the enclosed payload implied by
// this counter's count, for the given serialization domain.
func (c Counter) byteCount(cold Cold) (int, error) {
	switch cold {
	case ColdText:
		return c.count * 4, nil
	case ColdBinary:
		return c.count * 3, nil
	default:
		return 0, errInvalidValue("unrecognized cold domain")
	}
}

// ByteCount is the exported form of byteCount (spec §4.2).
func (c Counter) ByteCount(cold Cold) (int, error) { return c.byteCount(cold) }

// Enclose renders payload (already-encoded qb64 text) wrapped in a
// counter of the given group kind: counter_bytes ++ payload_bytes. The
// counter records len(payload)/4 quadlets, per spec §4.2.
func Enclose(payloadQb64 string, name Codex) (string, error) {
	if len(payloadQb64)%4 != 0 {
		return "", errInvalidValue("payload is not a whole number of quadlets")
	}
	quadlets := len(payloadQb64) / 4
	ctr, err := newCounter(name, quadlets)
	if err != nil {
		return "", err
	}
	head, err := ctr.Qb64()
	if err != nil {
		return "", err
	}
	return head + payloadQb64, nil
}

// Peek reads a counter from the head of buf without consuming any of
// the enclosed payload, returning the counter and the number of header
// bytes consumed.
func Peek(buf []byte) (Counter, int, error) {
	if len(buf) < 2 {
		return Counter{}, 0, errDeserialize("too short to hold a counter")
	}
	for _, hs := range []int{4, 2} {
		if len(buf) < hs {
			continue
		}
		hard := string(buf[:hs])
		name, ok := selectors[hard]
		if !ok {
			continue
		}
		var cd code
		if hs == 4 {
			cd = bigCodes[name]
		} else {
			cd = normalCodes[name]
		}
		if len(buf) < hs+cd.ss {
			return Counter{}, 0, errDeserialize("truncated counter soft count")
		}
		count, err := decodeCount(string(buf[hs : hs+cd.ss]))
		if err != nil {
			return Counter{}, 0, err
		}
		return Counter{name: name, count: count}, hs + cd.ss, nil
	}
	return Counter{}, 0, errDeserialize("unrecognized counter selector")
}

// DecodeCounter is an alias for Peek, named to mirror matter.DecodeMatter.
func DecodeCounter(buf []byte) (Counter, int, error) { return Peek(buf) }
