package mapping

import (
	"strings"

	"github.com/datatrails/go-keri/counter"
	"github.com/datatrails/go-keri/matter"
)

// dummyChar pads a SAID field's dummy placeholder; it must not be a
// valid base64 character so a dummied mad can never collide with a
// real digest.
const dummyChar = '#'

// Option configures a Mapper at construction time.
type Option func(*mapperConfig)

type mapperConfig struct {
	strict  bool
	saidive bool
	saids   map[string]string
	makify  bool
	verify  bool
}

func defaultConfig() mapperConfig {
	return mapperConfig{
		strict: true,
		verify: true,
		saids:  map[string]string{"d": matter.CodeBlake3_256},
	}
}

// WithStrict toggles whether labels must be strict attribute-style
// identifiers (true, default) or arbitrary UTF-8 text (false).
func WithStrict(strict bool) Option {
	return func(c *mapperConfig) { c.strict = strict }
}

// WithSaidive enables top-level SAID computation/verification over the
// fields named by WithSaids (default just {"d": Blake3-256}).
func WithSaidive(saidive bool) Option {
	return func(c *mapperConfig) { c.saidive = saidive }
}

// WithSaids overrides the default SAID field-label -> digest-code map.
func WithSaids(saids map[string]string) Option {
	return func(c *mapperConfig) {
		cp := make(map[string]string, len(saids))
		for k, v := range saids {
			cp[k] = v
		}
		c.saids = cp
	}
}

// WithMakify, when saidive, computes SAIDs into the mad rather than
// verifying pre-existing ones.
func WithMakify(makify bool) Option {
	return func(c *mapperConfig) { c.makify = makify }
}

// WithVerify controls whether pre-existing SAID field values are
// checked against a freshly computed digest (default true).
func WithVerify(verify bool) Option {
	return func(c *mapperConfig) { c.verify = verify }
}

// Mapper holds a field map (mad) and its CESR native serialization.
type Mapper struct {
	mad     *Mad
	raw     []byte
	count   int
	strict  bool
	saidive bool
	saids   map[string]string
}

// NewMapper builds a Mapper over mad, serializing it (and computing or
// verifying top-level SAIDs per the supplied options).
func NewMapper(mad *Mad, opts ...Option) (*Mapper, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if mad == nil {
		mad = NewMad()
	}

	m := &Mapper{strict: cfg.strict, saidive: cfg.saidive, saids: cfg.saids}

	if cfg.makify && cfg.saidive {
		dummyRaw, err := m.makeDummySaids(mad)
		if err != nil {
			return nil, err
		}
		for label, code := range m.saids {
			if _, ok := mad.Get(label); !ok {
				continue
			}
			d, err := matter.NewDiger(dummyRaw, code)
			if err != nil {
				return nil, err
			}
			said, err := d.Qb64()
			if err != nil {
				return nil, err
			}
			mad.Set(label, said)
		}
	}

	raw, count, err := m.exhale(mad, false)
	if err != nil {
		return nil, err
	}
	m.mad = mad
	m.raw = raw
	m.count = count

	if cfg.saidive && !cfg.makify && cfg.verify {
		if err := m.verifySaids(mad); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ParseMapper deserializes raw (qb64 text-domain bytes) into a Mapper.
func ParseMapper(raw []byte, opts ...Option) (*Mapper, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if len(raw) == 0 {
		return nil, errEmptyMaterial("need raw mad serialization")
	}

	m := &Mapper{strict: cfg.strict, saidive: cfg.saidive, saids: cfg.saids}
	mad, consumed, err := m.inhale(raw)
	if err != nil {
		return nil, err
	}
	m.mad = mad
	m.raw = append([]byte(nil), raw[:consumed]...)
	m.count = consumed / 4

	if cfg.saidive && !cfg.makify && cfg.verify {
		if err := m.verifySaids(mad); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Mad returns the field map.
func (m *Mapper) Mad() *Mad { return m.mad }

// Raw returns the qb64 text-domain serialization.
func (m *Mapper) Raw() []byte { return m.raw }

// Qb64 returns the serialization as a string.
func (m *Mapper) Qb64() string { return string(m.raw) }

// Count returns the number of quadlets in the serialization.
func (m *Mapper) Count() int { return m.count }

// Size returns the byte size of the text-domain serialization.
func (m *Mapper) Size() int { return m.count * 4 }

// Said returns the primary SAID field's value, if saidive and present.
func (m *Mapper) Said() (string, bool) {
	if !m.saidive || len(m.saids) == 0 {
		return "", false
	}
	// Only the "d" label is read; other configured said labels are not
	// consulted, so their values must be read from the mad directly.
	if v, ok := m.mad.Get("d"); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

func (m *Mapper) makeDummySaids(mad *Mad) ([]byte, error) {
	dummy := mad.Clone()
	for label, defaultCode := range m.saids {
		v, ok := dummy.Get(label)
		if !ok {
			continue
		}
		code := defaultCode
		if s, ok := v.(string); ok {
			if c, ok := matter.ParseComplete(s); ok {
				code = c
			}
		}
		if !matter.DigDex[code] {
			return nil, errSerialize("non-digestive code for said field " + label)
		}
		m.saids[label] = code
		sizage, ok := matter.Sizes[code]
		if !ok || sizage.FS < 0 {
			return nil, errSerialize("said field code has no fixed size " + code)
		}
		dummy.Set(label, strings.Repeat(string(dummyChar), sizage.FS))
	}
	raw, _, err := m.exhale(dummy, true)
	return raw, err
}

func (m *Mapper) verifySaids(mad *Mad) error {
	dummyRaw, err := m.makeDummySaids(mad)
	if err != nil {
		return err
	}
	for label, code := range m.saids {
		v, ok := mad.Get(label)
		if !ok {
			continue
		}
		want, ok := v.(string)
		if !ok {
			return errInvalidValue("said field is not a string: " + label)
		}
		d, err := matter.NewDiger(dummyRaw, code)
		if err != nil {
			return err
		}
		got, err := d.Qb64()
		if err != nil {
			return err
		}
		if got != want {
			return errInvalidValue("said field " + label + " does not verify")
		}
	}
	return nil
}

// exhale serializes mad into (raw, count). When dummyPass is true,
// exhale is being called to build the dummied serialization used to
// compute a SAID, so a dummy marker has already been substituted for
// each said field by the caller -- this flag only exists to mirror the
// teacher's naming; the actual substitution already happened.
func (m *Mapper) exhale(mad *Mad, dummyPass bool) ([]byte, int, error) {
	_ = dummyPass
	var bdy strings.Builder
	for _, label := range mad.Keys() {
		v, _ := mad.Get(label)
		lqb64, err := m.serializeLabel(label)
		if err != nil {
			return nil, 0, err
		}
		bdy.WriteString(lqb64)
		vqb64, err := m.serializeValue(v)
		if err != nil {
			return nil, 0, err
		}
		bdy.WriteString(vqb64)
	}
	enclosed, err := counter.Enclose(bdy.String(), counter.GenericMapGroup)
	if err != nil {
		return nil, 0, err
	}
	return []byte(enclosed), len(enclosed) / 4, nil
}

func (m *Mapper) serializeLabel(label string) (string, error) {
	if m.strict {
		l, err := matter.NewStrictLabel(label)
		if err != nil {
			return "", err
		}
		return l.Qb64()
	}
	l, err := matter.NewTextLabel(label)
	if err != nil {
		return "", err
	}
	return l.Qb64()
}

// serializeValue dispatches a native value to its qb64 serialization
// per spec §4.3.
func (m *Mapper) serializeValue(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return matter.NewNull().Qb64()
	case bool:
		if v {
			return matter.NewYes().Qb64()
		}
		return matter.NewNo().Qb64()
	case int:
		return decimerQb64(int64(v))
	case int64:
		return decimerQb64(v)
	case float64:
		return decimerQb64(v)
	case string:
		return m.serializeText(v)
	case []byte:
		return m.serializeText(string(v))
	case *Mad:
		return m.serializeMap(v)
	case []any:
		return m.serializeList(v)
	default:
		return "", errSerialize("nonserializable value")
	}
}

func decimerQb64(decimal any) (string, error) {
	d, err := matter.NewDecimer(decimal)
	if err != nil {
		return "", err
	}
	return d.Qb64()
}

func (m *Mapper) serializeText(s string) (string, error) {
	if s == "" {
		return matter.NewEmpty().Qb64()
	}
	code, ok := matter.ParseComplete(s)
	if ok {
		if matter.EscapeDex[code] {
			esc, err := matter.NewEscape().Qb64()
			if err != nil {
				return "", err
			}
			return esc + s, nil
		}
		return s, nil
	}
	l, err := matter.NewTextLabel(s)
	if err != nil {
		return "", err
	}
	return l.Qb64()
}

func (m *Mapper) serializeMap(v *Mad) (string, error) {
	var bdy strings.Builder
	for _, label := range v.Keys() {
		val, _ := v.Get(label)
		lqb64, err := m.serializeLabel(label)
		if err != nil {
			return "", err
		}
		bdy.WriteString(lqb64)
		vqb64, err := m.serializeValue(val)
		if err != nil {
			return "", err
		}
		bdy.WriteString(vqb64)
	}
	return counter.Enclose(bdy.String(), counter.GenericMapGroup)
}

func (m *Mapper) serializeList(v []any) (string, error) {
	var bdy strings.Builder
	for _, val := range v {
		vqb64, err := m.serializeValue(val)
		if err != nil {
			return "", err
		}
		bdy.WriteString(vqb64)
	}
	return counter.Enclose(bdy.String(), counter.GenericListGroup)
}

// inhale deserializes raw into a Mad, returning the Mad and the number
// of bytes consumed (the full enclosed map group, header included).
func (m *Mapper) inhale(raw []byte) (*Mad, int, error) {
	ctr, hn, err := counter.Peek(raw)
	if err != nil {
		return nil, 0, err
	}
	if ctr.Name() != counter.GenericMapGroup && ctr.Name() != counter.BigGenericMapGroup {
		return nil, 0, errDeserialize("expected GenericMapGroup, got " + string(ctr.Name()))
	}
	bc, err := ctr.ByteCount(counter.ColdText)
	if err != nil {
		return nil, 0, err
	}
	total := hn + bc
	if len(raw) < total {
		return nil, 0, errDeserialize("truncated map group body")
	}
	mad, err := m.inhaleBody(raw[hn:total])
	if err != nil {
		return nil, 0, err
	}
	return mad, total, nil
}

// inhaleBody parses a sequence of (label, value) pairs from a map
// group's already-unwrapped body.
func (m *Mapper) inhaleBody(body []byte) (*Mad, error) {
	mad := NewMad()
	for len(body) > 0 {
		label, n, err := m.deserializeLabel(body)
		if err != nil {
			return nil, err
		}
		body = body[n:]
		val, n, err := m.deserializeValue(body)
		if err != nil {
			return nil, err
		}
		body = body[n:]
		mad.Set(label, val)
	}
	return mad, nil
}

func (m *Mapper) deserializeLabel(buf []byte) (string, int, error) {
	l, n, err := matter.DecodeLabeler(buf)
	if err != nil {
		return "", 0, errDeserialize("invalid label")
	}
	if m.strict {
		label, err := l.Label()
		if err != nil {
			return "", 0, errDeserialize("non-strict label in strict mode")
		}
		return label, n, nil
	}
	return l.Text(), n, nil
}

// deserializeValue recursively decodes one value from the head of buf,
// returning the native value and the number of bytes consumed.
func (m *Mapper) deserializeValue(buf []byte) (any, int, error) {
	if len(buf) == 0 {
		return nil, 0, errDeserialize("no value material")
	}
	if buf[0] == '-' {
		ctr, hn, err := counter.Peek(buf)
		if err != nil {
			return nil, 0, err
		}
		bc, err := ctr.ByteCount(counter.ColdText)
		if err != nil {
			return nil, 0, err
		}
		total := hn + bc
		if len(buf) < total {
			return nil, 0, errDeserialize("truncated group value")
		}
		body := buf[hn:total]
		switch ctr.Name() {
		case counter.GenericListGroup, counter.BigGenericListGroup:
			list := []any{}
			for len(body) > 0 {
				v, n, err := m.deserializeValue(body)
				if err != nil {
					return nil, 0, err
				}
				body = body[n:]
				list = append(list, v)
			}
			return list, total, nil
		case counter.GenericMapGroup, counter.BigGenericMapGroup:
			sub, err := m.inhaleBody(body)
			if err != nil {
				return nil, 0, err
			}
			return sub, total, nil
		default:
			return nil, 0, errDeserialize("invalid counter name for value")
		}
	}

	atom, n, err := matter.DecodeMatter(buf)
	if err != nil {
		return nil, 0, errDeserialize("invalid primitive value")
	}
	if atom.Code() == matter.CodeEscape {
		next, n2, err := matter.DecodeMatter(buf[n:])
		if err != nil {
			return nil, 0, errDeserialize("escape with no following primitive")
		}
		qb64, err := next.Qb64()
		if err != nil {
			return nil, 0, err
		}
		return qb64, n + n2, nil
	}

	switch {
	case atom.Code() == matter.CodeNull:
		return nil, n, nil
	case atom.Code() == matter.CodeYes:
		return true, n, nil
	case atom.Code() == matter.CodeNo:
		return false, n, nil
	case atom.Code() == matter.CodeEmpty:
		return "", n, nil
	case decDex[atom.Code()]:
		d, _, err := matter.DecodeDecimer(buf[:n])
		if err != nil {
			return nil, 0, err
		}
		dec, err := d.Decimal()
		if err != nil {
			return nil, 0, err
		}
		return dec, n, nil
	case labelDex[atom.Code()]:
		l, _, err := matter.DecodeLabeler(buf[:n])
		if err != nil {
			return nil, 0, err
		}
		return l.Text(), n, nil
	default:
		qb64, err := atom.Qb64()
		if err != nil {
			return nil, 0, err
		}
		return qb64, n, nil
	}
}
