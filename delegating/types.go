package delegating

import "github.com/datatrails/go-keri/matter"

// Prefixer identifies a locally controlled identifier by its qb64
// prefix string.
type Prefixer struct{ Pre string }

func (p Prefixer) Qb64() string { return p.Pre }

// Seqner is a sequence number, encoded as a CESR decimal primitive
// (a matter.Decimer atom) when a qb64 form is needed.
type Seqner struct{ Sn uint64 }

func (s Seqner) Qb64() (string, error) {
	d, err := matter.NewDecimer(int64(s.Sn))
	if err != nil {
		return "", err
	}
	return d.Qb64()
}

// Saider is a SAID digest, already in its qb64 form.
type Saider struct{ Said string }

func (s Saider) Qb64() string { return s.Said }
