// Package coseenvelope optionally wraps a Baser-cloned KERI event
// message in a COSE_Sign1 receipt that embeds the message as its
// payload, for collaborators that
// want to hand out a portable, independently verifiable attestation of
// an event's delivery without replaying the whole CESR stream
// (spec.md's core explicitly leaves receipt export formats to
// collaborators; this package is one such optional export).
package coseenvelope

import (
	"crypto"
	"crypto/rand"

	commoncose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// Private-use COSE header labels identifying the KERI event a receipt
// covers, following the teacher's COSEPrivateStart convention in
// massifs/rootsigner.go (negative, organisation-coordinated labels
// below -65535).
const (
	cosePrivateStart  = int64(-65535)
	HeaderLabelKeriPre = cosePrivateStart - 1
	HeaderLabelKeriDig = cosePrivateStart - 2
)

// Signer is the identifiable COSE signer collaborator an envelope
// export needs, mirroring massifs.IdentifiableCoseSigner's shape
// without requiring the key-location/public-key lookup methods this
// package's Sign1 does not use.
type Signer interface {
	cose.Signer
	KeyIdentifier() string
}

// Envelope binds a receipt's issuer/subject identity, mirroring the
// CWT-claim binding massifs.RootSigner.Sign1 attaches to its
// signatures, kept here only as plain strings since this package has
// no CNF-claim construction concern of its own.
type Envelope struct {
	Issuer  string
	Subject string
}

func NewEnvelope(issuer, subject string) Envelope {
	return Envelope{Issuer: issuer, Subject: subject}
}

// Sign1 produces a COSE_Sign1-encoded receipt carrying evtMsg (a
// cloned event message as produced by keridb.Baser.CloneEvtMsg) as its
// embedded payload, identifying the event by (pre, dig) in the
// protected header.
func (e Envelope) Sign1(signer Signer, pre, dig string, evtMsg []byte) ([]byte, error) {
	headers := cose.Headers{
		Protected: cose.ProtectedHeader{
			cose.HeaderLabelAlgorithm: signer.Algorithm(),
			cose.HeaderLabelKeyID:     []byte(signer.KeyIdentifier()),
			HeaderLabelKeriPre:        pre,
			HeaderLabelKeriDig:        dig,
		},
		Unprotected: cose.UnprotectedHeader{},
	}

	msg := cose.Sign1Message{Headers: headers, Payload: evtMsg}
	external := []byte(e.Issuer + "|" + e.Subject)
	if err := msg.Sign(rand.Reader, external, signer); err != nil {
		return nil, err
	}

	encodable, err := commoncose.NewCoseSign1Message(&msg)
	if err != nil {
		return nil, err
	}
	return encodable.MarshalCBOR()
}

// KeyProvider resolves the public key a receipt claims to be signed
// with, mirroring massifs.publicKeyProvider's shape so the same key
// resolution collaborator can serve both.
type KeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// Verify decodes a receipt produced by Sign1, checks its signature
// against keys, and returns the enclosed event message on success.
func (e Envelope) Verify(keys KeyProvider, receipt []byte) ([]byte, error) {
	msg, err := commoncose.NewCoseSign1MessageFromCBOR(receipt)
	if err != nil {
		return nil, err
	}
	external := []byte(e.Issuer + "|" + e.Subject)
	if err := msg.VerifyWithProvider(keys, external); err != nil {
		return nil, err
	}
	return msg.Payload, nil
}
