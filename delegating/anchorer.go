// Package delegating implements the delegation anchoring state
// machine (spec.md §4.7): escrow-driven cooperative progression of a
// delegated identifier's event through witnessing, delegator
// anchoring, and publication, over Baser's escrow queues and a tyme
// scheduler tick.
package delegating

import (
	"github.com/google/uuid"

	"github.com/datatrails/go-keri/keridb"
)

// sweepTock is the cooperative sweep period, run every 0.5 tick
// (spec.md §4.7).
const sweepTock = 0.5

// KeverSource reports whether a delegator's current state is known
// locally. A delegation submitted for an unknown delegator is a caller
// bug, not a recoverable per-entry failure (spec.md §4.7, §7).
type KeverSource interface {
	HasKever(pre string) bool
}

// WitnessSource reports a prefix's configured witness set and whether
// the local witness-publication doer has confirmed broadcast of the
// event to them.
type WitnessSource interface {
	Witnesses(pre string) ([]string, error)
	BroadcastComplete(pre string) bool
}

// Postman sends the outbound /delegate/request exchange to a
// delegator.
type Postman interface {
	PostDelegateRequest(exn DelegateRequestExn) error
}

// Querier asks the delegator's KEL to be (re)fetched, so a subsequent
// sweep pass can observe a newly anchored event.
type Querier interface {
	QueryKel(delpre string) error
}

// Publisher polls and drives the per-prefix witness publication that
// broadcasts a delegator's own KEL to the delegate's witnesses.
type Publisher interface {
	PublishDelegator(pre string) error
	Idle(pre string) bool
	Remove(pre string)
}

// Anchorer drives every locally controlled delegated identifier's
// dpwe -> dune -> dpub -> cdel progression.
type Anchorer struct {
	Baser      *keridb.Baser
	Kevers     KeverSource
	Witnesses  WitnessSource
	Postman    Postman
	SealSource keridb.SealSource
	Querier    Querier
	Publisher  Publisher
}

// Submit enters a newly created delegated event into the dpwe escrow,
// to await witness receipts. delpre must already be a known delegator;
// an unknown delegator is a fatal, per-submission ValidationError
// (spec.md §4.7, §7).
func (a *Anchorer) Submit(pre string, sn uint64, said string, delpre string, evt []byte, aids []string) error {
	if !a.Kevers.HasKever(delpre) {
		return errValidation("unknown delegator: " + delpre)
	}
	rec, err := encodeRecord(escrowRecord{DelPre: delpre, Sn: sn, Evt: evt, Aids: aids})
	if err != nil {
		return err
	}
	_, err = a.Baser.AddEscrow("dpwe", pre, said, rec)
	return err
}

// Tock implements tyme.Doer, running processEscrows every sweepTock.
// A recoverable per-entry failure is never returned here: the sweep
// skips that entry and continues, and the failure is not logged or
// otherwise reported -- only a fault from the store itself propagates.
func (a *Anchorer) Tock(_ float64) (float64, bool, error) {
	if err := a.processEscrows(); err != nil {
		return sweepTock, false, err
	}
	return sweepTock, false, nil
}

// processEscrows runs the three escrow sweeps in promotion order, so
// an entry promoted by an earlier sweep can be picked up by a later
// one in the same pass.
func (a *Anchorer) processEscrows() error {
	if err := a.processPartialWitnessEscrow(); err != nil {
		return err
	}
	if err := a.processUnanchoredEscrow(); err != nil {
		return err
	}
	return a.processWitnessPublication()
}

// processPartialWitnessEscrow moves every dpwe entry with enough
// witness receipts (and, for a non-empty witness set, a confirmed
// broadcast) into dune, after emitting the /delegate/request exchange
// and asking the delegator's KEL to be queried for anchoring.
func (a *Anchorer) processPartialWitnessEscrow() error {
	keys, err := a.Baser.ListEscrowKeys("dpwe")
	if err != nil {
		return err
	}
	for _, k := range keys {
		vals, err := a.Baser.GetEscrow("dpwe", k.Pre, k.Dig)
		if err != nil {
			return err
		}
		for _, raw := range vals {
			rec, err := decodeRecord(raw)
			if err != nil {
				continue // malformed entry: skip, per-entry recoverable
			}
			wigs, err := a.Baser.GetWigs(k.Pre, k.Dig)
			if err != nil {
				return err
			}
			wits, err := a.Witnesses.Witnesses(k.Pre)
			if err != nil {
				continue
			}
			if len(wigs) < len(wits) {
				continue
			}
			if len(wits) > 0 && !a.Witnesses.BroadcastComplete(k.Pre) {
				continue
			}
			if err := a.Postman.PostDelegateRequest(DelegateRequestExn{
				DelPre:        rec.DelPre,
				Aids:          rec.Aids,
				Evt:           rec.Evt,
				CorrelationID: uuid.NewString(),
			}); err != nil {
				continue
			}
			if err := a.Querier.QueryKel(rec.DelPre); err != nil {
				continue
			}
			if err := a.Baser.MoveEscrow("dpwe", "dune", k.Pre, k.Dig); err != nil {
				return err
			}
		}
	}
	return nil
}

// processUnanchoredEscrow moves every dune entry whose delegator has
// anchored its seal {i=pre, s=sn, d=said} into dpub, recording the
// anchor couple and kicking off publication of the delegator's KEL to
// the delegate's own witnesses.
func (a *Anchorer) processUnanchoredEscrow() error {
	keys, err := a.Baser.ListEscrowKeys("dune")
	if err != nil {
		return err
	}
	for _, k := range keys {
		vals, err := a.Baser.GetEscrow("dune", k.Pre, k.Dig)
		if err != nil {
			return err
		}
		for _, raw := range vals {
			rec, err := decodeRecord(raw)
			if err != nil {
				continue
			}
			seal := keridb.EventSeal{I: k.Pre, S: rec.Sn, D: k.Dig}
			anchoringEvt, err := a.Baser.FetchLastSealingEventByEventSeal(rec.DelPre, seal, a.SealSource)
			if err != nil {
				return err
			}
			if anchoringEvt == nil {
				continue
			}
			seqQb64, err := (Seqner{Sn: rec.Sn}).Qb64()
			if err != nil {
				return err
			}
			couple := append([]byte(seqQb64+"."), []byte(k.Dig)...)
			if err := a.Baser.SetAes([]byte(k.Pre+"."+k.Dig), couple); err != nil {
				return err
			}
			if err := a.Publisher.PublishDelegator(rec.DelPre); err != nil {
				continue
			}
			if err := a.Baser.MoveEscrow("dune", "dpub", k.Pre, k.Dig); err != nil {
				return err
			}
		}
	}
	return nil
}

// processWitnessPublication moves every dpub entry whose publisher has
// finished broadcasting into cdel, and retires the publisher.
func (a *Anchorer) processWitnessPublication() error {
	keys, err := a.Baser.ListEscrowKeys("dpub")
	if err != nil {
		return err
	}
	for _, k := range keys {
		vals, err := a.Baser.GetEscrow("dpub", k.Pre, k.Dig)
		if err != nil {
			return err
		}
		for _, raw := range vals {
			rec, err := decodeRecord(raw)
			if err != nil {
				continue
			}
			if !a.Publisher.Idle(rec.DelPre) {
				continue
			}
			seqQb64, err := (Seqner{Sn: rec.Sn}).Qb64()
			if err != nil {
				return err
			}
			if err := a.Baser.PutCdel(k.Pre, seqQb64, k.Dig); err != nil {
				return err
			}
			a.Publisher.Remove(rec.DelPre)
			if err := a.Baser.DelEscrow("dpub", k.Pre, k.Dig); err != nil {
				return err
			}
		}
	}
	return nil
}

// Complete reports a delegation's terminal state: false means not yet
// done, true means done, and an error means done but mismatched
// against the supplied said (spec.md §4.7, §7).
func (a *Anchorer) Complete(pre Prefixer, sn Seqner, said *Saider) (bool, error) {
	snQb64, err := sn.Qb64()
	if err != nil {
		return false, err
	}
	got, err := a.Baser.GetCdel(pre.Qb64(), snQb64)
	if err != nil {
		return false, err
	}
	if got == nil {
		return false, nil
	}
	if said != nil && string(got) != said.Qb64() {
		return false, errValidation("delegation completion said mismatch")
	}
	return true, nil
}
